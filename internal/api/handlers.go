package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"DocStructurer/internal/domain"
)

type processRequest struct {
	Text       string `json:"text"`
	AITopic    string `json:"aiTopic"`
	ArticleURL string `json:"articleUrl"`
	Model      string `json:"model"`
	Verbosity  string `json:"verbosity"`
}

type tokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

type processResponse struct {
	HTML             string             `json:"html"`
	Tokens           tokenUsage         `json:"tokens"`
	Cost             float64            `json:"cost"`
	CostInCurrencies map[string]float64 `json:"costInCurrencies"`
	Model            string             `json:"model"`
	Theme            string             `json:"theme"`
	ThemeColor       string             `json:"theme_color"`
	Mode             string             `json:"mode"`
	SourceTitle      string             `json:"source_title,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// POST /api/process
// Every outcome is HTTP 200; failures carry an "error" field.
func processHandler(processor Processor, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.With("request_id", requestID(c))

		var body processRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			log.Debug("ignoring unreadable request body", "error", err)
			body = processRequest{}
		}

		if processor == nil {
			c.JSON(http.StatusOK, errorResponse{Error: "Unexpected server error: processor is not configured"})
			return
		}

		// A client disconnect must not abort in-flight provider calls.
		ctx := context.WithoutCancel(c.Request.Context())

		result, err := processor.Process(ctx, domain.ProcessingRequest{
			Text:       body.Text,
			AITopic:    body.AITopic,
			ArticleURL: body.ArticleURL,
			Model:      body.Model,
			Verbosity:  domain.ParseVerbosity(body.Verbosity),
		})
		if err != nil {
			log.Warn("process request failed", "error", err)
			c.JSON(http.StatusOK, errorResponse{Error: errorMessage(err)})
			return
		}

		c.JSON(http.StatusOK, processResponse{
			HTML: result.HTML,
			Tokens: tokenUsage{
				Prompt:     result.Tokens.Prompt,
				Completion: result.Tokens.Completion,
				Total:      result.Tokens.Total,
			},
			Cost:             result.Cost.USD,
			CostInCurrencies: result.Cost.ByCurrency(),
			Model:            result.Model,
			Theme:            string(result.Theme),
			ThemeColor:       result.Theme.Color(),
			Mode:             string(result.Mode),
			SourceTitle:      result.SourceTitle,
		})
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoInput):
		return "No input text or AI topic provided."
	case errors.Is(err, domain.ErrExtractionFailed):
		return "Could not extract content from the provided URL."
	case errors.Is(err, domain.ErrEmptyResponse):
		return "AI returned empty HTML."
	default:
		return "Unexpected server error: " + err.Error()
	}
}
