package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"DocStructurer/internal/domain"
	"DocStructurer/internal/logging"
	"DocStructurer/internal/metrics"
)

// Processor is the use case behind POST /api/process.
type Processor interface {
	Process(ctx context.Context, req domain.ProcessingRequest) (*domain.ProcessingResult, error)
}

// RouterDeps carries what the HTTP layer needs.
type RouterDeps struct {
	Processor Processor
	Metrics   *metrics.Collectors
	Logger    *slog.Logger
	StaticDir string
}

// SetupRouter builds the gin engine with logging, recovery and all routes.
func SetupRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	r := gin.New()
	r.Use(requestLogger(logger), recovery(logger))

	r.GET("/", indexHandler(deps.StaticDir))
	r.GET("/health", healthHandler)
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := r.Group("/api")
	{
		api.POST("/process", processHandler(deps.Processor, logger))
	}

	return r
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

const placeholderPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Document Structurer</title></head>
<body><p>POST JSON to <code>/api/process</code>.</p></body></html>`

func indexHandler(staticDir string) gin.HandlerFunc {
	index := filepath.Join(staticDir, "index.html")
	return func(c *gin.Context) {
		if staticDir != "" {
			if info, err := os.Stat(index); err == nil && !info.IsDir() {
				c.File(index)
				return
			}
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(placeholderPage))
	}
}

// recovery turns panics into the usual error payload.
func recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic while handling request", "request_id", requestID(c), "panic", recovered)
		c.AbortWithStatusJSON(http.StatusOK, errorResponse{Error: fmt.Sprintf("Unexpected server error: %v", recovered)})
	})
}
