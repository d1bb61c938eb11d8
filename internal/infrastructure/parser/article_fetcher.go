package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"DocStructurer/internal/domain"
	"DocStructurer/internal/ports"
)

const (
	minRecipeTextLen  = 500
	minArticleTextLen = 200
	boilerplateTags   = "script, style, nav, footer, header, aside"
	defaultUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// recipeMarkers are class fragments used by common recipe plugins.
var recipeMarkers = []string{
	"wprm-recipe-container",
	"tasty-recipes",
	"mv-create-card",
}

// contentSelectors are tried in order; the first one matching anything wins.
var contentSelectors = []string{
	"article",
	"main",
	".content",
	".post-content",
	".entry-content",
	".article-content",
	".post-body",
	".story-body",
	".article-body",
}

// ArticleFetcher downloads a web page and extracts its main content.
type ArticleFetcher struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ ports.ArticleFetcher = (*ArticleFetcher)(nil)

// NewArticleFetcher wires an HTTP client; a nil client gets a 10s timeout.
func NewArticleFetcher(client *http.Client, userAgent string, logger *slog.Logger) *ArticleFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	return &ArticleFetcher{client: client, userAgent: userAgent, logger: logger}
}

// Fetch downloads rawURL and linearizes its content. Every failure wraps
// domain.ErrExtractionFailed.
func (f *ArticleFetcher) Fetch(ctx context.Context, rawURL string) (*domain.ExtractedArticle, error) {
	f.debug("fetch article", "url", rawURL)

	doc, err := f.fetchDocument(ctx, rawURL)
	if err != nil {
		f.debug("fetch article failed", "url", rawURL, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	article, err := Extract(doc)
	if err != nil {
		f.debug("extract article failed", "url", rawURL, "error", err)
		return nil, err
	}

	f.debug("article extracted", "url", rawURL, "method", article.Method, "chars", utf8.RuneCountInString(article.Text))
	return article, nil
}

// Extract picks the content region of doc and linearizes it. doc is modified:
// boilerplate nodes are removed.
func Extract(doc *goquery.Document) (*domain.ExtractedArticle, error) {
	title := collapseSpace(doc.Find("title").First().Text())
	if title == "" {
		title = domain.DefaultArticleTitle
	}

	doc.Find(boilerplateTags).Remove()

	var (
		parts   []string
		methods []string
	)

	if recipe := findRecipe(doc); recipe != nil {
		if text := Linearize(recipe); utf8.RuneCountInString(text) > minRecipeTextLen {
			parts = append(parts, text)
			methods = append(methods, "recipe")
		}
	}

	if text, selector := bestContent(doc); text != "" {
		parts = append(parts, text)
		methods = append(methods, "selector:"+selector)
	}

	if len(parts) == 0 {
		if text := Linearize(doc.Find("body")); text != "" {
			parts = append(parts, text)
		}
		methods = append(methods, "body")
	}

	text := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if n := utf8.RuneCountInString(text); n <= minArticleTextLen {
		return nil, fmt.Errorf("%w: extracted text too short (%d chars)", domain.ErrExtractionFailed, n)
	}

	return &domain.ExtractedArticle{
		Title:  title,
		Text:   text,
		Method: strings.Join(methods, "+"),
	}, nil
}

func findRecipe(doc *goquery.Document) *goquery.Selection {
	for _, marker := range recipeMarkers {
		sel := doc.Find(fmt.Sprintf("[class*=%q]", marker)).First()
		if sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// bestContent returns the longest linearization among the matches of the
// first selector that matches anything.
func bestContent(doc *goquery.Document) (string, string) {
	for _, selector := range contentSelectors {
		matches := doc.Find(selector)
		if matches.Length() == 0 {
			continue
		}

		var best string
		matches.Each(func(_ int, s *goquery.Selection) {
			if text := Linearize(s); utf8.RuneCountInString(text) > utf8.RuneCountInString(best) {
				best = text
			}
		})
		return best, selector
	}
	return "", ""
}

func (f *ArticleFetcher) fetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url %s: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (f *ArticleFetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
