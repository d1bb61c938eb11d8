package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"DocStructurer/internal/domain"
)

var longSentence = strings.Repeat("The committee reviewed every submitted proposal in detail. ", 5)

type recordedAgent struct {
	mu    sync.Mutex
	value string
}

func (r *recordedAgent) get() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

func serveHTML(t *testing.T, status int, body string) (*httptest.Server, *recordedAgent) {
	t.Helper()
	agent := &recordedAgent{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.mu.Lock()
		agent.value = r.Header.Get("User-Agent")
		agent.mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, agent
}

func newTestFetcher() *ArticleFetcher {
	return NewArticleFetcher(&http.Client{Timeout: 2 * time.Second}, "DocStructurerTest/1.0", nil)
}

func TestFetchArticleSelector(t *testing.T) {
	t.Parallel()

	srv, ua := serveHTML(t, http.StatusOK, `
	<html><head><title> Quarterly   Review </title><script>var x = "script text";</script></head>
	<body>
	  <nav><p>Navigation links that are long enough</p></nav>
	  <article>
	    <h1>Results</h1>
	    <p>`+longSentence+`</p>
	    <ul><li>Revenue grew</li><li>Costs fell</li></ul>
	  </article>
	  <footer><p>Footer text that should disappear</p></footer>
	</body></html>`)

	article, err := newTestFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}

	if got := ua.get(); got != "DocStructurerTest/1.0" {
		t.Fatalf("unexpected user agent %q", got)
	}
	if article.Title != "Quarterly Review" {
		t.Fatalf("unexpected title %q", article.Title)
	}
	if article.Method != "selector:article" {
		t.Fatalf("unexpected method %q", article.Method)
	}
	for _, unwanted := range []string{"script text", "Navigation", "Footer"} {
		if strings.Contains(article.Text, unwanted) {
			t.Fatalf("boilerplate %q leaked into text:\n%s", unwanted, article.Text)
		}
	}
	if !strings.HasPrefix(article.Text, "[HEADING] Results [/HEADING]") {
		t.Fatalf("unexpected text start:\n%s", article.Text)
	}
	if !strings.Contains(article.Text, "[LIST]\n• Revenue grew\n• Costs fell\n[/LIST]") {
		t.Fatalf("list markers missing:\n%s", article.Text)
	}
}

func TestExtractLongestMatchOfFirstSelector(t *testing.T) {
	t.Parallel()

	doc := mustDocument(t, `
	<html><body>
	  <div class="post-content"><p>Short but valid paragraph text.</p></div>
	  <div class="post-content"><p>`+longSentence+`</p><p>Another paragraph of the same post.</p></div>
	  <div class="entry-content"><p>`+strings.Repeat("Entry content that never wins. ", 20)+`</p></div>
	</body></html>`)

	article, err := Extract(doc)
	if err != nil {
		t.Fatalf("extract returned error: %v", err)
	}
	if article.Method != "selector:.post-content" {
		t.Fatalf("unexpected method %q", article.Method)
	}
	if strings.Contains(article.Text, "Entry content") || strings.Contains(article.Text, "Short but valid") {
		t.Fatalf("expected only the longest .post-content match:\n%s", article.Text)
	}
	if article.Title != domain.DefaultArticleTitle {
		t.Fatalf("expected default title, got %q", article.Title)
	}
}

func TestExtractRecipeComesFirst(t *testing.T) {
	t.Parallel()

	steps := strings.Repeat("<li>Whisk the eggs gently with the flour and milk.</li>", 12)
	doc := mustDocument(t, `
	<html><head><title>Pancakes</title></head><body>
	  <main><p>`+longSentence+`</p></main>
	  <div class="wprm-recipe-container wprm-recipe-42"><ol>`+steps+`</ol></div>
	</body></html>`)

	article, err := Extract(doc)
	if err != nil {
		t.Fatalf("extract returned error: %v", err)
	}
	if article.Method != "recipe+selector:main" {
		t.Fatalf("unexpected method %q", article.Method)
	}
	if !strings.HasPrefix(article.Text, "[LIST]\n1. Whisk") {
		t.Fatalf("recipe text should lead:\n%s", article.Text)
	}
	if !strings.Contains(article.Text, "The committee reviewed") {
		t.Fatalf("generic content missing:\n%s", article.Text)
	}
}

func TestExtractBodyFallback(t *testing.T) {
	t.Parallel()

	doc := mustDocument(t, `<html><body><p>`+longSentence+`</p></body></html>`)

	article, err := Extract(doc)
	if err != nil {
		t.Fatalf("extract returned error: %v", err)
	}
	if article.Method != "body" {
		t.Fatalf("unexpected method %q", article.Method)
	}
}

func TestExtractTextDirectlyInContainer(t *testing.T) {
	t.Parallel()

	doc := mustDocument(t, `
	<html><body>
	  <div class="content">`+longSentence+`<br>
	    <div class="ad">Sponsored block that is long enough to count</div>
	  </div>
	</body></html>`)

	article, err := Extract(doc)
	if err != nil {
		t.Fatalf("extract returned error: %v", err)
	}
	if article.Method != "selector:.content" {
		t.Fatalf("unexpected method %q", article.Method)
	}
	if !strings.HasPrefix(article.Text, strings.TrimSpace(longSentence)) {
		t.Fatalf("container text lost:\n%s", article.Text)
	}
}

func TestFetchArticleFailures(t *testing.T) {
	t.Parallel()

	short, _ := serveHTML(t, http.StatusOK, `<html><body><article><p>Too little text here.</p></article></body></html>`)
	missing, _ := serveHTML(t, http.StatusNotFound, `<html><body><p>`+longSentence+`</p></body></html>`)

	cases := map[string]string{
		"short text":   short.URL,
		"not found":    missing.URL,
		"bad scheme":   "ftp://example.com/file",
		"unresolvable": "http://nonexistent.invalid/x",
	}

	for name, target := range cases {
		name, target := name, target
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			article, err := newTestFetcher().Fetch(context.Background(), target)
			if err == nil {
				t.Fatalf("expected error, got article %+v", article)
			}
			if !errors.Is(err, domain.ErrExtractionFailed) {
				t.Fatalf("expected ErrExtractionFailed, got %v", err)
			}
		})
	}
}
