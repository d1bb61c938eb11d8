package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DocStructurer/internal/domain"
)

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"<h1>Title</h1>":               "<h1>Title</h1>",
		"```html\n<h1>Title</h1>\n```": "<h1>Title</h1>",
		"  ```HTML\n<p>x</p>```  ":     "<p>x</p>",
		"```\n<p>bare fence</p>\n```":  "<p>bare fence</p>",
		"<p>only trailing</p>\n```":    "<p>only trailing</p>",
		"```html\n```":                 "",
		"   \n\t":                      "",
		"<pre>```code```</pre>":        "<pre>```code```</pre>",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripCodeFence(in), "%q", in)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	html, err := Render("```html\n<h1>Report</h1>\n```", domain.ThemeTech.Color())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<style>\n"))
	assert.Contains(t, html, "</style>\n<div class=\"a4\">\n<h1>Report</h1>\n</div>")
	assert.Contains(t, html, "border-left: 6px solid #007bff;")
	assert.NotContains(t, html, themeColorToken)
	assert.NotContains(t, html, "```")
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "```html\n\n```"} {
		_, err := Render(raw, "#000000")
		assert.True(t, errors.Is(err, domain.ErrEmptyResponse), "%q", raw)
	}
}

func TestInspectStructure(t *testing.T) {
	t.Parallel()

	full := `<div class="fact card">x</div><div class="stat-grid"></div><TABLE></TABLE><div class="citations"></div>`
	report := InspectStructure(full)
	assert.Equal(t, StructureReport{Table: true, StatGrid: true, Fact: true, Citations: true}, report)
	assert.Empty(t, report.Missing())

	assert.Equal(t, []string{"table", "stat-grid", "fact", "citations"}, InspectStructure("<h1>bare</h1>").Missing())
}
