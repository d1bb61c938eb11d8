package usecase

import (
	"fmt"
	"strings"

	"DocStructurer/internal/domain"
)

const themeColorToken = "__THEME_COLOR__"

// Render strips code fences from the model output and wraps it in the
// theme-colored A4 stylesheet.
func Render(raw, themeColor string) (string, error) {
	body := StripCodeFence(raw)
	if body == "" {
		return "", domain.ErrEmptyResponse
	}
	css := strings.ReplaceAll(a4Stylesheet, themeColorToken, themeColor)
	return fmt.Sprintf("<style>\n%s\n</style>\n<div class=\"a4\">\n%s\n</div>", css, body), nil
}

// StripCodeFence removes a leading ```html (or bare ```) line and a trailing ```.
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if len(text) >= 4 && strings.EqualFold(text[:4], "html") {
			text = text[4:]
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// StructureReport lists which template elements a rendered document contains.
type StructureReport struct {
	Table     bool
	StatGrid  bool
	Fact      bool
	Citations bool
}

// InspectStructure checks the rendered body for the elements the prompt asks for.
func InspectStructure(html string) StructureReport {
	lower := strings.ToLower(html)
	return StructureReport{
		Table:     strings.Contains(lower, "<table"),
		StatGrid:  strings.Contains(lower, `class="stat-grid"`),
		Fact:      strings.Contains(lower, `class="fact`),
		Citations: strings.Contains(lower, `class="citations"`),
	}
}

// Missing names the absent elements in a stable order.
func (r StructureReport) Missing() []string {
	var missing []string
	if !r.Table {
		missing = append(missing, "table")
	}
	if !r.StatGrid {
		missing = append(missing, "stat-grid")
	}
	if !r.Fact {
		missing = append(missing, "fact")
	}
	if !r.Citations {
		missing = append(missing, "citations")
	}
	return missing
}

const a4Stylesheet = `.a4 {
    width: 21cm;
    max-width: 100%;
    min-height: 29.7cm;
    padding: 0.6cm;
    background: white;
    box-sizing: border-box;
    margin: 10px auto;
    font-family: Helvetica, Arial, sans-serif;
    font-size: 16px;
    line-height: 1.6;
    color: #000000;
}
.a4 h1 {
    font-size: 38px;
    font-weight: bold;
    margin: 0 0 8px 0;
}
.a4 h2 {
    font-size: 24px;
    margin: 0 0 10px 0;
}
.a4 p {
    margin: 6px 0 12px 0;
    line-height: 1.6;
}
.a4 .card {
    background: __THEME_COLOR__1a;
    border-radius: 12px;
    padding: 18px;
    box-shadow: 0 6px 18px rgba(0, 0, 0, 0.06);
    border: 1px solid #dfe6ea;
}
.a4 table {
    border-collapse: separate;
    border-spacing: 0;
    width: 100%;
    margin: 10px 0 20px 0;
    border: 1.5px solid #000000;
    border-radius: 8px;
    overflow: hidden;
    line-height: 1.4;
}
.a4 thead tr {
    background: __THEME_COLOR__;
    color: #fff;
}
.a4 thead th {
    padding: 10px 12px;
    text-align: left;
    font-weight: 700;
    border-right: 1.5px solid #000000;
}
.a4 thead th:last-child,
.a4 tbody td:last-child {
    border-right: none;
}
.a4 tbody td {
    padding: 10px 12px;
    border-top: 1.5px solid #000000;
    border-right: 1.5px solid #000000;
}
.a4 tbody tr:nth-child(even) {
    background: #f6f6f6;
}
.a4 tfoot td {
    padding: 10px 12px;
    border-top: 1.5px solid #000000;
    font-weight: 600;
    background: __THEME_COLOR__13;
}
.a4 ul {
    margin: 6px 0 12px 18px;
}
.a4 code {
    background: #eef2f4;
    padding: 2px 6px;
    border-radius: 4px;
    font-family: monospace;
}
.a4 .note {
    font-size: 13px;
    color: #444;
    margin-top: 8px;
}
.a4 .fact {
    border-left: 6px solid __THEME_COLOR__;
    padding: 12px 16px;
    margin: 10px 0;
}
.a4 .stat-grid {
    display: grid;
    grid-template-columns: repeat(3, 1fr);
    gap: 12px;
    margin: 12px 0 18px;
}
.a4 .stat {
    text-align: center;
    padding: 12px 10px;
    border: 1.5px solid #000;
    border-radius: 10px;
    background: __THEME_COLOR__27;
}
.a4 .stat .big {
    font-size: 28px;
    color: __THEME_COLOR__;
    font-weight: 800;
    line-height: 1.1;
}
.a4 .stat .sub {
    font-size: 14px;
    color: __THEME_COLOR__;
    line-height: 1.3;
    margin: 10px 0;
}
.a4 .figure {
    float: right;
    width: 180px;
    margin: 0 0 12px 16px;
}
.a4 .citations {
    margin-top: 24px;
    padding-top: 12px;
    border-top: 2px solid __THEME_COLOR__;
    font-size: 13px;
}
.a4 .citations a {
    color: __THEME_COLOR__;
}
@media print {
    body {
        background: white;
    }
    .a4 {
        margin: 0;
        box-shadow: none;
    }
}`
