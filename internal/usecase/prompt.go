package usecase

import (
	"fmt"
	"strings"

	"DocStructurer/internal/domain"
)

// SystemPrompt frames every document completion.
const SystemPrompt = "You are an expert document analyst and professional HTML formatter. " +
	"You turn raw text and research notes into well-structured, data-rich HTML documents " +
	"that follow the requested template exactly."

// PromptInput carries everything the assembler needs for one request.
type PromptInput struct {
	Mode      domain.Mode
	Theme     domain.Theme
	Verbosity domain.Verbosity
	Topic     string
	Text      string
	Results   []domain.SearchResult
}

var verbosityInstructions = map[domain.Verbosity]string{
	domain.VerbosityConcise: "Keep content brief and focused. Use 1-2 paragraphs per section, " +
		"one stat-grid of 3 stat boxes and 1 small table. Prioritize key information only.",
	domain.VerbosityDetailed: "Provide balanced detail. Use 2-3 paragraphs per section, " +
		"one stat-grid of 3 stat boxes and 1-2 complete tables. Include supporting analysis.",
	domain.VerbosityComprehensive: "Provide extensive analysis with maximum detail. Use 4-6 paragraphs per section, " +
		"at least two stat-grids (6+ stat boxes), 3-4 detailed tables, timeline and comparison tables, " +
		"market analysis, trend data, future projections, case studies and deep contextual insight. " +
		"The document should read like a research report.",
}

// FormatCitations numbers results 1..k in provider order.
func FormatCitations(results []domain.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s — %s (%s)\n", i+1, r.Title, r.Snippet, r.URL)
	}
	return b.String()
}

// BuildContent assembles the material the model works from: the source text or
// research topic followed by numbered search context.
func BuildContent(in PromptInput) string {
	var b strings.Builder

	if in.Mode == domain.ModeResearch {
		fmt.Fprintf(&b, "Research Topic: %s\n\nWeb Research Results for '%s':\n", in.Topic, in.Topic)
		if len(in.Results) == 0 {
			b.WriteString("No specific web results found. Use general knowledge.\n")
		} else {
			b.WriteString(FormatCitations(in.Results))
		}
		return b.String()
	}

	b.WriteString(in.Text)
	if len(in.Results) > 0 {
		b.WriteString("\n\nAdditional Context from Web Search:\n")
		b.WriteString(FormatCitations(in.Results))
	}
	return b.String()
}

// BuildPrompt is a pure function of its input.
func BuildPrompt(in PromptInput) string {
	verbosity := domain.ParseVerbosity(string(in.Verbosity))

	var b strings.Builder
	b.WriteString(modeInstructions(in, verbosity))
	b.WriteString("\n")
	b.WriteString(structureTemplate(in.Theme))
	b.WriteString("\n")
	b.WriteString(tableRequirements)
	if verbosity == domain.VerbosityComprehensive {
		b.WriteString("\n")
		b.WriteString(comprehensiveRequirements)
	}
	b.WriteString("\n")
	b.WriteString(citationInstructions(len(in.Results)))
	b.WriteString("\n")
	b.WriteString(criticalRules)
	b.WriteString("\nContent to process:\n")
	b.WriteString(BuildContent(in))
	return b.String()
}

func modeInstructions(in PromptInput, verbosity domain.Verbosity) string {
	level := fmt.Sprintf("Verbosity Level: %s - %s\n", verbosity, verbosityInstructions[verbosity])

	if in.Mode == domain.ModeResearch {
		return fmt.Sprintf("RESEARCH MODE: Research and write an authoritative document about: %q\n\n"+
			"Combine the web search results provided with your own knowledge. Focus on current trends, "+
			"statistics and verifiable facts, and write original content based on that research.\n\n%s", in.Topic, level)
	}

	var b strings.Builder
	b.WriteString("DOCUMENT PROCESSING MODE: Structure and enhance the provided text.\n\n" +
		"Use the original text as the foundation and preserve every detail it contains: names, numbers, " +
		"dates, quantities and steps. Convert every enumerable list into a complete table that contains ALL " +
		"items, never a subset. Add relevant context from the web search results where it helps.\n")
	if strings.Contains(in.Text, domain.ListOpen) {
		b.WriteString("The text contains " + domain.ListOpen + " blocks taken from the source page. " +
			"When they hold ingredients or steps, render ingredients as a table (Ingredient | Quantity | Notes) " +
			"and steps as a numbered table (Step | Instruction | Time/Tips) keeping every item in order.\n")
	}
	if strings.Contains(in.Text, domain.TableOpen) {
		b.WriteString("Rows inside " + domain.TableOpen + " blocks are source tables with cells separated by \" | \"; " +
			"reproduce them as HTML tables with all rows.\n")
	}
	b.WriteString("\n")
	b.WriteString(level)
	return b.String()
}

func structureTemplate(theme domain.Theme) string {
	var b strings.Builder
	b.WriteString(`Create a professional document following this EXACT structure:

<h1>Descriptive Title</h1>

<div class="fact card">
<strong>Key insight:</strong> Main takeaway from the content
</div>

<h2>Section Name</h2>
<p>Paragraph content explaining the topic.</p>

<div class="stat-grid">
  <div class="stat">
    <div class="big">NUMBER</div>
    <div class="sub">What this number means</div>
  </div>
  <div class="stat">
    <div class="big">NUMBER</div>
    <div class="sub">What this number means</div>
  </div>
  <div class="stat">
    <div class="big">NUMBER</div>
    <div class="sub">What this number means</div>
  </div>
</div>

<h2>Data Table</h2>
<table>
  <thead><tr><th>Column 1</th><th>Column 2</th><th>Column 3</th></tr></thead>
  <tbody><tr><td>Data</td><td>Data</td><td>Data</td></tr></tbody>
</table>
`)
	if theme == domain.ThemeFood {
		b.WriteString(`
<h2>Instructions</h2>
<table>
  <thead><tr><th>Step</th><th>Instruction</th><th>Time/Tips</th></tr></thead>
  <tbody><tr><td>1</td><td>First step</td><td>Tip</td></tr></tbody>
</table>
`)
	}
	b.WriteString(`
<h2>Summary</h2>
<ul>
  <li>Key point 1</li>
  <li>Key point 2</li>
  <li>Key point 3</li>
</ul>

<p><strong>Closing paragraph with the final takeaway.</strong></p>

<div class="citations">
  <h2>Sources</h2>
  <ol>
    <li><a href="URL">Source title</a> - short description</li>
  </ol>
</div>

Stat-grids always hold exactly 3 stat items; add another stat-grid for more numbers.
`)
	return b.String()
}

const tableRequirements = `MANDATORY TABLE REQUIREMENTS:
- EVERY document MUST contain at least one table
- Convert ANY structured information into tables:
  • Lists of items → table rows
  • Comparisons → comparison table
  • Categories/classifications → category table
  • Steps/processes → process table
  • Key-value pairs → data table
  • Timeline events → timeline table
- Lists become tables with ALL items, not a subset
`

const comprehensiveRequirements = `COMPREHENSIVE EXTRA REQUIREMENTS:
- CREATE 6+ sections with extensive analysis
- ADD a TIMELINE TABLE with dates and milestones
- CREATE COMPARISON TABLES (before/after, competitors, alternatives)
- INCLUDE a MARKET ANALYSIS section with industry data
- ADD a FUTURE PROJECTIONS/TRENDS section
- CREATE a detailed statistical breakdown with 6+ stat boxes
- INCLUDE a CASE STUDIES or EXAMPLES section
- ADD a RISK ANALYSIS or IMPACT ASSESSMENT table
`

func citationInstructions(sources int) string {
	if sources == 0 {
		return `CITATIONS:
- End the document with <div class="citations"> stating that no external sources were used
`
	}
	return fmt.Sprintf(`CITATIONS:
- End the document with <div class="citations"> holding an ordered list of exactly %d sources
- Keep the numbering [1]..[%d] of the web search results below, in the same order, with their URLs
- The citations block is always the last element
`, sources, sources)
}

const criticalRules = `CRITICAL RULES:
- NO nested cards or divs inside cards
- Use the EXACT stat structure with .big and .sub classes
- Keep paragraphs concise and professional
- Extract all numbers into stat boxes
- CREATE TABLES FROM EVERYTHING POSSIBLE
- Return ONLY HTML (no explanations, no backticks)
`
