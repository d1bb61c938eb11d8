package domain

import "strings"

// Verbosity controls requested output depth and the completion token ceiling.
type Verbosity string

const (
	VerbosityConcise       Verbosity = "Concise"
	VerbosityDetailed      Verbosity = "Detailed"
	VerbosityComprehensive Verbosity = "Comprehensive"
)

// ParseVerbosity maps user input onto a known tier, defaulting to Detailed.
func ParseVerbosity(value string) Verbosity {
	switch Verbosity(strings.TrimSpace(value)) {
	case VerbosityConcise:
		return VerbosityConcise
	case VerbosityComprehensive:
		return VerbosityComprehensive
	default:
		return VerbosityDetailed
	}
}

// Mode distinguishes structuring supplied text from researching a topic.
type Mode string

const (
	ModeDocument Mode = "document"
	ModeResearch Mode = "research"
)

// ProcessingRequest is a single inbound request to structure a document.
type ProcessingRequest struct {
	Text       string
	AITopic    string
	ArticleURL string
	Model      string
	Verbosity  Verbosity
}

// Normalize trims every free-text field.
func (r ProcessingRequest) Normalize() ProcessingRequest {
	r.Text = strings.TrimSpace(r.Text)
	r.AITopic = strings.TrimSpace(r.AITopic)
	r.ArticleURL = strings.TrimSpace(r.ArticleURL)
	r.Model = strings.TrimSpace(r.Model)
	return r
}

// Empty reports whether the request carries no input at all.
func (r ProcessingRequest) Empty() bool {
	return strings.TrimSpace(r.Text) == "" &&
		strings.TrimSpace(r.AITopic) == "" &&
		strings.TrimSpace(r.ArticleURL) == ""
}

// Mode is research iff a topic is given and text is empty. Callers resolve
// ArticleURL into Text before asking.
func (r ProcessingRequest) Mode() Mode {
	if strings.TrimSpace(r.AITopic) != "" && strings.TrimSpace(r.Text) == "" {
		return ModeResearch
	}
	return ModeDocument
}

// TokenUsage mirrors the usage counters reported by chat providers.
type TokenUsage struct {
	Prompt     int
	Completion int
	Total      int
}

// ProcessingResult is the rendered document plus accounting.
type ProcessingResult struct {
	HTML        string
	Tokens      TokenUsage
	Cost        CostEstimate
	Model       string
	Theme       Theme
	Mode        Mode
	SourceTitle string
}
