package domain

// ChatRequest is the provider-agnostic completion request.
type ChatRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature *float32
}

// CompletionResult is a provider answer normalized to one shape.
type CompletionResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Provider         string
	Model            string
}

// Usage exposes the counters with Total forced to Prompt+Completion.
func (r CompletionResult) Usage() TokenUsage {
	return TokenUsage{
		Prompt:     r.PromptTokens,
		Completion: r.CompletionTokens,
		Total:      r.PromptTokens + r.CompletionTokens,
	}
}

// Currency codes reported alongside the USD estimate.
const (
	CurrencyUSD = "USD"
	CurrencyGBP = "GBP"
	CurrencyINR = "INR"
)

// TargetCurrencies lists the currencies every estimate is converted into.
func TargetCurrencies() []string {
	return []string{CurrencyUSD, CurrencyGBP, CurrencyINR}
}

// CostEstimate is the price of one completion in several currencies.
type CostEstimate struct {
	USD float64
	GBP float64
	INR float64
}

// ByCurrency returns the estimate keyed by currency code.
func (c CostEstimate) ByCurrency() map[string]float64 {
	return map[string]float64{
		CurrencyUSD: c.USD,
		CurrencyGBP: c.GBP,
		CurrencyINR: c.INR,
	}
}

// FallbackRates are USD-based rates used when no live rates are available.
func FallbackRates() map[string]float64 {
	return map[string]float64{
		CurrencyUSD: 1.0,
		CurrencyGBP: 0.79,
		CurrencyINR: 83.0,
	}
}
