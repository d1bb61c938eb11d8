package usecase

import (
	"context"

	"DocStructurer/internal/domain"
	"DocStructurer/internal/ports"
	"DocStructurer/internal/provider"
)

// CostAccountant prices completions per logical model and converts the
// USD amount into the target currencies.
type CostAccountant struct {
	catalog *provider.Catalog
	rates   ports.RateSource
}

var _ ports.CostEstimator = (*CostAccountant)(nil)

// NewCostAccountant wires the price table and rate source.
func NewCostAccountant(catalog *provider.Catalog, rates ports.RateSource) *CostAccountant {
	return &CostAccountant{catalog: catalog, rates: rates}
}

// USDCost is promptTokens/1000*input + completionTokens/1000*output.
// Negative counts are treated as zero.
func USDCost(pricing provider.Pricing, promptTokens, completionTokens int) float64 {
	if promptTokens < 0 {
		promptTokens = 0
	}
	if completionTokens < 0 {
		completionTokens = 0
	}
	return float64(promptTokens)/1000*pricing.InputPerK + float64(completionTokens)/1000*pricing.OutputPerK
}

// Estimate prices the tokens of a logical model in every target currency.
func (a *CostAccountant) Estimate(ctx context.Context, model string, promptTokens, completionTokens int) domain.CostEstimate {
	usd := USDCost(a.catalog.Pricing(model), promptTokens, completionTokens)

	var rates map[string]float64
	if a.rates != nil {
		rates = a.rates.Rates(ctx)
	}
	fallback := domain.FallbackRates()
	rate := func(code string) float64 {
		if r, ok := rates[code]; ok && r > 0 {
			return r
		}
		return fallback[code]
	}

	return domain.CostEstimate{
		USD: usd,
		GBP: usd * rate(domain.CurrencyGBP),
		INR: usd * rate(domain.CurrencyINR),
	}
}
