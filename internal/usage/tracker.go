package usage

import (
	"sync"

	"github.com/shopspring/decimal"
)

var tokensPerMillion = decimal.NewFromInt(1_000_000)

// Pricing is the per-million-token price of a model.
type Pricing struct {
	InputPerMTok  decimal.Decimal
	OutputPerMTok decimal.Decimal
}

// Tracker accumulates token usage and cost across API calls. It is safe
// for concurrent use.
type Tracker struct {
	mu               sync.Mutex
	promptTokens     int64
	completionTokens int64
	totalTokens      int64
	cost             decimal.Decimal
	pricing          map[string]Pricing
}

// NewTracker creates a tracker pricing models per the given table. A nil
// or empty table counts tokens without accumulating cost.
func NewTracker(pricing map[string]Pricing) *Tracker {
	return &Tracker{
		cost:    decimal.Zero,
		pricing: pricing,
	}
}

// Record adds one call's token counts and updates the cumulative cost.
func (t *Tracker) Record(model string, promptTokens, completionTokens, totalTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.promptTokens += int64(promptTokens)
	t.completionTokens += int64(completionTokens)
	t.totalTokens += int64(totalTokens)

	pricing, ok := t.pricing[model]
	if !ok {
		return // unknown model: tokens counted, no cost added
	}

	inputCost := pricing.InputPerMTok.Mul(decimal.NewFromInt(int64(promptTokens))).Div(tokensPerMillion)
	outputCost := pricing.OutputPerMTok.Mul(decimal.NewFromInt(int64(completionTokens))).Div(tokensPerMillion)
	t.cost = t.cost.Add(inputCost).Add(outputCost)
}

// Totals returns the cumulative token counts across all recorded calls.
func (t *Tracker) Totals() (prompt, completion, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.promptTokens, t.completionTokens, t.totalTokens
}

// Cost returns the cumulative cost across all recorded calls.
func (t *Tracker) Cost() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cost
}
