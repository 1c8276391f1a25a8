package llm

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

var priceTable = map[string]modelPricing{
	"gemini-2.0-flash":  {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gemini-2.5-flash":  {InputPerMillion: 0.30, OutputPerMillion: 2.50},
	"gemini-2.5-pro":    {InputPerMillion: 1.25, OutputPerMillion: 10.00},
	"gemini-1.5-flash":  {InputPerMillion: 0.075, OutputPerMillion: 0.30},
	"gpt-4o":            {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":       {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"claude-haiku-4-5":  {InputPerMillion: 1.00, OutputPerMillion: 5.00},
	"claude-sonnet-4-5": {InputPerMillion: 3.00, OutputPerMillion: 15.00},
}

// Usage is the accounting attached to one answer.
type Usage struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	Estimated    bool    `json:"estimated,omitempty"`
}

// EstimateCost returns the estimated cost in USD for the given model and token counts.
// Returns 0 if the model is not found in the price table.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}
	return float64(inputTokens)/1_000_000.0*pricing.InputPerMillion +
		float64(outputTokens)/1_000_000.0*pricing.OutputPerMillion
}

// EstimateTokens approximates a token count at four characters per token.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}

// UsageFor builds usage for a completed request. Providers that do not
// report token counts are estimated from the prompt and answer text.
func UsageFor(req CompletionRequest, resp *CompletionResponse) Usage {
	u := Usage{InputTokens: resp.InputTokens, OutputTokens: resp.OutputTokens}
	if u.InputTokens == 0 && u.OutputTokens == 0 {
		for _, m := range req.Messages {
			u.InputTokens += EstimateTokens(m.Content)
		}
		u.OutputTokens = EstimateTokens(resp.Content)
		u.Estimated = true
	}
	model := resp.Model
	if _, ok := priceTable[model]; !ok {
		model = req.Model
	}
	u.CostUSD = EstimateCost(model, u.InputTokens, u.OutputTokens)
	return u
}
