package llm

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// priceTable maps model identifiers to their pricing. OpenRouter model IDs
// carry a vendor prefix; free-tier models cost nothing.
var priceTable = map[string]modelPricing{
	"gpt-3.5-turbo":        {InputPerMillion: 0.50, OutputPerMillion: 1.50},
	"gpt-4o":               {InputPerMillion: 2.50, OutputPerMillion: 10.00},
	"gpt-4o-mini":          {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"openai/gpt-3.5-turbo": {InputPerMillion: 0.50, OutputPerMillion: 1.50},
	"openai/gpt-4o-mini":   {InputPerMillion: 0.15, OutputPerMillion: 0.60},
	"qwen/qwq-32b:free":    {},
}

// EstimateCost returns the estimated cost in USD for the given model and token counts.
// Returns 0 if the model is not found in the price table.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}

	inputCost := float64(inputTokens) / 1_000_000.0 * pricing.InputPerMillion
	outputCost := float64(outputTokens) / 1_000_000.0 * pricing.OutputPerMillion
	return inputCost + outputCost
}
