package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"

	"invoice-processor/dto"
)

// labelSystemPrompt instructs the labeling model. Labeling is advisory:
// whatever the model returns is passed through to the client, never
// re-derived or validated against the extracted records.
const labelSystemPrompt = `You are a highly intelligent data extraction bot. Your task is to analyze the user's text, which contains monetary amounts and their nearby context, and transform it into a specific JSON format.

Follow these rules precisely:
1. **Top-Level Currency:** Determine the single currency for the entire document (e.g., USD, INR, EUR) and place it in the top-level "currency" key. If the identified currency is S, treat it as USD.
2. **Amounts List:** Process each line item to create a list of objects for the "amounts" key.
3. **Object Structure:** Each object in the "amounts" list MUST have three keys: "type", "value", and "source".
4. **"type" Key:** The "type" must be a clean, concise, snake_case label based on the 'Nearby Text'. (e.g., 'SUB TOTAL' becomes 'sub_total', 'Amount DUE' becomes 'amount_due').
5. **"value" Key:** The "value" MUST be a JSON number (integer or float), not a string. Extract this from the amount text.
6. **"source" Key:** The "source" must be a string reconstructing the original context in the format: "text: 'Context': 'Amount'".
7. **Status:** The final JSON must include a top-level "status" key with the value "ok".

EXAMPLE:
Human Input:
- Amount: ₹1200, Nearby Text: Total
- Amount: ₹1000, Nearby Text: Paid
- Amount: ₹200, Nearby Text: Due

Your JSON Output:
{
    "currency": "INR",
    "amounts": [
        {"type": "total", "value": 1200, "source": "text: 'Total: ₹1200'"},
        {"type": "paid", "value": 1000, "source": "text: 'Paid: ₹1000'"},
        {"type": "due", "value": 200, "source": "text: 'Due: ₹200'"}
    ],
    "status": "ok"
}`

// LabelingService turns extracted contextual amounts into the final
// labeled result via the labeling model.
type LabelingService struct {
	model llms.Model
}

func NewLabelingService(model llms.Model) *LabelingService {
	return &LabelingService{
		model: model,
	}
}

// LabelAmounts sends the extracted records to the labeling model and
// returns its labeling. An empty record list short-circuits without
// touching the model. Transport failures surface as errors; a reply
// that is not JSON becomes an error-status result carrying the raw
// reply.
func (s *LabelingService) LabelAmounts(ctx context.Context, records []dto.ContextualAmount) (*dto.LabeledResult, error) {
	if len(records) == 0 {
		return &dto.LabeledResult{
			Status: dto.StatusNoAmountsFound,
			Reason: "OCR found no amounts to process.",
		}, nil
	}

	completion, err := s.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, labelSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildContextString(records)),
	}, llms.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrLabelerUnavailable, err)
	}

	if len(completion.Choices) == 0 {
		log.Println("labeling model returned no choices")
		return invalidLabelResult(""), nil
	}
	return parseLabelResponse(completion.Choices[0].Content), nil
}

// buildContextString renders one line per record in the form the
// prompt's example uses.
func buildContextString(records []dto.ContextualAmount) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("- Amount: %s, Nearby Text: %s", r.Amount, r.Context)
	}
	return strings.Join(lines, "\n")
}

// parseLabelResponse carves the span between the first opening and the
// last closing brace out of the reply and decodes it. Models wrap JSON
// in prose or code fences often enough that decoding the raw reply
// directly is a losing game.
func parseLabelResponse(raw string) *dto.LabeledResult {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return invalidLabelResult(raw)
	}

	var result dto.LabeledResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
		log.Printf("labeling model returned unparseable JSON: %v", err)
		return invalidLabelResult(raw)
	}
	return &result
}

func invalidLabelResult(raw string) *dto.LabeledResult {
	return &dto.LabeledResult{
		Status:    dto.StatusError,
		Reason:    "LLM returned invalid JSON.",
		RawOutput: raw,
	}
}
