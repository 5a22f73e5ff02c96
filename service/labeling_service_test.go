package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"

	"invoice-processor/dto"
)

type fakeModel struct {
	reply     string
	err       error
	noChoices bool
	calls     int
	lastText  string
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if len(messages) > 0 {
		last := messages[len(messages)-1]
		for _, part := range last.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.lastText = text.Text
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.noChoices {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return m.reply, m.err
}

func TestLabelAmountsEmptyRecordsShortCircuits(t *testing.T) {
	model := &fakeModel{}
	service := NewLabelingService(model)

	result, err := service.LabelAmounts(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, dto.StatusNoAmountsFound, result.Status)
	assert.Equal(t, "OCR found no amounts to process.", result.Reason)
	assert.Equal(t, 0, model.calls)
}

func TestLabelAmountsParsesModelReply(t *testing.T) {
	model := &fakeModel{
		reply: `{"currency": "USD", "amounts": [{"type": "total", "value": 1902.05, "source": "text: 'TOTAL is': 'S1,902.05'"}], "status": "ok"}`,
	}
	service := NewLabelingService(model)

	records := []dto.ContextualAmount{
		{Amount: "S1,902.05", Context: "TOTAL is"},
	}
	result, err := service.LabelAmounts(context.Background(), records)

	assert.NoError(t, err)
	assert.Equal(t, "USD", result.Currency)
	assert.Equal(t, dto.StatusOK, result.Status)
	assert.Equal(t, 1, len(result.Amounts))
	assert.Equal(t, "total", result.Amounts[0].Type)
	assert.Equal(t, json.Number("1902.05"), result.Amounts[0].Value)
	assert.Equal(t, "- Amount: S1,902.05, Nearby Text: TOTAL is", model.lastText)
}

func TestLabelAmountsCarvesJSONFromProse(t *testing.T) {
	model := &fakeModel{
		reply: "Here is the result:\n```json\n{\"currency\": \"INR\", \"amounts\": [], \"status\": \"ok\"}\n```",
	}
	service := NewLabelingService(model)

	result, err := service.LabelAmounts(context.Background(), []dto.ContextualAmount{
		{Amount: "₹1200", Context: "Total"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "INR", result.Currency)
	assert.Equal(t, dto.StatusOK, result.Status)
}

func TestLabelAmountsInvalidReplyBecomesErrorResult(t *testing.T) {
	model := &fakeModel{reply: "not json at all"}
	service := NewLabelingService(model)

	result, err := service.LabelAmounts(context.Background(), []dto.ContextualAmount{
		{Amount: "$100", Context: "Due"},
	})

	assert.NoError(t, err)
	assert.Equal(t, dto.StatusError, result.Status)
	assert.Equal(t, "LLM returned invalid JSON.", result.Reason)
	assert.Equal(t, "not json at all", result.RawOutput)
}

func TestLabelAmountsUnparseableJSONKeepsRawReply(t *testing.T) {
	model := &fakeModel{reply: "{broken"}
	service := NewLabelingService(model)

	result, err := service.LabelAmounts(context.Background(), []dto.ContextualAmount{
		{Amount: "$100", Context: "Due"},
	})

	assert.NoError(t, err)
	assert.Equal(t, dto.StatusError, result.Status)
	assert.Equal(t, "{broken", result.RawOutput)
}

func TestLabelAmountsModelErrorWrapsSentinel(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}
	service := NewLabelingService(model)

	_, err := service.LabelAmounts(context.Background(), []dto.ContextualAmount{
		{Amount: "$100", Context: "Due"},
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, dto.ErrLabelerUnavailable))
}

func TestLabelAmountsNoChoicesBecomesErrorResult(t *testing.T) {
	model := &fakeModel{noChoices: true}
	service := NewLabelingService(model)

	result, err := service.LabelAmounts(context.Background(), []dto.ContextualAmount{
		{Amount: "$100", Context: "Due"},
	})

	assert.NoError(t, err)
	assert.Equal(t, dto.StatusError, result.Status)
	assert.Equal(t, "", result.RawOutput)
}

func TestBuildContextString(t *testing.T) {
	records := []dto.ContextualAmount{
		{Amount: "₹1200", Context: "Total"},
		{Amount: "₹200", Context: "Due"},
	}

	assert.Equal(t, "- Amount: ₹1200, Nearby Text: Total\n- Amount: ₹200, Nearby Text: Due", buildContextString(records))
}
