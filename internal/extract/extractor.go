// Package extract normalizes raw patient records into validated UB-04
// claims using a language model.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claimforge/claimforge/internal/llm"
	"github.com/claimforge/claimforge/internal/model"
	"github.com/claimforge/claimforge/internal/ratelimit"
	"github.com/sashabaranov/go-openai"
)

// Operation name used for rate limiting chat completion calls.
const Operation = "chat"

// Extractor produces a validated claim from a raw patient record.
type Extractor interface {
	Extract(ctx context.Context, rec model.PatientRecord) (*model.UB04Claim, error)
}

// OpenAIExtractor implements Extractor using the OpenAI chat completions
// API in strict JSON mode.
type OpenAIExtractor struct {
	client  *openai.Client
	config  model.LLMConfig
	limiter *ratelimit.Limiter
}

// NewOpenAIExtractor creates a new extractor. A missing API key is a
// configuration error at construction time.
func NewOpenAIExtractor(cfg model.LLMConfig, limiter *ratelimit.Limiter) (*OpenAIExtractor, error) {
	client, err := llm.NewClient(cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	return &OpenAIExtractor{
		client:  client,
		config:  cfg,
		limiter: limiter,
	}, nil
}

// Extract asks the model to normalize rec into the claim schema, then
// validates the result. A claim that fails validation aborts this
// patient's run rather than letting partial data reach the form.
func (e *OpenAIExtractor) Extract(ctx context.Context, rec model.PatientRecord) (*model.UB04Claim, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, Operation); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	llmModel := e.config.Model
	if llmModel == "" {
		llmModel = openai.GPT4oMini
	}

	maxTokens := e.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 10000
	}

	timeout := e.config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: llmModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a medical billing specialist who converts nursing-home encounter records into UB-04 claim data. You only use data present in the record; you never invent values.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(rec),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := e.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	var claim model.UB04Claim
	if err := json.Unmarshal([]byte(content), &claim); err != nil {
		return nil, fmt.Errorf("decode claim JSON: %w", err)
	}

	if err := claim.Validate(); err != nil {
		return nil, fmt.Errorf("extracted claim failed validation: %w", err)
	}

	return &claim, nil
}

// BuildPrompt renders the normalization prompt for a record. The record's
// columns are listed verbatim; the model maps them onto the claim schema.
func BuildPrompt(rec model.PatientRecord) string {
	cols := make([]string, 0, len(rec.Fields))
	for col := range rec.Fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var b strings.Builder
	b.WriteString("Convert the following patient encounter record into a UB-04 claim JSON object.\n\n")
	b.WriteString("Record:\n")
	for _, col := range cols {
		fmt.Fprintf(&b, "- %s: %s\n", col, rec.Fields[col])
	}

	b.WriteString(`
Respond with a single JSON object using exactly this structure:
{
  "facility": {"name": "...", "address": "..."},
  "patient": {"first_name": "...", "last_name": "...", "dob": "...", "sex": "...", "mrn": "..."},
  "visit": {"admission_date": "...", "discharge_date": "...", "patient_control_number": "..."},
  "payer": {"name": "...", "id": "..."},
  "bill_type": "...",
  "diagnoses": {"primary": "...", "secondary": "..."},
  "physicians": {"attending": {"npi": "..."}},
  "revenue_lines": [{"revenue_code": "...", "hcpcs_code": "...", "units": 0, "charge": 0.0}],
  "total_charge": 0.0
}

Rules:
1. Every value must come from the record above. Do not fabricate data.
2. Omit "secondary" and "hcpcs_code" when the record has no such value.
3. Dates keep the record's formatting.
4. "units" is an integer, "charge" and "total_charge" are numbers.
`)

	return b.String()
}
