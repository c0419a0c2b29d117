package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xeipuuv/gojsonschema"

	stderrors "assistant-core/internal/common/errors"
)

// tier2ResponseSchema pins the fallback backend to the closed intent
// enum. Anything outside it is treated as a classification failure
// rather than trusted.
const tier2ResponseSchema = `{
	"type": "object",
	"required": ["intent", "confidence"],
	"properties": {
		"intent": {
			"type": "string",
			"enum": ["messaging", "email", "calendar", "phone", "payment", "app_launch", "web_search", "file_lookup", "conversation"]
		},
		"confidence": {
			"type": "number",
			"minimum": 0,
			"maximum": 1
		},
		"slots": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	}
}`

// GenAIClient calls the generative backend's intent endpoint. Each call
// carries its own deadline so a slow backend cannot stall routing.
type GenAIClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	schema     *gojsonschema.Schema
}

func NewGenAIClient(baseURL string, timeout time.Duration) (*GenAIClient, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(tier2ResponseSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile intent response schema: %w", err)
	}
	return &GenAIClient{
		baseURL: baseURL,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout + time.Second,
		},
		schema: schema,
	}, nil
}

type parseIntentRequest struct {
	Utterance string `json:"utterance"`
}

type parseIntentResponse struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Slots      map[string]string `json:"slots"`
}

func (c *GenAIClient) Parse(ctx context.Context, utterance string) (*ParsedCommand, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(parseIntentRequest{Utterance: utterance})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal intent request: %w", err)
	}

	url := c.baseURL + "/api/ai/parse-intent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, stderrors.NewClassifierTimeoutError()
		}
		return nil, fmt.Errorf("intent request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read intent response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, stderrors.NewClassificationFailedError(
			fmt.Sprintf("backend returned status %d", resp.StatusCode))
	}

	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, stderrors.NewClassificationFailedError(
			fmt.Sprintf("response is not valid JSON: %v", err))
	}
	if !result.Valid() {
		return nil, stderrors.NewClassificationFailedError(
			fmt.Sprintf("response failed schema validation: %v", result.Errors()))
	}

	var parsed parseIntentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, stderrors.NewClassificationFailedError(
			fmt.Sprintf("failed to decode response: %v", err))
	}

	return &ParsedCommand{
		Intent:     Category(parsed.Intent),
		Confidence: parsed.Confidence,
		Slots:      parsed.Slots,
		Utterance:  utterance,
	}, nil
}
