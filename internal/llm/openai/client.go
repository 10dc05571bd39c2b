package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/quoteflow-app/quoteflow/constants"
	"github.com/quoteflow-app/quoteflow/internal/common"
	"github.com/quoteflow-app/quoteflow/internal/extraction"
	"github.com/quoteflow-app/quoteflow/internal/llm"
)

// ExtractDocument implements llm.DocumentExtractor over chat/completions,
// attaching the image as a base64 data URL when one is supplied. Transport
// and parse failures come back as a VisionResult with success=false and a
// human-readable error; the returned error carries the cause for logging.
func (c *Client) ExtractDocument(ctx context.Context, req llm.ExtractRequest) (*extraction.VisionResult, []byte, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()
	hasImage := len(req.Image) > 0

	model := c.cfg.Model
	if hasImage {
		model = c.cfg.VisionModel
	}

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", model,
		"temp", c.temperature(req),
		"text_len", len(req.Text),
		"has_image", hasImage,
		"doc_type_hint", string(req.DocTypeHint),
	)

	schema := llm.BuildDocumentJSONSchema()
	sys := llm.BuildSystemPrompt(req)
	user := llm.BuildUserPrompt(req, hasImage)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: sys},
	}
	if hasImage {
		mime := req.ImageMIME
		if mime == "" {
			mime = http.DetectContentType(req.Image)
		}
		dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(req.Image))
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: user},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
			},
		})
	} else {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: user + "\n\nReturn ONLY JSON that matches the provided schema.",
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: "JSON Schema:\n" + mustJSON(schema),
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: c.temperature(req),
		MaxTokens:   c.maxTokens(req),
		Messages:    messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return failureShell(req, "The document service is unavailable right now"), nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return failureShell(req, "The model returned an empty response"), nil, fmt.Errorf("no choices in openai response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	rawContent := []byte(content)

	// Validate strictly first; optionally sanitize optional offenders and retry.
	if err := llm.ValidateJSONAgainstSchema(schema, rawContent); err != nil {
		if c.cfg.LenientOptional {
			cleaned, dropped, sErr := llm.SanitizeOptionalFields(rawContent)
			if sErr == nil {
				if vErr := llm.ValidateJSONAgainstSchema(schema, cleaned); vErr == nil {
					c.logger.Warn("llm.extract.lenient_sanitize_applied",
						"req_id", rid, "dropped", dropped,
						"elapsed_ms", time.Since(start).Milliseconds(),
					)
					rawContent = cleaned
					err = nil
				}
			}
		}
		if err != nil {
			c.logger.Error("llm.extract.schema_validation_failed",
				"req_id", rid, "error", err,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			shell := failureShell(req, "The model response could not be understood")
			shell.RawText = content
			return shell, rawContent, fmt.Errorf("schema validation failed: %w", err)
		}
	}

	res, notes, decErr := extraction.Decode(rawContent)
	if decErr != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", decErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return res, rawContent, decErr
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"success", res.Success,
		"doc_type", string(res.DocumentType),
		"confidence", res.Confidence,
		"missing_fields", len(res.MissingFields),
		"decode_notes", len(notes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, rawContent, nil
}

func (c *Client) temperature(req llm.ExtractRequest) float32 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return c.cfg.Temperature
}

func (c *Client) maxTokens(req llm.ExtractRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return c.cfg.MaxTokens
}

func failureShell(req llm.ExtractRequest, msg string) *extraction.VisionResult {
	dt := req.DocTypeHint
	if dt == "" {
		dt = constants.DocTypeUnknown
	}
	return &extraction.VisionResult{
		Success:       false,
		DocumentType:  dt,
		MissingFields: []string{},
		Error:         msg,
	}
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
