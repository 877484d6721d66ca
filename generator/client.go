package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"experience-nv/config"
)

// Client is the genai-backed StructuredGenerator.
type Client struct {
	genai *genai.Client
	model string
}

// New builds a Client from GEMINI_API_KEY and the configured model.
func New(ctx context.Context) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is not set")
	}
	model := config.GetConfig().Gemini.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}
	return &Client{genai: cl, model: model}, nil
}

// ModelName returns the configured model identifier.
func (c *Client) ModelName() string { return c.model }

func (c *Client) contentConfig(systemPrompt string, schema Schema) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema.Def,
	}
}

// GenerateStructured performs a one-shot schema-constrained call and
// decodes the final object.
func (c *Client) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, schema Schema) (*GeneratedSet, Usage, error) {
	result, err := c.genai.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(userPrompt),
		c.contentConfig(systemPrompt, schema),
	)
	if err != nil {
		return nil, Usage{}, err
	}

	var set GeneratedSet
	if err := json.Unmarshal([]byte(result.Text()), &set); err != nil {
		return nil, Usage{}, fmt.Errorf("decoding model response: %w", err)
	}
	return &set, usageOf(result), nil
}

// StreamStructured performs a streaming schema-constrained call. The
// response arrives as raw JSON chunks; after every chunk the
// accumulated buffer is repaired and, when decodable, forwarded via
// onPartial. The fully decoded final object is returned once the
// stream ends. Errors abort the call without retrying.
func (c *Client) StreamStructured(ctx context.Context, systemPrompt, userPrompt string, schema Schema, onPartial func(GeneratedSet)) (*GeneratedSet, Usage, error) {
	var buf strings.Builder
	var last *genai.GenerateContentResponse

	for resp, err := range c.genai.Models.GenerateContentStream(
		ctx,
		c.model,
		genai.Text(userPrompt),
		c.contentConfig(systemPrompt, schema),
	) {
		if err != nil {
			return nil, Usage{}, err
		}
		buf.WriteString(resp.Text())
		last = resp

		if onPartial != nil {
			if set, ok := DecodePartial(buf.String()); ok {
				onPartial(set)
			}
		}
	}

	var set GeneratedSet
	if err := json.Unmarshal([]byte(buf.String()), &set); err != nil {
		return nil, Usage{}, fmt.Errorf("decoding model response: %w", err)
	}
	return &set, usageOf(last), nil
}

func usageOf(resp *genai.GenerateContentResponse) Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return Usage{}
	}
	return Usage{
		InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int64(resp.UsageMetadata.TotalTokenCount),
	}
}
