package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Config holds OpenAI analyzer configuration.
type Config struct {
	APIKey string `env:"OPENAI_API_KEY,required"`
	Model  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

var ErrEmptyResponse = errors.New("ai model returned no choices")

// OpenAIAnalyzer implements Analyzer using a vision-capable chat model.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
}

// NewOpenAIAnalyzer creates an analyzer from config.
func NewOpenAIAnalyzer(cfg Config) (*OpenAIAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai: OpenAI API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAnalyzer{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

const analysisPrompt = `You are an expert industrial maintenance engineer analyzing equipment inspection photos.

Asset information:
- Type: %s
- Name: %s

Analyze the image and respond with ONLY a JSON object of this shape:
{
  "overallCondition": "excellent|good|fair|poor|critical",
  "conditionScore": 0-100,
  "detectedIssues": [{"type": "corrosion|wear|leak|crack|misalignment|contamination|other", "severity": "minor|moderate|major|critical", "description": "...", "location": "...", "confidence": 0-100}],
  "recommendations": ["..."],
  "urgency": "low|medium|high|critical",
  "safetyRisks": ["..."]
}
Be specific and technical. Focus on actionable insights.`

// AnalyzeImage sends the photo to the model and decodes its JSON assessment.
func (a *OpenAIAnalyzer) AnalyzeImage(ctx context.Context, image []byte, assetType, assetName string) (*ConditionReport, error) {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: fmt.Sprintf(analysisPrompt, assetType, assetName),
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ai analysis request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	// Models occasionally wrap JSON in a code fence despite instructions.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var report ConditionReport
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &report); err != nil {
		return nil, fmt.Errorf("decode ai assessment: %w", err)
	}
	return &report, nil
}
