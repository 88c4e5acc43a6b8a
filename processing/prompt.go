package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// PromptRewrite represents the JSON response from OpenAI
type PromptRewrite struct {
	Prompt string `json:"prompt" jsonschema_description:"The rewritten, richly visual video generation prompt"`
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

// promptRewriteSchema is the cached schema
var promptRewriteSchema = GenerateSchema[PromptRewrite]()

// EnhancePrompt calls OpenAI to rewrite a user's raw idea into a
// denser, more visual prompt for the inference service. The genre
// steers tone and imagery.
func EnhancePrompt(ctx context.Context, prompt, genre string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	instruction := fmt.Sprintf(`You are improving a prompt for an AI video generator.

Genre: %s
User's idea: %s

Rewrite the idea as a single, vivid video generation prompt. The prompt should:
- Keep the user's subject and intent intact
- Add concrete visual detail (setting, lighting, movement)
- Match the tone of the genre
- Be under 400 characters

Respond in JSON format with this structure:
{
  "prompt": "your rewritten prompt here"
}`, genre, prompt)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "prompt_rewrite",
		Description: openai.String("A rewritten video generation prompt"),
		Schema:      promptRewriteSchema,
		Strict:      openai.Bool(true),
	}

	chatCompletion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(instruction),
		},
		Model: openai.ChatModelGPT4oMini,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})

	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(chatCompletion.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	rawResponse := chatCompletion.Choices[0].Message.Content
	if rawResponse == "" {
		return "", fmt.Errorf("OpenAI returned empty response. Finish reason: %s", chatCompletion.Choices[0].FinishReason)
	}

	var rewrite PromptRewrite
	if err := json.Unmarshal([]byte(rawResponse), &rewrite); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI JSON response: %w", err)
	}

	rewritten := strings.TrimSpace(rewrite.Prompt)
	if rewritten == "" {
		return "", fmt.Errorf("OpenAI returned empty prompt")
	}

	return rewritten, nil
}

// OpenAIEnhancer adapts EnhancePrompt to the generation package's
// Enhancer interface.
type OpenAIEnhancer struct{}

func (OpenAIEnhancer) Enhance(ctx context.Context, prompt, genre string) (string, error) {
	return EnhancePrompt(ctx, prompt, genre)
}
