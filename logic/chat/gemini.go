package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"report-assistant/vars"
)

// GeminiGateway 直接使用 genai SDK，eino 没有对应的 Gemini API Key 组件
type GeminiGateway struct {
	client    *genai.Client
	modelName string
}

func NewGeminiGateway(ctx context.Context, apiKey, modelName string) (*GeminiGateway, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGateway{client: client, modelName: modelName}, nil
}

func (g *GeminiGateway) Model() string {
	return g.modelName
}

func (g *GeminiGateway) Complete(ctx context.Context, call Call) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(call.Prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(call.System, genai.RoleUser),
		Temperature:       genai.Ptr(call.Temperature),
		MaxOutputTokens:   int32(call.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%s %s completion: %w", vars.ProviderGemini, call.Name, err)
	}
	return strings.TrimSpace(result.Text()), nil
}
