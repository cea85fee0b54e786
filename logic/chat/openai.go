package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// CreateOpenAIChatModel baseURL 为空时使用官方地址
func CreateOpenAIChatModel(ctx context.Context, baseURL, apiKey, modelName string, timeout time.Duration) (model.ToolCallingChatModel, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key not configured")
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   modelName,
		Timeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create openai chat model failed: %w", err)
	}
	return chatModel, nil
}
