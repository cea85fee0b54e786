package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"report-assistant/config"
	"report-assistant/vars"
)

//go:generate mockgen -source=gateway.go -destination=mock_gateway.go -package=chat

// Call 一次补全请求：系统指令、用户 prompt 和本次调用的采样参数
type Call struct {
	Name        string // metrics / summary / review，只用于日志和报错
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Gateway 调用大模型的唯一入口，启动时创建一次，所有请求共用
type Gateway interface {
	Complete(ctx context.Context, call Call) (string, error)
	Model() string
}

// EinoGateway 通过 eino 的 ChatModel 接口访问 openai / ollama
type EinoGateway struct {
	provider  string
	modelName string
	chatModel model.BaseChatModel
}

func NewEinoGateway(provider, modelName string, cm model.BaseChatModel) *EinoGateway {
	return &EinoGateway{provider: provider, modelName: modelName, chatModel: cm}
}

func (g *EinoGateway) Model() string {
	return g.modelName
}

func (g *EinoGateway) Complete(ctx context.Context, call Call) (string, error) {
	resp, err := g.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(call.System),
		schema.UserMessage(call.Prompt),
	},
		model.WithTemperature(call.Temperature),
		model.WithMaxTokens(call.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%s %s completion: %w", g.provider, call.Name, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%s %s completion: empty response", g.provider, call.Name)
	}
	return strings.TrimSpace(resp.Content), nil
}

// limitedGateway 所有请求共享一个令牌桶
type limitedGateway struct {
	Gateway
	limiter *rate.Limiter
}

func (g *limitedGateway) Complete(ctx context.Context, call Call) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait for %s: %w", call.Name, err)
	}
	return g.Gateway.Complete(ctx, call)
}

// WithRateLimit 按每分钟请求数限流，rpm <= 0 时原样返回
func WithRateLimit(g Gateway, rpm, burst int) Gateway {
	if rpm <= 0 {
		return g
	}
	if burst <= 0 {
		burst = 1
	}
	return &limitedGateway{
		Gateway: g,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
	}
}

// New 根据配置创建网关
func New(ctx context.Context, cfg config.LLMConfig) (Gateway, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	var gw Gateway
	switch cfg.Provider {
	case "", vars.ProviderOpenAI:
		cm, err := CreateOpenAIChatModel(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model, timeout)
		if err != nil {
			return nil, err
		}
		gw = NewEinoGateway(vars.ProviderOpenAI, cfg.Model, cm)
	case vars.ProviderOllama:
		cm, err := CreateOllamaChatModel(ctx, cfg.BaseURL, cfg.Model, timeout)
		if err != nil {
			return nil, err
		}
		gw = NewEinoGateway(vars.ProviderOllama, cfg.Model, cm)
	case vars.ProviderGemini:
		g, err := NewGeminiGateway(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		gw = g
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	return WithRateLimit(gw, cfg.RPM, cfg.Burst), nil
}
