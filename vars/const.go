package vars

import (
	"os"
)

// GetEnv 获取环境变量，如果不存在则返回默认值
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

const (
	ServiceName    = "AI Powered Company Report Assistant"
	ServiceVersion = "1.0.0"

	// 模型提供方
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"

	// 默认模型
	GPT4oMini   = "gpt-4o-mini"
	Gemini25    = "gemini-2.5-flash"
	QWEN3B      = "qwen2.5:3b"
	OllamaLocal = "http://localhost:11434"

	// PDF 解析引擎
	EngineLedongthuc = "ledongthuc"
	EngineEino       = "eino"

	// 报告内容最少字符数（去掉首尾空白后）
	MinReportChars = 100

	// 各个 prompt 的截断预算（按字符计），互相独立
	MetricsContentBudget = 8000
	SummaryContentBudget = 4000
	ReviewContentBudget  = 4000

	// 每类调用的固定采样参数
	MetricsTemperature = 0.0
	MetricsMaxTokens   = 1000
	SummaryTemperature = 0.2
	SummaryMaxTokens   = 200
	ReviewTemperature  = 0.3
	ReviewMaxTokens    = 300

	// 健康分
	HealthBaseScore = 50

	// 解析失败时 metrics 中的标记
	ParseErrorKey     = "error"
	ParseErrorMessage = "Failed to parse AI response"
)

// 环境变量名
const (
	EnvConfigFile   = "CONFIG_FILE"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvProvider     = "LLM_PROVIDER"
	EnvModel        = "LLM_MODEL"
	EnvBaseURL      = "LLM_BASE_URL"
	EnvPort         = "PORT"
	EnvDatabaseURL  = "DATABASE_URL"
	EnvLogLevel     = "LOG_LEVEL"
	DefaultConfig   = "config.yaml"
	DefaultAddr     = ":8000"
	DefaultSchedule = "0 3 * * *"
)
