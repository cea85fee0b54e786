package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"report-assistant/vars"
)

// Config 项目配置结构体
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	LLM        LLMConfig        `yaml:"llm"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	PDF        PDFConfig        `yaml:"pdf"`
	Guidelines GuidelinesConfig `yaml:"guidelines"`
	DB         DBConfig         `yaml:"db"`
	History    HistoryConfig    `yaml:"history"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
	MaxUploadMB int      `yaml:"max_upload_mb"`
}

// LLMConfig 模型网关配置
type LLMConfig struct {
	Provider       string `yaml:"provider"` // openai|ollama|gemini
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	RPM            int    `yaml:"rpm"` // 0 表示不限流
	Burst          int    `yaml:"burst"`
}

type AnalysisConfig struct {
	Review             bool `yaml:"review"`
	CallTimeoutSeconds int  `yaml:"call_timeout_seconds"`
}

type PDFConfig struct {
	Engine string `yaml:"engine"` // ledongthuc|eino
}

// GuidelinesConfig 请求未携带 guidelines 时使用的默认文件
type GuidelinesConfig struct {
	DefaultPath string `yaml:"default_path"`
}

// DBConfig dsn 为空时使用内存存储
type DBConfig struct {
	DSN string `yaml:"dsn"`
}

type HistoryConfig struct {
	RetentionDays int    `yaml:"retention_days"`
	PurgeSchedule string `yaml:"purge_schedule"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load 读取 .env 与 YAML 配置；配置文件不存在时全部使用默认值
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := vars.GetEnv(vars.EnvConfigFile, vars.DefaultConfig)
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFile 只解析 YAML，不处理环境变量和默认值
func LoadFile(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.LLM.Provider = vars.GetEnv(vars.EnvProvider, c.LLM.Provider)
	c.LLM.Model = vars.GetEnv(vars.EnvModel, c.LLM.Model)
	c.LLM.BaseURL = vars.GetEnv(vars.EnvBaseURL, c.LLM.BaseURL)
	c.DB.DSN = vars.GetEnv(vars.EnvDatabaseURL, c.DB.DSN)
	c.Log.Level = vars.GetEnv(vars.EnvLogLevel, c.Log.Level)
	if port := os.Getenv(vars.EnvPort); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}

	// 环境变量中的密钥优先于配置文件
	switch strings.ToLower(c.LLM.Provider) {
	case "", vars.ProviderOpenAI:
		c.LLM.APIKey = vars.GetEnv(vars.EnvOpenAIKey, c.LLM.APIKey)
	case vars.ProviderGemini:
		c.LLM.APIKey = vars.GetEnv(vars.EnvGeminiKey, c.LLM.APIKey)
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = vars.DefaultAddr
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 32
	}

	c.LLM.Provider = strings.ToLower(c.LLM.Provider)
	if c.LLM.Provider == "" {
		c.LLM.Provider = vars.ProviderOpenAI
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case vars.ProviderGemini:
			c.LLM.Model = vars.Gemini25
		case vars.ProviderOllama:
			c.LLM.Model = vars.QWEN3B
		default:
			c.LLM.Model = vars.GPT4oMini
		}
	}
	if c.LLM.Provider == vars.ProviderOllama && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = vars.OllamaLocal
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.LLM.RPM > 0 && c.LLM.Burst <= 0 {
		c.LLM.Burst = 1
	}

	if c.Analysis.CallTimeoutSeconds <= 0 {
		c.Analysis.CallTimeoutSeconds = 120
	}

	c.PDF.Engine = strings.ToLower(c.PDF.Engine)
	if c.PDF.Engine == "" {
		c.PDF.Engine = vars.EngineLedongthuc
	}

	if c.History.RetentionDays <= 0 {
		c.History.RetentionDays = 30
	}
	if c.History.PurgeSchedule == "" {
		c.History.PurgeSchedule = vars.DefaultSchedule
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case vars.ProviderOpenAI:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("OpenAI API key is required (set %s or llm.api_key)", vars.EnvOpenAIKey)
		}
	case vars.ProviderGemini:
		if c.LLM.APIKey == "" {
			return fmt.Errorf("Gemini API key is required (set %s or llm.api_key)", vars.EnvGeminiKey)
		}
	case vars.ProviderOllama:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	switch c.PDF.Engine {
	case vars.EngineLedongthuc, vars.EngineEino:
	default:
		return fmt.Errorf("unknown pdf engine %q", c.PDF.Engine)
	}
	return nil
}
