package config

import (
	"time"

	"go-news-agent/internal/agent/classifier"
	"go-news-agent/pkg/config"
)

// FeedSource is one configured syndication feed.
type FeedSource struct {
	URL  string `mapstructure:"url"`
	Name string `mapstructure:"name"`
}

// Collector holds ingestion pipeline configuration.
type Collector struct {
	Sources          []FeedSource  `mapstructure:"sources"`
	PerSourceLimit   int           `mapstructure:"per_source_limit"`
	FetchFullContent bool          `mapstructure:"fetch_full_content"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
}

// Enrichment holds enrichment pipeline configuration.
type Enrichment struct {
	Limit int           `mapstructure:"limit"`
	Delay time.Duration `mapstructure:"delay"`
}

// Ollama holds the configuration for the local inference service.
type Ollama struct {
	BaseURL             string        `mapstructure:"base_url"`
	Model               string        `mapstructure:"model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Temperature         float64       `mapstructure:"temperature"`
	TopK                int           `mapstructure:"top_k"`
	TopP                float64       `mapstructure:"top_p"`
}

// Gemini holds the configuration for the Gemini API provider.
type Gemini struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
}

// AI selects the inference provider.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Scheduler holds cron configuration for unattended pipeline runs.
type Scheduler struct {
	Enabled     bool   `mapstructure:"enabled"`
	CollectCron string `mapstructure:"collect_cron"`
	EnrichCron  string `mapstructure:"enrich_cron"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the news agent.
type Config struct {
	App        config.App       `mapstructure:"app"`
	Logger     config.Logger    `mapstructure:"logger"`
	Database   config.Database  `mapstructure:"database"`
	API        config.API       `mapstructure:"api"`
	Collector  Collector        `mapstructure:"collector"`
	Enrichment Enrichment       `mapstructure:"enrichment"`
	Ollama     Ollama           `mapstructure:"ollama"`
	Gemini     Gemini           `mapstructure:"gemini"`
	AI         AI               `mapstructure:"ai"`
	Classifier classifier.Rules `mapstructure:"classifier"`
	Scheduler  Scheduler        `mapstructure:"scheduler"`
	Telegram   Telegram         `mapstructure:"telegram"`
}

// Load loads the agent configuration from the given path and fills in
// defaults for values the file leaves out.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "news_agent.db"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.Collector.PerSourceLimit <= 0 {
		cfg.Collector.PerSourceLimit = 3
	}
	if cfg.Collector.RequestTimeout <= 0 {
		cfg.Collector.RequestTimeout = 30 * time.Second
	}
	if cfg.Enrichment.Limit <= 0 {
		cfg.Enrichment.Limit = 5
	}
	if cfg.Enrichment.Delay <= 0 {
		cfg.Enrichment.Delay = time.Second
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = "http://localhost:11434"
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = "llama3.1:8b"
	}
	if cfg.Ollama.Timeout <= 0 {
		cfg.Ollama.Timeout = 2 * time.Minute
	}
	if cfg.Ollama.MaxRequestPerMinute <= 0 {
		cfg.Ollama.MaxRequestPerMinute = 60
	}
	if cfg.Ollama.Temperature == 0 {
		cfg.Ollama.Temperature = 0.2
	}
	if cfg.Ollama.TopK == 0 {
		cfg.Ollama.TopK = 40
	}
	if cfg.Ollama.TopP == 0 {
		cfg.Ollama.TopP = 0.9
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.0-flash"
	}
	if cfg.Gemini.Temperature == 0 {
		cfg.Gemini.Temperature = 0.2
	}
	if cfg.Gemini.TopP == 0 {
		cfg.Gemini.TopP = 0.9
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "ollama"
	}
}
