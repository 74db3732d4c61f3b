package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	API struct {
		Secret string `yaml:"secret"`
	} `yaml:"api"`
	TradingView struct {
		BaseURL        string        `yaml:"base_url"`
		Timeout        time.Duration `yaml:"timeout"`
		CallsPerSecond float64       `yaml:"calls_per_second"`
		CacheTTL       time.Duration `yaml:"cache_ttl"`
		CacheFile      string        `yaml:"cache_file"`
	} `yaml:"tradingview"`
	MarketData struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"market_data"`
	Analysis struct {
		Workers          int           `yaml:"workers"`
		TopN             int           `yaml:"top_n"`
		BestN            int           `yaml:"best_n"`
		ResolverCacheTTL time.Duration `yaml:"resolver_cache_ttl"`
		TopStocks        []string      `yaml:"top_stocks"`
		TopCryptos       []string      `yaml:"top_cryptos"`
		WalletStocks     []string      `yaml:"wallet_stocks"`
		WalletCryptos    []string      `yaml:"wallet_cryptos"`
		Risk             struct {
			StopLossPercent float64 `yaml:"stop_loss_percent"`
			RiskRewardRatio float64 `yaml:"risk_reward_ratio"`
			ATRMultiplier   float64 `yaml:"atr_multiplier"`
			ATRRiskReward   float64 `yaml:"atr_risk_reward"`
		} `yaml:"risk"`
	} `yaml:"analysis"`
	Schedule struct {
		Times        []string      `yaml:"times"`
		MisfireGrace time.Duration `yaml:"misfire_grace"`
		RunOnStart   bool          `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken       string        `yaml:"bot_token"`
		ChatID         int64         `yaml:"chat_id"`
		MessageLogFile string        `yaml:"message_log_file"`
		RetryBackoff   time.Duration `yaml:"retry_backoff"`
	} `yaml:"telegram"`
	Email struct {
		Enabled   bool   `yaml:"enabled"`
		SMTPHost  string `yaml:"smtp_host"`
		SMTPPort  int    `yaml:"smtp_port"`
		Address   string `yaml:"address"`
		Password  string `yaml:"password"`
		Recipient string `yaml:"recipient"`
	} `yaml:"email"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		Database    string        `yaml:"database"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout"`
		ReadTimeout time.Duration `yaml:"read_timeout"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv("API_KEY"); v != "" {
		c.API.Secret = v
	}
	if v := os.Getenv("TRADINGVIEW_BASE_URL"); v != "" {
		c.TradingView.BaseURL = v
	}
	if v := os.Getenv("TRADINGVIEW_CACHE_FILE"); v != "" {
		c.TradingView.CacheFile = v
	}
	if v := os.Getenv("EMAIL_ENABLED"); v != "" {
		c.Email.Enabled = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("EMAIL_ADDRESS"); v != "" {
		c.Email.Address = v
	}
	if v := os.Getenv("EMAIL_PASSWORD"); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv("EMAIL_RECIPIENT"); v != "" {
		c.Email.Recipient = v
	}
	if v := os.Getenv("TOP_STOCKS"); v != "" {
		c.Analysis.TopStocks = strings.Split(v, ",")
	}
	if v := os.Getenv("TOP_CRYPTOS"); v != "" {
		c.Analysis.TopCryptos = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.TradingView.BaseURL == "" {
		c.TradingView.BaseURL = "https://scanner.tradingview.com"
	}
	if c.TradingView.Timeout == 0 {
		c.TradingView.Timeout = 15 * time.Second
	}
	if c.TradingView.CallsPerSecond == 0 {
		c.TradingView.CallsPerSecond = 2
	}
	if c.TradingView.CacheTTL == 0 {
		c.TradingView.CacheTTL = time.Hour
	}
	if c.TradingView.CacheFile == "" {
		c.TradingView.CacheFile = "data/analysis_cache.json"
	}
	if c.MarketData.BaseURL == "" {
		c.MarketData.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.MarketData.Timeout == 0 {
		c.MarketData.Timeout = 15 * time.Second
	}
	if c.Analysis.Workers == 0 {
		c.Analysis.Workers = 10
	}
	if c.Analysis.TopN == 0 {
		c.Analysis.TopN = 10
	}
	if c.Analysis.BestN == 0 {
		c.Analysis.BestN = 5
	}
	if c.Analysis.Risk.StopLossPercent == 0 {
		c.Analysis.Risk.StopLossPercent = -0.30
	}
	if c.Analysis.Risk.RiskRewardRatio == 0 {
		c.Analysis.Risk.RiskRewardRatio = 3.0
	}
	if c.Analysis.Risk.ATRMultiplier == 0 {
		c.Analysis.Risk.ATRMultiplier = 1.5
	}
	if c.Analysis.Risk.ATRRiskReward == 0 {
		c.Analysis.Risk.ATRRiskReward = 2.0
	}
	if c.Schedule.MisfireGrace == 0 {
		c.Schedule.MisfireGrace = time.Hour
	}
	if c.Telegram.MessageLogFile == "" {
		c.Telegram.MessageLogFile = "data/telegram_messages.json"
	}
	if c.Telegram.RetryBackoff == 0 {
		c.Telegram.RetryBackoff = 10 * time.Second
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Analysis.TopStocks)+len(c.Analysis.TopCryptos) == 0 {
		return fmt.Errorf("analysis asset lists cannot be empty")
	}
	if c.TradingView.CallsPerSecond < 0 {
		return fmt.Errorf("tradingview.calls_per_second must be non-negative")
	}
	for _, t := range c.Schedule.Times {
		if _, _, err := ParseClock(t); err != nil {
			return fmt.Errorf("schedule.times: %w", err)
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka is enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host required when clickhouse is enabled")
	}
	return nil
}

// ParseClock parses a wall-clock "HH:MM" string.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
