package config

import (
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/vitos/crypto_trader_ai/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath = "config/config.yaml"
	EnvPrefix   = "CRYPTOTRADER"
)

type Config struct {
	Server struct {
		Port int `yaml:"port" envconfig:"PORT"`
	} `yaml:"server" envconfig:"SERVER"`

	Analysis struct {
		WebhookURL         string        `yaml:"webhook_url" envconfig:"WEBHOOK_URL"`
		Timeout            time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
		UseResponsePayload bool          `yaml:"use_response_payload" envconfig:"USE_RESPONSE_PAYLOAD"`
	} `yaml:"analysis" envconfig:"ANALYSIS"`

	Catalog struct {
		Driver string `yaml:"driver" envconfig:"DRIVER"`
		DSN    string `yaml:"dsn" envconfig:"DSN"`
	} `yaml:"catalog" envconfig:"CATALOG"`

	Logging struct {
		Level string `yaml:"level" envconfig:"LEVEL"`
		File  string `yaml:"file" envconfig:"FILE"`
	} `yaml:"logging" envconfig:"LOGGING"`

	Session struct {
		IdleTTL time.Duration `yaml:"idle_ttl" envconfig:"IDLE_TTL"`
	} `yaml:"session" envconfig:"SESSION"`

	QuickPicks []string `yaml:"quick_picks" envconfig:"QUICK_PICKS"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Analysis.WebhookURL = "https://n8n.datascienceforbusinessia.com:8445/webhook/CryptoTraderAI"
	cfg.Analysis.Timeout = 10 * time.Second
	cfg.Catalog.Driver = "memory"
	cfg.Logging.Level = "info"
	cfg.Session.IdleTTL = 30 * time.Minute
	cfg.QuickPicks = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT", "ADAUSDT", "DOTUSDT"}
	return cfg
}

// Load layers defaults, the yaml file at path (skipped if missing), .env
// and CRYPTOTRADER_* environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return errors.Wrapf(err, "decode config %s", path)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("server.port %d out of range", c.Server.Port)
	}

	u, err := url.Parse(c.Analysis.WebhookURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("analysis.webhook_url %q is not an absolute URL", c.Analysis.WebhookURL)
	}
	if c.Analysis.Timeout <= 0 {
		return errors.Errorf("analysis.timeout must be positive, got %s", c.Analysis.Timeout)
	}

	switch c.Catalog.Driver {
	case "memory", "sqlite":
	default:
		return errors.Errorf("catalog.driver %q is not one of memory, sqlite", c.Catalog.Driver)
	}

	if c.Session.IdleTTL <= 0 {
		return errors.Errorf("session.idle_ttl must be positive, got %s", c.Session.IdleTTL)
	}

	for i, pick := range c.QuickPicks {
		symbol, err := domain.ValidateSymbol(pick)
		if err != nil {
			return errors.Wrapf(err, "quick_picks[%d]", i)
		}
		c.QuickPicks[i] = symbol.String()
	}
	return nil
}

// QuickPickSymbols returns the validated quick picks.
func (c *Config) QuickPickSymbols() []domain.TradingPairSymbol {
	out := make([]domain.TradingPairSymbol, 0, len(c.QuickPicks))
	for _, pick := range c.QuickPicks {
		if symbol, err := domain.ValidateSymbol(pick); err == nil {
			out = append(out, symbol)
		}
	}
	return out
}
