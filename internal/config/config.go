// config предоставляет структуру конфигурации news-facade
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Поддерживаемые апстрим-провайдеры новостей.
const (
	ProviderNewsAPI  = "newsapi"
	ProviderNewsData = "newsdata"
)

// Config: корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	Provider  ProviderConfig  `yaml:"provider"`
	Limits    LimitsConfig    `yaml:"limits"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// HTTPConfig: публичный REST-сервер.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50086"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// ProviderConfig: параметры внешнего новостного API.
//
// Ключ API никогда не хранится в исходниках: только YAML/ENV.
type ProviderConfig struct {
	// Kind: newsapi (NewsAPI.org) или newsdata (newsdata.io).
	Kind string `yaml:"kind" env:"NEWS_PROVIDER" env-default:"newsapi"`
	// BaseURL: пустое значение означает публичный адрес выбранного провайдера.
	BaseURL  string `yaml:"base_url" env:"NEWS_API_BASE_URL"`
	APIKey   string `yaml:"api_key" env:"NEWS_API_KEY" env-required:"true"`
	Language string `yaml:"language" env:"NEWS_LANGUAGE" env-default:"en"`
	// Country: страна по умолчанию для запросов заголовков.
	Country string `yaml:"country" env:"NEWS_COUNTRY" env-default:"us"`
}

// LimitsConfig: границы размера выдачи.
type LimitsConfig struct {
	// Применяется при запросе с page_size<=0.
	DefaultPageSize int `yaml:"default_page_size" env:"DEFAULT_PAGE_SIZE" env-default:"12"`
	// Верхняя граница для page_size.
	MaxPageSize int `yaml:"max_page_size" env:"MAX_PAGE_SIZE" env-default:"100"`
}

// TimeoutConfig: таймауты сервиса.
type TimeoutConfig struct {
	// Service: общий дедлайн обработки HTTP-запроса.
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"15s"`
	// Upstream: дедлайн одного запроса к новостному API.
	Upstream time.Duration `yaml:"upstream" env:"UPSTREAM_TIMEOUT" env-default:"10s"`
}

// RateLimitConfig: ограничение частоты запросов на клиентский IP.
// RPS <= 0 отключает лимитер.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"10"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`

	// TrustForwarded: брать IP клиента из X-Forwarded-For.
	// Включать только за доверенным прокси, который перезаписывает заголовок.
	TrustForwarded bool `yaml:"trust_forwarded" env:"RATE_LIMIT_TRUST_FORWARDED" env-default:"false"`
}

// MustLoad: обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cfg.validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if path != "" {
		return tryRead(path)
	}

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate: базовая валидация значений.
func (c *Config) validate() error {
	switch c.Provider.Kind {
	case ProviderNewsAPI, ProviderNewsData:
	default:
		return fmt.Errorf("provider.kind must be %q or %q, got %q", ProviderNewsAPI, ProviderNewsData, c.Provider.Kind)
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required")
	}
	if c.Provider.BaseURL != "" {
		u, err := url.Parse(c.Provider.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("provider.base_url must be an absolute http(s) URL")
		}
	}
	if c.Limits.DefaultPageSize <= 0 {
		return fmt.Errorf("limits.default_page_size must be > 0")
	}
	if c.Limits.MaxPageSize <= 0 {
		return fmt.Errorf("limits.max_page_size must be > 0")
	}
	if c.Limits.DefaultPageSize > c.Limits.MaxPageSize {
		return fmt.Errorf("limits.default_page_size must be <= limits.max_page_size")
	}
	if c.Timeouts.Upstream <= 0 {
		return fmt.Errorf("timeouts.upstream must be > 0")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.burst must be > 0 when rate_limit.rps is set")
	}
	return nil
}
