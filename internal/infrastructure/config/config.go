package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Redis    RedisConfig
	Session  SessionConfig
	Services ServicesConfig
	VNPay    VNPayConfig
	HTTP     HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig holds session token verification settings
type SessionConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// ServicesConfig holds the upstream storefront service endpoints
type ServicesConfig struct {
	CartBaseURL     string
	CatalogBaseURL  string
	LocationBaseURL string
	ShippingBaseURL string
	OrderBaseURL    string

	QuoteTimeout   time.Duration // shipping fee quote deadline
	PaymentTimeout time.Duration // payment URL creation deadline
	OrderTimeout   time.Duration // order creation deadline
}

// VNPayConfig holds VNPay gateway settings
type VNPayConfig struct {
	TMNCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with SHOP_ prefix (e.g., SHOP_REDIS_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Session: SessionConfig{
			Secret: v.GetString("session.secret"),
			Issuer: v.GetString("session.issuer"),
			TTL:    v.GetDuration("session.ttl"),
		},
		Services: ServicesConfig{
			CartBaseURL:     v.GetString("services.cart_base_url"),
			CatalogBaseURL:  v.GetString("services.catalog_base_url"),
			LocationBaseURL: v.GetString("services.location_base_url"),
			ShippingBaseURL: v.GetString("services.shipping_base_url"),
			OrderBaseURL:    v.GetString("services.order_base_url"),
			QuoteTimeout:    v.GetDuration("services.quote_timeout"),
			PaymentTimeout:  v.GetDuration("services.payment_timeout"),
			OrderTimeout:    v.GetDuration("services.order_timeout"),
		},
		VNPay: VNPayConfig{
			TMNCode:    v.GetString("vnpay.tmn_code"),
			HashSecret: v.GetString("vnpay.hash_secret"),
			PayURL:     v.GetString("vnpay.pay_url"),
			ReturnURL:  v.GetString("vnpay.return_url"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "mobileshop-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Session.Issuer == "" {
		cfg.Session.Issuer = "mobileshop-backend"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 720 * time.Hour
	}
	if cfg.Services.QuoteTimeout == 0 {
		cfg.Services.QuoteTimeout = 10 * time.Second
	}
	if cfg.Services.PaymentTimeout == 0 {
		cfg.Services.PaymentTimeout = 10 * time.Second
	}
	if cfg.Services.OrderTimeout == 0 {
		cfg.Services.OrderTimeout = 30 * time.Second
	}
	if cfg.VNPay.PayURL == "" {
		cfg.VNPay.PayURL = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Services.QuoteTimeout < 0 || c.Services.PaymentTimeout < 0 || c.Services.OrderTimeout < 0 {
		return fmt.Errorf("service timeouts cannot be negative")
	}

	if c.App.Env == "production" {
		if c.Session.Secret == "" {
			return fmt.Errorf("session.secret is required in production")
		}
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 characters in production")
		}
		if c.VNPay.TMNCode == "" || c.VNPay.HashSecret == "" {
			return fmt.Errorf("vnpay.tmn_code and vnpay.hash_secret are required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// Addr returns the Redis connection address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
