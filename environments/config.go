package environments

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Webhook  WebhookConfig
	Dispatch DispatchConfig
	Supabase SupabaseConfig
	Monitor  MonitorConfig
}

type ServerConfig struct {
	Port        string
	LogLevel    string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Driver      string
	URL         string
	AutoMigrate bool
}

type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	ProfileTTL time.Duration
}

// WebhookConfig is the immutable configuration of the outbound workflow-engine
// webhook. It is read once at startup and handed to the webhook client.
type WebhookConfig struct {
	URL         string
	Secret      string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

// Budget is the longest a webhook dispatch can take: every attempt timing
// out plus the waits between them. Zero values count as the client defaults.
func (w WebhookConfig) Budget() time.Duration {
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := w.MaxAttempts
	if attempts <= 0 {
		attempts = 2
	}
	delay := w.RetryDelay
	if delay < 0 {
		delay = 0
	}
	return time.Duration(attempts)*timeout + time.Duration(attempts-1)*delay
}

type DispatchConfig struct {
	Timeout time.Duration
}

// dispatchMargin is the headroom left for resolving and staging on top of
// the webhook budget.
const dispatchMargin = 5 * time.Second

type SupabaseConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	JWTSecret      string
	JWKSURL        string
	JWKSMinRefresh time.Duration
}

type MonitorConfig struct {
	ViewerBuffer int
}

func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("PORT", "3000")
	_ = v.BindEnv("PORT", "PORT", "SERVER_PORT")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGIN", "*")

	v.SetDefault("DB_DRIVER", "pgx")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PROFILE_CACHE_TTL_SECONDS", 300)

	v.SetDefault("N8N_WEBHOOK_URL", "")
	v.SetDefault("N8N_HMAC_SECRET", "")
	v.SetDefault("N8N_TIMEOUT_SECONDS", 10)
	v.SetDefault("N8N_MAX_ATTEMPTS", 2)
	v.SetDefault("N8N_RETRY_DELAY_MS", 1000)
	v.SetDefault("DISPATCH_TIMEOUT_SECONDS", 30)

	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_ANON_KEY", "")
	v.SetDefault("SUPABASE_SERVICE_ROLE_KEY", "")
	v.SetDefault("SUPABASE_JWT_SECRET", "")
	v.SetDefault("SUPABASE_JWKS_URL", "")
	v.SetDefault("JWKS_MIN_REFRESH_SECONDS", 12)

	v.SetDefault("MONITOR_VIEWER_BUFFER", 16)

	supabaseURL := strings.TrimRight(v.GetString("SUPABASE_URL"), "/")
	jwksURL := v.GetString("SUPABASE_JWKS_URL")
	if jwksURL == "" && supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGIN")),
		},
		Database: DatabaseConfig{
			Driver:      v.GetString("DB_DRIVER"),
			URL:         v.GetString("DATABASE_URL"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:       v.GetString("REDIS_HOST"),
			Port:       v.GetString("REDIS_PORT"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			ProfileTTL: time.Duration(v.GetInt("PROFILE_CACHE_TTL_SECONDS")) * time.Second,
		},
		Webhook: WebhookConfig{
			URL:         v.GetString("N8N_WEBHOOK_URL"),
			Secret:      v.GetString("N8N_HMAC_SECRET"),
			Timeout:     time.Duration(v.GetInt("N8N_TIMEOUT_SECONDS")) * time.Second,
			MaxAttempts: v.GetInt("N8N_MAX_ATTEMPTS"),
			RetryDelay:  time.Duration(v.GetInt("N8N_RETRY_DELAY_MS")) * time.Millisecond,
		},
		Dispatch: DispatchConfig{
			Timeout: time.Duration(v.GetInt("DISPATCH_TIMEOUT_SECONDS")) * time.Second,
		},
		Supabase: SupabaseConfig{
			URL:            supabaseURL,
			AnonKey:        v.GetString("SUPABASE_ANON_KEY"),
			ServiceRoleKey: v.GetString("SUPABASE_SERVICE_ROLE_KEY"),
			JWTSecret:      v.GetString("SUPABASE_JWT_SECRET"),
			JWKSURL:        jwksURL,
			JWKSMinRefresh: time.Duration(v.GetInt("JWKS_MIN_REFRESH_SECONDS")) * time.Second,
		},
		Monitor: MonitorConfig{
			ViewerBuffer: v.GetInt("MONITOR_VIEWER_BUFFER"),
		},
	}

	// The dispatch deadline must outlast every webhook attempt.
	if floor := cfg.Webhook.Budget() + dispatchMargin; cfg.Dispatch.Timeout < floor {
		cfg.Dispatch.Timeout = floor
	}

	return cfg
}

// Missing lists the required settings that are empty.
func (c *Config) Missing() []string {
	var missing []string
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Webhook.URL == "" {
		missing = append(missing, "N8N_WEBHOOK_URL")
	}
	if c.Webhook.Secret == "" {
		missing = append(missing, "N8N_HMAC_SECRET")
	}
	if c.Supabase.URL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	return missing
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
