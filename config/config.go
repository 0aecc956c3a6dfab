package config

import (
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName      string `env:"HM_APP_NAME" envDefault:"holomate"`
	AppEnv       string `env:"HM_APP_ENV" envDefault:"local"`
	HTTPHost     string `env:"HM_HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort     string `env:"HM_HTTP_PORT" envDefault:"8080"`
	HTTPBasePath string `env:"HM_HTTP_BASE_PATH" envDefault:"/api/v1"`

	DBHost     string `env:"HM_DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"HM_DB_PORT" envDefault:"5432"`
	DBUser     string `env:"HM_DB_USER" envDefault:"app"`
	DBPassword string `env:"HM_DB_PASSWORD" envDefault:"app_password"`
	DBName     string `env:"HM_DB_NAME" envDefault:"holomate"`
	DBSSLMode  string `env:"HM_DB_SSLMODE" envDefault:"disable"`

	JWTSecret         string        `env:"HM_JWT_SECRET"`
	JWTAlgorithm      string        `env:"HM_JWT_ALGORITHM" envDefault:"HS256"`
	AccessTTL         time.Duration `env:"HM_JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL        time.Duration `env:"HM_JWT_REFRESH_TTL" envDefault:"168h"`
	RevocationEnabled bool          `env:"HM_REVOCATION_ENABLED" envDefault:"true"`

	// Comma-separated. Exact paths bypass auth entirely; prefixes match
	// any path underneath them.
	ExemptPaths    []string `env:"HM_AUTH_EXEMPT_PATHS" envSeparator:"," envDefault:"/health,/auth/register,/auth/login,/auth/refresh"`
	ExemptPrefixes []string `env:"HM_AUTH_EXEMPT_PREFIXES" envSeparator:"," envDefault:"/docs"`

	NATSURL               string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSVerifySubject     string `env:"NATS_SUBJECT_VERIFY_JWT" envDefault:"auth.verifyJWT"`
	NATSUserCreateSubject string `env:"NATS_SUBJECT_USER_CREATED" envDefault:"user.created"`

	RedisAddr       string        `env:"HM_REDIS_ADDR" envDefault:"localhost:6379"`
	PresenceTTL     time.Duration `env:"HM_PRESENCE_TTL" envDefault:"90s"`
	AIEngineURL     string        `env:"HM_AI_ENGINE_URL"`
	AIEngineTimeout time.Duration `env:"HM_AI_ENGINE_TIMEOUT" envDefault:"10s"`

	StreamSessionTTL time.Duration `env:"HM_STREAM_SESSION_TTL" envDefault:"1h"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.trimLists()
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) trimLists() {
	c.ExemptPaths = trimAll(c.ExemptPaths)
	c.ExemptPrefixes = trimAll(c.ExemptPrefixes)
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
