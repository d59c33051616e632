package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Session storage backends.
const (
	StorageRedis = "redis"
	StorageMongo = "mongo"
	StorageBolt  = "bolt"
)

type Config struct {
	AppName  string `env:"APP_NAME,  default=Girumdom Portal"`
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// LandingPath is where unauthenticated visitors of protected views are sent.
	LandingPath string `env:"PUBLIC_LANDING_PATH, default=/login"`

	Backend     BackendConfig
	TTS         TTSConfig
	Session     SessionConfig
	Invitations InvitationConfig
	Narration   NarrationConfig
	Reminders   ReminderConfig

	Mongo MongoConfig
	Redis RedisConfig
	Bolt  BoltConfig
}

type BackendConfig struct {
	URL     string        `env:"BACKEND_URL,     default=http://localhost:3000"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT, default=15s"`
}

type TTSConfig struct {
	URL     string        `env:"TTS_URL,     default=https://cuhgrel-nemo-tts-api.hf.space/synthesize/"`
	Timeout time.Duration `env:"TTS_TIMEOUT, default=60s"`
}

type SessionConfig struct {
	Backend        string        `env:"SESSION_BACKEND,         default=redis"`
	CookieName     string        `env:"SESSION_COOKIE_NAME,     default=portal_sid"`
	CookieSecure   bool          `env:"SESSION_COOKIE_SECURE,   default=false"`
	CookieMaxAge   time.Duration `env:"SESSION_COOKIE_MAX_AGE,  default=720h"`
	IdleTTL        time.Duration `env:"WORKSPACE_IDLE_TTL,      default=30m"`
	SweepInterval  time.Duration `env:"WORKSPACE_SWEEP_INTERVAL, default=1m"`
	RestoreTimeout time.Duration `env:"SESSION_RESTORE_TIMEOUT, default=5s"`
	GuardWait      time.Duration `env:"ROUTE_GUARD_WAIT,        default=2s"`
}

type InvitationConfig struct {
	PollInterval time.Duration `env:"INVITE_POLL_INTERVAL, default=30s"`
	SharedLock   bool          `env:"INVITE_SHARED_LOCK,   default=true"`
	LockTTL      time.Duration `env:"INVITE_LOCK_TTL,      default=30s"`
}

type NarrationConfig struct {
	Workers int `env:"NARRATION_WORKERS, default=4"`
}

type ReminderConfig struct {
	TimeZone string `env:"REMINDER_TIMEZONE, default=Asia/Manila"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=girumdom_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type BoltConfig struct {
	Path string `env:"BOLT_PATH, default=./data/portal.db"`
}

// Production reports whether the portal runs in production.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Location returns the time zone reminder forms are entered in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Reminders.TimeZone)
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	_ = godotenv.Load(".env")

	cfg, err := Process(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// Process fills a Config from lookuper and validates it.
func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}
	switch cfg.Session.Backend {
	case StorageRedis, StorageMongo, StorageBolt:
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be redis, mongo or bolt, got %q", cfg.Session.Backend)
	}
	return &cfg, nil
}
