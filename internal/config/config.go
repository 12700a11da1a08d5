package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Record sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`       // current application environment (local, dev, production etc)
	TelegramAPIToken string    `mapstructure:"-"`         // Telegram API token loaded from environment
	Records          Records   `mapstructure:"records"`   // where records come from
	Quiz             Quiz      `mapstructure:"quiz"`      // session parameters
	Generator        Generator `mapstructure:"generator"` // question generator parameters
	HTTP             HTTP      `mapstructure:"http"`      // HTTP API section
	DB               DB        `mapstructure:"database"`  // database configuration section
	Debug            bool      `mapstructure:"debug"`     // mirror log lines to the UI
}

// Records describes the record source.
type Records struct {
	Source string `mapstructure:"source"` // "file" or "postgres"
	Path   string `mapstructure:"path"`   // CSV or YAML file for the file source
}

// Quiz contains session parameters.
type Quiz struct {
	SessionSize  int  `mapstructure:"session_size"`  // items asked per session
	RetryEnabled bool `mapstructure:"retry_enabled"` // re-ask missed items
	RetryDelay   int  `mapstructure:"retry_delay"`   // presentations before a missed item returns
	MaxRetries   int  `mapstructure:"max_retries"`   // re-asks per item
}

// Generator contains question generator parameters.
type Generator struct {
	Seed           uint64    `mapstructure:"seed"`             // 0 seeds from the clock
	TrueFalseRatio float64   `mapstructure:"true_false_ratio"` // share of true/false items
	TrueRatio      float64   `mapstructure:"true_ratio"`       // share of true statements among true/false items
	AskAgentRatio  float64   `mapstructure:"ask_agent_ratio"`  // share of "ask for agent" among multiple choice items
	FallbackRadius int       `mapstructure:"fallback_radius"`  // group distance searched when a group has too few distractors
	Templates      Templates `mapstructure:"templates"`
}

// Templates are fmt formats; %[1]s is the subject, %[2]s the agent, %[3]s the attribute.
type Templates struct {
	Statement  string `mapstructure:"statement"`
	AskAgent   string `mapstructure:"ask_agent"`
	AskSubject string `mapstructure:"ask_subject"`
}

// HTTP contains HTTP API parameters.
type HTTP struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Enabled reports whether a database is configured.
func (db DB) Enabled() bool {
	return db.URL != ""
}

// Options tune Load for a particular command.
type Options struct {
	Flags           *pflag.FlagSet // command line flags bound over file and env values
	RequireTelegram bool
	RequireDatabase bool
}

// Load reads configuration from config files, .env and environment variables.
func Load(opts Options) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if opts.RequireTelegram && cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if (opts.RequireDatabase || cfg.Records.Source == SourcePostgres) && cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("debug", false)

	v.SetDefault("records.source", SourceFile)
	v.SetDefault("records.path", "assets/data/questions.csv")

	v.SetDefault("quiz.session_size", 20)
	v.SetDefault("quiz.retry_enabled", true)
	v.SetDefault("quiz.retry_delay", 3)
	v.SetDefault("quiz.max_retries", 1)

	v.SetDefault("generator.seed", 0)
	v.SetDefault("generator.true_false_ratio", 0.5)
	v.SetDefault("generator.true_ratio", 0.5)
	v.SetDefault("generator.ask_agent_ratio", 0.5)
	v.SetDefault("generator.fallback_radius", 1)
	v.SetDefault("generator.templates.statement", "%[1]s was created by %[2]s (%[3]s).")
	v.SetDefault("generator.templates.ask_agent", "Who created %[1]s (%[3]s)?")
	v.SetDefault("generator.templates.ask_subject", "Which work did %[2]s create (%[3]s)?")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_conn_lifetime", "30m")
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"records":   "records.path",
	"source":    "records.source",
	"size":      "quiz.session_size",
	"seed":      "generator.seed",
	"no-retry":  "quiz.retry_enabled",
	"debug":     "debug",
	"addr":      "http.addr",
	"env":       "env",
	"retry-gap": "quiz.retry_delay",
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if name == "no-retry" {
			// Inverted flag: only an explicit --no-retry overrides the key.
			if f.Changed {
				v.Set(key, f.Value.String() != "true")
			}
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Records.Source {
	case SourceFile:
		if c.Records.Path == "" {
			return errors.New("records.path is required for the file source")
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("unknown records.source: %q", c.Records.Source)
	}

	if c.Quiz.SessionSize <= 0 {
		return fmt.Errorf("quiz.session_size must be positive, got %d", c.Quiz.SessionSize)
	}
	if c.Quiz.RetryDelay < 0 || c.Quiz.MaxRetries < 0 {
		return errors.New("quiz.retry_delay and quiz.max_retries must not be negative")
	}

	for name, ratio := range map[string]float64{
		"generator.true_false_ratio": c.Generator.TrueFalseRatio,
		"generator.true_ratio":       c.Generator.TrueRatio,
		"generator.ask_agent_ratio":  c.Generator.AskAgentRatio,
	} {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, ratio)
		}
	}
	if c.Generator.FallbackRadius < 0 {
		return errors.New("generator.fallback_radius must not be negative")
	}

	return nil
}
