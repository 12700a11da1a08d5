package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

// clearEnv isolates Load from the developer's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_API_TOKEN", "DATABASE_URL", "APP_ENV", "ENV", "DEBUG",
		"RECORDS_SOURCE", "RECORDS_PATH", "QUIZ_SESSION_SIZE", "QUIZ_RETRY_ENABLED",
		"GENERATOR_SEED", "GENERATOR_TRUE_RATIO",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Records.Source != SourceFile || cfg.Records.Path != "assets/data/questions.csv" {
		t.Fatalf("records = %+v", cfg.Records)
	}
	if cfg.Quiz != (Quiz{SessionSize: 20, RetryEnabled: true, RetryDelay: 3, MaxRetries: 1}) {
		t.Fatalf("quiz = %+v", cfg.Quiz)
	}
	if cfg.Generator.TrueFalseRatio != 0.5 || cfg.Generator.FallbackRadius != 1 || cfg.Generator.Seed != 0 {
		t.Fatalf("generator = %+v", cfg.Generator)
	}
	if cfg.Generator.Templates.Statement != "%[1]s was created by %[2]s (%[3]s)." {
		t.Fatalf("statement template = %q", cfg.Generator.Templates.Statement)
	}
	if cfg.DB.MaxConnLifetime != 30*time.Minute || cfg.DB.Enabled() {
		t.Fatalf("db = %+v", cfg.DB)
	}
	if _, err := cfg.DB.DSN(); !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Fatalf("DSN() err = %v", err)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUIZ_SESSION_SIZE", "7")
	t.Setenv("RECORDS_PATH", "from-env.csv")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("size", 0, "")
	fs.Uint64("seed", 0, "")
	fs.Bool("no-retry", false, "")
	fs.String("records", "", "")
	if err := fs.Parse([]string{"--size=5", "--seed=42", "--no-retry"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Options{Flags: fs})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Quiz.SessionSize != 5 {
		t.Fatalf("SessionSize = %d, want 5 from the flag", cfg.Quiz.SessionSize)
	}
	if cfg.Generator.Seed != 42 {
		t.Fatalf("Seed = %d, want 42", cfg.Generator.Seed)
	}
	if cfg.Quiz.RetryEnabled {
		t.Fatal("--no-retry did not disable retries")
	}
	if cfg.Records.Path != "from-env.csv" {
		t.Fatalf("Path = %q, want the env value for an unset flag", cfg.Records.Path)
	}
}

func TestLoadSecrets(t *testing.T) {
	clearEnv(t)

	if _, err := Load(Options{RequireTelegram: true}); !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Fatalf("missing token: err = %v", err)
	}

	t.Setenv("RECORDS_SOURCE", SourcePostgres)
	if _, err := Load(Options{}); !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Fatalf("postgres source without DATABASE_URL: err = %v", err)
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/quiz")
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	cfg, err := Load(Options{RequireTelegram: true, RequireDatabase: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TelegramAPIToken != "token" || !cfg.DB.Enabled() {
		t.Fatalf("secrets not loaded: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"GENERATOR_TRUE_RATIO", "1.5"},
		{"QUIZ_SESSION_SIZE", "0"},
		{"RECORDS_SOURCE", "ftp"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(Options{}); err == nil {
				t.Fatalf("%s=%s accepted", tt.key, tt.value)
			}
		})
	}
}
