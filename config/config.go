// config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. SIGNUPGATE_LOG_LEVEL.
const EnvPrefix = "SIGNUPGATE"

// HTTPConfig groups the local hook server's listener settings.
type HTTPConfig struct {
	HTTPPort          int           `mapstructure:"http_port"`
	ReadTimeout       time.Duration `mapstructure:"-"`
	ReadHeaderTimeout time.Duration `mapstructure:"-"`
	WriteTimeout      time.Duration `mapstructure:"-"`
	IdleTimeout       time.Duration `mapstructure:"-"`
	ShutdownTimeout   time.Duration `mapstructure:"-"`
}

// CORSConfig groups CORS behavior for the local hook server.
type CORSConfig struct {
	EnableCORS         bool     `mapstructure:"enable_cors"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	CORSAllowedMethods []string `mapstructure:"cors_allowed_methods"`
}

// CoreConfig holds host settings. None of it changes how signups are judged.
type CoreConfig struct {
	Env      string `mapstructure:"env"`       // "dev" | "prod"
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error …

	HTTP HTTPConfig `mapstructure:",squash"`
	CORS CORSConfig `mapstructure:",squash"`

	MaxRequestBodyBytes int64 `mapstructure:"max_request_body_bytes"`
}

// Dump returns the config as indented JSON for debug logging.
func (c CoreConfig) Dump() string {
	b, _ := json.MarshalIndent(c, "", "  ")
	return string(b)
}

// durationKeys maps duration keys to their defaults.
var durationKeys = []struct {
	key string
	def time.Duration
	set func(*HTTPConfig, time.Duration)
}{
	{"read_timeout", 15 * time.Second, func(h *HTTPConfig, d time.Duration) { h.ReadTimeout = d }},
	{"read_header_timeout", 5 * time.Second, func(h *HTTPConfig, d time.Duration) { h.ReadHeaderTimeout = d }},
	{"write_timeout", 15 * time.Second, func(h *HTTPConfig, d time.Duration) { h.WriteTimeout = d }},
	{"idle_timeout", 60 * time.Second, func(h *HTTPConfig, d time.Duration) { h.IdleTimeout = d }},
	{"shutdown_timeout", 10 * time.Second, func(h *HTTPConfig, d time.Duration) { h.ShutdownTimeout = d }},
}

// Load merges defaults → config.* file(s) → env vars → explicit flags into one CoreConfig.
// Final precedence (highest wins): flags(explicit) > env > config > defaults.
// args are the command-line arguments without the program name.
func Load(logger *zap.Logger, args []string) (*CoreConfig, error) {
	return load(logger, ".", args)
}

// LoadTrigger is Load for the Lambda host. It has no listener, so only env
// and log_level are decoded and validated; HTTP and CORS keys are ignored
// even when set to values Load would reject.
func LoadTrigger(logger *zap.Logger) (*CoreConfig, error) {
	return loadTrigger(logger, ".")
}

func loadTrigger(logger *zap.Logger, dir string) (*CoreConfig, error) {
	v, err := newViper(logger, dir, nil)
	if err != nil {
		return nil, err
	}
	cfg := CoreConfig{
		Env:      strings.ToLower(strings.TrimSpace(v.GetString("env"))),
		LogLevel: v.GetString("log_level"),
	}
	if invalid := validateRuntime(cfg); len(invalid) > 0 {
		return nil, fmt.Errorf("trigger configuration errors: invalid: %s", strings.Join(invalid, ", "))
	}
	return &cfg, nil
}

// newViper layers .env, config files, environment and explicit flags.
func newViper(logger *zap.Logger, dir string, args []string) (*viper.Viper, error) {
	// .env never overrides variables already set in the real environment.
	if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil && logger != nil {
		logger.Info("loaded .env file")
	}

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range allKeys() {
		_ = v.BindEnv(k)
	}

	mergeConfigFiles(logger, v, dir)
	setDefaults(v)

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = v.BindPFlag(f.Name, f)
		}
	})
	return v, nil
}

func load(logger *zap.Logger, dir string, args []string) (*CoreConfig, error) {
	v, err := newViper(logger, dir, args)
	if err != nil {
		return nil, err
	}

	if err := normalizeListKeys(logger, v, "cors_allowed_origins", "cors_allowed_methods"); err != nil {
		return nil, err
	}

	var cfg CoreConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode core config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))

	var invalid []string
	for _, dk := range durationKeys {
		d, err := parseDurationFlexible(v.Get(dk.key), dk.def)
		if err != nil {
			invalid = append(invalid, fmt.Sprintf("%s: %v", dk.key, err))
		}
		dk.set(&cfg.HTTP, d)
	}

	if err := validateCoreConfig(cfg, invalid); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("signupgate", pflag.ContinueOnError)
	fs.String("env", "dev", `Runtime environment "dev"|"prod"`)
	fs.String("log_level", "info", "Log level")
	fs.Int("http_port", 8080, "Local hook server HTTP port")
	fs.String("read_timeout", "15s", "HTTP read timeout")
	fs.String("read_header_timeout", "5s", "HTTP read header timeout")
	fs.String("write_timeout", "15s", "HTTP write timeout")
	fs.String("idle_timeout", "60s", "HTTP idle timeout")
	fs.String("shutdown_timeout", "10s", "Graceful shutdown window")
	fs.Int64("max_request_body_bytes", 64<<10, "Max hook request body size in bytes (0 = unlimited)")
	fs.Bool("enable_cors", false, "Enable CORS")
	fs.String("cors_allowed_origins", "", `JSON array of origins, e.g. '["http://localhost:8081"]'`)
	fs.String("cors_allowed_methods", "", `JSON array of methods, e.g. '["POST"]'`)
	return fs
}

// mergeConfigFiles merges any config.{yaml,yml,json,toml} found in dir.
func mergeConfigFiles(logger *zap.Logger, v *viper.Viper, dir string) {
	for _, ext := range [...]string{"yaml", "yml", "json", "toml"} {
		file := filepath.Join(dir, "config."+ext)
		b, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			if logger != nil {
				logger.Warn("cannot decode config file", zap.String("file", file), zap.Error(err))
			}
			continue
		}
		if logger != nil {
			logger.Info("loaded config file", zap.String("file", file))
		}
	}
}

func allKeys() []string {
	keys := []string{
		"env", "log_level",
		"http_port",
		"max_request_body_bytes",
		"enable_cors", "cors_allowed_origins", "cors_allowed_methods",
	}
	for _, dk := range durationKeys {
		keys = append(keys, dk.key)
	}
	return keys
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_port", 8080)
	for _, dk := range durationKeys {
		v.SetDefault(dk.key, dk.def.String())
	}
	v.SetDefault("max_request_body_bytes", int64(64<<10))
	v.SetDefault("enable_cors", false)
	v.SetDefault("cors_allowed_origins", []string{})
	v.SetDefault("cors_allowed_methods", []string{})
}

// normalizeListKeys coerces JSON-string values into []string for the given keys.
func normalizeListKeys(logger *zap.Logger, v *viper.Viper, keys ...string) error {
	for _, key := range keys {
		switch t := v.Get(key).(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				v.Set(key, []string{})
				continue
			}
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err != nil {
				return fmt.Errorf("config key %q expects a JSON array string, got %q: %w", key, s, err)
			}
			v.Set(key, arr)
		case []interface{}:
			arr := make([]string, 0, len(t))
			for _, e := range t {
				arr = append(arr, fmt.Sprint(e))
			}
			v.Set(key, arr)
		case []string, nil:
		default:
			if logger != nil {
				logger.Warn("unexpected type for list key; expected JSON array/string",
					zap.String("key", key), zap.Any("value", t))
			}
		}
	}
	return nil
}

// validateRuntime checks the keys every host uses.
func validateRuntime(cfg CoreConfig) []string {
	var invalid []string
	if cfg.Env != "dev" && cfg.Env != "prod" {
		invalid = append(invalid, `env must be "dev" or "prod"`)
	}
	if _, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err != nil {
		invalid = append(invalid, fmt.Sprintf("log_level %q is not a valid level", cfg.LogLevel))
	}
	return invalid
}

func validateCoreConfig(cfg CoreConfig, invalid []string) error {
	var missing []string

	invalid = append(invalid, validateRuntime(cfg)...)
	if cfg.HTTP.HTTPPort <= 0 || cfg.HTTP.HTTPPort > 65535 {
		invalid = append(invalid, "http_port must be in 1..65535")
	}
	if cfg.MaxRequestBodyBytes < 0 {
		invalid = append(invalid, "max_request_body_bytes must be >= 0")
	}

	if cfg.CORS.EnableCORS {
		if len(cfg.CORS.CORSAllowedOrigins) == 0 {
			missing = append(missing, "CORS: cors_allowed_origins (JSON array) required when enable_cors=true")
		}
		if len(cfg.CORS.CORSAllowedMethods) == 0 {
			missing = append(missing, "CORS: cors_allowed_methods (JSON array) required when enable_cors=true")
		}
	}

	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(invalid, ", "))
	}
	return fmt.Errorf("core configuration errors: %s", strings.Join(parts, " | "))
}
