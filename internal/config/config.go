package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devJWTSecret = "dev-only-secret"

// Config aggregates configuration for the API server and the CLI.
type Config struct {
	Env      string         `mapstructure:"env"`
	Port     string         `mapstructure:"port"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

type StorageConfig struct {
	// Driver is "postgres" or "memory".
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds a postgres connection URL.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type WorkflowConfig struct {
	// StrictTransitions rejects a status that is not legal for the area
	// instead of logging a warning.
	StrictTransitions bool `mapstructure:"strict_transitions"`
}

type NotifyConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type CacheConfig struct {
	ClientTTL time.Duration `mapstructure:"client_ttl"`
}

type LogConfig struct {
	// Format is "json" or "text".
	Format string `mapstructure:"format"`
	Level  string `mapstructure:"level"`
}

// Production reports whether the server runs with production settings.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func Default() *Config {
	return &Config{
		Env:     "development",
		Port:    "8080",
		Storage: StorageConfig{Driver: "postgres"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "repairshop",
			SSLMode:  "disable",
		},
		JWT:   JWTConfig{Secret: devJWTSecret, TTL: 24 * time.Hour},
		CORS:  CORSConfig{Origins: []string{"http://localhost:5173", "http://127.0.0.1:5173"}},
		Cache: CacheConfig{ClientTTL: 5 * time.Minute},
		Notify: NotifyConfig{Kafka: KafkaConfig{
			Topic: "repairshop.notifications",
		}},
		Log: LogConfig{Format: "text", Level: "info"},
	}
}

// Load reads configuration from an optional .env file, an optional
// config.yaml and environment variables. Environment variables use the
// prefix "REPAIRSHOP" and the dot in keys is replaced by an underscore, so
// "notify.kafka.brokers" becomes "REPAIRSHOP_NOTIFY_KAFKA_BROKERS".
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// A missing .env is normal outside local development.
		_ = godotenv.Load(envFile)
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("configs")
	v.SetEnvPrefix("REPAIRSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// Comma separated lists from the environment arrive as one string.
	if s := v.GetString("cors.origins"); s != "" && !strings.HasPrefix(s, "[") {
		cfg.CORS.Origins = splitList(s)
	}
	if s := v.GetString("notify.kafka.brokers"); s != "" && !strings.HasPrefix(s, "[") {
		cfg.Notify.Kafka.Brokers = splitList(s)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("storage.driver must be postgres or memory, got %q", c.Storage.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Production() && c.JWT.Secret == devJWTSecret {
		return errors.New("jwt.secret must be set in production")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("jwt.ttl must be positive")
	}
	if c.Notify.Kafka.Enabled && len(c.Notify.Kafka.Brokers) == 0 {
		return errors.New("notify.kafka.brokers is required when kafka notifications are enabled")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(append([]string{}, parts...), tag)
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Time{}) {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
