package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	RedisPass string
	JWTSecret string
	TokenTTL  time.Duration
	HTTPPort  string
	LogLevel  string

	LoginMaxAttempts int
	LoginWindow      time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	CORSOrigins []string
}

var defaults = map[string]any{
	"mongo_uri":          "mongodb://localhost:27017",
	"mongo_db":           "movies",
	"redis_addr":         "",
	"redis_password":     "",
	"jwt_secret":         "super-secret",
	"jwt_ttl":            "24h",
	"http_port":          "4000",
	"log_level":          "info",
	"login_max_attempts": 5,
	"login_window":       "15m",
	"rate_limit_rps":     20,
	"rate_limit_burst":   40,
	"cors_origins":       "*",
}

// aliases mantiene los nombres de variables del deploy anterior.
var aliases = map[string][]string{
	"mongo_uri":  {"MONGODB_STRING", "MONGO_URI"},
	"jwt_secret": {"JWT_SECRET_KEY", "JWT_SECRET"},
	"http_port":  {"PORT", "HTTP_PORT"},
}

// Load lee .env, un config.yaml opcional en el directorio actual y el
// entorno del proceso. El entorno tiene la última palabra.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile es Load con la ruta del archivo de config explícita.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	// IsSet tambien mira los defaults, por eso se consulta antes
	secretSet := v.IsSet("jwt_secret")
	for key, def := range defaults {
		if !v.IsSet(key) && key != "redis_addr" && key != "redis_password" {
			log.WithField("component", "config").Debugf("%s not set, using default", strings.ToUpper(key))
		}
		v.SetDefault(key, def)
	}

	cfg := &Config{
		MongoURI:         v.GetString("mongo_uri"),
		MongoDB:          v.GetString("mongo_db"),
		RedisAddr:        v.GetString("redis_addr"),
		RedisPass:        v.GetString("redis_password"),
		JWTSecret:        v.GetString("jwt_secret"),
		TokenTTL:         v.GetDuration("jwt_ttl"),
		HTTPPort:         v.GetString("http_port"),
		LogLevel:         v.GetString("log_level"),
		LoginMaxAttempts: v.GetInt("login_max_attempts"),
		LoginWindow:      v.GetDuration("login_window"),
		RateLimitRPS:     v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:   v.GetInt("rate_limit_burst"),
		CORSOrigins:      splitList(v.GetString("cors_origins")),
	}

	if !secretSet {
		log.WithField("component", "config").Warn("JWT_SECRET_KEY not set, tokens are signed with the development secret")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
