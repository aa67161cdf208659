package throttle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonnronanmn/movies-api/internal/config"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Connect devuelve nil si REDIS_ADDR no está seteado; el throttle queda
// deshabilitado en ese caso.
func Connect(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		log.WithField("component", "redis").Warn("REDIS_ADDR not set, login throttling disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.WithFields(log.Fields{"component": "redis", "addr": cfg.RedisAddr}).Info("connected")
	return client, nil
}

// LoginThrottle cuenta logins fallidos por email en una ventana fija.
// Un throttle nil o sin cliente deja pasar todo.
type LoginThrottle struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewLoginThrottle(client *redis.Client, maxFailures int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, max: maxFailures, window: window}
}

func (t *LoginThrottle) enabled() bool {
	return t != nil && t.client != nil && t.max > 0
}

func key(email string) string {
	return "login:fail:" + strings.ToLower(email)
}

// Allow dice si se permite otro intento de login. Si Redis falla se deja
// pasar, así el login sigue andando con Redis caído.
func (t *LoginThrottle) Allow(ctx context.Context, email string) bool {
	if !t.enabled() {
		return true
	}

	n, err := t.client.Get(ctx, key(email)).Int()
	if err == redis.Nil {
		return true
	}
	if err != nil {
		log.WithError(err).WithField("component", "throttle").Warn("read failure counter")
		return true
	}
	return n < t.max
}

func (t *LoginThrottle) Fail(ctx context.Context, email string) {
	if !t.enabled() {
		return
	}

	k := key(email)
	n, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		log.WithError(err).WithField("component", "throttle").Warn("increment failure counter")
		return
	}
	// la ventana arranca con el primer fallo
	if n == 1 {
		if err := t.client.Expire(ctx, k, t.window).Err(); err != nil {
			log.WithError(err).WithField("component", "throttle").Warn("set window")
		}
	}
}

func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if !t.enabled() {
		return
	}
	if err := t.client.Del(ctx, key(email)).Err(); err != nil {
		log.WithError(err).WithField("component", "throttle").Warn("reset failure counter")
	}
}
