package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yourusername/exam-portal/internal/domain/entity"
)

// Config хранит все настройки приложения
type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Session SessionConfig
	Service ServiceConfig
	Exam    ExamConfig
}

// ServerConfig содержит настройки HTTP сервера портала
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
	AllowOrigins []string `mapstructure:"allow_origins"`
	// RateLimit ограничивает запросы к /api с одного IP; работает только с Redis
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig - лимит запросов за окно. MaxRequests == 0 отключает лимит.
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// RedisConfig содержит настройки подключения к Redis.
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: список адресов Redis (хост:порт).
	Addrs []string `mapstructure:"addrs"`

	// Addr: адрес для режима 'single', используется, если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: имя мастер-сервера (только для "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// IsConfigured возвращает true, если задан хотя бы один адрес Redis
func (r *RedisConfig) IsConfigured() bool {
	return len(r.Addrs) > 0 || r.Addr != ""
}

// SessionConfig содержит настройки хранилища сессий
type SessionConfig struct {
	// Store: "memory" или "redis"
	Store      string        `mapstructure:"store"`
	TTL        time.Duration `mapstructure:"ttl"` // 0 - без истечения
	CookieName string        `mapstructure:"cookie_name"`
	// CookieSecure выставляет флаг Secure (портал за HTTPS)
	CookieSecure bool   `mapstructure:"cookie_secure"`
	KeyPrefix    string `mapstructure:"key_prefix"`
}

// ServiceConfig содержит настройки удаленного сервиса с таблицей
type ServiceConfig struct {
	// EndpointFile - путь к data.json с адресом сервиса в base64
	EndpointFile string `mapstructure:"endpoint_file"`
	// Timeout запроса; 0 - без таймаута
	Timeout time.Duration `mapstructure:"timeout"`
	// SubmitTimeout ограничивает сохранение результата. Сохранение идет внутри запроса
	// отправки ответов, поэтому должно быть меньше server.writetimeout.
	SubmitTimeout time.Duration `mapstructure:"submit_timeout"`
	// ResultsCacheTTL - сколько хранится список результатов для просмотра ответов (только Redis)
	ResultsCacheTTL time.Duration `mapstructure:"results_cache_ttl"`
}

// ExamConfig содержит правила экзамена
type ExamConfig struct {
	PassThreshold int    `mapstructure:"pass_threshold"`
	AdminUsername string `mapstructure:"admin_username"`
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 30)
	vip.SetDefault("server.allow_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	vip.SetDefault("server.rate_limit.max_requests", 120)
	vip.SetDefault("server.rate_limit.window", time.Minute)
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("session.store", "memory")
	vip.SetDefault("session.cookie_name", "exam_session")
	vip.SetDefault("session.key_prefix", "exam-portal:")
	vip.SetDefault("service.endpoint_file", "data.json")
	vip.SetDefault("service.submit_timeout", 10*time.Second)
	vip.SetDefault("service.results_cache_ttl", 10*time.Minute)
	vip.SetDefault("exam.pass_threshold", entity.DefaultPassThreshold)
	vip.SetDefault("exam.admin_username", entity.DefaultAdminUsername)

	// 2. Явная привязка переменных окружения
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.rate_limit.max_requests", "RATE_LIMIT_MAX_REQUESTS")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("session.store", "SESSION_STORE")
	vip.BindEnv("session.ttl", "SESSION_TTL")
	vip.BindEnv("session.cookie_secure", "SESSION_COOKIE_SECURE")

	vip.BindEnv("service.endpoint_file", "SERVICE_ENDPOINT_FILE")
	vip.BindEnv("service.timeout", "SERVICE_TIMEOUT")
	vip.BindEnv("service.submit_timeout", "SERVICE_SUBMIT_TIMEOUT")

	vip.BindEnv("exam.pass_threshold", "EXAM_PASS_THRESHOLD")
	vip.BindEnv("exam.admin_username", "EXAM_ADMIN_USERNAME")

	// 3. Файл конфигурации необязателен: без него работают умолчания и env
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("[Config] Config file '%s' not found, using env/defaults", configPath)
			} else {
				log.Printf("[Config] Warning: failed to read config file '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("[Config] Server Port: %s", cfg.Server.Port)
		log.Printf("[Config] Session Store: %s (ttl %s)", cfg.Session.Store, cfg.Session.TTL)
		log.Printf("[Config] Redis Mode: %s, configured: %t", cfg.Redis.Mode, cfg.Redis.IsConfigured())
		log.Printf("[Config] Endpoint File: %s", cfg.Service.EndpointFile)
		log.Printf("[Config] Pass Threshold: %d%%", cfg.Exam.PassThreshold)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Exam.PassThreshold < 0 || c.Exam.PassThreshold > 100 {
		return fmt.Errorf("exam.pass_threshold must be within 0..100, got %d", c.Exam.PassThreshold)
	}
	if strings.TrimSpace(c.Exam.AdminUsername) == "" {
		return fmt.Errorf("exam.admin_username must not be empty")
	}
	switch c.Session.Store {
	case "memory":
	case "redis":
		if !c.Redis.IsConfigured() {
			return fmt.Errorf("session.store=redis requires redis.addrs or redis.addr (check REDIS_ADDR env var)")
		}
	default:
		return fmt.Errorf("unsupported session store: %s", c.Session.Store)
	}
	if c.Server.RateLimit.MaxRequests > 0 && c.Server.RateLimit.Window <= 0 {
		return fmt.Errorf("server.rate_limit.window must be positive when rate limiting is enabled")
	}
	if c.Service.Timeout < 0 || c.Service.SubmitTimeout < 0 {
		return fmt.Errorf("service timeouts must not be negative")
	}
	if c.Server.WriteTimeout > 0 {
		writeTimeout := time.Duration(c.Server.WriteTimeout) * time.Second
		if c.Service.SubmitTimeout <= 0 || c.Service.SubmitTimeout >= writeTimeout {
			return fmt.Errorf("service.submit_timeout (%s) must be positive and below server.writetimeout (%s)", c.Service.SubmitTimeout, writeTimeout)
		}
	}
	return nil
}
