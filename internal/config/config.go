package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envEnableProfiling       = "ENABLE_PROFILING"
	envKratosPublicBaseURL   = "KRATOS_PUBLIC_BASE_URL"
	envKratosAdminBaseURL    = "KRATOS_ADMIN_BASE_URL"
	envKratosSessionURL      = "KRATOS_USER_SESSION_URL"
	envKratosTimeout         = "KRATOS_TIMEOUT"
	envKratosRetryMax        = "KRATOS_RETRY_MAX"
	envKratosRetryWaitMin    = "KRATOS_RETRY_WAIT_MIN"
	envKratosRetryWaitMax    = "KRATOS_RETRY_WAIT_MAX"
	envSuperUsername         = "SUPER_USERNAME"
	envSuperPassword         = "SUPER_PASSWORD"
	envAuditDatabaseURL      = "AUDIT_DATABASE_URL"
	envAuditDBMaxConns       = "AUDIT_DB_MAX_CONNS"
	envRateLimitRPS          = "RATE_LIMIT_RPS"
	envRateLimitBurst        = "RATE_LIMIT_BURST"
	envAuthRateLimitRPS      = "AUTH_RATE_LIMIT_RPS"
	envAuthRateLimitBurst    = "AUTH_RATE_LIMIT_BURST"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultKratosPublicURL    = "http://127.0.0.1:4433"
	defaultKratosAdminURL     = "http://127.0.0.1:4434"
	defaultKratosTimeout      = 10 * time.Second
	defaultKratosRetryMax     = 3
	defaultKratosRetryWaitMin = 200 * time.Millisecond
	defaultKratosRetryWaitMax = 2 * time.Second
	defaultAuditDBMaxConns    = 5
	defaultRateLimitRPS       = 100.0
	defaultRateLimitBurst     = 200
	defaultAuthRateLimitRPS   = 5.0
	defaultAuthRateLimitBurst = 10
	whoAmIPath                = "/sessions/whoami"

	errPortRequired            = "PORT must be set"
	errRetryMaxInvalid         = "KRATOS_RETRY_MAX must not be negative"
	errRetryWaitOrder          = "KRATOS_RETRY_WAIT_MIN must not exceed KRATOS_RETRY_WAIT_MAX"
	errSuperUserPair           = "SUPER_USERNAME and SUPER_PASSWORD must be set together"
	errRateLimitInvalidFmt     = "%s and %s must be positive"
	errInvalidConfigurationFmt = "invalid configuration: %w"
)

type Config struct {
	Server    ServerConfig
	Kratos    KratosConfig
	SuperUser SuperUserConfig
	Audit     AuditConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	EnableProfiling bool
}

type KratosConfig struct {
	PublicBaseURL string
	AdminBaseURL  string
	SessionURL    string
	Timeout       time.Duration
	RetryMax      int
	RetryWaitMin  time.Duration
	RetryWaitMax  time.Duration
}

type SuperUserConfig struct {
	Email    string
	Password string
}

// Enabled reports whether a super user should be bootstrapped.
func (s SuperUserConfig) Enabled() bool {
	return s.Email != ""
}

type AuditConfig struct {
	DatabaseURL string
	MaxConns    int
}

type RateLimitConfig struct {
	RPS       float64
	Burst     int
	AuthRPS   float64
	AuthBurst int
}

func Load() (*Config, error) {
	publicURL := trimURL(getEnv(envKratosPublicBaseURL, defaultKratosPublicURL))

	superUser, err := loadSuperUser()
	if err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
			EnableProfiling: getBoolEnv(envEnableProfiling),
		},
		Kratos: KratosConfig{
			PublicBaseURL: publicURL,
			AdminBaseURL:  trimURL(getEnv(envKratosAdminBaseURL, defaultKratosAdminURL)),
			SessionURL:    getEnv(envKratosSessionURL, publicURL+whoAmIPath),
			Timeout:       getDurationEnv(envKratosTimeout, defaultKratosTimeout),
			RetryMax:      getIntEnv(envKratosRetryMax, defaultKratosRetryMax),
			RetryWaitMin:  getDurationEnv(envKratosRetryWaitMin, defaultKratosRetryWaitMin),
			RetryWaitMax:  getDurationEnv(envKratosRetryWaitMax, defaultKratosRetryWaitMax),
		},
		SuperUser: superUser,
		Audit: AuditConfig{
			DatabaseURL: os.Getenv(envAuditDatabaseURL),
			MaxConns:    getIntEnv(envAuditDBMaxConns, defaultAuditDBMaxConns),
		},
		RateLimit: RateLimitConfig{
			RPS:       getFloatEnv(envRateLimitRPS, defaultRateLimitRPS),
			Burst:     getIntEnv(envRateLimitBurst, defaultRateLimitBurst),
			AuthRPS:   getFloatEnv(envAuthRateLimitRPS, defaultAuthRateLimitRPS),
			AuthBurst: getIntEnv(envAuthRateLimitBurst, defaultAuthRateLimitBurst),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New(errPortRequired)
	}

	for _, u := range []struct{ key, value string }{
		{envKratosPublicBaseURL, c.Kratos.PublicBaseURL},
		{envKratosAdminBaseURL, c.Kratos.AdminBaseURL},
		{envKratosSessionURL, c.Kratos.SessionURL},
	} {
		if !isHTTPURL(u.value) {
			return errors.New(messages.invalidURL(u.key, u.value))
		}
	}

	if c.Kratos.Timeout <= 0 {
		return errors.New(messages.notPositive(envKratosTimeout))
	}
	if c.Kratos.RetryMax < 0 {
		return errors.New(errRetryMaxInvalid)
	}
	if c.Kratos.RetryWaitMin > c.Kratos.RetryWaitMax {
		return errors.New(errRetryWaitOrder)
	}

	if (c.SuperUser.Email == "") != (c.SuperUser.Password == "") {
		return errors.New(errSuperUserPair)
	}

	if c.Audit.DatabaseURL != "" && c.Audit.MaxConns <= 0 {
		return errors.New(messages.notPositive(envAuditDBMaxConns))
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf(errRateLimitInvalidFmt, envRateLimitRPS, envRateLimitBurst)
	}
	if c.RateLimit.AuthRPS <= 0 || c.RateLimit.AuthBurst <= 0 {
		return fmt.Errorf(errRateLimitInvalidFmt, envAuthRateLimitRPS, envAuthRateLimitBurst)
	}

	return nil
}

// loadSuperUser requires a password once a super user email is configured.
func loadSuperUser() (SuperUserConfig, error) {
	email := strings.TrimSpace(os.Getenv(envSuperUsername))
	if email == "" {
		return SuperUserConfig{Password: os.Getenv(envSuperPassword)}, nil
	}

	password, err := requireEnv(envSuperPassword)
	if err != nil {
		return SuperUserConfig{}, err
	}
	return SuperUserConfig{Email: email, Password: password}, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func trimURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", errors.New(messages.requiredEnvNotSet(key))
	}
	return value, nil
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string) bool {
	enabled, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && enabled
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
