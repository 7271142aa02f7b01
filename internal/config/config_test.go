package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allEnv = []string{
	envPort, envServerReadTimeout, envServerWriteTimeout, envServerShutdownTimeout, envEnableProfiling,
	envKratosPublicBaseURL, envKratosAdminBaseURL, envKratosSessionURL, envKratosTimeout,
	envKratosRetryMax, envKratosRetryWaitMin, envKratosRetryWaitMax,
	envSuperUsername, envSuperPassword, envAuditDatabaseURL, envAuditDBMaxConns,
	envRateLimitRPS, envRateLimitBurst, envAuthRateLimitRPS, envAuthRateLimitBurst,
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnv {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "http://127.0.0.1:4433", cfg.Kratos.PublicBaseURL)
	assert.Equal(t, "http://127.0.0.1:4434", cfg.Kratos.AdminBaseURL)
	assert.Equal(t, "http://127.0.0.1:4433/sessions/whoami", cfg.Kratos.SessionURL)
	assert.Equal(t, 3, cfg.Kratos.RetryMax)
	assert.Equal(t, 200*time.Millisecond, cfg.Kratos.RetryWaitMin)
	assert.False(t, cfg.SuperUser.Enabled())
	assert.Empty(t, cfg.Audit.DatabaseURL)
	assert.Equal(t, 100.0, cfg.RateLimit.RPS)
	assert.Equal(t, 10, cfg.RateLimit.AuthBurst)
	assert.False(t, cfg.Server.EnableProfiling)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envKratosPublicBaseURL, "https://auth.example.org/")
	t.Setenv(envKratosAdminBaseURL, "http://kratos-admin:4434/")
	t.Setenv(envKratosTimeout, "3")
	t.Setenv(envKratosRetryWaitMax, "5s")
	t.Setenv(envSuperUsername, " root@example.org ")
	t.Setenv(envSuperPassword, "s3cret-pass")
	t.Setenv(envAuthRateLimitRPS, "0.5")
	t.Setenv(envEnableProfiling, "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://auth.example.org", cfg.Kratos.PublicBaseURL)
	assert.Equal(t, "http://kratos-admin:4434", cfg.Kratos.AdminBaseURL)
	assert.Equal(t, "https://auth.example.org/sessions/whoami", cfg.Kratos.SessionURL)
	assert.Equal(t, 3*time.Second, cfg.Kratos.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Kratos.RetryWaitMax)
	assert.Equal(t, "root@example.org", cfg.SuperUser.Email)
	assert.True(t, cfg.SuperUser.Enabled())
	assert.Equal(t, 0.5, cfg.RateLimit.AuthRPS)
	assert.True(t, cfg.Server.EnableProfiling)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"relative public url", map[string]string{envKratosPublicBaseURL: "kratos:4433"}},
		{"ftp admin url", map[string]string{envKratosAdminBaseURL: "ftp://kratos"}},
		{"bad session url", map[string]string{envKratosSessionURL: "/sessions/whoami"}},
		{"super user without password", map[string]string{envSuperUsername: "root@example.org"}},
		{"password without super user", map[string]string{envSuperPassword: "pw"}},
		{"negative retries", map[string]string{envKratosRetryMax: "-1"}},
		{"inverted retry waits", map[string]string{envKratosRetryWaitMin: "5s", envKratosRetryWaitMax: "1s"}},
		{"zero rate", map[string]string{envRateLimitRPS: "0"}},
		{"zero audit pool", map[string]string{envAuditDatabaseURL: "postgres://x", envAuditDBMaxConns: "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
