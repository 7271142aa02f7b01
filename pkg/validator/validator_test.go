package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"ada@example.org", false},
		{"a.b+tag@sub.example.co", false},
		{"", true},
		{"no-at-sign", true},
		{"a@b", true},
		{strings.Repeat("a", 250) + "@example.org", true},
	}
	for _, tt := range tests {
		err := Email(tt.email)
		if tt.wantErr {
			assert.Error(t, err, tt.email)
		} else {
			assert.NoError(t, err, tt.email)
		}
	}
}

func TestPassword(t *testing.T) {
	assert.Error(t, Password(""))
	assert.NoError(t, Password("short"))
	assert.Error(t, Password(strings.Repeat("x", maxPasswordLength+1)))
}

func TestAppName(t *testing.T) {
	assert.NoError(t, AppName(""))
	assert.NoError(t, AppName("Vachan"))
	assert.NoError(t, AppName("bridge_2-app"))
	assert.Error(t, AppName("vachan online"))
	assert.Error(t, AppName(strings.Repeat("a", maxAppNameLen+1)))
}

func TestRoleName(t *testing.T) {
	assert.NoError(t, RoleName(""))
	assert.NoError(t, RoleName("VachanAdmin"))
	assert.Error(t, RoleName("bad\nrole"))
}

func TestDisplayText(t *testing.T) {
	assert.NoError(t, DisplayText("Ada Lovelace"))
	assert.Error(t, DisplayText("Ada\x00"))
	assert.Error(t, DisplayText("Ada\x7f"))
}
