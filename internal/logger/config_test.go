package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantLevel  string
		wantFormat string
	}{
		{
			name:       "環境変数なしはinfo/text",
			env:        map[string]string{},
			wantLevel:  "info",
			wantFormat: "text",
		},
		{
			name:       "DEBUG=trueでdebug",
			env:        map[string]string{"DEBUG": "true"},
			wantLevel:  "debug",
			wantFormat: "text",
		},
		{
			name:       "RUNNER_DEBUG=1でdebug",
			env:        map[string]string{"RUNNER_DEBUG": "1"},
			wantLevel:  "debug",
			wantFormat: "text",
		},
		{
			name:       "LOG_LEVELがDEBUGより優先される",
			env:        map[string]string{"DEBUG": "true", "LOG_LEVEL": "WARN"},
			wantLevel:  "warn",
			wantFormat: "text",
		},
		{
			name:       "LOG_FORMAT=jsonを読み込む",
			env:        map[string]string{"LOG_FORMAT": "JSON"},
			wantLevel:  "info",
			wantFormat: "json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DEBUG", "RUNNER_DEBUG", "LOG_LEVEL", "LOG_FORMAT"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config := ConfigFromEnv()
			assert.Equal(t, tt.wantLevel, config.Level)
			assert.Equal(t, tt.wantFormat, config.Format)
		})
	}
}
