package cmd

import (
	"strings"
	"testing"

	"github.com/douhashi/conflictlabel/internal/version"
	"github.com/stretchr/testify/assert"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name               string
		args               []string
		wantErr            bool
		wantOutputContains []string
	}{
		{
			name:    "正常系: ヘルプ表示",
			args:    []string{"--help"},
			wantErr: false,
			wantOutputContains: []string{
				"conflictlabel",
				"run",
				"status",
				"init",
			},
		},
		{
			name:    "正常系: バージョン表示",
			args:    []string{"--version"},
			wantErr: false,
			wantOutputContains: []string{
				"conflictlabel version",
			},
		},
		{
			name:    "異常系: 不正なフラグ",
			args:    []string{"--invalid-flag"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnv(t)
			stdout, _, err := executeCommand(t, tt.args...)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantOutputContains {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestVersionCmd(t *testing.T) {
	setupTestEnv(t)
	original := version.Commit
	version.Commit = "abc1234"
	t.Cleanup(func() { version.Commit = original })

	stdout, _, err := executeCommand(t, "version")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "conflictlabel "))
	assert.Contains(t, stdout, "commit: abc1234")
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCmd()

	configFlag := cmd.PersistentFlags().Lookup("config")
	if assert.NotNil(t, configFlag) {
		assert.Equal(t, "c", configFlag.Shorthand)
	}
	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	if assert.NotNil(t, verboseFlag) {
		assert.Equal(t, "v", verboseFlag.Shorthand)
	}
}
