package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/douhashi/conflictlabel/internal/logger"
)

// Runner はコマンドを実行して標準出力を返す
type Runner interface {
	Run(ctx context.Context, command string, args []string, workDir string) (string, error)
}

// Command はgitコマンド実行を管理する構造体
type Command struct {
	logger logger.Logger
}

// NewCommand は新しいCommandインスタンスを作成する
func NewCommand(log logger.Logger) *Command {
	if log == nil {
		log = logger.NewNop()
	}
	return &Command{logger: log}
}

// Run は指定されたコマンドを実行し、前後の空白を除いた標準出力を返す
func (c *Command) Run(ctx context.Context, command string, args []string, workDir string) (string, error) {
	logFields := []interface{}{
		"command", command,
		"args", args,
	}
	if workDir != "" {
		logFields = append(logFields, "work_dir", workDir)
	}
	c.logger.Debug("Executing git command", logFields...)

	cmd := exec.CommandContext(ctx, command, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	stdoutStr := strings.TrimSpace(stdout.String())
	stderrStr := strings.TrimSpace(stderr.String())

	if err != nil {
		c.logger.Debug("Git command failed", append(logFields,
			"error", err.Error(),
			"stderr", truncateOutput(stderrStr, 1000),
		)...)
		if stderrStr != "" {
			return "", fmt.Errorf("git command failed: %w\nstderr: %s", err, stderrStr)
		}
		return "", fmt.Errorf("git command failed: %w", err)
	}

	c.logger.Debug("Git command completed successfully", append(logFields,
		"output", truncateOutput(stdoutStr, 500),
	)...)
	return stdoutStr, nil
}

// truncateOutput は長い出力を指定された長さに切り詰める
func truncateOutput(output string, maxLength int) string {
	if len(output) <= maxLength {
		return output
	}
	return output[:maxLength] + "... (truncated)"
}
