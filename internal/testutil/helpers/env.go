package helpers

import (
	"os"
	"testing"
)

// configEnvKeys は設定の読み込みに影響する環境変数
var configEnvKeys = []string{
	"GITHUB_TOKEN",
	"GITHUB_REPOSITORY",
	"CONFLICTLABEL_GITHUB_TOKEN",
	"CONFLICTLABEL_GITHUB_REPOSITORY",
	"CONFLICTLABEL_GITHUB_BASE_URL",
	"CONFLICTLABEL_LABEL_NAME",
	"CONFLICTLABEL_LABEL_CREATE_IF_MISSING",
	"CONFLICTLABEL_POLL_MAX_ATTEMPTS",
	"CONFLICTLABEL_POLL_INTERVAL",
	"CONFLICTLABEL_RECONCILE_CONCURRENCY",
	"CONFLICTLABEL_RECONCILE_DRY_RUN",
	"DEBUG",
	"RUNNER_DEBUG",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// UnsetEnv は環境変数を削除し、テスト終了時に元に戻す
func UnsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		// t.Setenvで復元を登録してから削除する
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset env var %s: %v", key, err)
		}
	}
}

// IsolateConfig は実環境の設定ファイルや環境変数を読まないようにする
// HOMEは一時ディレクトリになる
func IsolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	UnsetEnv(t, configEnvKeys...)
	return home
}
