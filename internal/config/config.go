package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/douhashi/conflictlabel/internal/github"
	"github.com/douhashi/conflictlabel/internal/reconciler"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix は環境変数のプレフィックス
	EnvPrefix = "CONFLICTLABEL"

	defaultLabelName        = "merge conflict"
	defaultLabelColor       = "d73a4a"
	defaultLabelDescription = "This pull request has merge conflicts"
)

// Config はアプリケーション全体の設定
type Config struct {
	GitHub    GitHubConfig    `mapstructure:"github"`
	Label     LabelConfig     `mapstructure:"label"`
	Poll      PollConfig      `mapstructure:"poll"`
	Reconcile ReconcileConfig `mapstructure:"reconcile"`
	Comments  CommentsConfig  `mapstructure:"comments"`
}

// GitHubConfig はGitHub関連の設定
type GitHubConfig struct {
	Token string `mapstructure:"token"`
	// Repository は owner/name またはGitHubのURL
	Repository string `mapstructure:"repository"`
	// BaseURL はGitHub Enterprise Server用。空ならgithub.com
	BaseURL string `mapstructure:"base_url"`
}

// LabelConfig はコンフリクトラベルの設定
type LabelConfig struct {
	Name            string `mapstructure:"name"`
	CreateIfMissing bool   `mapstructure:"create_if_missing"`
	Color           string `mapstructure:"color"`
	Description     string `mapstructure:"description"`
}

// PollConfig はマージ可能性のポーリング設定
type PollConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Interval    time.Duration `mapstructure:"interval"`
	Multiplier  float64       `mapstructure:"multiplier"`
	MaxInterval time.Duration `mapstructure:"max_interval"`
}

// ReconcileConfig はラベル操作の設定
type ReconcileConfig struct {
	Concurrency int  `mapstructure:"concurrency"`
	DryRun      bool `mapstructure:"dry_run"`
	OnTimeout   bool `mapstructure:"on_timeout"`
}

// CommentsConfig はラベル変更時に投稿するコメント。空なら投稿しない
type CommentsConfig struct {
	OnConflict string `mapstructure:"on_conflict"`
	OnResolved string `mapstructure:"on_resolved"`
}

// NewConfig は新しいConfigを作成する
func NewConfig() *Config {
	return &Config{
		Label: LabelConfig{
			Name:        defaultLabelName,
			Color:       defaultLabelColor,
			Description: defaultLabelDescription,
		},
		Poll: PollConfig{
			MaxAttempts: reconciler.DefaultMaxAttempts,
			Interval:    reconciler.DefaultInterval,
			Multiplier:  1.0,
		},
		Reconcile: ReconcileConfig{
			Concurrency: reconciler.DefaultConcurrency,
		},
	}
}

// DefaultConfigPath は既定の設定ファイルのパスを返す
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "conflictlabel.yml"
	}
	return filepath.Join(home, ".config", "conflictlabel", "conflictlabel.yml")
}

// NewViper はデフォルト値と環境変数を設定したviperを返す
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// GitHub Actionsと同じ環境変数もサポート
	_ = v.BindEnv("github.token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("github.repository", EnvPrefix+"_GITHUB_REPOSITORY", "GITHUB_REPOSITORY")

	return v
}

// SetDefaults はviperにデフォルト値を設定する
func SetDefaults(v *viper.Viper) {
	d := NewConfig()
	v.SetDefault("github.token", "")
	v.SetDefault("github.repository", "")
	v.SetDefault("github.base_url", "")
	v.SetDefault("label.name", d.Label.Name)
	v.SetDefault("label.create_if_missing", false)
	v.SetDefault("label.color", d.Label.Color)
	v.SetDefault("label.description", d.Label.Description)
	v.SetDefault("poll.max_attempts", d.Poll.MaxAttempts)
	v.SetDefault("poll.interval", d.Poll.Interval)
	v.SetDefault("poll.multiplier", d.Poll.Multiplier)
	v.SetDefault("poll.max_interval", time.Duration(0))
	v.SetDefault("reconcile.concurrency", d.Reconcile.Concurrency)
	v.SetDefault("reconcile.dry_run", false)
	v.SetDefault("reconcile.on_timeout", false)
	v.SetDefault("comments.on_conflict", "")
	v.SetDefault("comments.on_resolved", "")
}

// Load は設定ファイルと環境変数から設定を読み込む
// configPathが空の場合は環境変数とデフォルト値のみを使う
func (c *Config) Load(configPath string) error {
	v := NewViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return c.LoadFromViper(v)
}

// LoadFromViper はviperの値を構造体にマッピングする
func (c *Config) LoadFromViper(v *viper.Viper) error {
	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// LoadOrDefault は設定ファイルが存在する場合のみ読み込む
func (c *Config) LoadOrDefault(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return c.Load("")
	}
	return c.Load(configPath)
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return errors.New("GitHub token is required (set GITHUB_TOKEN or github.token)")
	}
	if _, err := c.Repository(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Label.Name) == "" {
		return errors.New("label name is required")
	}
	if c.Poll.MaxAttempts < 1 {
		return fmt.Errorf("poll.max_attempts must be at least 1, got %d", c.Poll.MaxAttempts)
	}
	if c.Poll.Interval < 0 {
		return fmt.Errorf("poll.interval must not be negative, got %s", c.Poll.Interval)
	}
	if c.Poll.MaxInterval < 0 {
		return fmt.Errorf("poll.max_interval must not be negative, got %s", c.Poll.MaxInterval)
	}
	if c.Reconcile.Concurrency < 1 {
		return fmt.Errorf("reconcile.concurrency must be at least 1, got %d", c.Reconcile.Concurrency)
	}
	return nil
}

// Repository は対象リポジトリを返す
func (c *Config) Repository() (github.Repository, error) {
	if c.GitHub.Repository == "" {
		return github.Repository{}, errors.New("repository is required (set GITHUB_REPOSITORY or github.repository)")
	}
	repo, err := github.ParseRepository(c.GitHub.Repository)
	if err != nil {
		return github.Repository{}, fmt.Errorf("invalid repository %q: %w", c.GitHub.Repository, err)
	}
	return repo, nil
}

// PollPolicy はポーリング設定をPollPolicyに変換する
func (c *Config) PollPolicy() reconciler.PollPolicy {
	return reconciler.PollPolicy{
		MaxAttempts: c.Poll.MaxAttempts,
		Backoff: reconciler.Backoff{
			Interval:    c.Poll.Interval,
			Multiplier:  c.Poll.Multiplier,
			MaxInterval: c.Poll.MaxInterval,
		},
	}
}

// LabelDefinition はラベル作成時の定義を返す
func (c *Config) LabelDefinition() github.LabelDefinition {
	return github.LabelDefinition{
		Name:        c.Label.Name,
		Color:       c.Label.Color,
		Description: c.Label.Description,
	}
}

// ControllerOptions はRunの入力を組み立てる
func (c *Config) ControllerOptions() (reconciler.Options, error) {
	repo, err := c.Repository()
	if err != nil {
		return reconciler.Options{}, err
	}
	return reconciler.Options{
		Repository:         repo,
		LabelName:          c.Label.Name,
		Poll:               c.PollPolicy(),
		Concurrency:        c.Reconcile.Concurrency,
		DryRun:             c.Reconcile.DryRun,
		ReconcileOnTimeout: c.Reconcile.OnTimeout,
		ConflictComment:    c.Comments.OnConflict,
		ResolvedComment:    c.Comments.OnResolved,
	}, nil
}
