package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// sampleFile はYAMLに書き出す設定ファイルの形
// time.Durationはyaml.v3だと整数になるため文字列で持つ
type sampleFile struct {
	GitHub struct {
		Repository string `yaml:"repository"`
		BaseURL    string `yaml:"base_url,omitempty"`
	} `yaml:"github"`
	Label struct {
		Name            string `yaml:"name"`
		CreateIfMissing bool   `yaml:"create_if_missing"`
		Color           string `yaml:"color"`
		Description     string `yaml:"description"`
	} `yaml:"label"`
	Poll struct {
		MaxAttempts int     `yaml:"max_attempts"`
		Interval    string  `yaml:"interval"`
		Multiplier  float64 `yaml:"multiplier"`
		MaxInterval string  `yaml:"max_interval,omitempty"`
	} `yaml:"poll"`
	Reconcile struct {
		Concurrency int  `yaml:"concurrency"`
		DryRun      bool `yaml:"dry_run"`
		OnTimeout   bool `yaml:"on_timeout"`
	} `yaml:"reconcile"`
	Comments struct {
		OnConflict string `yaml:"on_conflict"`
		OnResolved string `yaml:"on_resolved"`
	} `yaml:"comments"`
}

// WriteSample は設定をYAMLとして書き出す
// トークンは書き出さない。GITHUB_TOKENで渡す
func WriteSample(w io.Writer, c *Config) error {
	var s sampleFile
	s.GitHub.Repository = c.GitHub.Repository
	s.GitHub.BaseURL = c.GitHub.BaseURL
	s.Label.Name = c.Label.Name
	s.Label.CreateIfMissing = c.Label.CreateIfMissing
	s.Label.Color = c.Label.Color
	s.Label.Description = c.Label.Description
	s.Poll.MaxAttempts = c.Poll.MaxAttempts
	s.Poll.Interval = c.Poll.Interval.String()
	s.Poll.Multiplier = c.Poll.Multiplier
	if c.Poll.MaxInterval > 0 {
		s.Poll.MaxInterval = c.Poll.MaxInterval.String()
	}
	s.Reconcile.Concurrency = c.Reconcile.Concurrency
	s.Reconcile.DryRun = c.Reconcile.DryRun
	s.Reconcile.OnTimeout = c.Reconcile.OnTimeout
	s.Comments.OnConflict = c.Comments.OnConflict
	s.Comments.OnResolved = c.Comments.OnResolved

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&s); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// WriteSampleFile は設定ファイルを作成する。既存のファイルは上書きしない
func WriteSampleFile(path string, c *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if err := WriteSample(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
