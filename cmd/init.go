package cmd

import (
	"fmt"

	"github.com/douhashi/conflictlabel/internal/config"
	"github.com/spf13/cobra"
)

// モック用の関数変数
var writeSampleFileFunc = config.WriteSampleFile

func newInitCmd() *cobra.Command {
	var (
		writeConfig bool
		configOnly  bool
		repoFlag    string
		labelFlag   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "コンフリクトラベルと設定ファイルを準備",
		Long: `コンフリクトラベルがリポジトリに存在しなければ作成します。
--write-configを指定すると設定ファイルのひな形も作成します。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			log := getLogger()

			writing := writeConfig || configOnly
			path := cfgFile
			if path == "" {
				path = config.DefaultConfigPath()
			}

			// ひな形を作成する場合は、まだ存在しない設定ファイルを読み込まない
			var cfg *config.Config
			if writing {
				cfg = config.NewConfig()
				if err := cfg.LoadOrDefault(path); err != nil {
					return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
				}
			} else {
				var err error
				if cfg, err = loadConfig(); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("repo") {
				cfg.GitHub.Repository = repoFlag
			}
			if cmd.Flags().Changed("label") {
				cfg.Label.Name = labelFlag
			}

			// ひな形だけを作る場合はリポジトリが検出できなくても続行する
			if err := fillRepository(ctx, cfg, log); err != nil && !configOnly {
				return err
			}

			if writing {
				if err := writeSampleFileFunc(path, cfg); err != nil {
					return fmt.Errorf("設定ファイルの作成に失敗しました: %w", err)
				}
				fmt.Fprintf(out, "設定ファイルを作成しました: %s\n", path)
			}
			if configOnly {
				return nil
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			repo, err := cfg.Repository()
			if err != nil {
				return err
			}

			client, err := createGitHubClientFunc(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("GitHubクライアントの作成に失敗: %w", err)
			}

			created, err := client.EnsureLabel(ctx, repo, cfg.LabelDefinition())
			if err != nil {
				return fmt.Errorf("ラベルの確認/作成に失敗しました: %w", err)
			}
			if created {
				fmt.Fprintf(out, "ラベル '%s' を %s に作成しました\n", cfg.Label.Name, repo)
			} else {
				fmt.Fprintf(out, "ラベル '%s' は %s に既に存在します\n", cfg.Label.Name, repo)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "設定ファイルのひな形を作成")
	cmd.Flags().BoolVar(&configOnly, "config-only", false, "設定ファイルだけを作成し、ラベルは作成しない")
	cmd.Flags().StringVarP(&repoFlag, "repo", "r", "", "対象リポジトリ (owner/name)")
	cmd.Flags().StringVarP(&labelFlag, "label", "l", "", "コンフリクトラベル名")

	return cmd
}
