package cmd

import (
	"fmt"
	"time"

	"github.com/douhashi/conflictlabel/internal/config"
	"github.com/douhashi/conflictlabel/internal/reconciler"
	"github.com/spf13/cobra"
)

type runFlags struct {
	label              string
	repo               string
	maxAttempts        int
	interval           time.Duration
	dryRun             bool
	concurrency        int
	reconcileOnTimeout bool
}

func newRunCmd() *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "コンフリクトラベルを付け外しする",
		Long: `オープンなPull Requestのマージ可能性が確定するまでポーリングし、
コンフリクトしているPRにラベルを付け、解消されたPRからラベルを外します。
判定できないPRが残った場合やラベル操作に失敗した場合は終了コード1で終了します。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.label, "label", "l", "", "コンフリクトラベル名")
	cmd.Flags().StringVarP(&f.repo, "repo", "r", "", "対象リポジトリ (owner/name)")
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", reconciler.DefaultMaxAttempts, "ポーリング回数の上限")
	cmd.Flags().DurationVarP(&f.interval, "interval", "i", reconciler.DefaultInterval, "ポーリング間隔")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "ラベルを変更せずに判定だけを表示")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", reconciler.DefaultConcurrency, "ラベル操作の同時実行数")
	cmd.Flags().BoolVar(&f.reconcileOnTimeout, "reconcile-on-timeout", false, "判定できないPRが残っても判定済みのPRは処理する")

	return cmd
}

// applyRunFlags は明示的に指定されたフラグで設定を上書きする
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, f *runFlags) {
	flags := cmd.Flags()
	if flags.Changed("label") {
		cfg.Label.Name = f.label
	}
	if flags.Changed("repo") {
		cfg.GitHub.Repository = f.repo
	}
	if flags.Changed("max-attempts") {
		cfg.Poll.MaxAttempts = f.maxAttempts
	}
	if flags.Changed("interval") {
		cfg.Poll.Interval = f.interval
	}
	if flags.Changed("dry-run") {
		cfg.Reconcile.DryRun = f.dryRun
	}
	if flags.Changed("concurrency") {
		cfg.Reconcile.Concurrency = f.concurrency
	}
	if flags.Changed("reconcile-on-timeout") {
		cfg.Reconcile.OnTimeout = f.reconcileOnTimeout
	}
}

func runReconcile(cmd *cobra.Command, f *runFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	log := getLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg, f)
	if err := fillRepository(ctx, cfg, log); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := cfg.ControllerOptions()
	if err != nil {
		return err
	}

	client, err := createGitHubClientFunc(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("GitHubクライアントの作成に失敗: %w", err)
	}
	logRateBudget(ctx, client, log)

	if cfg.Label.CreateIfMissing {
		created, err := client.EnsureLabel(ctx, opts.Repository, cfg.LabelDefinition())
		if err != nil {
			return fmt.Errorf("ラベルの作成に失敗: %w", err)
		}
		if created {
			fmt.Fprintf(out, "ラベル '%s' を作成しました\n", cfg.Label.Name)
		}
	}

	result, runErr := reconciler.NewController(client, opts, log).Run(ctx)
	printRunResult(cmd, result)
	return runErr
}

func printRunResult(cmd *cobra.Command, result *reconciler.RunResult) {
	if result == nil {
		return
	}
	out := cmd.OutOrStdout()

	if result.Poll != nil {
		fmt.Fprintf(out, "Pull Request: %d件 (ポーリング%d回, 未確定%d件)\n",
			len(result.Poll.PullRequests), result.Poll.Attempts, result.Poll.UnresolvedCount())
	}
	if result.Report != nil {
		prefix := ""
		for _, o := range result.Report.Outcomes {
			if o.DryRun {
				prefix = "[dry-run] "
				break
			}
		}
		fmt.Fprintf(out, "%sラベル '%s': 追加 %d, 削除 %d, 変更なし %d, 失敗 %d\n",
			prefix, result.Label.Name,
			result.Report.Added(), result.Report.Removed(), result.Report.Skipped(), result.Report.Failed())
	}
	if result.State == reconciler.StateFailed {
		fmt.Fprintf(cmd.ErrOrStderr(), "失敗したステップ: %s\n", result.FailedAt)
	}
}
