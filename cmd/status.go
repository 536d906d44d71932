package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/douhashi/conflictlabel/internal/reconciler"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var labelFlag, repoFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Pull Requestのマージ可能性とラベルの状態を表示",
		Long: `オープンなPull Requestを1回だけ取得し、マージ可能性とコンフリクトラベルの有無、
runを実行した場合の操作を表示します。ラベルは変更しません。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			log := getLogger()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("label") {
				cfg.Label.Name = labelFlag
			}
			if cmd.Flags().Changed("repo") {
				cfg.GitHub.Repository = repoFlag
			}
			if err := fillRepository(ctx, cfg, log); err != nil {
				return err
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

			label, err := reconciler.NewResolver(client, log).Resolve(ctx, repo, cfg.Label.Name)
			if err != nil {
				return err
			}
			prs, err := client.FetchOpenPullRequests(ctx, repo)
			if err != nil {
				return fmt.Errorf("Pull Requestの取得に失敗: %w", err)
			}

			classification := reconciler.Classify(prs)
			actions := make(map[string]reconciler.Action)
			for _, o := range reconciler.Plan(label, classification) {
				actions[o.PullRequest.ID] = o.Action
			}

			fmt.Fprintf(out, "%s (ラベル: %s)\n", repo, label.Name)
			fmt.Fprintf(out, "コンフリクト %d件, マージ可能 %d件, 未確定 %d件\n\n",
				len(classification.Conflicting), len(classification.Mergeable), len(classification.Unknown))

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PR\tMERGEABLE\tLABELED\tACTION\tTITLE")
			for _, pr := range prs {
				action := "-"
				if a, ok := actions[pr.ID]; ok {
					action = string(a)
				}
				fmt.Fprintf(w, "#%d\t%s\t%t\t%s\t%s\n", pr.Number, pr.Mergeable, pr.HasLabel(label.ID), action, pr.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&labelFlag, "label", "l", "", "コンフリクトラベル名")
	cmd.Flags().StringVarP(&repoFlag, "repo", "r", "", "対象リポジトリ (owner/name)")

	return cmd
}
