package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the insight cache",
		Long: `Inspect and maintain the insight cache.

The in-memory cache lives only as long as one process, so these commands are
most useful with cache.backend set to database.`,
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			stats, err := a.Insights.CacheStats(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCacheStats(stats))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached insight",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			if err := a.Insights.ClearCache(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All cached insights cleared.")
			return nil
		},
	}

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached insights of earlier days",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			removed, err := a.Insights.PruneCache(ctx)
			if err != nil {
				return err
			}
			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to prune.")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d insight(s) from earlier days.\n", removed)
			}
			return nil
		},
	}

	cmd.AddCommand(statsCmd, clearCmd, pruneCmd)
	return cmd
}
