package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/timmy/astroinsight/internal/service"
)

var errNoArchive = errors.New("insight archive is disabled (set archive.enabled and QDRANT_HOST)")

func newArchiveCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Query and prune the insight archive",
	}

	var (
		query  service.ArchiveQuery
		format string
	)
	searchCmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Find archived insights similar to the given text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			a, ctx, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			if a.Archive == nil {
				return errNoArchive
			}

			query.Text = strings.Join(args, " ")
			hits, err := a.Archive.Search(ctx, query)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), hits)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderArchiveHits(hits))
			return nil
		},
	}

	searchCmd.Flags().StringVar(&query.Sign, "sign", "", "only insights for this sign")
	searchCmd.Flags().StringVarP(&query.Language, "language", "l", "", "only insights in this language")
	searchCmd.Flags().StringVar(&query.Day, "on", "", "only insights of this day (YYYY-MM-DD)")
	searchCmd.Flags().IntVar(&query.Limit, "limit", 10, "maximum number of results")
	searchCmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")

	forgetCmd := &cobra.Command{
		Use:   "forget <YYYY-MM-DD>",
		Short: "Remove every archived insight of one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			if a.Archive == nil {
				return errNoArchive
			}
			if err := a.Archive.Forget(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed archived insights of %s.\n", strings.TrimSpace(args[0]))
			return nil
		},
	}

	cmd.AddCommand(searchCmd, forgetCmd)
	return cmd
}
