package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/timmy/astroinsight/internal/app"
	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/service"
)

var errNoStorage = errors.New("object storage is not configured (set storage.endpoint or S3_ENDPOINT)")

func newPublishCmd(root *rootOptions) *cobra.Command {
	var (
		languages []string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the day's almanac for every sign to object storage",
		Long: `Resolve all twelve signs for the day and upload one JSON almanac per language
to <prefix>/<day>/<language>.json. Existing almanacs are skipped unless --force is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			if a.Publisher == nil {
				return errNoStorage
			}
			langs, err := resolveLanguages(a, languages)
			if err != nil {
				return err
			}

			stats, err := a.Publisher.Publish(ctx, langs, &service.PublishOptions{Force: force})
			if stats != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderPublishStats(stats))
			}
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&languages, "language", "l", nil, "languages to publish (default: all supported)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite almanacs that already exist")

	cmd.AddCommand(newPublishShowCmd(root))
	return cmd
}

func newPublishShowCmd(root *rootOptions) *cobra.Command {
	var language, format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Download and print a published almanac",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			a, ctx, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			if a.Publisher == nil {
				return errNoStorage
			}
			lang, err := a.Insights.ResolveLanguage(language)
			if err != nil {
				return err
			}

			almanac, err := a.Publisher.Fetch(ctx, a.Insights.Today(), lang)
			if err != nil {
				return fmt.Errorf("fetching almanac: %w", err)
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), almanac)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderAlmanac(almanac))
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "almanac language (en, hi)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	return cmd
}

func resolveLanguages(a *app.App, raw []string) ([]domain.Language, error) {
	langs := make([]domain.Language, 0, len(raw))
	for _, r := range raw {
		lang, err := a.Insights.ResolveLanguage(r)
		if err != nil {
			return nil, err
		}
		langs = append(langs, lang)
	}
	return langs, nil
}
