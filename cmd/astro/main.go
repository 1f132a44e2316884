package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "astro",
		Short:         "Astrological Insight Generator",
		Long:          "astro resolves a birth date to its zodiac sign and prints a short daily insight.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVar(&opts.day, "day", "", "use this day (YYYY-MM-DD) instead of today")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "write debug logs to stderr")

	root.AddCommand(
		newInsightCmd(opts),
		newZodiacCmd(opts),
		newSignsCmd(opts),
		newPublishCmd(opts),
		newCacheCmd(opts),
		newArchiveCmd(opts),
	)
	return root
}
