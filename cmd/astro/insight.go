package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/timmy/astroinsight/internal/service"
)

type insightOptions struct {
	name     string
	date     string
	place    string
	language string
	format   string
}

func newInsightCmd(root *rootOptions) *cobra.Command {
	opts := &insightOptions{}

	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Print today's insight for a birth date",
		Long: `Resolve a birth date to its zodiac sign and print today's insight.

Name and birth date are prompted for when not given as flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}

			a, ctx, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			if opts.name == "" || opts.date == "" {
				fmt.Fprintln(cmd.OutOrStdout(), renderBanner())
				if err := opts.prompt(cmd, bufio.NewReader(cmd.InOrStdin())); err != nil {
					return err
				}
			}

			if !a.Insights.RemoteEnabled() {
				fmt.Fprintln(cmd.ErrOrStderr(), renderNote(
					"No language model API key found. Using rule-based insights.\n"+
						"Set OPENAI_API_KEY or GEMINI_API_KEY for generated insights."))
			}

			resp, err := a.Insights.Handle(ctx, service.InsightRequest{
				Name:       opts.name,
				BirthDate:  opts.date,
				BirthPlace: opts.place,
				Language:   opts.language,
			})
			if err != nil {
				return err
			}

			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderInsight(strings.TrimSpace(opts.name), resp))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "your name")
	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.place, "place", "", "birth place (optional)")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "response language (en, hi)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")
	return cmd
}

// prompt asks for every field that was not set on the command line.
func (o *insightOptions) prompt(cmd *cobra.Command, r *bufio.Reader) error {
	w := cmd.OutOrStdout()
	flags := cmd.Flags()

	var err error
	if o.name == "" {
		if o.name, err = promptLine(r, w, "Enter your name: "); err != nil {
			return err
		}
	}
	if o.date == "" {
		if o.date, err = promptLine(r, w, "Enter your birth date (YYYY-MM-DD): "); err != nil {
			return err
		}
	}
	if !flags.Changed("place") {
		if o.place, err = promptLine(r, w, "Enter your birth place (optional): "); err != nil {
			return err
		}
	}
	if !flags.Changed("language") {
		if o.language, err = promptLine(r, w, "Choose language (en/hi) [default: en]: "); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)
	return nil
}

// promptLine reads one trimmed line. End of input yields whatever was typed.
func promptLine(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
