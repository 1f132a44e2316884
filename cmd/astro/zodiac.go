package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newZodiacCmd(root *rootOptions) *cobra.Command {
	var date, language, format string

	cmd := &cobra.Command{
		Use:   "zodiac",
		Short: "Show the zodiac sign for a birth date",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			a, ctx, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			z, err := a.Insights.Zodiac(ctx, date, language)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), z)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderZodiac(z))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "birth date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "language of the sign name (en, hi)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newSignsCmd(root *rootOptions) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "signs",
		Short: "List the twelve signs with their date ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := root.open(cmd)
			if err != nil {
				return err
			}
			defer closeApp(cmd, a)

			signs, err := a.Insights.Signs(ctx, language)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSigns(signs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "language of the sign names (en, hi)")
	return cmd
}
