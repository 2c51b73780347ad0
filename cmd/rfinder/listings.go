package main

import (
	"fmt"

	"rfinder/internal/core/classify"
	"rfinder/internal/core/filter"
	"rfinder/internal/core/sample"

	"github.com/spf13/cobra"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List username methods",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, m := range classify.Methods {
			fmt.Fprintln(cmd.OutOrStdout(), m)
		}
	},
}

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List year buckets and their id ranges",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, label := range sample.Labels() {
			b, _ := sample.Lookup(label)
			fmt.Fprintf(cmd.OutOrStdout(), "%-9s %d-%d\n", label, b.Min, b.Max)
		}
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List badge names accepted by --badge",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, b := range filter.BadgeAllowlist {
			fmt.Fprintln(cmd.OutOrStdout(), b)
		}
	},
}

func init() {
	rootCmd.AddCommand(methodsCmd, yearsCmd, badgesCmd)
}
