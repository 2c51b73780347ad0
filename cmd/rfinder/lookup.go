package main

import (
	"encoding/json"

	"rfinder/internal/services/finder/domain"
	findermod "rfinder/internal/services/finder/module"

	"github.com/spf13/cobra"
)

var (
	lookupJSON    bool
	lookupVerbose bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <username>",
	Short: "Report the signals of one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, cleanup, err := openModule(cmd.Context(), findermod.Options{})
		if err != nil {
			return err
		}
		defer cleanup()

		p := printer{out: cmd.OutOrStdout(), verbose: true}
		emit := domain.Discard
		if lookupVerbose {
			emit = p.event
		}
		res, err := mod.Finder().Finder.Lookup(cmd.Context(), args[0], emit)
		if err != nil {
			return err
		}
		if lookupJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		p.lookup(res)
		return nil
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print the result as JSON")
	lookupCmd.Flags().BoolVarP(&lookupVerbose, "verbose", "v", false, "print lookup log lines")
	rootCmd.AddCommand(lookupCmd)
}
