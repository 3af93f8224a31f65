package main

import "encoding/json"
import "fmt"

import s "github.com/bnclabs/gosettings"
import "github.com/bnclabs/memservice/bitbucket"
import "github.com/bnclabs/memservice/malloc"
import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(newSettingsCmd())
}

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print default settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setts := make(s.Settings).Mixin(
				malloc.Defaultsettings(), bitbucket.Defaultsettings(),
			)
			data, err := json.MarshalIndent(setts, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
