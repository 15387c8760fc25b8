package cmd

import (
	"fmt"
	"sort"

	"github.com/f3rmion/hoverword/internal/settings"
	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show or change the lookup service endpoint",
	Long: `Read and write the stored options.

The only option is the lookup service endpoint (apiEndPoint). When it is not
set, http://127.0.0.1:8116 is used.

Example:
  hoverword options get
  hoverword options set http://127.0.0.1:9000
  hoverword options reset
  hoverword options list`,
}

var optionsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the lookup service endpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings()
		if err != nil {
			return err
		}
		defer store.Close()

		ep, err := store.EndPoint(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ep)
		return nil
	},
}

var optionsSetCmd = &cobra.Command{
	Use:   "set <url>",
	Short: "Store the lookup service endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetEndPoint(cmd.Context(), args[0]); err != nil {
			return err
		}

		ep, err := store.EndPoint(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", settings.KeyEndPoint, ep)
		return nil
	},
}

var optionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the stored endpoint and use the default",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), settings.KeyEndPoint); err != nil {
			return err
		}

		ep, err := store.EndPoint(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (default)\n", settings.KeyEndPoint, ep)
		return nil
	},
}

var optionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored option",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings()
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.All(cmd.Context())
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", k, all[k])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
	optionsCmd.AddCommand(optionsGetCmd, optionsSetCmd, optionsResetCmd, optionsListCmd)
}
