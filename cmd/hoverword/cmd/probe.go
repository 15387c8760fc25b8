package cmd

import (
	"fmt"

	"github.com/f3rmion/hoverword/internal/lookup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether the lookup service is ready",
	Long: `Send the /ack handshake to the lookup service once and report the result.
The command fails when the service is unreachable or answers with anything
but the acknowledge sentinel.`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	endpoint, err := resolveEndPoint(cmd.Context())
	if err != nil {
		return err
	}

	client := lookup.NewClient(endpoint, cfg.RequestTimeout)
	if err := client.Ack(cmd.Context()); err != nil {
		logger.Debug("probe failed", zap.String("endpoint", endpoint), zap.Error(err))
		return fmt.Errorf("%s is not ready: %w", client.BaseURL(), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is ready\n", client.BaseURL())
	return nil
}
