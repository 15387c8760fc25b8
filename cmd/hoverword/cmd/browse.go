package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/f3rmion/hoverword/internal/host/rodhost"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse <url>",
	Short: "Open a page in Chrome and look up words under the pointer",
	Long: `Open a URL in Chrome and report the word under the mouse pointer, or
the selected text, to the lookup service.

Chrome is launched by default; use --control-url to attach to a browser
started with --remote-debugging-port.

Example:
  hoverword browse https://go.dev/doc/effective_go
  hoverword browse --control-url ws://127.0.0.1:9222/devtools/browser/<id> https://example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().Bool("headless", false, "run Chrome without a window")
	browseCmd.Flags().String("chrome-bin", "", "Chrome binary to launch")
	browseCmd.Flags().String("control-url", "", "DevTools URL of a running Chrome")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	bc := rodhost.Config{
		Headless:   cfg.Browser.Headless,
		Bin:        cfg.Browser.Bin,
		ControlURL: cfg.Browser.ControlURL,
	}
	if cmd.Flags().Changed("headless") {
		bc.Headless, _ = cmd.Flags().GetBool("headless")
	}
	if v, _ := cmd.Flags().GetString("chrome-bin"); v != "" {
		bc.Bin = v
	}
	if v, _ := cmd.Flags().GetString("control-url"); v != "" {
		bc.ControlURL = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host, err := rodhost.Open(ctx, bc, args[0], logger)
	if err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	defer host.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", args[0])

	return runAgent(ctx, host, nil)
}
