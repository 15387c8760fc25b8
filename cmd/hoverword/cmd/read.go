package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/f3rmion/hoverword/internal/host/termhost"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var readCmd = &cobra.Command{
	Use:   "read <file>",
	Short: "Show a text file and look up words under the mouse",
	Long: `Show a plain-text file in the terminal. Moving the mouse over a word
sends it to the lookup service; dragging with the left button selects text
and sends the selection instead.

Logs are discarded unless --log-file is given, since the terminal is in use.

Example:
  hoverword read README.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	host := termhost.New(filepath.Base(args[0]), termhost.NewDocument(string(data)), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	uiCtx, quit := context.WithCancel(ctx)
	defer quit()

	g.Go(func() error {
		defer quit()
		return host.Run(uiCtx)
	})
	g.Go(func() error {
		return runAgent(uiCtx, host, host)
	})

	return g.Wait()
}
