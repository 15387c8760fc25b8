package cmd

import (
	"fmt"
	"strconv"

	"github.com/f3rmion/hoverword/internal/resolve"
	"github.com/f3rmion/hoverword/internal/token"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <text> <offset>",
	Short: "Print the word a pointer at offset would look up",
	Long: `Run word extraction on a piece of text with the caret at a character
offset, the way a pointer-move over that text would.

Example:
  hoverword resolve "The cat-sat on the mat" 6
  hoverword resolve --variant single "The cat-sat on the mat" 6`,
	Args: cobra.ExactArgs(2),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Bool("tokens", false, "also print the token split")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadUserConfig()
	if err != nil {
		return err
	}

	offset, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("offset must be an integer: %w", err)
	}

	variant, err := resolve.ParseVariant(cfg.Variant)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showTokens, _ := cmd.Flags().GetBool("tokens"); showTokens {
		for _, tok := range token.Tokenize(args[0]) {
			fmt.Fprintf(out, "  %-8s %q\n", tok.Class, tok.Text)
		}
	}

	word, ok := resolve.New(variant, cfg.MaxWords).ResolveText(args[0], offset)
	if !ok {
		fmt.Fprintln(out, "(no word)")
		return nil
	}

	lookup := "yes"
	if !token.HasWordChar(word) {
		lookup = "no, no word characters"
	}
	fmt.Fprintf(out, "%q (lookup: %s)\n", word, lookup)
	return nil
}
