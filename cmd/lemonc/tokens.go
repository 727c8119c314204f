package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lemonc/internal/lexer"
	"lemonc/internal/source"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "print the token stream for a lemon source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func runTokens(_ *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("lemonc tokens: %w", err)
	}
	fs := source.NewFileSet()
	id := fs.AddText(args[0], text)
	f, _ := fs.Get(id)

	for _, tok := range lexer.New(f).Tokenize() {
		fmt.Printf("%-12s %-6s %q\n", tok.Kind, tok.Span, tok.Text)
	}
	return nil
}
