package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lemonc/internal/compiler"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "type-check and borrow-check a lemon source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	result, err := compiler.CompileFile(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("lemonc check: %w", err)
	}
	printDiagnostics(os.Stderr, result.Diagnostics, wantColor(cmd))
	if !result.Ok() {
		os.Exit(exitCode(result.Diagnostics))
	}
	return nil
}
