package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lemonc/internal/compiler"
	"lemonc/internal/ir"
)

var irCmd = &cobra.Command{
	Use:   "ir <file>",
	Short: "check a lemon source file and print its IR disassembly",
	Args:  cobra.ExactArgs(1),
	RunE:  runIR,
}

func runIR(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	result, err := compiler.CompileFile(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("lemonc ir: %w", err)
	}
	printDiagnostics(os.Stderr, result.Diagnostics, wantColor(cmd))
	if !result.Ok() {
		os.Exit(exitCode(result.Diagnostics))
	}
	if err := ir.Disassemble(os.Stdout, result.Program, result.Interner, result.Builder.Strings); err != nil {
		return fmt.Errorf("lemonc ir: %w", err)
	}
	return nil
}
