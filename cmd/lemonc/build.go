package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lemonc/internal/compiler"
	"lemonc/internal/ir"
)

var buildCmd = &cobra.Command{
	Use:   "build <project-dir>",
	Short: "load lemon.toml/lemon.yaml and run the full pipeline on its entry module",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	result, err := compiler.CompileProject(args[0])
	if err != nil {
		return fmt.Errorf("lemonc build: %w", err)
	}
	printDiagnostics(os.Stderr, result.Diagnostics, wantColor(cmd))
	if !result.Ok() {
		os.Exit(exitCode(result.Diagnostics))
	}
	return ir.Disassemble(os.Stdout, result.Program, result.Interner, result.Builder.Strings)
}
