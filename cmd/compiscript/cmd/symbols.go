package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [file]",
	Short: "Print the symbol table scope tree",
	Long: `Run semantic analysis and print the scope tree: one scope per
indent level, each symbol as "kind name : type [const] [init]".

The dump is diagnostic output; it is printed even when the program has
semantic errors, so partially analyzed scopes stay inspectable.`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
}

func runSymbols(_ *cobra.Command, args []string) error {
	filename := args[0]

	res, cfg, source, err := compileFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = exitIO
		return err
	}

	res.Table.Dump(os.Stdout)

	if !res.Ok() {
		color := useColor(cfg.Color)
		reportDiagnostics(res, source, filename, cfg, color)
		if len(res.SyntaxErrors) > 0 {
			exitCode = exitIO
		} else {
			exitCode = exitSemantic
		}
		return fmt.Errorf("compilation failed with %d error(s)", len(res.All()))
	}

	exitCode = exitOK
	return nil
}
