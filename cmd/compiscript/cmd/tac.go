package cmd

import (
	"fmt"
	"os"

	"github.com/compiscript/compiscript/internal/tac"
	"github.com/spf13/cobra"
)

var tacCmd = &cobra.Command{
	Use:   "tac [file]",
	Short: "Print the Three-Address Code for a program",
	Long: `Compile a Compiscript program and print its TAC stream.

The textual format is the backend contract: one instruction per line,
function bodies bracketed by FUNCTION/END FUNCTION markers, labels
ending with a colon.`,
	Args: cobra.ExactArgs(1),
	RunE: runTAC,
}

func init() {
	rootCmd.AddCommand(tacCmd)
}

func runTAC(_ *cobra.Command, args []string) error {
	filename := args[0]

	res, cfg, source, err := compileFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = exitIO
		return err
	}

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

	fmt.Print(tac.Format(res.TAC))
	exitCode = exitOK
	return nil
}
