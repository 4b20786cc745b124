package cmd

import (
	"fmt"
	"os"

	"github.com/compiscript/compiscript/internal/config"
	"github.com/compiscript/compiscript/internal/driver"
	"github.com/compiscript/compiscript/internal/errors"
	"github.com/compiscript/compiscript/internal/tac"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Compile a Compiscript file",
	Long: `Compile a Compiscript program: run semantic analysis, print the
diagnosis, and generate code for clean programs.

Examples:
  # Diagnose a program
  compiscript build program.cps

  # Print the generated TAC
  compiscript build program.cps --tac

  # Emit MIPS32 assembly next to the source
  compiscript build program.cps --mips`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolVar(&flagMIPS, "mips", false, "emit MIPS32 assembly to <input>.asm (or -o)")
	buildCmd.Flags().BoolVar(&flagTAC, "tac", false, "print the TAC stream to stdout")
	buildCmd.Flags().BoolVar(&flagDumpSymbols, "dump-symbols", false, "print the symbol table scope tree")
	buildCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "assembly output path, or - for stdout")
	buildCmd.SilenceUsage = true
}

// compileFile loads, configures and compiles one source file.
func compileFile(filename string) (*driver.Result, *config.Config, string, error) {
	if !config.HasSourceExt(filename) {
		return nil, nil, "", fmt.Errorf("%s: not a %s file", filename, config.SourceFileExt)
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(content)

	cfg, err := config.Load(filename)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to read %s: %w", config.FileName, err)
	}

	return driver.Compile(source), cfg, source, nil
}

func runBuild(_ *cobra.Command, args []string) error {
	filename := args[0]

	res, cfg, source, err := compileFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = exitIO
		return err
	}

	color := useColor(cfg.Color)
	reportDiagnostics(res, source, filename, cfg, color)

	switch {
	case len(res.SyntaxErrors) > 0:
		exitCode = exitIO
		return fmt.Errorf("parsing failed with %d error(s)", len(res.SyntaxErrors))
	case len(res.Diagnostics) > 0:
		exitCode = exitSemantic
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(res.Diagnostics))
	}

	if flagDumpSymbols {
		res.Table.Dump(os.Stdout)
	}
	if flagTAC {
		fmt.Print(tac.Format(res.TAC))
	}
	if flagMIPS {
		if err := writeMIPS(res, filename, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = exitIO
			return err
		}
	}

	exitCode = exitOK
	return nil
}

// reportDiagnostics prints the verdict banner and the bulleted
// diagnostic list to stderr.
func reportDiagnostics(res *driver.Result, source, filename string, cfg *config.Config, color bool) {
	if res.Ok() {
		fmt.Fprintln(os.Stderr, banner(true, color))
		return
	}

	fmt.Fprintln(os.Stderr, banner(false, color))
	for _, d := range res.All() {
		line := fmt.Sprintf("  - %s", d)
		if color {
			line = bulletStyle.Render(line)
		}
		fmt.Fprintln(os.Stderr, line)
	}

	if cfg.ContextLines > 0 {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, errors.FormatAll(res.All(), source, filename, color))
	}
}

// writeMIPS emits assembly to the configured destination: -o wins, then
// the config file, then <input>.asm.
func writeMIPS(res *driver.Result, filename string, cfg *config.Config) error {
	asm := res.EmitMIPS()

	dest := flagOutput
	if dest == "" {
		dest = cfg.MIPS.Output
	}
	if dest == "-" {
		fmt.Print(asm)
		return nil
	}
	if dest == "" {
		dest = config.TrimSourceExt(filename) + ".asm"
	}

	return os.WriteFile(dest, []byte(asm), 0644)
}
