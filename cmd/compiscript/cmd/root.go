package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes of the driver.
const (
	exitOK       = 0
	exitSemantic = 1
	exitIO       = 2
)

var (
	flagMIPS        bool
	flagTAC         bool
	flagDumpSymbols bool
	flagNoColor     bool
	flagOutput      string

	exitCode int
)

var (
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	bulletStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

var rootCmd = &cobra.Command{
	Use:   "compiscript [file]",
	Short: "Compiscript compiler",
	Long: `compiscript compiles Compiscript source files (.cps) to
Three-Address Code and MIPS32 assembly runnable under SPIM or MARS.

The pipeline runs lexing, parsing, semantic analysis with a scoped
symbol table, and TAC generation. Semantic diagnostics accumulate and
are printed with source positions; code is only generated for clean
programs.`,
	Version: Version,
	Args:    cobra.ExactArgs(1),
	RunE:    runBuild,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if exitCode == exitOK {
			exitCode = exitIO
		}
	}
	return exitCode
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable styled output")
	rootCmd.Flags().BoolVar(&flagMIPS, "mips", false, "emit MIPS32 assembly to <input>.asm (or -o)")
	rootCmd.Flags().BoolVar(&flagTAC, "tac", false, "print the TAC stream to stdout")
	rootCmd.Flags().BoolVar(&flagDumpSymbols, "dump-symbols", false, "print the symbol table scope tree")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "assembly output path, or - for stdout")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

// useColor decides whether styled output is active for stderr.
func useColor(force *bool) bool {
	if flagNoColor {
		return false
	}
	if force != nil {
		return *force
	}
	return isatty.IsTerminal(os.Stderr.Fd())
}

func banner(ok, color bool) string {
	if ok {
		if color {
			return okStyle.Render("[OK]")
		}
		return "[OK]"
	}
	if color {
		return errStyle.Render("[ERROR]")
	}
	return "[ERROR]"
}
