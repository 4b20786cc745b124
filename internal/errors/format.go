package errors

import (
	"fmt"
	"strings"
)

// Format formats the diagnostic with the source line and a caret pointing
// at the error column. If color is true, ANSI color codes are used for
// terminal output.
func Format(d Diagnostic, source, file string, color bool) string {
	var sb strings.Builder

	// File and position header
	if file != "" {
		sb.WriteString(fmt.Sprintf("Error in %s:%d:%d\n", file, d.Line, d.Column))
	} else {
		sb.WriteString(fmt.Sprintf("Error at line %d:%d\n", d.Line, d.Column))
	}

	// Extract the relevant source line
	sourceLine := sourceLineAt(source, d.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		// Caret indicator
		col := d.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+col-1))
		if color {
			sb.WriteString("\033[1;31m") // Red bold
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m") // Reset
		}
		sb.WriteString("\n")
	}

	// Error message
	if color {
		sb.WriteString("\033[1m") // Bold
	}
	sb.WriteString(string(d.Kind))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m") // Reset
	}

	return sb.String()
}

// FormatAll formats multiple diagnostics, each with source context.
func FormatAll(diags []Diagnostic, source, file string, color bool) string {
	if len(diags) == 0 {
		return ""
	}

	if len(diags) == 1 {
		return Format(diags[0], source, file, color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compilation failed with %d error(s):\n\n", len(diags)))

	for i, d := range diags {
		sb.WriteString(fmt.Sprintf("[Error %d of %d]\n", i+1, len(diags)))
		sb.WriteString(Format(d, source, file, color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

// sourceLineAt extracts a specific line from the source code.
// Lines are 1-indexed.
func sourceLineAt(source string, lineNum int) string {
	if source == "" {
		return ""
	}

	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}

	return lines[lineNum-1]
}
