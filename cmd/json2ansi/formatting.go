package json2ansi

import (
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/json2ansi/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	if !isTerminal(os.Stdout) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

func formatUpper(s string) string {
	return strings.ToUpper(s)
}

// formatBoldUpper returns the string in uppercase and bold
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting adds custom formatting functions to Cobra templates
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     formatUpper,
		"boldUpper": formatBoldUpper,
	})
}

// FormatError renders err for stderr: pterm's error prefix, the message and,
// on a second line, any details other than the path.
func FormatError(err error) string {
	return formatError(err, isTerminal(os.Stderr))
}

func formatError(err error, styled bool) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	details := errors.FormatDetails(err)

	if !styled {
		out := "ERROR: " + msg
		if details != "" {
			out += "\n  " + details
		}
		return out
	}

	out := pterm.Error.Prefix.Text + " " + pterm.Error.MessageStyle.Sprint(msg)
	if details != "" {
		out += "\n  " + pterm.FgGray.Sprint(details)
	}
	return out
}
