package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-dft/logging"
)

// ANSI colors for terminal output
var (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

var titleCaser = cases.Title(language.English)

func disableColors() {
	ColorReset, ColorRed, ColorGreen, ColorYellow, ColorCyan, ColorBold = "", "", "", "", "", ""
	logging.DisableColors()
}

// Table is tabular command output. Rows are rendered in table mode; Value is
// what json and yaml modes encode.
type Table struct {
	Title   string
	Columns []string // snake_case, title-cased for display
	Rows    [][]string
	Value   any
}

// emit renders t to stdout in the configured output format.
func emit(t *Table) error {
	return render(os.Stdout, viper.GetString("output_format"), t)
}

// render writes t in the requested format.
func render(w io.Writer, format string, t *Table) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t.Value)

	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t.Value); err != nil {
			return err
		}
		return enc.Close()

	case "table", "":
		return renderTable(w, t)

	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func renderTable(w io.Writer, t *Table) error {
	if t.Title != "" {
		fmt.Fprintf(w, "%s%s%s\n", ColorBold, t.Title, ColorReset)
		fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", len(t.Title)))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = titleCaser.String(strings.ReplaceAll(c, "_", " "))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t")+"\t")
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

func formatFloat(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}
