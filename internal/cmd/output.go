package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/acervo/autorctl/internal/autor"
	"github.com/liggitt/tabwriter"
)

// Output format constants
const (
	OutputFormatJSON  = "json"
	OutputFormatTable = "table"
	OutputFormatName  = "name"
)

var outputFormats = []string{OutputFormatJSON, OutputFormatTable, OutputFormatName}

// newTableWriter creates a consistently configured tabwriter for table output.
func newTableWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func writeJSON(out io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func writeAuthorTable(out io.Writer, authors []autor.Author) error {
	w := newTableWriter(out)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tBIRTH YEAR\tCOUNTRY")
	for _, a := range authors {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Name, formatYear(a.BirthYear), valueOrNone(a.Country))
	}
	return w.Flush()
}

func writeAuthorNames(out io.Writer, authors []autor.Author) error {
	for _, a := range authors {
		if _, err := fmt.Fprintln(out, a.Name); err != nil {
			return err
		}
	}
	return nil
}

func formatYear(year int) string {
	if year == 0 {
		return "<none>"
	}
	return strconv.Itoa(year)
}

func valueOrNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
