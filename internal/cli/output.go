package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// printer renders command results as a table or as indented JSON.
type printer struct {
	format string
	out    io.Writer
}

// table is a header row plus data rows.
type table struct {
	headers []string
	rows    [][]string
}

// print writes doc as JSON, or t as an aligned table.
func (p *printer) print(doc any, t table) error {
	if p.format == formatJSON {
		return p.json(doc)
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.headers, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// message reports the outcome of a command without a response body.
func (p *printer) message(fields any, format string, args ...any) error {
	if p.format == formatJSON {
		return p.json(fields)
	}
	_, err := fmt.Fprintf(p.out, format+"\n", args...)
	return err
}

func (p *printer) json(v any) error {
	encoder := json.NewEncoder(p.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
