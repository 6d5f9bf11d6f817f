package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"storeadmin/internal/resource"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func renderTable(out io.Writer, schema resource.Schema, records []resource.Record) {
	fmt.Fprintln(out, titleStyle.Render(strings.ToUpper(schema.Name[:1])+schema.Name[1:]))
	if len(records) == 0 {
		fmt.Fprintln(out, dimStyle.Render("(no "+schema.Name+")"))
		return
	}

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	headers := []string{"ID"}
	for _, f := range schema.Fields {
		headers = append(headers, f.Label)
	}
	fmt.Fprintln(w, headerStyle.Render(strings.Join(headers, "\t")))

	for _, rec := range records {
		cells := []string{resource.PrimaryID(rec)}
		for _, f := range schema.Fields {
			cells = append(cells, cellValue(rec, f))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%d %s", len(records), schema.Name)))
}

func cellValue(rec resource.Record, f resource.Field) string {
	v, ok := rec[f.Name]
	if !ok || v == nil {
		if f.Name == "user" {
			for _, alt := range []string{"userId", "_id"} {
				if av, ok := rec[alt]; ok && av != nil {
					return formatValue(av)
				}
			}
		}
		return "-"
	}
	if f.Kind == resource.KindBool {
		if resource.CoerceBool(v) {
			return "active"
		}
		return "cancelled"
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case bool:
		return fmt.Sprintf("%t", t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
