package export

import (
	"fmt"
	"strings"
)

// MarkdownExporter renders datasets as a GitHub-flavoured markdown table.
type MarkdownExporter struct{}

// NewMarkdownExporter constructs a markdown exporter.
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Render writes an optional H1 title, optional preamble lines and the table.
func (e *MarkdownExporter) Render(data Dataset, title string, preamble ...string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("markdown requires at least one header")
	}
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", escapeMarkdownCell(title))
	}
	for _, line := range preamble {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(preamble) > 0 {
		b.WriteString("\n")
	}

	writeMarkdownRow(&b, data.Headers)
	sep := make([]string, len(data.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	writeMarkdownRow(&b, sep)

	for _, row := range data.Rows {
		cells := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			cells[i] = escapeMarkdownCell(row[header])
		}
		writeMarkdownRow(&b, cells)
	}
	return []byte(b.String()), nil
}

func writeMarkdownRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

func escapeMarkdownCell(raw string) string {
	raw = strings.ReplaceAll(raw, "|", `\|`)
	return strings.Join(strings.Fields(raw), " ")
}
