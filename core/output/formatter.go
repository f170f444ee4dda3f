package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"print-pricing/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown table
	FormatMarkdown Format = "markdown"
)

// Formatter renders a quote in a specific format
type Formatter interface {
	Format() Format
	Render(w io.Writer, q *Quote) error
}

// NewFormatter returns the formatter for f
func NewFormatter(f Format, showDetails bool) (Formatter, error) {
	switch f {
	case FormatCLI, "":
		return &CLIFormatter{ShowDetails: showDetails}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	}
	return nil, errors.Validationf("unknown output format %q (want cli, json or markdown)", f)
}

// CLIFormatter draws a boxed summary table
type CLIFormatter struct {
	ShowDetails bool
}

func (f *CLIFormatter) Format() Format { return FormatCLI }

const boxWidth = 73

func (f *CLIFormatter) Render(w io.Writer, q *Quote) error {
	bw := &errWriter{w: w}
	rule := strings.Repeat("─", boxWidth)

	bw.printf("┌%s┐\n", rule)
	bw.printf("│%s│\n", center(strings.ToUpper(strings.ReplaceAll(q.Product, "_", " "))+" QUOTE", boxWidth))
	bw.printf("├%s┤\n", rule)

	for _, line := range q.Lines {
		bw.printf("│ %-50s %20s │\n", truncate(line.Label, 50), FormatDecimal(line.Amount))
		if f.ShowDetails {
			if line.Description != "" {
				bw.printf("│   └─ %-66s │\n", truncate(line.Description, 66))
			}
			for _, item := range line.Items {
				bw.printf("│      %-46s %20s │\n", truncate(item.Item, 46), fmt.Sprintf("%.4g", item.Cost))
			}
		}
	}

	bw.printf("├%s┤\n", rule)
	bw.printf("│ %-50s %20s │\n", "TOTAL", FormatDecimal(q.Total))
	if q.Quantity > 0 {
		bw.printf("│ %-50s %20s │\n", fmt.Sprintf("PER UNIT (%d units)", q.Quantity), "$"+q.UnitPrice.StringFixed(4))
	}
	bw.printf("└%s┘\n", rule)

	if q.Delivery != nil {
		bw.printf("\nEstimated completion: %s to %s (%s)\n",
			q.Delivery.Earliest.Format("Mon Jan 2"), q.Delivery.Latest.Format("Mon Jan 2"), q.Delivery.Label)
	}
	if !q.Complete {
		bw.printf("\nConfiguration is incomplete.\n")
	}
	for _, issue := range q.Issues {
		bw.printf("%s [%s] %s\n", issue.Severity, issue.Module, issue.Message)
	}
	return bw.err
}

// JSONFormatter encodes the quote as JSON
type JSONFormatter struct {
	Indent string
}

func (f *JSONFormatter) Format() Format { return FormatJSON }

func (f *JSONFormatter) Render(w io.Writer, q *Quote) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	return enc.Encode(q)
}

// MarkdownFormatter renders a table suitable for tickets and emails
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

func (f *MarkdownFormatter) Render(w io.Writer, q *Quote) error {
	bw := &errWriter{w: w}
	bw.printf("| Stage | Details | Amount |\n")
	bw.printf("|---|---|---:|\n")
	for _, line := range q.Lines {
		bw.printf("| %s | %s | %s |\n", line.Label, strings.ReplaceAll(line.Description, "|", "\\|"), FormatDecimal(line.Amount))
	}
	bw.printf("| **Total** | | **%s** |\n", FormatDecimal(q.Total))
	return bw.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func center(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
