// Package render formats sort results and pass traces for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"digitsort/internal/radix"

	"github.com/charmbracelet/lipgloss"
)

// Styles groups the lipgloss styles used for trace output.
type Styles struct {
	Header lipgloss.Style
	Label  lipgloss.Style
	Digit  lipgloss.Style
	Muted  lipgloss.Style
}

// DefaultStyles returns the colored trace styles.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Digit:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EE6FF8")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// PlainStyles returns unstyled output, for pipes and tests.
func PlainStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle(),
		Label:  lipgloss.NewStyle(),
		Digit:  lipgloss.NewStyle(),
		Muted:  lipgloss.NewStyle(),
	}
}

// Values writes a sequence on one line, space separated.
func Values(w io.Writer, values []int) error {
	_, err := fmt.Fprintln(w, Join(values))
	return err
}

// Join formats values space separated.
func Join(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// JSON writes values as a JSON array. A nil slice is written as [].
func JSON(w io.Writer, values []int) error {
	if values == nil {
		values = []int{}
	}
	return json.NewEncoder(w).Encode(values)
}

// Trace writes one block per pass: the digit position, the bucket fill and
// the working sequence after the pass.
func Trace(w io.Writer, passes []radix.Pass, s Styles) error {
	var b strings.Builder
	if len(passes) == 0 {
		b.WriteString(s.Muted.Render("no passes (empty input)"))
		b.WriteString("\n")
	}
	for _, p := range passes {
		b.WriteString(s.Header.Render(fmt.Sprintf("pass %d", p.Index)))
		b.WriteString(s.Muted.Render(fmt.Sprintf(" (digit x%d)", p.Divisor)))
		b.WriteString("\n")

		b.WriteString(s.Label.Render("  buckets:"))
		for d, n := range p.Buckets {
			if n == 0 {
				b.WriteString(s.Muted.Render(fmt.Sprintf(" %d:0", d)))
				continue
			}
			b.WriteString(" ")
			b.WriteString(s.Digit.Render(fmt.Sprintf("%d:%d", d, n)))
		}
		b.WriteString("\n")

		b.WriteString(s.Label.Render("  values: "))
		b.WriteString(" ")
		b.WriteString(Join(p.Values))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
