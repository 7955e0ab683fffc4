// Package render formats dispenser output for terminals.
package render

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"dispenser/pkg/dispenser"
)

var (
	colorPrepared = lipgloss.Color("42")
	colorRejected = lipgloss.Color("203")
	colorLow      = lipgloss.Color("214")
	colorMuted    = lipgloss.Color("242")
)

// IsTerminal reports whether a writer is a TTY.
func IsTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

// OutcomeLines renders one line per outcome, sorted for stable output.
func OutcomeLines(outcomes []dispenser.Outcome, noColor bool) []string {
	sorted := append([]dispenser.Outcome(nil), outcomes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })
	lines := make([]string, 0, len(sorted))
	for _, o := range sorted {
		color := colorRejected
		if o.Kind == dispenser.OutcomePrepared {
			color = colorPrepared
		}
		lines = append(lines, stylize(o.String(), noColor, color))
	}
	return lines
}

// Outcomes writes the outcome lines to w.
func Outcomes(w io.Writer, outcomes []dispenser.Outcome, noColor bool) {
	for _, line := range OutcomeLines(outcomes, noColor) {
		fmt.Fprintln(w, line)
	}
}

// Inventory renders the stock as a table with a low-stock marker column.
func Inventory(stock dispenser.Stock, low []dispenser.Resource, noColor bool) string {
	lowSet := make(map[dispenser.Resource]struct{}, len(low))
	for _, r := range low {
		lowSet[r] = struct{}{}
	}
	rows := make([]table.Row, 0, len(stock))
	nameWidth := len("Item")
	for _, r := range stock.Resources() {
		status := "ok"
		if _, ok := lowSet[r]; ok {
			status = "low"
		}
		rows = append(rows, table.Row{string(r), strconv.FormatUint(uint64(stock[r]), 10), status})
		nameWidth = max(nameWidth, len(r))
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Item", Width: nameWidth},
			{Title: "Quantity", Width: 10},
			{Title: "Status", Width: 6},
		}),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2),
		table.WithStyles(tableStyles(noColor)),
	)
	return t.View()
}

// LowItems renders the low-item indicator line.
func LowItems(low []dispenser.Resource, noColor bool) string {
	if len(low) == 0 {
		return stylize("Low items: none", noColor, colorMuted)
	}
	names := make([]string, 0, len(low))
	for _, r := range low {
		names = append(names, string(r))
	}
	return stylize("Low items: "+strings.Join(names, ", "), noColor, colorLow)
}

// tableStyles returns table styles; selection highlighting is disabled since the table is static.
func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	styles.Selected = lipgloss.NewStyle()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
