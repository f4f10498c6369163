package commands

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"splitter/internal/core"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// newTable right-aligns every column from numericFrom on.
func newTable(numericFrom int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col >= numericFrom:
				return amountStyle
			default:
				return cellStyle
			}
		})
}

func renderSummary(s core.Summary) string {
	t := newTable(1, "Contributor", "Share", "To pay")
	for i, share := range s.PercentShares {
		pay := ""
		if i < len(s.ToPay) {
			pay = s.ToPay[i].Value
		}
		t.Row(share.Label, share.Value, pay)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Total contributions: " + s.TotalContribution))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Total expenses:      " + s.TotalExpense))
	b.WriteString("\n")
	b.WriteString(t.Render())
	return b.String()
}

func renderLedger(lg core.Ledger) string {
	return renderList("Contributions", lg.Contributions) + "\n" + renderList("Expenses", lg.Expenses)
}

func renderList(title string, list core.ItemList) string {
	t := newTable(2, "#", "Label", "Value")
	for i, it := range list {
		t.Row(strconv.Itoa(i), it.Label, it.Value)
	}
	return titleStyle.Render(title) + "\n" + t.Render()
}
