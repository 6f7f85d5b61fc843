package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns returns the column layout for an unknown terminal width.
func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "Unit", Width: 20},
		{Title: "Agent", Width: 14},
		{Title: "Status", Width: 28},
		{Title: "Attempt", Width: 8},
		{Title: "Elapsed", Width: 10},
	}
}

// columnsForWidth widens the status column on wide terminals.
func columnsForWidth(width int) []table.Column {
	columns := defaultColumns()
	fixed := 0
	for _, column := range columns {
		fixed += column.Width
	}
	if extra := width - fixed - len(columns); extra > 0 {
		columns[2].Width += extra
	}
	return columns
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			row.UnitID,
			row.AgentID,
			formatStatus(row, noColor),
			formatAttempt(row),
			formatRowDuration(row, now),
		})
	}
	return rows
}
