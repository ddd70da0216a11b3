package report

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/msto63/mcpi/internal/buffon/experiment"
	"github.com/msto63/mcpi/internal/tui"
)

// RenderStyled renders the summary as a bordered terminal table. Baseline
// rows are dimmed and numeric columns right-aligned.
func RenderStyled(results []*experiment.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, Row(r))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tui.TableBorderStyle).
		Headers(Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.TableHeaderStyle
			}

			style := tui.TableCellStyle
			if row >= 0 && row < len(results) && results[row].Label == experiment.SequentialLabel {
				style = tui.TableBaselineStyle
			}
			if col > 0 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	return tui.RenderTitle("Experiment Summary") + "\n" + t.String()
}
