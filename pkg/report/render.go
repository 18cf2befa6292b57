package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hwameistor/diskreport/pkg/formatter"
)

// BuildRows evaluates every column for every disk and orders the rows by the
// sort column, then by disk identifier. Any column failing to produce a value
// fails the whole table.
func BuildRows(devices DeviceTable, columns []Column) ([]table.Row, error) {
	sortIdx := -1
	for i, col := range columns {
		if col.Header == SortColumn {
			sortIdx = i
		}
	}

	ids := make([]string, 0, len(devices))
	for id := range devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(devices))
	for _, id := range ids {
		disk := devices[id]
		row := make([]string, 0, len(columns))
		for _, col := range columns {
			value, err := col.Value(id, disk)
			if err != nil {
				return nil, err
			}
			row = append(row, value)
		}
		rows = append(rows, row)
	}

	if sortIdx >= 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i][sortIdx] < rows[j][sortIdx]
		})
	}

	tableRows := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		tableRow := make(table.Row, 0, len(row))
		for _, cell := range row {
			tableRow = append(tableRow, cell)
		}
		tableRows = append(tableRows, tableRow)
	}
	return tableRows, nil
}

// Header returns the header row of the columns
func Header(columns []Column) table.Row {
	header := make(table.Row, 0, len(columns))
	for _, col := range columns {
		header = append(header, col.Header)
	}
	return header
}

// Render writes the summary table of the devices to w
func Render(w io.Writer, devices DeviceTable) error {
	rows, err := BuildRows(devices, DefaultColumns)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	formatter.PrintTable(w, Header(DefaultColumns), rows)
	return nil
}
