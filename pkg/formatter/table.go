package formatter

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func buildDefaultTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	style := table.StyleDefault
	style.Options = table.Options{
		SeparateColumns: true,
		SeparateHeader:  true,
	}
	style.Box.MiddleVertical = "  "
	style.Box.MiddleSeparator = "  "
	style.Box.PaddingLeft = ""
	style.Box.PaddingRight = ""
	// Set the header's format
	style.Format.Header = text.FormatDefault
	t.SetStyle(style)
	return t
}

// PrintTable renders an aligned plain-text table with a header row
func PrintTable(w io.Writer, header table.Row, rows []table.Row) {
	t := buildDefaultTable(w)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
}
