package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName     = "Quotes"
	headerBgColor = "4472C4"
	stripeColor   = "F2F2F2"
)

type excelWriter struct{}

func (excelWriter) Write(t *Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	row := 1
	if t.Title != "" {
		titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
		f.SetCellValue(sheetName, "A1", t.Title)
		f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
		row += 2
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerBgColor}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	stripeStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{stripeColor}},
	})
	if err != nil {
		return fmt.Errorf("failed to create row style: %w", err)
	}

	headerRow := row
	for col, header := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(col + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}
	row++

	for i, values := range t.Rows {
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheetName, cell, v)
			if i%2 == 1 {
				f.SetCellStyle(sheetName, cell, cell, stripeStyle)
			}
		}
		row++
	}

	if len(t.Headers) > 0 {
		topLeft, _ := excelize.CoordinatesToCellName(1, headerRow+1)
		f.SetPanes(sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: topLeft,
			ActivePane:  "bottomLeft",
		})

		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), headerRow+len(t.Rows))
		f.AutoFilter(sheetName, first+":"+last, nil)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (excelWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (excelWriter) Extension() string {
	return ".xlsx"
}
