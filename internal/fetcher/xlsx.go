package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Workbook holds every sheet of a spreadsheet as raw string cells, keyed by
// sheet name. Sheet order is preserved separately so callers can report
// catalogs in workbook order.
type Workbook struct {
	Sheets map[string][][]string
	Order  []string
}

// ReadWorkbook reads all sheets of an XLSX file. Cells are returned as their
// display strings; formatting is discarded.
func ReadWorkbook(path string) (*Workbook, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}

	wb := &Workbook{Sheets: make(map[string][][]string, len(f.Sheets))}
	for _, sheet := range f.Sheets {
		rows := make([][]string, 0, len(sheet.Rows))
		for _, row := range sheet.Rows {
			rows = append(rows, rowToStrings(row))
		}
		wb.Sheets[sheet.Name] = rows
		wb.Order = append(wb.Order, sheet.Name)
	}

	return wb, nil
}

// ReadSheet reads a single named sheet from an XLSX file.
func ReadSheet(path, name string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open workbook")
	}

	sheet, ok := f.Sheet[name]
	if !ok {
		return nil, eris.Errorf("xlsx: sheet %q not found", name)
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
