package pipeline

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/nominadb/nomina-cli/internal/model"
)

// utf8BOM prefixes CSV output so legacy spreadsheet tools pick up the
// encoding (utf-8-sig).
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DefaultSheetName is the sheet the XLSX export writes.
const DefaultSheetName = "Base_Empleados"

// headerFillColor is the ARGB fill of the header row.
const headerFillColor = "FF06752E"

// maxColWidth caps content-sized column widths.
const maxColWidth = 50

// columnLayout is the YAML shape of an export layout file: an ordered list
// of column keys from model.Columns.
type columnLayout struct {
	Columns []string `yaml:"columns"`
}

// LoadColumnLayout reads a YAML layout file and resolves it against the full
// column set, preserving the file's order. Unknown keys are skipped with the
// remainder intact; an empty resolution is an error.
func LoadColumnLayout(path string) ([]model.Column, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: read column layout")
	}

	var layout columnLayout
	if err := yaml.Unmarshal(raw, &layout); err != nil {
		return nil, eris.Wrap(err, "export: parse column layout")
	}

	cols := SelectColumns(layout.Columns)
	if len(cols) == 0 {
		return nil, eris.Errorf("export: layout %s selects no known columns", path)
	}
	return cols, nil
}

// SelectColumns resolves column keys against model.Columns, keeping the
// given order and dropping unknown keys.
func SelectColumns(keys []string) []model.Column {
	byKey := make(map[string]model.Column)
	for _, c := range model.Columns() {
		byKey[c.Key] = c
	}

	var cols []model.Column
	for _, k := range keys {
		if c, ok := byKey[k]; ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// ExportCSV writes the table as UTF-8 CSV with a byte-order mark.
func ExportCSV(records []model.EmployeeRecord, cols []model.Column, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create csv")
	}
	defer f.Close() //nolint:errcheck

	if _, err := f.Write(utf8BOM); err != nil {
		return eris.Wrap(err, "export: write bom")
	}

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	row := make([]string, len(cols))
	for i := range records {
		for j, c := range cols {
			row[j] = c.Value(&records[i])
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "export: flush csv")
}

// ExportXLSX writes the table as a single styled sheet: bold white-on-green
// header row, column widths sized to content.
func ExportXLSX(records []model.EmployeeRecord, cols []model.Column, path, sheetName string) error {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	headerStyle := xlsx.NewStyle()
	headerStyle.Font.Bold = true
	headerStyle.Font.Color = "FFFFFFFF"
	headerStyle.Fill = *xlsx.NewFill("solid", headerFillColor, headerFillColor)
	headerStyle.Border = *xlsx.NewBorder("thin", "thin", "thin", "thin")
	headerStyle.ApplyFont = true
	headerStyle.ApplyFill = true
	headerStyle.ApplyBorder = true

	widths := make([]int, len(cols))

	headerRow := sheet.AddRow()
	for i, c := range cols {
		cell := headerRow.AddCell()
		cell.SetString(c.Header)
		cell.SetStyle(headerStyle)
		widths[i] = len(c.Header)
	}

	for i := range records {
		row := sheet.AddRow()
		for j, c := range cols {
			v := c.Value(&records[i])
			row.AddCell().SetString(v)
			if len(v) > widths[j] {
				widths[j] = len(v)
			}
		}
	}

	for i, w := range widths {
		w += 2
		if w > maxColWidth {
			w = maxColWidth
		}
		sheet.SetColWidth(i, i, float64(w))
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}
