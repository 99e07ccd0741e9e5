package fetcher

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]string, order []string) string {
	t.Helper()

	f := xlsx.NewFile()
	for _, name := range order {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range sheets[name] {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"c_TipoContrato": {{"Clave", "Descripción"}, {"01", "Indeterminado"}},
		"c_TipoJornada":  {{"Clave", "Descripción"}, {"02", "Nocturna"}},
	}, []string{"c_TipoContrato", "c_TipoJornada"})

	wb, err := ReadWorkbook(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"c_TipoContrato", "c_TipoJornada"}, wb.Order)
	require.Len(t, wb.Sheets["c_TipoContrato"], 2)
	assert.Equal(t, []string{"01", "Indeterminado"}, wb.Sheets["c_TipoContrato"][1])
}

func TestReadWorkbook_MissingFile(t *testing.T) {
	_, err := ReadWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
}

func TestReadSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]string{
		"Hoja1": {{"a", "b"}},
		"Hoja2": {{"c"}},
	}, []string{"Hoja1", "Hoja2"})

	rows, err := ReadSheet(path, "Hoja2")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"c"}, rows[0])

	_, err = ReadSheet(path, "Hoja3")
	require.Error(t, err)
}
