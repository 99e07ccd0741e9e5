package extract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/nominadb/nomina-cli/internal/catalog"
)

// loadTestStore writes a temp workbook and loads it with the header-scan
// strategy.
func loadTestStore(t *testing.T, sheets map[string][][]string) *catalog.Store {
	t.Helper()

	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "catNomina.xlsx")
	require.NoError(t, f.Save(path))

	store := catalog.Load(path, catalog.StrategyHeaderScan)
	require.True(t, store.IsLoaded())
	return store
}
