package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestWorkbook(t *testing.T, sheets map[string][][]string) string {
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
	return path
}

func TestLoad_HeaderScan(t *testing.T) {
	path := createTestWorkbook(t, map[string][][]string{
		"c_TipoContrato": {
			{"Catálogo de tipos de contrato", ""},
			{"Versión", "2.0"},
			{"c_TipoContrato", "Descripción"},
			{"01", "Contrato indeterminado (workbook)"},
			{"02", "Contrato determinado (workbook)"},
		},
	})

	s := Load(path, StrategyHeaderScan)
	require.True(t, s.IsLoaded())
	assert.Equal(t, []string{"TipoContrato"}, s.AvailableCatalogs())
	assert.Equal(t, "Contrato indeterminado (workbook)", s.GetDescription("TipoContrato", "01"))
	assert.Equal(t, "Contrato determinado (workbook)", s.GetDescription("TipoContrato", "02"))
}

func TestLoad_HeaderScanClaveMarker(t *testing.T) {
	path := createTestWorkbook(t, map[string][][]string{
		"TipoJornada": {
			{"metadata row", "ignored"},
			{"Clave", "Nombre"},
			{"01", "Diurna (workbook)"},
		},
	})

	s := Load(path, StrategyHeaderScan)
	require.True(t, s.IsLoaded())
	assert.Equal(t, "Diurna (workbook)", s.GetDescription("TipoJornada", "01"))
}

func TestLoad_HeaderScanFallsBackToFirstColumns(t *testing.T) {
	// No marker row anywhere: first two columns from row 0.
	path := createTestWorkbook(t, map[string][][]string{
		"PeriodicidadPago": {
			{"01", "Diario (workbook)"},
			{"02", "Semanal (workbook)"},
		},
	})

	s := Load(path, StrategyHeaderScan)
	require.True(t, s.IsLoaded())
	assert.Equal(t, "Semanal (workbook)", s.GetDescription("PeriodicidadPago", "02"))
}

func TestLoad_FixedOffset(t *testing.T) {
	// Fixed-offset ignores marker rows entirely; the header row becomes a
	// (harmless) entry of its own.
	path := createTestWorkbook(t, map[string][][]string{
		"RiesgoPuesto": {
			{"Clave", "Descripción"},
			{"1", "Clase I (workbook)"},
		},
	})

	s := Load(path, StrategyFixedOffset)
	require.True(t, s.IsLoaded())
	assert.Equal(t, "Clase I (workbook)", s.GetDescription("RiesgoPuesto", "1"))
	assert.Equal(t, "Descripción", s.GetDescription("RiesgoPuesto", "Clave"))
}

func TestLoad_ZeroPaddedAlias(t *testing.T) {
	path := createTestWorkbook(t, map[string][][]string{
		"RiesgoPuesto": {
			{"Clave", "Descripción"},
			{"1", "Clase I (workbook)"},
		},
	})

	s := Load(path, StrategyHeaderScan)
	require.True(t, s.IsLoaded())
	assert.Equal(t, "Clase I (workbook)", s.GetDescription("RiesgoPuesto", "1"))
	assert.Equal(t, "Clase I (workbook)", s.GetDescription("RiesgoPuesto", "01"))
	assert.Equal(t, 2, s.Entries("RiesgoPuesto"))
}

func TestLoad_SkipsPlaceholderRows(t *testing.T) {
	path := createTestWorkbook(t, map[string][][]string{
		"TipoContrato": {
			{"Clave", "Descripción"},
			{"01", "Algo"},
			{"", "Sin clave"},
			{"05", ""},
			{"nan", "nan"},
		},
	})

	s := Load(path, StrategyHeaderScan)
	require.True(t, s.IsLoaded())
	assert.Equal(t, 1, s.Entries("TipoContrato"))
}

func TestLoad_MissingFileDegrades(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "nope.xlsx"), StrategyHeaderScan)
	assert.False(t, s.IsLoaded())
	assert.Empty(t, s.AvailableCatalogs())
	// Pure fallback mode still answers.
	assert.Equal(t, "Contrato de trabajo por tiempo indeterminado", s.GetDescription("TipoContrato", "01"))
}

func TestLoad_EmptyPathDegrades(t *testing.T) {
	s := Load("", StrategyHeaderScan)
	assert.False(t, s.IsLoaded())
	assert.Equal(t, "Diurna", s.GetDescription("TipoJornada", "01"))
}

func TestLoad_GarbageFileDegrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("this is not a workbook"), 0o644))

	s := Load(path, StrategyHeaderScan)
	assert.False(t, s.IsLoaded())
	assert.Equal(t, "Mensual", s.GetDescription("PeriodicidadPago", "05"))
}

func TestGetDescription_WorkbookWinsOverManual(t *testing.T) {
	path := createTestWorkbook(t, map[string][][]string{
		"TipoContrato": {
			{"Clave", "Descripción"},
			{"01", "Override from workbook"},
		},
	})

	s := Load(path, StrategyHeaderScan)
	require.True(t, s.IsLoaded())
	assert.Equal(t, "Override from workbook", s.GetDescription("TipoContrato", "01"))
}

func TestGetDescription_MissingCodeFallsThrough(t *testing.T) {
	path := createTestWorkbook(t, map[string][][]string{
		"TipoContrato": {
			{"Clave", "Descripción"},
			{"01", "Override from workbook"},
		},
	})

	s := Load(path, StrategyHeaderScan)
	require.True(t, s.IsLoaded())
	// Loaded catalog without the code: manual tier answers.
	assert.Equal(t, "Contrato de trabajo por tiempo determinado", s.GetDescription("TipoContrato", "02"))
	// Catalog not in the workbook at all: manual tier answers.
	assert.Equal(t, "Diurna", s.GetDescription("TipoJornada", "01"))
	// Unknown everywhere: annotated code.
	assert.Equal(t, "77"+UnresolvedSuffix, s.GetDescription("TipoContrato", "77"))
}
