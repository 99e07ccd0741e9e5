package catalog

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/nominadb/nomina-cli/internal/fetcher"
)

// Strategy selects how catalog sheets are parsed into code/description
// pairs. Two heuristics exist historically and they are kept distinct.
type Strategy string

const (
	// StrategyHeaderScan searches each sheet for the row carrying the code
	// and description column markers and reads data below it. Sheets with no
	// marker row fall back to the first two columns.
	StrategyHeaderScan Strategy = "header-scan"

	// StrategyFixedOffset always reads columns A/B starting at the first
	// row, ignoring any metadata rows.
	StrategyFixedOffset Strategy = "fixed-offset"
)

// Store is an immutable code -> description lookup built from a catalog
// workbook, with the hardcoded manual tables as fallback. Construct once
// with Load and share; all methods are read-only.
type Store struct {
	catalogs map[string]map[string]string
	order    []string
	loaded   bool
}

// Load builds a Store from the workbook at path using the given strategy.
// Any failure (missing file, unreadable workbook, no parseable sheet)
// degrades to an empty store that answers purely from the manual tables;
// Load never fails.
func Load(path string, strategy Strategy) *Store {
	s := &Store{catalogs: make(map[string]map[string]string)}

	if path == "" {
		return s
	}
	if _, err := os.Stat(path); err != nil {
		zap.L().Warn("catalog: workbook not found, using manual tables only",
			zap.String("path", path),
		)
		return s
	}

	wb, err := fetcher.ReadWorkbook(path)
	if err != nil {
		zap.L().Warn("catalog: workbook unreadable, using manual tables only",
			zap.String("path", path),
			zap.Error(err),
		)
		return s
	}

	for _, sheetName := range wb.Order {
		entries := parseSheet(wb.Sheets[sheetName], strategy)
		if len(entries) == 0 {
			continue
		}

		name := normalizeCatalogName(sheetName)
		s.catalogs[name] = entries
		s.order = append(s.order, name)
		zap.L().Debug("catalog: sheet loaded",
			zap.String("catalog", name),
			zap.Int("entries", len(entries)),
		)
	}

	s.loaded = len(s.catalogs) > 0
	if !s.loaded {
		zap.L().Warn("catalog: workbook contained no parseable sheets",
			zap.String("path", path),
		)
		return s
	}

	zap.L().Info("catalog: workbook loaded",
		zap.String("path", path),
		zap.String("strategy", string(strategy)),
		zap.Int("catalogs", len(s.catalogs)),
	)
	return s
}

// GetDescription resolves a code through the loaded workbook first, then the
// manual tables. It never fails: unknown codes come back annotated with
// UnresolvedSuffix. The workbook wins only when it holds a non-empty
// description.
func (s *Store) GetDescription(catalogName, code string) string {
	if s == nil || !s.loaded {
		return ManualDescription(catalogName, code)
	}

	table, ok := s.catalogs[normalizeCatalogName(catalogName)]
	if !ok {
		return ManualDescription(catalogName, code)
	}

	if desc, ok := table[strings.TrimSpace(code)]; ok && desc != "" {
		return desc
	}
	return ManualDescription(catalogName, code)
}

// IsLoaded reports whether at least one catalog sheet parsed successfully.
func (s *Store) IsLoaded() bool {
	return s != nil && s.loaded
}

// AvailableCatalogs returns the loaded catalog names in workbook order.
func (s *Store) AvailableCatalogs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Entries returns the number of codes loaded for a catalog.
func (s *Store) Entries(catalogName string) int {
	if s == nil {
		return 0
	}
	return len(s.catalogs[normalizeCatalogName(catalogName)])
}

// codeMarkers and descMarkers are the header literals the SAT workbooks use
// for the code and description columns.
var (
	codeMarkers = map[string]bool{
		"Clave": true, "clave": true, "CLAVE": true,
		"CVE": true, "cve": true,
		"ID": true, "id": true,
	}
	descMarkers = map[string]bool{
		"Descripción": true, "descripción": true,
		"Descripcion": true, "descripcion": true,
		"Descrip": true, "descrip": true,
		"Nombre": true, "nombre": true,
	}
)

// parseSheet builds the code -> description map for one sheet.
func parseSheet(rows [][]string, strategy Strategy) map[string]string {
	codeCol, descCol, start := 0, 1, 0

	if strategy != StrategyFixedOffset {
		if c, d, row, ok := findMarkerRow(rows); ok {
			codeCol, descCol, start = c, d, row+1
		}
	}

	entries := make(map[string]string)
	for i := start; i < len(rows); i++ {
		row := rows[i]
		code := cellAt(row, codeCol)
		desc := cellAt(row, descCol)
		if !usableCell(code) || !usableCell(desc) {
			continue
		}

		entries[code] = desc

		// Single-digit numeric codes also answer under their zero-padded
		// form: RiesgoPuesto ships "1".."5" but receipts carry "01".."05".
		if len(code) == 1 && code >= "0" && code <= "9" {
			padded := "0" + code
			if _, exists := entries[padded]; !exists {
				entries[padded] = desc
			}
		}
	}

	return entries
}

// findMarkerRow locates the header row holding a code marker. A column whose
// header literally starts with "c_" also counts as the code column. The
// description column defaults to the one after the code column when no
// description marker is present.
func findMarkerRow(rows [][]string) (codeCol, descCol, row int, ok bool) {
	for i, r := range rows {
		codeCol, descCol = -1, -1
		for j, cell := range r {
			header := strings.TrimSpace(cell)
			switch {
			case codeMarkers[header] || strings.HasPrefix(header, "c_"):
				if codeCol < 0 {
					codeCol = j
				}
			case descMarkers[header]:
				if descCol < 0 {
					descCol = j
				}
			}
		}
		if codeCol >= 0 {
			if descCol < 0 {
				descCol = codeCol + 1
			}
			return codeCol, descCol, i, true
		}
	}
	return 0, 0, 0, false
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// usableCell rejects empty cells and the not-available placeholders that
// spreadsheet round-trips leave behind.
func usableCell(v string) bool {
	switch v {
	case "", "nan", "NaN", "N/A", "NA", "#N/A":
		return false
	}
	return true
}
