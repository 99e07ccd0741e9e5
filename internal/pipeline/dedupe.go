package pipeline

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nominadb/nomina-cli/internal/model"
)

// DefaultDateFields is the recency precedence used when dedup.date_fields is
// not configured: document dates beat the processing stamp, and the
// processing stamp (always set at extraction) is the guaranteed last tier.
var DefaultDateFields = []string{
	"fecha_pago",
	"fecha_pago_nomina",
	"fecha_timbrado",
	"fecha_procesamiento",
}

// dateLayouts are the timestamp shapes seen across CFDI attributes and the
// processing stamp.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Deduplicator collapses extracted records to one row per employee RFC,
// keeping the most recent record under a configurable date-field precedence.
type Deduplicator struct {
	dateFields []string
}

// NewDeduplicator builds a Deduplicator. An empty precedence list selects
// DefaultDateFields.
func NewDeduplicator(dateFields []string) *Deduplicator {
	if len(dateFields) == 0 {
		dateFields = DefaultDateFields
	}
	return &Deduplicator{dateFields: dateFields}
}

// Dedupe returns one record per RFC (case-sensitive match), preferring the
// most recent record by the first usable date field. The sort is stable and
// unparsable dates sort last, so ties and undated inputs keep their original
// relative order and the result is deterministic for a fixed input. Records
// with no RFC are dropped and counted.
func (d *Deduplicator) Dedupe(records []model.EmployeeRecord) ([]model.EmployeeRecord, int) {
	if len(records) == 0 {
		return nil, 0
	}

	kept := make([]model.EmployeeRecord, 0, len(records))
	var dropped int
	for _, r := range records {
		if r.RFCEmpleado == "" {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	if dropped > 0 {
		zap.L().Warn("dedupe: records without RFC dropped", zap.Int("dropped", dropped))
	}

	if field := d.pickSortField(kept); field != "" {
		zap.L().Debug("dedupe: sorting by date field", zap.String("field", field))
		sortByDateDesc(kept, field)
	}

	seen := make(map[string]bool, len(kept))
	unique := kept[:0]
	for _, r := range kept {
		if seen[r.RFCEmpleado] {
			continue
		}
		seen[r.RFCEmpleado] = true
		unique = append(unique, r)
	}

	if removed := len(kept) - len(unique); removed > 0 {
		zap.L().Info("dedupe: duplicate records removed",
			zap.Int("removed", removed),
			zap.Int("unique", len(unique)),
		)
	}

	out := make([]model.EmployeeRecord, len(unique))
	copy(out, unique)
	return out, dropped
}

// pickSortField returns the first precedence field that is non-empty on any
// record, or empty if none is usable (input order is then left unchanged).
func (d *Deduplicator) pickSortField(records []model.EmployeeRecord) string {
	for _, field := range d.dateFields {
		for i := range records {
			if records[i].DateField(field) != "" {
				return field
			}
		}
	}
	return ""
}

// sortByDateDesc stable-sorts records newest-first by the given field.
// Records whose value does not parse as a date sort after all parsed ones.
func sortByDateDesc(records []model.EmployeeRecord, field string) {
	type key struct {
		t  time.Time
		ok bool
	}
	keys := make([]key, len(records))
	for i := range records {
		t, ok := parseDate(records[i].DateField(field))
		keys[i] = key{t: t, ok: ok}
	}

	// Sort an index permutation so the precomputed keys stay aligned with
	// their records, then rebuild in place.
	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		return a.t.After(b.t)
	})

	sorted := make([]model.EmployeeRecord, len(records))
	for i, from := range idx {
		sorted[i] = records[from]
	}
	copy(records, sorted)
}

// parseDate tries each known layout on the trimmed value.
func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
