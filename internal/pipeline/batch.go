package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nominadb/nomina-cli/internal/extract"
	"github.com/nominadb/nomina-cli/internal/fetcher"
	"github.com/nominadb/nomina-cli/internal/model"
)

// Source is one XML input. When Content is set it is used as-is; otherwise
// the file at Path is read (UTF-8, undecodable bytes replaced).
type Source struct {
	Path    string
	Content string
}

func (s Source) load() (string, error) {
	if s.Content != "" {
		return s.Content, nil
	}
	return fetcher.ReadTextFile(s.Path)
}

// Summary reports the counts of one batch run. Derivable from every run,
// including total-failure ones.
type Summary struct {
	RunID            string                              `json:"run_id"`
	Sources          int                                 `json:"sources"`
	Extracted        int                                 `json:"extracted"`
	ReadErrors       int                                 `json:"read_errors"`
	Rejected         map[extract.RejectReason]int        `json:"rejected"`
	DroppedNoRFC     int                                 `json:"dropped_no_rfc"`
	Unique           int                                 `json:"unique"`
	Duplicates       int                                 `json:"duplicates"`
	NothingExtracted bool                                `json:"nothing_extracted"`
	Stats            Stats                               `json:"stats"`
}

// RejectedTotal sums rejections across reasons, read failures included.
func (s *Summary) RejectedTotal() int {
	total := s.ReadErrors
	for _, n := range s.Rejected {
		total += n
	}
	return total
}

// Stats mirrors the legacy per-run statistics panel.
type Stats struct {
	TotalEmpleados    int `json:"total_empleados"`
	RFCUnicos         int `json:"rfc_unicos"`
	ConCURP           int `json:"con_curp"`
	ConNSS            int `json:"con_nss"`
	EmpleadoresUnicos int `json:"empleadores_unicos"`
}

// Result is a finished batch: the unique-employee table plus its summary.
type Result struct {
	Records []model.EmployeeRecord
	Summary Summary
}

// Processor runs the extract-collect-dedupe batch. Sources are independent,
// so extraction fans out across workers; dedup runs once, after every source
// has been collected.
type Processor struct {
	extractor   *extract.Extractor
	dedup       *Deduplicator
	concurrency int
}

// NewProcessor builds a Processor. Concurrency below 1 is pinned to 1.
func NewProcessor(extractor *extract.Extractor, dedup *Deduplicator, concurrency int) *Processor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor{extractor: extractor, dedup: dedup, concurrency: concurrency}
}

// Process extracts every source, collapses duplicates, and returns the final
// table with counts. Per-source failures (unreadable file, malformed XML,
// missing payroll section, missing identity) are counted skips; one bad
// source never aborts the batch. A run where nothing extracts returns an
// empty table with Summary.NothingExtracted set, not an error.
func (p *Processor) Process(ctx context.Context, sources []Source) *Result {
	summary := Summary{
		RunID:    uuid.New().String(),
		Sources:  len(sources),
		Rejected: make(map[extract.RejectReason]int),
	}

	// Indexed by source position so collection order (and therefore dedup
	// tie-breaking) stays deterministic regardless of worker scheduling.
	extracted := make([]*model.EmployeeRecord, len(sources))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			content, err := src.load()
			if err != nil {
				zap.L().Warn("batch: source unreadable, skipped",
					zap.String("path", src.Path),
					zap.Error(err),
				)
				mu.Lock()
				summary.ReadErrors++
				mu.Unlock()
				return nil
			}

			rec, err := p.extractor.Extract(content, src.Path)
			if err != nil {
				reason := extract.RejectReason("error")
				var rej *extract.RejectError
				if eris.As(err, &rej) {
					reason = rej.Reason
				}
				zap.L().Warn("batch: source rejected",
					zap.String("path", src.Path),
					zap.String("reason", string(reason)),
				)
				mu.Lock()
				summary.Rejected[reason]++
				mu.Unlock()
				return nil
			}

			extracted[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	var records []model.EmployeeRecord
	for _, rec := range extracted {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	summary.Extracted = len(records)

	if len(records) == 0 {
		summary.NothingExtracted = true
		zap.L().Warn("batch: no employee data extracted from any source",
			zap.String("run_id", summary.RunID),
			zap.Int("sources", len(sources)),
		)
		return &Result{Summary: summary}
	}

	unique, droppedNoRFC := p.dedup.Dedupe(records)
	summary.DroppedNoRFC = droppedNoRFC
	summary.Unique = len(unique)
	summary.Duplicates = summary.Extracted - droppedNoRFC - len(unique)
	summary.Stats = buildStats(unique)

	zap.L().Info("batch: run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("sources", summary.Sources),
		zap.Int("extracted", summary.Extracted),
		zap.Int("rejected", summary.RejectedTotal()),
		zap.Int("unique", summary.Unique),
	)

	return &Result{Records: unique, Summary: summary}
}

func buildStats(records []model.EmployeeRecord) Stats {
	stats := Stats{TotalEmpleados: len(records)}
	rfcs := make(map[string]bool)
	employers := make(map[string]bool)
	for i := range records {
		r := &records[i]
		rfcs[r.RFCEmpleado] = true
		if r.CURP != "" {
			stats.ConCURP++
		}
		if r.NumSeguridadSocial != "" {
			stats.ConNSS++
		}
		if r.RFCEmpleador != "" {
			employers[r.RFCEmpleador] = true
		}
	}
	stats.RFCUnicos = len(rfcs)
	stats.EmpleadoresUnicos = len(employers)
	return stats
}
