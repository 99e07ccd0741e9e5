package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nominadb/nomina-cli/internal/catalog"
	"github.com/nominadb/nomina-cli/internal/extract"
	"github.com/nominadb/nomina-cli/internal/fetcher"
	"github.com/nominadb/nomina-cli/internal/model"
	"github.com/nominadb/nomina-cli/internal/pipeline"
)

var (
	processOutput  string
	processFormat  string
	processCatalog string
	processColumns string
)

var processCmd = &cobra.Command{
	Use:   "process [files or directories...]",
	Short: "Extract the unique-employee table from CFDI payroll receipts",
	Long: `Processes CFDI payroll receipts into a deduplicated employee table.

Arguments may be XML files, ZIP archives of XMLs, or directories (scanned
for both). Bad sources are skipped and counted; one malformed receipt never
aborts the batch.

Examples:
  # A folder of receipts, styled XLSX output
  nomina-cli process ./recibos --output base.xlsx

  # ZIP batches straight from the payroll provider, CSV output
  nomina-cli process enero.zip febrero.zip --format csv --output base.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sources, err := gatherSources(args)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			return eris.New("process: no XML sources found")
		}
		zap.L().Info("process: sources gathered", zap.Int("sources", len(sources)))

		catalogPath := cfg.Catalog.Path
		if processCatalog != "" {
			catalogPath = processCatalog
		}
		store := catalog.Load(catalogPath, catalog.Strategy(cfg.Catalog.Strategy))

		cols := model.Columns()
		columnsFile := cfg.Export.ColumnsFile
		if processColumns != "" {
			columnsFile = processColumns
		}
		if columnsFile != "" {
			cols, err = pipeline.LoadColumnLayout(columnsFile)
			if err != nil {
				return err
			}
		}

		proc := pipeline.NewProcessor(
			extract.New(store),
			pipeline.NewDeduplicator(cfg.Dedup.DateFields),
			cfg.Process.Concurrency,
		)
		result := proc.Process(ctx, sources)

		printSummary(os.Stdout, &result.Summary)

		if result.Summary.NothingExtracted {
			zap.L().Warn("process: nothing extracted, no output written")
			return nil
		}

		format := processFormat
		if format == "" {
			format = cfg.Export.Format
		}
		output := processOutput
		if output == "" {
			output = cfg.Export.Output
		}

		switch format {
		case "csv":
			err = pipeline.ExportCSV(result.Records, cols, output)
		case "xlsx":
			err = pipeline.ExportXLSX(result.Records, cols, output, cfg.Export.SheetName)
		default:
			return eris.Errorf("process: unknown export format %q", format)
		}
		if err != nil {
			return err
		}

		zap.L().Info("process: table written",
			zap.String("output", output),
			zap.String("format", format),
			zap.Int("rows", len(result.Records)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output file path (default from config)")
	processCmd.Flags().StringVar(&processFormat, "format", "", "output format: csv or xlsx (default from config)")
	processCmd.Flags().StringVar(&processCatalog, "catalog", "", "catalog workbook path (default from config)")
	processCmd.Flags().StringVar(&processColumns, "columns", "", "YAML column layout file")
}

// gatherSources expands the command arguments into XML sources: directories
// are scanned, ZIP archives are extracted to a temp dir, XML files pass
// through.
func gatherSources(args []string) ([]pipeline.Source, error) {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, eris.Wrapf(err, "process: stat %s", arg)
		}

		if info.IsDir() {
			found, err := scanDir(arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
			continue
		}

		expanded, err := expandFile(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, expanded...)
	}

	sources := make([]pipeline.Source, len(paths))
	for i, p := range paths {
		sources[i] = pipeline.Source{Path: p}
	}
	return sources, nil
}

func scanDir(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		expanded, err := expandFile(path)
		if err != nil {
			zap.L().Warn("process: unreadable archive skipped",
				zap.String("path", path),
				zap.Error(err),
			)
			return nil
		}
		paths = append(paths, expanded...)
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "process: scan %s", dir)
	}
	return paths, nil
}

// expandFile maps one file argument to XML paths: .xml as-is, .zip to its
// extracted XML entries, anything else ignored.
func expandFile(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return []string{path}, nil
	case ".zip":
		destDir, err := os.MkdirTemp("", "nomina-zip-")
		if err != nil {
			return nil, eris.Wrap(err, "process: create temp dir")
		}
		return fetcher.ExtractXMLEntries(path, destDir)
	default:
		return nil, nil
	}
}

// printSummary writes the batch counts in tabular form.
func printSummary(out io.Writer, s *pipeline.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Run\t%s\n", s.RunID)
	_, _ = fmt.Fprintf(w, "Sources\t%d\n", s.Sources)
	_, _ = fmt.Fprintf(w, "Extracted\t%d\n", s.Extracted)
	_, _ = fmt.Fprintf(w, "Rejected\t%d\n", s.RejectedTotal())

	reasons := make([]string, 0, len(s.Rejected))
	for reason := range s.Rejected {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		_, _ = fmt.Fprintf(w, "  %s\t%d\n", reason, s.Rejected[extract.RejectReason(reason)])
	}
	if s.ReadErrors > 0 {
		_, _ = fmt.Fprintf(w, "  unreadable\t%d\n", s.ReadErrors)
	}

	_, _ = fmt.Fprintf(w, "Duplicates removed\t%d\n", s.Duplicates)
	_, _ = fmt.Fprintf(w, "Unique employees\t%d\n", s.Unique)
	if s.Unique > 0 {
		_, _ = fmt.Fprintf(w, "With CURP\t%d\n", s.Stats.ConCURP)
		_, _ = fmt.Fprintf(w, "With NSS\t%d\n", s.Stats.ConNSS)
		_, _ = fmt.Fprintf(w, "Unique employers\t%d\n", s.Stats.EmpleadoresUnicos)
	}
	_ = w.Flush()
}
