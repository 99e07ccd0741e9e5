package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nominadb/nomina-cli/internal/catalog"
)

var (
	catalogsPath  string
	catalogsProbe []string
)

var catalogsCmd = &cobra.Command{
	Use:   "catalogs",
	Short: "Inspect the SAT catalog workbook",
	Long: `Loads the catalog workbook and reports what resolved: which catalogs
parsed, how many codes each holds, and whether lookups will run from the
workbook or from the built-in fallback tables.

Use --probe CATALOG=CODE to resolve specific codes, e.g.:
  nomina-cli catalogs --probe TipoContrato=01 --probe RiesgoPuesto=3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Catalog.Path
		if catalogsPath != "" {
			path = catalogsPath
		}

		store := catalog.Load(path, catalog.Strategy(cfg.Catalog.Strategy))
		printCatalogs(os.Stdout, store, path)

		for _, probe := range catalogsProbe {
			name, code, ok := splitProbe(probe)
			if !ok {
				zap.L().Warn("catalogs: ignoring malformed probe, want CATALOG=CODE",
					zap.String("probe", probe),
				)
				continue
			}
			fmt.Printf("%s[%s] = %s\n", name, code, store.GetDescription(name, code))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogsCmd)

	catalogsCmd.Flags().StringVar(&catalogsPath, "catalog", "", "catalog workbook path (default from config)")
	catalogsCmd.Flags().StringArrayVar(&catalogsProbe, "probe", nil, "resolve a code, format CATALOG=CODE (repeatable)")
}

func printCatalogs(out io.Writer, store *catalog.Store, path string) {
	if !store.IsLoaded() {
		fmt.Fprintf(out, "Workbook %s not loaded; lookups use the built-in tables.\n", path)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CATALOG\tENTRIES")
	_, _ = fmt.Fprintln(w, "-------\t-------")
	for _, name := range store.AvailableCatalogs() {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", name, store.Entries(name))
	}
	_ = w.Flush()
}

func splitProbe(probe string) (name, code string, ok bool) {
	for i := 0; i < len(probe); i++ {
		if probe[i] == '=' {
			return probe[:i], probe[i+1:], i > 0 && i < len(probe)-1
		}
	}
	return "", "", false
}
