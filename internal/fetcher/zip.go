package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// ExtractXMLEntries extracts every .xml entry of a ZIP archive into destDir
// and returns the extracted paths. Non-XML entries and directories are
// ignored. Entry contents pass through DecodeText so undecodable bytes never
// survive into the extracted files.
func ExtractXMLEntries(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}
	defer r.Close() //nolint:errcheck

	var extracted []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(f.Name), ".xml") {
			continue
		}

		path, err := extractXMLEntry(f, destDir)
		if err != nil {
			return extracted, err
		}
		extracted = append(extracted, path)
	}

	return extracted, nil
}

// extractXMLEntry writes a single archive entry under destDir, flattened to
// its base name. Flattening also closes the zip-slip hole: entry paths never
// influence the destination directory.
func extractXMLEntry(f *zip.File, destDir string) (string, error) {
	destPath := filepath.Join(destDir, filepath.Base(f.Name))

	rc, err := f.Open()
	if err != nil {
		return "", eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", eris.Wrap(err, "zip: read entry")
	}

	if err := os.WriteFile(destPath, []byte(DecodeText(raw)), 0o644); err != nil {
		return "", eris.Wrap(err, "zip: write entry")
	}

	return destPath, nil
}
