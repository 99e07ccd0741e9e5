package fetcher

import (
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// ReadTextFile reads a file and returns its content as valid UTF-8.
// Receipts in the wild arrive in UTF-8 or latin-1; anything that is not
// valid UTF-8 is reinterpreted as Windows-1252, and bytes that still do not
// decode are replaced rather than treated as fatal.
func ReadTextFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "file: read %s", path)
	}
	return DecodeText(raw), nil
}

// DecodeText converts raw bytes to valid UTF-8, replacing undecodable
// sequences. Never fails. Transcoded documents get their XML encoding
// declaration rewritten to UTF-8 so a later parse does not re-decode
// already-converted text.
func DecodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err == nil && utf8.Valid(decoded) {
		return declareUTF8(string(decoded))
	}

	return declareUTF8(strings.ToValidUTF8(string(raw), string(utf8.RuneError)))
}

// xmlEncodingDecl matches the encoding pseudo-attribute of an XML prolog.
var xmlEncodingDecl = regexp.MustCompile(`(?i)(<\?xml[^?]*encoding=["'])[^"']+(["'])`)

func declareUTF8(s string) string {
	return xmlEncodingDecl.ReplaceAllString(s, "${1}UTF-8${2}")
}
