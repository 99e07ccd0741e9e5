package extract

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// element is a minimal in-memory XML element. CFDI documents are small, so
// the whole tree is materialized per source and released when extraction
// of that source finishes.
type element struct {
	space    string
	local    string
	attrs    []xml.Attr
	children []*element
}

// parseDocument builds the element tree for one XML document. Character data
// is discarded: every CFDI value of interest lives in attributes.
func parseDocument(xmlText string) (*element, error) {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "extract: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var root *element
	var stack []*element

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "extract: read token")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{
				space: t.Name.Space,
				local: t.Name.Local,
				attrs: append([]xml.Attr(nil), t.Attr...),
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, eris.New("extract: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, eris.New("extract: unbalanced end element")
			}
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, eris.New("extract: empty document")
	}
	if len(stack) != 0 {
		return nil, eris.New("extract: unterminated element")
	}
	return root, nil
}

// attr returns the value of the named attribute, or empty. CFDI attributes
// are unprefixed, so matching is on local name only.
func (e *element) attr(local string) string {
	for _, a := range e.attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// find returns the first descendant (depth-first, document order) in the
// given namespace with the given local name, or nil.
func (e *element) find(space, local string) *element {
	for _, c := range e.children {
		if c.space == space && c.local == local {
			return c
		}
		if found := c.find(space, local); found != nil {
			return found
		}
	}
	return nil
}

// findLocal is find without the namespace constraint.
func (e *element) findLocal(local string) *element {
	for _, c := range e.children {
		if c.local == local {
			return c
		}
		if found := c.findLocal(local); found != nil {
			return found
		}
	}
	return nil
}
