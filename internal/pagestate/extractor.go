package pagestate

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultScriptID is the id of the script element Next.js renders its
// page state into.
const DefaultScriptID = "__NEXT_DATA__"

// Extractor locates an embedded JSON state blob in page markup.
type Extractor struct {
	// ScriptID is the id attribute of the script element holding the blob.
	ScriptID string
}

// NewExtractor creates an Extractor for the given script id.
// An empty id selects DefaultScriptID.
func NewExtractor(scriptID string) *Extractor {
	if scriptID == "" {
		scriptID = DefaultScriptID
	}
	return &Extractor{ScriptID: scriptID}
}

// Extract returns the decoded blob, or nil if the element is missing or
// its content is not valid JSON.
func (e *Extractor) Extract(markup string) any {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	raw, ok := e.findScript(doc)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	var state any
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil
	}
	return state
}

// findScript walks the tree depth-first and returns the text of the first
// script element whose id matches.
func (e *Extractor) findScript(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Script && getAttr(n, "id") == e.ScriptID {
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return b.String(), true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if raw, ok := e.findScript(c); ok {
			return raw, true
		}
	}
	return "", false
}

// getAttr returns the value of the named attribute, or "" if absent.
func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

var defaultExtractor = NewExtractor(DefaultScriptID)

// Extract decodes the __NEXT_DATA__ blob of markup using the default extractor.
func Extract(markup string) any {
	return defaultExtractor.Extract(markup)
}
