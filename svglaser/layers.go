package svglaser

import (
	"strings"

	"github.com/benoitkugler/lasersvg/svgtree"
)

func isLayer(n *svgtree.Node) bool {
	mode, _ := n.AttrNS(svgtree.NamespaceInkscape, "groupmode")
	return n.Kind() == "g" && mode == "layer"
}

func label(n *svgtree.Node) string {
	l, _ := n.AttrNS(svgtree.NamespaceInkscape, "label")
	return l
}

// layerName normalizes a layer label: spaces are replaced by underscores.
func layerName(label string) string {
	return strings.ReplaceAll(label, " ", "_")
}

// collectLayers returns the names of the layer groups,
// in document order and without duplicates.
func collectLayers(doc *svgtree.Document) []string {
	var (
		out  []string
		seen = map[string]bool{}
	)
	doc.Walk(func(n *svgtree.Node) bool {
		if !isLayer(n) {
			return true
		}
		name := layerName(label(n))
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
		return true
	})
	return out
}
