package svglaser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benoitkugler/lasersvg/svgpath"
	"github.com/benoitkugler/lasersvg/svgstyle"
	"github.com/benoitkugler/lasersvg/svgtree"
)

// maxCloneDepth bounds the nesting of use elements
const maxCloneDepth = 64

// elements never drawn directly
var nonGraphic = map[string]bool{
	"metadata":       true,
	"title":          true,
	"desc":           true,
	"namedview":      true,
	"symbol":         true,
	"linearGradient": true,
	"radialGradient": true,
	"pattern":        true,
	"clipPath":       true,
	"mask":           true,
	"marker":         true,
	"filter":         true,
	"script":         true,
}

// frame is the state inherited by the children of a group.
// It is passed by value: entering a group derives a new frame.
type frame struct {
	matrix svgpath.Matrix2D
	stroke svgstyle.Stroke
	layer  string
}

// walker is the state of one traversal.
type walker struct {
	doc    *svgtree.Document
	cfg    Config
	logger *slog.Logger

	sheet    svgstyle.Sheet
	known    map[string]bool // layers found in the document
	selected map[string]bool // nil means every layer

	lastID   PathID
	actions  map[PathID]svgstyle.Action
	segments []Segment

	clones     map[*svgtree.Node]bool // use targets being visited
	cloneDepth int
}

func newWalker(doc *svgtree.Document, cfg Config, logger *slog.Logger, layers []string) *walker {
	w := &walker{
		doc:     doc,
		cfg:     cfg,
		logger:  logger,
		known:   make(map[string]bool, len(layers)),
		actions: make(map[PathID]svgstyle.Action),
		clones:  make(map[*svgtree.Node]bool),
	}
	for _, l := range layers {
		w.known[l] = true
	}
	if len(cfg.Layers) != 0 {
		w.selected = make(map[string]bool, len(cfg.Layers))
		for _, l := range cfg.Layers {
			w.selected[layerName(l)] = true
		}
	}
	return w
}

// isSVG returns false for elements of foreign namespaces
// (sodipodi, inkscape, ...)
func isSVG(n *svgtree.Node) bool {
	return n.Name.Space == "" || n.Name.Space == svgtree.NamespaceSVG
}

func localTransform(n *svgtree.Node) (svgpath.Matrix2D, bool, error) {
	t, has := n.Attr("transform")
	if !has {
		return svgpath.Identity, false, nil
	}
	m, err := svgpath.ParseTransform(t)
	if err != nil {
		return svgpath.Identity, false, fmt.Errorf("%s %q: invalid transform: %w", n.Kind(), n.ID(), err)
	}
	return m, true, nil
}

// group visits a g, switch or the root svg element
func (w *walker) group(n *svgtree.Node, f frame) error {
	res := w.sheet.Resolve(n, f.stroke)
	if res.Hidden(n) {
		w.logger.Debug("skipping hidden group", "id", n.ID())
		return nil
	}
	f.stroke = res.Stroke

	if isLayer(n) {
		name := layerName(label(n))
		if w.selected != nil && !w.selected[name] {
			w.logger.Debug("skipping unselected layer", "layer", name)
			return nil
		}
		if w.known[name] {
			f.layer = name
		}
	}

	m, has, err := localTransform(n)
	if err != nil {
		return err
	}
	if has {
		f.matrix = f.matrix.Mult(m)
	}
	return w.children(n, f)
}

func (w *walker) children(n *svgtree.Node, f frame) error {
	for _, child := range n.Children {
		if !isSVG(child) {
			continue
		}
		var err error
		switch child.Kind() {
		case "g", "switch", "a":
			err = w.group(child, f)
		case "use":
			err = w.clone(child, f)
		case "style":
			w.styleSheet(child)
		case "defs":
			for _, sub := range child.Children {
				if sub.Kind() == "style" {
					w.styleSheet(sub)
				}
			}
		default:
			if nonGraphic[child.Kind()] {
				continue
			}
			err = w.shape(child, f)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) styleSheet(n *svgtree.Node) {
	if t, has := n.Attr("type"); has && t != "text/css" {
		return
	}
	css := n.Text
	for _, child := range n.Children {
		css += child.Tail
	}
	w.sheet.Parse(css)
}

func floatOrZero(n *svgtree.Node, name string) (float64, error) {
	s, has := n.Attr(name)
	if !has {
		return 0, nil
	}
	v, err := svgpath.ParseLength(s)
	if err != nil {
		return 0, fmt.Errorf("use %q: invalid %s attribute: %s", n.ID(), name, err)
	}
	return v, nil
}

// isAncestor returns true if a is n or one of its ancestors.
func isAncestor(a, n *svgtree.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == a {
			return true
		}
	}
	return false
}

// clone visits the target of a use element, as if it was
// a child of the use element.
func (w *walker) clone(n *svgtree.Node, f frame) error {
	res := w.sheet.Resolve(n, f.stroke)
	if res.Hidden(n) {
		return nil
	}
	f.stroke = res.Stroke

	href, _ := n.Href()
	if !strings.HasPrefix(href, "#") {
		w.logger.Warn("skipping use element with unsupported reference", "id", n.ID(), "href", href)
		return nil
	}
	target := w.doc.ElementByID(href[1:])
	if target == nil {
		w.logger.Warn("skipping use element with missing target", "id", n.ID(), "href", href)
		return nil
	}
	if w.clones[target] || isAncestor(target, n) {
		w.logger.Warn("skipping cyclic use element", "id", n.ID(), "href", href)
		return nil
	}
	if w.cloneDepth >= maxCloneDepth {
		w.logger.Warn("skipping deeply nested use element", "id", n.ID(), "depth", w.cloneDepth)
		return nil
	}

	// own transform, then x, then y
	local, _, err := localTransform(n)
	if err != nil {
		return err
	}
	x, err := floatOrZero(n, "x")
	if err != nil {
		return err
	}
	y, err := floatOrZero(n, "y")
	if err != nil {
		return err
	}
	local = local.Translate(x, 0).Translate(0, y)
	f.matrix = f.matrix.Mult(local)

	w.clones[target] = true
	w.cloneDepth++
	defer func() {
		delete(w.clones, target)
		w.cloneDepth--
	}()

	switch target.Kind() {
	case "g", "switch", "symbol":
		return w.group(target, f)
	case "use":
		return w.clone(target, f)
	default:
		return w.shape(target, f)
	}
}

func (w *walker) newPathID() PathID {
	w.lastID++
	return w.lastID
}

// shape classifies a leaf element and, for vector actions,
// adds its outline to the segments.
func (w *walker) shape(n *svgtree.Node, f frame) error {
	id := w.newPathID()
	res := w.sheet.Resolve(n, f.stroke)
	res.Apply(n)
	w.actions[id] = res.Action
	if !res.Changed {
		return nil
	}

	kind := n.Kind()
	if kind == "text" || kind == "flowRoot" {
		return &TextError{Recoverable: !w.cfg.TextToPaths, ID: n.ID()}
	}
	if res.Hidden(n) {
		return nil
	}

	path, ok, err := svgpath.ShapePath(kind, n)
	if err != nil {
		return fmt.Errorf("%s %q: %w", kind, n.ID(), err)
	}
	if !ok {
		return nil
	}
	m, has, err := localTransform(n)
	if err != nil {
		return err
	}
	if has {
		f.matrix = f.matrix.Mult(m)
	}

	lines, tolerance, err := path.Cubics().Transform(f.matrix).FlattenWithin(w.cfg.Flatness)
	switch {
	case errors.Is(err, svgpath.ErrDegenerate):
		w.logger.Warn("degenerate path, keeping its nodes only", "id", n.ID())
	case errors.Is(err, svgpath.ErrNotConverged):
		w.logger.Warn("flattening did not converge", "id", n.ID(), "tolerance", tolerance)
	case tolerance != w.cfg.Flatness:
		w.logger.Debug("flatness relaxed", "id", n.ID(), "tolerance", tolerance)
	}

	for _, line := range lines {
		for i := 0; i+1 < len(line); i++ {
			w.segments = append(w.segments, Segment{
				X1: line[i].X, Y1: line[i].Y,
				X2: line[i+1].X, Y2: line[i+1].Y,
				Path:  id,
				Layer: f.layer,
			})
		}
	}
	return nil
}
