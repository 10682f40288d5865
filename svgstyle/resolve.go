package svgstyle

// ActionProperty is the non standard property (or attribute)
// recording the action of an element already classified.
const ActionProperty = "laser-action"

// Element gives read access to the styling
// attributes of an SVG element.
type Element interface {
	Kind() string
	Attr(name string) (string, bool)
}

// MutableElement is an Element which can be annotated.
type MutableElement interface {
	Element
	SetAttr(name, value string)
	RemoveAttr(name string)
}

// Source indicates where the resolved stroke comes from.
type Source uint8

const (
	NoStroke Source = iota
	FromStyle
	FromAttribute
	FromAncestor
)

// Stroke is a possibly absent stroke value
type Stroke struct {
	Value string
	Set   bool
}

// Resolution is the styling state of one element.
type Resolution struct {
	// Decls is the merged declaration list: class rules first,
	// inline style last.
	Decls Declarations

	Stroke Stroke
	Source Source

	Action  Action
	Changed bool // true when the element is traced as vector

	hasClass, hasStyle bool
}

// Resolve computes the style of el, given the stroke of its
// nearest ancestor group. The precedence, from lowest to highest is:
//	- inherited stroke
//	- stroke attribute
//	- stroke declaration from class rules or inline style (inline wins)
// An action marker left by a previous classification takes precedence
// over the stroke color.
func (s *Sheet) Resolve(el Element, inherited Stroke) Resolution {
	var res Resolution
	class, hasClass := el.Attr("class")
	style, hasStyle := el.Attr("style")
	res.hasClass, res.hasStyle = hasClass, hasStyle

	var merged string
	if hasClass && s != nil {
		merged = s.ClassDeclarations(el.Kind(), class)
	}
	if hasStyle {
		merged += ";" + style
	}
	res.Decls = ParseDeclarations(merged)

	if v, ok := res.Decls.Get("stroke"); ok {
		res.Stroke, res.Source = Stroke{v, true}, FromStyle
	} else if v, ok := el.Attr("stroke"); ok {
		res.Stroke, res.Source = Stroke{v, true}, FromAttribute
	} else if inherited.Set {
		res.Stroke, res.Source = inherited, FromAncestor
	}

	marker, hasMarker := res.Decls.Get(ActionProperty)
	if !hasMarker {
		marker, hasMarker = el.Attr(ActionProperty)
	}
	if hasMarker {
		res.Action, _ = ParseAction(marker)
		res.Changed = res.Action != Raster
		return res
	}
	if res.Stroke.Set {
		res.Action, _, res.Changed = ClassifyString(res.Stroke.Value)
	}
	return res
}

// Hidden returns true for display:none, either as declaration or attribute.
func (res Resolution) Hidden(el Element) bool {
	if v, ok := res.Decls.Get("display"); ok {
		return v == "none"
	}
	v, _ := el.Attr("display")
	return v == "none"
}

// Apply writes the resolution back on el: the class attribute is
// consumed into the style attribute and, for elements traced as vectors,
// the stroke is neutralized (white, zero width) and the action is recorded.
func (res Resolution) Apply(el MutableElement) {
	decls := append(Declarations(nil), res.Decls...)
	if res.Changed {
		if res.Source == FromStyle {
			_, out, _ := ClassifyString(res.Stroke.Value)
			decls.Set("stroke", out)
			decls.Set("stroke-width", "0.0")
			decls.Set(ActionProperty, res.Action.String())
		} else {
			if res.Stroke.Set {
				_, out, _ := ClassifyString(res.Stroke.Value)
				el.SetAttr("stroke", out)
			}
			el.SetAttr("stroke-width", "0.0")
			el.SetAttr(ActionProperty, res.Action.String())
			if _, ok := decls.Get("stroke-width"); ok {
				decls.Set("stroke-width", "0.0")
			}
		}
	}
	if res.hasClass {
		el.RemoveAttr("class")
	}
	if res.hasClass || res.hasStyle {
		el.SetAttr("style", decls.String())
	}
}
