package svgstyle

import (
	"image/color"
	"testing"
)

type element struct {
	kind  string
	attrs map[string]string
}

func (e *element) Kind() string { return e.kind }

func (e *element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *element) SetAttr(name, value string) { e.attrs[name] = value }

func (e *element) RemoveAttr(name string) { delete(e.attrs, name) }

func newElement(kind string, kv ...string) *element {
	e := &element{kind: kind, attrs: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		e.attrs[kv[i]] = kv[i+1]
	}
	return e
}

func TestDeclarations(t *testing.T) {
	d := ParseDeclarations(" fill : red;stroke:blue;; bogus ;stroke:#f00 ")
	if len(d) != 3 {
		t.Fatalf("unexpected declarations %v", d)
	}
	if v, _ := d.Get("stroke"); v != "#f00" {
		t.Errorf("last declaration should win, got %s", v)
	}
	d.Set("stroke", "#ffffff")
	d.Set("stroke-width", "0.0")
	if got := d.String(); got != "fill:red;stroke:#ffffff;stroke:#ffffff;stroke-width:0.0" {
		t.Errorf("unexpected serialization %s", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#ff0000", color.NRGBA{255, 0, 0, 255}, true},
		{"#00F", color.NRGBA{0, 0, 255, 255}, true},
		{"red", color.NRGBA{255, 0, 0, 255}, true},
		{"Blue", color.NRGBA{0, 0, 255, 255}, true},
		{"rgb(250, 5, 0)", color.NRGBA{250, 5, 0, 255}, true},
		{"rgb(100%,0%,0%)", color.NRGBA{255, 0, 0, 255}, true},
		{"none", color.NRGBA{}, false},
		{"url(#grad)", color.NRGBA{}, false},
		{"#12", color.NRGBA{}, false},
		{"#zzzzzz", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseColor(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if s := FormatColor(color.NRGBA{0xab, 0x01, 0xff, 0xff}); s != "#ab01ff" {
		t.Errorf("unexpected format %s", s)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		c       color.NRGBA
		want    Action
		changed bool
	}{
		{color.NRGBA{255, 0, 0, 255}, Cut, true},
		{color.NRGBA{245, 10, 10, 255}, Cut, true},
		{color.NRGBA{244, 0, 0, 255}, Raster, false},
		{color.NRGBA{0, 0, 255, 255}, Engrave, true},
		{color.NRGBA{10, 10, 245, 255}, Engrave, true},
		{color.NRGBA{0, 11, 255, 255}, Raster, false},
		{color.NRGBA{0, 0, 0, 255}, Raster, false},
		{color.NRGBA{255, 255, 255, 255}, Raster, false},
	}
	for _, tt := range tests {
		action, out, changed := Classify(tt.c)
		if action != tt.want || changed != tt.changed {
			t.Errorf("Classify(%v) = %v %v, want %v %v", tt.c, action, changed, tt.want, tt.changed)
		}
		if changed && out != (color.NRGBA{255, 255, 255, 255}) {
			t.Errorf("consumed color should be white, got %v", out)
		}
		if !changed && out != tt.c {
			t.Errorf("raster color should be unchanged, got %v", out)
		}
		// classifying the output again never gives a vector action
		if again, _, changedAgain := Classify(out); changed && (again != Raster || changedAgain) {
			t.Errorf("classification of %v is not idempotent", tt.c)
		}
	}

	if a, out, changed := ClassifyString("none"); a != Raster || out != "none" || changed {
		t.Errorf("unexpected classification of none: %v %s %v", a, out, changed)
	}
	if a, out, changed := ClassifyString("#0000ff"); a != Engrave || out != "#ffffff" || !changed {
		t.Errorf("unexpected classification of blue: %v %s %v", a, out, changed)
	}
}

func TestSheet(t *testing.T) {
	var s Sheet
	s.Parse(`
	/* shared block */
	.a, .b { stroke: #ff0000; }
	rect.c { stroke: blue }
	.c { fill: black }
	.d,
	path.d { stroke-width: 2 }
	.e { } `)

	tests := []struct {
		kind, class, want string
	}{
		{"rect", "a", "stroke: #ff0000;"},
		{"path", "b", "stroke: #ff0000;"},
		{"rect", "c", "stroke: blue"},
		{"circle", "c", "fill: black"},
		{"circle", "d", "stroke-width: 2"},
		{"path", "d", "stroke-width: 2"},
		{"rect", "e", ""},
		{"rect", "unknown", ""},
	}
	for _, tt := range tests {
		if got := s.Lookup(tt.kind, tt.class); got != tt.want {
			t.Errorf("Lookup(%s, %s) = %q, want %q", tt.kind, tt.class, got, tt.want)
		}
	}
	if got := s.ClassDeclarations("circle", " a  c "); got != "stroke: #ff0000;;fill: black" {
		t.Errorf("unexpected class declarations %q", got)
	}
}

func TestSheetWildcardsConcatenate(t *testing.T) {
	var s Sheet
	s.Parse(".a{fill:red} .a{stroke:blue}")
	if got := s.Lookup("g", "a"); got != "fill:red;stroke:blue" {
		t.Errorf("unexpected lookup %q", got)
	}
	s.Parse("g.a{stroke:green}")
	if got := s.Lookup("g", "a"); got != "stroke:green" {
		t.Errorf("specific rule should win, got %q", got)
	}
}

func TestResolvePrecedence(t *testing.T) {
	var sheet Sheet
	sheet.Parse(".red { stroke: #ff0000 } .black { stroke: #000000 }")
	inheritedBlue := Stroke{"#0000ff", true}

	tests := []struct {
		name      string
		el        *element
		inherited Stroke
		action    Action
		source    Source
	}{
		{"inherited", newElement("rect"), inheritedBlue, Engrave, FromAncestor},
		{"attribute over inherited", newElement("rect", "stroke", "red"), inheritedBlue, Cut, FromAttribute},
		{"style over attribute", newElement("rect", "stroke", "red", "style", "stroke:#000"), Stroke{}, Raster, FromStyle},
		{"class", newElement("rect", "class", "red"), Stroke{}, Cut, FromStyle},
		{"inline over class", newElement("rect", "class", "red", "style", "stroke:black"), Stroke{}, Raster, FromStyle},
		{"later class wins", newElement("rect", "class", "red black"), Stroke{}, Raster, FromStyle},
		{"no stroke", newElement("rect", "fill", "red"), Stroke{}, Raster, NoStroke},
		{"marker", newElement("rect", "stroke", "#ffffff", ActionProperty, "engrave"), Stroke{}, Engrave, FromAttribute},
		{"marker in style", newElement("rect", "style", "stroke:#ffffff;laser-action:cut"), Stroke{}, Cut, FromStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := sheet.Resolve(tt.el, tt.inherited)
			if res.Action != tt.action || res.Source != tt.source {
				t.Errorf("got %v from %v, want %v from %v", res.Action, res.Source, tt.action, tt.source)
			}
			if res.Changed != (tt.action != Raster) {
				t.Errorf("unexpected changed flag %v", res.Changed)
			}
		})
	}
}

func TestApply(t *testing.T) {
	var sheet Sheet
	sheet.Parse(".red { stroke: #ff0000; stroke-width: 3 }")

	el := newElement("rect", "class", "red", "style", "fill:none")
	res := sheet.Resolve(el, Stroke{})
	res.Apply(el)
	if _, ok := el.attrs["class"]; ok {
		t.Error("class should be consumed")
	}
	if got := el.attrs["style"]; got != "stroke:#ffffff;stroke-width:0.0;fill:none;laser-action:cut" {
		t.Errorf("unexpected style %q", got)
	}
	// a second pass keeps the classification
	if again := sheet.Resolve(el, Stroke{}); again.Action != Cut {
		t.Errorf("reclassification gives %v", again.Action)
	}

	el = newElement("circle", "stroke", "blue", "stroke-width", "2")
	res = sheet.Resolve(el, Stroke{})
	res.Apply(el)
	if el.attrs["stroke"] != "#ffffff" || el.attrs["stroke-width"] != "0.0" || el.attrs[ActionProperty] != "engrave" {
		t.Errorf("unexpected attributes %v", el.attrs)
	}
	if _, ok := el.attrs["style"]; ok {
		t.Error("no style attribute should be added")
	}

	el = newElement("circle", "stroke", "black", "style", "fill : red")
	res = sheet.Resolve(el, Stroke{})
	res.Apply(el)
	if el.attrs["stroke"] != "black" || el.attrs["style"] != "fill:red" {
		t.Errorf("raster elements should keep their stroke: %v", el.attrs)
	}
}

func TestHidden(t *testing.T) {
	var sheet Sheet
	for _, tt := range []struct {
		el   *element
		want bool
	}{
		{newElement("g", "style", "display:none"), true},
		{newElement("g", "display", "none"), true},
		{newElement("g", "display", "none", "style", "display:inline"), false},
		{newElement("g"), false},
	} {
		if got := sheet.Resolve(tt.el, Stroke{}).Hidden(tt.el); got != tt.want {
			t.Errorf("Hidden(%v) = %v", tt.el.attrs, got)
		}
	}
}
