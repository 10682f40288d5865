package svgtree

import (
	"bytes"
	"strings"
	"testing"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"
	xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" width="10mm" height="10mm" viewBox="0 0 10 10">
	<style type="text/css">.a { stroke: red; }</style>
	<g id="layer1" inkscape:groupmode="layer" inkscape:label="Layer 1">
		<rect id="r" x="1" y="1" width="2" height="2"/>
		<use id="u1" xlink:href="#r" x="5"/>
		<use id="u2" href="#r"/>
		<text xml:space="preserve">Hello <tspan>big</tspan> world</text>
	</g>
</svg>`

func TestParse(t *testing.T) {
	doc, err := ParseString(sample)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Root.Kind() != "svg" {
		t.Fatalf("unexpected root %s", doc.Root.Kind())
	}
	if w, _ := doc.Root.Attr("width"); w != "10mm" {
		t.Errorf("unexpected width %q", w)
	}

	layer := doc.ElementByID("layer1")
	if layer == nil {
		t.Fatal("missing layer1")
	}
	if mode, ok := layer.AttrNS(NamespaceInkscape, "groupmode"); !ok || mode != "layer" {
		t.Errorf("unexpected groupmode %q", mode)
	}
	if label, _ := layer.AttrNS(NamespaceInkscape, "label"); label != "Layer 1" {
		t.Errorf("unexpected label %q", label)
	}
	if layer.Parent != doc.Root {
		t.Error("bad parent link")
	}

	for _, id := range []string{"u1", "u2"} {
		href, ok := doc.ElementByID(id).Href()
		if !ok || href != "#r" {
			t.Errorf("%s: unexpected href %q", id, href)
		}
	}

	style := doc.Root.Children[0]
	if style.Kind() != "style" || style.Text != ".a { stroke: red; }" {
		t.Errorf("unexpected style node %s %q", style.Kind(), style.Text)
	}

	text := layer.Children[3]
	if text.Text != "Hello " || text.Children[0].Text != "big" || text.Children[0].Tail != " world" {
		t.Errorf("unexpected text content %q %q %q", text.Text, text.Children[0].Text, text.Children[0].Tail)
	}
}

func TestAttrEdition(t *testing.T) {
	doc, err := ParseString(sample)
	if err != nil {
		t.Fatal(err)
	}
	r := doc.ElementByID("r")
	r.SetAttr("stroke", "#ffffff")
	r.SetAttr("x", "3")
	r.RemoveAttr("y")
	if v, _ := r.Attr("stroke"); v != "#ffffff" {
		t.Errorf("unexpected stroke %q", v)
	}
	if v, _ := r.Attr("x"); v != "3" {
		t.Errorf("unexpected x %q", v)
	}
	if _, ok := r.Attr("y"); ok {
		t.Error("y should be removed")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	doc, err := ParseString(sample)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err = doc.Write(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, chunk := range []string{`xmlns:inkscape=`, `inkscape:label="Layer 1"`, `xlink:href="#r"`, `<rect id="r"`, `<tspan>big</tspan> world`, `<text xml:space="preserve">`} {
		if !strings.Contains(out, chunk) {
			t.Errorf("missing %s in output:\n%s", chunk, out)
		}
	}

	doc2, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc2.Root.Children) != len(doc.Root.Children) {
		t.Error("children lost in round trip")
	}
	if doc2.ElementByID("u1") == nil {
		t.Error("id index lost in round trip")
	}
	text := doc2.Root.Children[1].Children[3]
	if v, ok := text.AttrNS(NamespaceXML, "space"); !ok || v != "preserve" {
		t.Errorf("xml:space lost in round trip: %v", text.Attrs)
	}
}

func TestClone(t *testing.T) {
	doc, err := ParseString(sample)
	if err != nil {
		t.Fatal(err)
	}
	cp := doc.Clone()
	cp.ElementByID("r").SetAttr("width", "7")
	if w, _ := doc.ElementByID("r").Attr("width"); w != "2" {
		t.Errorf("clone shares attributes with source: %s", w)
	}
	if cp.ElementByID("r").Parent.ID() != "layer1" {
		t.Error("clone parent links broken")
	}
}

func TestCharset(t *testing.T) {
	src := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><svg><title>caf\xe9</title></svg>"
	doc, err := ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Root.Children[0].Text; got != "café" {
		t.Errorf("unexpected decoded text %q", got)
	}
}

func TestLatin1Fallback(t *testing.T) {
	for _, src := range []string{
		"<svg xmlns=\"http://www.w3.org/2000/svg\"><title>caf\xe9</title></svg>",
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?><svg><title>caf\xe9</title></svg>",
	} {
		doc, err := ParseString(src)
		if err != nil {
			t.Fatal(err)
		}
		if got := doc.Root.Children[0].Text; got != "café" {
			t.Errorf("unexpected decoded text %q", got)
		}
	}
}

func TestDoctypeEntities(t *testing.T) {
	src := `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd" [
	<!ENTITY ns_svg "http://www.w3.org/2000/svg">
	<!ENTITY ns_xlink 'http://www.w3.org/1999/xlink'>
	<!ENTITY st0 "fill:none;stroke:#FF0000;">
]>
<svg xmlns="&ns_svg;" xmlns:xlink="&ns_xlink;" width="10mm" height="10mm">
	<rect id="r" style="&st0;" width="1" height="1"/>
	<use xlink:href="#r"/>
</svg>`
	doc, err := ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Root.Name.Space != NamespaceSVG {
		t.Errorf("unexpected namespace %q", doc.Root.Name.Space)
	}
	if style, _ := doc.Root.Children[0].Attr("style"); style != "fill:none;stroke:#FF0000;" {
		t.Errorf("unexpected style %q", style)
	}
	if href, ok := doc.Root.Children[1].Href(); !ok || href != "#r" {
		t.Errorf("unexpected href %q", href)
	}
}

func TestEmpty(t *testing.T) {
	if _, err := ParseString(""); err == nil {
		t.Error("expected error on empty input")
	}
}
