// Implements a mutable tree of SVG elements, which is
// consumed (and annotated) by the laser reader and may be
// written back to be handed to an external renderer.
package svgtree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// Namespaces used by the reader
const (
	NamespaceSVG      = "http://www.w3.org/2000/svg"
	NamespaceXLink    = "http://www.w3.org/1999/xlink"
	NamespaceInkscape = "http://www.inkscape.org/namespaces/inkscape"
	NamespaceSodipodi = "http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd"
	// NamespaceXML is bound to the reserved xml prefix
	NamespaceXML = "http://www.w3.org/XML/1998/namespace"
)

// usual prefixes, also accepted when a document uses them
// without declaring the namespace
var defaultPrefixes = map[string]string{
	NamespaceXLink:    "xlink",
	NamespaceInkscape: "inkscape",
	NamespaceSodipodi: "sodipodi",
	NamespaceXML:      "xml",
}

// matches the general entities declared in an internal DTD subset
var reEntity = regexp.MustCompile(`<!ENTITY\s+([^\s%"']+)\s+(?:"([^"]*)"|'([^']*)')`)

var errEmptyDocument = errors.New("svgtree: document has no root element")

// Node is an element of the tree.
// Text is the character data found before the first child,
// Tail the one following the end of the element, before its next sibling.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Node
	Parent   *Node
	Text     string
	Tail     string
}

// Kind returns the local name of the element (rect, g, use, ...)
func (n *Node) Kind() string { return n.Name.Local }

// Attr returns the value of the attribute `name`, without namespace.
func (n *Node) Attr(name string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name.Space == "" && attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

func matchSpace(got, want string) bool {
	return got == want || (got != "" && got == defaultPrefixes[want])
}

// AttrNS returns the value of the attribute `local` in the namespace `space`.
func (n *Node) AttrNS(space, local string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name.Local == local && matchSpace(attr.Name.Space, space) {
			return attr.Value, true
		}
	}
	return "", false
}

// SetAttr replaces or adds the attribute `name`, without namespace.
func (n *Node) SetAttr(name, value string) {
	for i, attr := range n.Attrs {
		if attr.Name.Space == "" && attr.Name.Local == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// RemoveAttr deletes the attribute `name`, if present.
func (n *Node) RemoveAttr(name string) {
	out := n.Attrs[:0]
	for _, attr := range n.Attrs {
		if attr.Name.Space == "" && attr.Name.Local == name {
			continue
		}
		out = append(out, attr)
	}
	n.Attrs = out
}

// ID returns the id attribute, or an empty string
func (n *Node) ID() string {
	id, _ := n.Attr("id")
	return id
}

// Href returns the reference of a use element, either
// as xlink:href or as a plain SVG 2 href.
func (n *Node) Href() (string, bool) {
	if v, ok := n.AttrNS(NamespaceXLink, "href"); ok {
		return v, true
	}
	return n.Attr("href")
}

func (n *Node) clone(parent *Node) *Node {
	out := &Node{Name: n.Name, Parent: parent, Text: n.Text, Tail: n.Tail}
	out.Attrs = append([]xml.Attr(nil), n.Attrs...)
	out.Children = make([]*Node, len(n.Children))
	for i, child := range n.Children {
		out.Children[i] = child.clone(out)
	}
	return out
}

// Document is a parsed SVG file.
type Document struct {
	Root *Node

	ids      map[string]*Node
	prefixes map[string]string // namespace URL -> prefix, from xmlns declarations
}

// ElementByID returns the first element with the given id, or nil.
func (d *Document) ElementByID(id string) *Node {
	return d.ids[id]
}

// Walk visits the tree in document order, depth first.
// Children are not visited when fn returns false.
func (d *Document) Walk(fn func(n *Node) bool) {
	var walk func(n *Node)
	walk = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(d.Root)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{Root: d.Root.clone(nil), prefixes: make(map[string]string, len(d.prefixes))}
	for k, v := range d.prefixes {
		out.prefixes[k] = v
	}
	out.index()
	return out
}

func (d *Document) index() {
	d.ids = make(map[string]*Node)
	d.Walk(func(n *Node) bool {
		if id := n.ID(); id != "" {
			if _, has := d.ids[id]; !has {
				d.ids[id] = n
			}
		}
		return true
	})
}

// Parse reads an SVG document from the given io.Reader.
// Non UTF-8 documents are decoded according to their
// XML declaration. Undeclared content which is not valid UTF-8
// is read again as ISO-8859-1.
func Parse(stream io.Reader) (*Document, error) {
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, err
	}
	doc, err := parse(bytes.NewReader(data))
	var se *xml.SyntaxError
	if errors.As(err, &se) && se.Msg == "invalid UTF-8" {
		latin1, err := charset.NewReaderLabel("iso-8859-1", bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return parse(latin1)
	}
	return doc, err
}

// declareEntities registers the entities of a DOCTYPE internal subset,
// as used by some editors for namespace URIs.
func declareEntities(decoder *xml.Decoder, directive xml.Directive) {
	if !bytes.HasPrefix(directive, []byte("DOCTYPE")) {
		return
	}
	for _, m := range reEntity.FindAllSubmatch(directive, -1) {
		if decoder.Entity == nil {
			decoder.Entity = make(map[string]string)
		}
		value := m[2]
		if value == nil {
			value = m[3]
		}
		decoder.Entity[string(m[1])] = string(value)
	}
}

func parse(stream io.Reader) (*Document, error) {
	doc := &Document{prefixes: make(map[string]string)}
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	var (
		stack []*Node
		last  *Node // last closed element, which receives the tail text
	)
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.Directive:
			declareEntities(decoder, se)
		case xml.StartElement:
			n := &Node{Name: se.Name, Attrs: append([]xml.Attr(nil), se.Attr...)}
			for _, attr := range se.Attr {
				if attr.Name.Space == "xmlns" {
					doc.prefixes[attr.Value] = attr.Name.Local
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				n.Parent = parent
				parent.Children = append(parent.Children, n)
			} else if doc.Root == nil {
				doc.Root = n
			}
			stack = append(stack, n)
			last = nil
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			last = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			if last != nil {
				last.Tail += string(se)
			} else {
				stack[len(stack)-1].Text += string(se)
			}
		}
	}
	if doc.Root == nil {
		return nil, errEmptyDocument
	}
	doc.index()
	return doc, nil
}

// ParseFile reads the SVG document in the named file.
func ParseFile(filename string) (*Document, error) {
	fin, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fin.Close()
	return Parse(fin)
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}
