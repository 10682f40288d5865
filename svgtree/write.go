package svgtree

import (
	"bufio"
	"encoding/xml"
	"io"
	"os"
)

// qualified returns the prefixed name used for serialization
func (d *Document) qualified(name xml.Name, defaultSpace string) string {
	switch name.Space {
	case "", defaultSpace:
		return name.Local
	case "xmlns":
		return "xmlns:" + name.Local
	}
	if prefix, ok := d.prefixes[name.Space]; ok {
		return prefix + ":" + name.Local
	}
	if prefix, ok := defaultPrefixes[name.Space]; ok {
		return prefix + ":" + name.Local
	}
	// undeclared prefix, kept as is by the decoder
	return name.Space + ":" + name.Local
}

func escape(w *bufio.Writer, s string) {
	_ = xml.EscapeText(w, []byte(s))
}

func (d *Document) writeNode(w *bufio.Writer, n *Node, defaultSpace string) {
	tag := d.qualified(n.Name, defaultSpace)
	w.WriteString("<" + tag)
	for _, attr := range n.Attrs {
		w.WriteString(" " + d.qualified(attr.Name, "") + `="`)
		escape(w, attr.Value)
		w.WriteByte('"')
	}
	if len(n.Children) == 0 && n.Text == "" {
		w.WriteString("/>")
	} else {
		w.WriteByte('>')
		escape(w, n.Text)
		for _, child := range n.Children {
			d.writeNode(w, child, defaultSpace)
		}
		w.WriteString("</" + tag + ">")
	}
	escape(w, n.Tail)
}

// Write serializes the document, with the namespace
// prefixes used in the source.
func (d *Document) Write(out io.Writer) error {
	w := bufio.NewWriter(out)
	w.WriteString(xml.Header)
	defaultSpace, _ := d.Root.Attr("xmlns")
	if defaultSpace == "" {
		defaultSpace = d.Root.Name.Space
	}
	d.writeNode(w, d.Root, defaultSpace)
	w.WriteByte('\n')
	return w.Flush()
}

// WriteFile serializes the document to the named file.
func (d *Document) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err = d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
