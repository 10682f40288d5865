// Implements the styling rules needed to classify
// SVG elements for laser processing: inline declarations,
// CSS class rules, stroke inheritance and color classification.
package svgstyle

import "strings"

// Declaration is a CSS property: value pair.
type Declaration struct {
	Property, Value string
}

// Declarations is an ordered declaration list, as found in
// a style attribute. When a property is repeated, the last
// occurrence wins.
type Declarations []Declaration

// ParseDeclarations splits a declaration block like "fill:red; stroke : blue".
// Malformed entries (without colon) are ignored.
func ParseDeclarations(s string) Declarations {
	var out Declarations
	for _, kv := range strings.Split(s, ";") {
		kv = strings.TrimSpace(kv)
		if kv == "" {
			continue
		}
		tmp := strings.SplitN(kv, ":", 2)
		if len(tmp) != 2 {
			continue
		}
		k := strings.ToLower(strings.TrimSpace(tmp[0]))
		if k == "" {
			continue
		}
		out = append(out, Declaration{Property: k, Value: strings.TrimSpace(tmp[1])})
	}
	return out
}

// Get returns the value of the last declaration of property.
func (d Declarations) Get(property string) (string, bool) {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i].Property == property {
			return d[i].Value, true
		}
	}
	return "", false
}

// Set replaces every declaration of property by value,
// or appends it if absent.
func (d *Declarations) Set(property, value string) {
	found := false
	for i := range *d {
		if (*d)[i].Property == property {
			(*d)[i].Value = value
			found = true
		}
	}
	if !found {
		*d = append(*d, Declaration{Property: property, Value: value})
	}
}

// String serializes the list, suitable for a style attribute.
func (d Declarations) String() string {
	chunks := make([]string, len(d))
	for i, decl := range d {
		chunks[i] = decl.Property + ":" + decl.Value
	}
	return strings.Join(chunks, ";")
}
