package svgstyle

import "strings"

// Rule associates a declaration block to a class name,
// optionally restricted to one element kind.
type Rule struct {
	Kind  string // empty for a wildcard rule like ".a"
	Class string
	Decl  string
}

// Sheet is the ordered rule table built from the style
// sheets of a document.
type Sheet struct {
	rules []Rule
}

// Rules returns the rules registered so far.
func (s *Sheet) Rules() []Rule { return s.rules }

// rawRule is a selector waiting for its declaration block
type rawRule struct {
	selector string
	decl     string
	group    int // selectors sharing one block have the same group
}

func stripComments(css string) string {
	for {
		start := strings.Index(css, "/*")
		if start == -1 {
			return css
		}
		end := strings.Index(css[start+2:], "*/")
		if end == -1 {
			return css[:start]
		}
		css = css[:start] + " " + css[start+2+end+2:]
	}
}

// collectRules is the first pass: selectors in document order,
// with an empty declaration for all but the last selector of
// a comma separated list.
func collectRules(css string) []rawRule {
	var (
		out      []rawRule
		selector strings.Builder
		group    int
	)
	for i := 0; i < len(css); i++ {
		switch c := css[i]; c {
		case ',':
			out = append(out, rawRule{selector: selector.String(), group: group})
			selector.Reset()
		case '{':
			end := strings.IndexByte(css[i:], '}')
			if end == -1 {
				end = len(css) - i
			}
			out = append(out, rawRule{selector: selector.String(), decl: strings.TrimSpace(css[i+1 : i+end]), group: group})
			selector.Reset()
			group++
			i += end
		default:
			selector.WriteByte(c)
		}
	}
	return out
}

// fillPending is the second pass: pending entries receive the
// next declaration block of their group.
func fillPending(raws []rawRule) {
	for i := len(raws) - 2; i >= 0; i-- {
		if raws[i].decl == "" && raws[i+1].group == raws[i].group {
			raws[i].decl = raws[i+1].decl
		}
	}
}

// Parse adds the rules of a style sheet to the table.
// Only class selectors ".class" and "kind.class" are
// meaningful, others are kept but never match.
func (s *Sheet) Parse(css string) {
	raws := collectRules(stripComments(css))
	fillPending(raws)
	for _, raw := range raws {
		name := strings.Join(strings.Fields(raw.selector), " ")
		if name == "" {
			continue
		}
		var rule Rule
		if dot := strings.IndexByte(name, '.'); dot != -1 {
			rule.Kind, rule.Class = name[:dot], name[dot+1:]
		} else {
			rule.Kind = name
		}
		rule.Decl = raw.decl
		s.rules = append(s.rules, rule)
	}
}

// Lookup returns the declarations applying to an element of the given
// kind bearing class. A rule specific to the kind takes precedence; otherwise
// all the matching wildcard rules are concatenated, in order.
func (s *Sheet) Lookup(kind, class string) string {
	var wildcards []string
	for _, rule := range s.rules {
		if rule.Class != class || class == "" {
			continue
		}
		if rule.Kind == kind {
			return rule.Decl
		}
		if rule.Kind == "" {
			wildcards = append(wildcards, rule.Decl)
		}
	}
	return strings.Join(wildcards, ";")
}

// ClassDeclarations resolves a class attribute (space separated tokens)
// to the concatenation of the declarations of each token, in order.
func (s *Sheet) ClassDeclarations(kind, classAttr string) string {
	var fragments []string
	for _, class := range strings.Fields(classAttr) {
		if decl := s.Lookup(kind, class); decl != "" {
			fragments = append(fragments, decl)
		}
	}
	return strings.Join(fragments, ";")
}
