package htmlwhitelist

import (
	"regexp"
	"strings"
)

// Whitelist specifications are comma-separated element clauses:
//
//	[prefix]name[/outputName][attributes]
//
// The prefix '#' pads the element when it ends up empty, '-' removes it
// when empty, and '+' carries no flag. Attributes are '|'-separated
// tokens in square brackets. An attribute token takes an optional '!'
// (required) or '-' (deny an inherited global attribute) prefix and an
// optional relation: '=' declares a default value, ':' a forced value,
// and '<' a '?'-separated list of valid values. The pseudo-element '@'
// captures its attributes as the global baseline inherited by every
// element declared after it. Clauses that do not fit the grammar are
// dropped without error: unparseable entries simply do not extend the
// whitelist.
var (
	elementClauseRe = regexp.MustCompile(`^([#+-])?([^/\[\]]+)(?:/([^/\[\]]+))?(?:\[(.*)\])?$`)
	attrClauseRe    = regexp.MustCompile(`^([!-])?([^=:<]+)(?:([=:<])(.*))?$`)
)

// Compile parses whitelist specification strings into a [Whitelist].
// Specifications are applied in order, so a later one may override an
// earlier rule registered under the same exact element name, while
// pattern rules accumulate in declaration order. Compiling no strings,
// or only empty ones, yields an empty whitelist under which every
// element is stripped or unwrapped.
func Compile(specs ...string) *Whitelist {
	b := newWhitelistBuilder()
	for _, spec := range specs {
		b.parse(spec)
	}
	return b.build()
}

// whitelistBuilder accumulates rules across parse passes and is
// finalized into an immutable Whitelist once all passes are done.
type whitelistBuilder struct {
	elements        map[string]*ElementRule
	elementPatterns []*ElementRule
	globalAttrs     map[string]*AttributeRule
}

func newWhitelistBuilder() *whitelistBuilder {
	return &whitelistBuilder{elements: make(map[string]*ElementRule)}
}

func (b *whitelistBuilder) build() *Whitelist {
	return &Whitelist{
		elements:        b.elements,
		elementPatterns: b.elementPatterns,
		globalAttrs:     b.globalAttrs,
	}
}

func (b *whitelistBuilder) parse(spec string) {
	for _, clause := range strings.Split(spec, ",") {
		if clause = strings.TrimSpace(clause); clause != "" {
			b.parseClause(clause)
		}
	}
}

func (b *whitelistBuilder) parseClause(clause string) {
	m := elementClauseRe.FindStringSubmatch(clause)
	if m == nil {
		return
	}
	prefix, name, outputName, attrSpec := m[1], m[2], m[3], m[4]

	rule := &ElementRule{
		Name:               name,
		OutputName:         outputName,
		PadEmpty:           prefix == "#",
		RemoveEmpty:        prefix == "-",
		Attributes:         make(map[string]*AttributeRule),
		RequiredAttributes: make(map[string]struct{}),
		DefaultAttributes:  make(map[string]string),
		ForcedAttributes:   make(map[string]string),
	}

	// Elements inherit a copy of the global attribute snapshot; '-'
	// tokens below may remove entries from the copy without touching
	// the snapshot itself.
	for k, v := range b.globalAttrs {
		rule.Attributes[k] = v
	}
	parseAttributeList(rule, attrSpec)

	// The first '@' clause is the global attribute declaration, not a
	// real element.
	if b.globalAttrs == nil && name == "@" {
		b.globalAttrs = rule.Attributes
		return
	}

	if isPattern(name) {
		re, err := compilePattern(name)
		if err != nil {
			return
		}
		rule.pattern = re
		if outputName != "" {
			b.elements[outputName] = rule
		}
		b.elementPatterns = append(b.elementPatterns, rule)
		return
	}
	if outputName != "" {
		b.elements[outputName] = rule
	}
	b.elements[name] = rule
}

// parseAttributeList resolves the '|'-separated attribute tokens of one
// element clause into rule. Tokens that fail the attribute grammar are
// dropped; the element clause itself still registers.
func parseAttributeList(rule *ElementRule, spec string) {
	for _, token := range strings.Split(spec, "|") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		m := attrClauseRe.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		prefix, name, relation, value := m[1], m[2], m[3], m[4]

		if prefix == "-" {
			delete(rule.Attributes, name)
			continue
		}

		attr := &AttributeRule{Name: name, Required: prefix == "!"}
		if attr.Required {
			rule.RequiredAttributes[name] = struct{}{}
		}
		switch relation {
		case "=":
			v := value
			attr.Default = &v
			rule.DefaultAttributes[name] = value
		case ":":
			v := value
			attr.Forced = &v
			rule.ForcedAttributes[name] = value
		case "<":
			attr.Values = make(map[string]struct{})
			for _, v := range strings.Split(value, "?") {
				attr.Values[v] = struct{}{}
			}
		}

		if isPattern(name) {
			re, err := compilePattern(name)
			if err != nil {
				continue
			}
			attr.pattern = re
			rule.AttributePatterns = append(rule.AttributePatterns, attr)
			continue
		}
		rule.Attributes[name] = attr
	}
}
