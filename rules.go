package htmlwhitelist

import "regexp"

// AttributeRule is the compiled permission record for one attribute of a
// whitelisted element.
type AttributeRule struct {
	// Name is the attribute name exactly as written in the whitelist,
	// including any pattern characters.
	Name string

	// Required marks the attribute as one the element must carry; see
	// ElementRule.RequiredAttributes.
	Required bool

	// Default, when non-nil, is written to the element whenever the
	// attribute is absent or empty. Forced, when non-nil, overwrites
	// the attribute unconditionally. The distinction between nil and a
	// pointer to "" matters: a forced empty string blanks the value.
	Default *string
	Forced  *string

	// Values restricts the attribute to a fixed value set. A nil map
	// means any value passes; a present value outside the set causes
	// the attribute to be stripped.
	Values map[string]struct{}

	pattern *regexp.Regexp // non-nil for pattern-named rules
}

// ElementRule is the compiled permission record for one element, or one
// element-name pattern.
type ElementRule struct {
	// Name is the element name exactly as written in the whitelist.
	Name string

	// OutputName is set when the rule was declared under a substitute
	// name such as "b/strong". It only affects how the rule is
	// registered; sanitising never renames tags.
	OutputName string

	// PadEmpty inserts a non-breaking space into the element when it
	// ends up with no children, so empty inline elements stay visible
	// and selectable in editors.
	PadEmpty bool

	// RemoveEmpty fails validation for the element when it has no
	// children, causing it to be unwrapped instead of kept.
	RemoveEmpty bool

	// Attributes holds the exact-name attribute rules, including any
	// inherited from the global @ declaration. AttributePatterns holds
	// pattern-named rules, tried in declaration order after an exact
	// lookup misses.
	Attributes        map[string]*AttributeRule
	AttributePatterns []*AttributeRule

	// RequiredAttributes lists names of which at least one must be
	// present with a non-empty value or the element fails validation.
	RequiredAttributes map[string]struct{}

	// DefaultAttributes and ForcedAttributes are applied after
	// attribute filtering: defaults fill attributes that are absent or
	// empty, forced values overwrite whatever is there.
	DefaultAttributes map[string]string
	ForcedAttributes  map[string]string

	pattern *regexp.Regexp // non-nil for pattern-named rules
}

// Attribute returns the rule governing the named attribute, or nil if
// the element does not allow it. Exact-name rules win over pattern
// rules; pattern rules are tried in declaration order.
func (r *ElementRule) Attribute(name string) *AttributeRule {
	if a, ok := r.Attributes[name]; ok {
		return a
	}
	for _, a := range r.AttributePatterns {
		if a.pattern != nil && a.pattern.MatchString(name) {
			return a
		}
	}
	return nil
}

// Whitelist is the compiled, immutable rule index built by [Compile].
// It is safe for concurrent use by any number of sanitiser invocations.
type Whitelist struct {
	elements        map[string]*ElementRule
	elementPatterns []*ElementRule
	globalAttrs     map[string]*AttributeRule
}

// Rule returns the rule governing the named element, or nil if the
// whitelist does not allow it. Exact-name rules win over pattern rules;
// pattern rules are tried in declaration order.
func (w *Whitelist) Rule(tag string) *ElementRule {
	if r, ok := w.elements[tag]; ok {
		return r
	}
	for _, r := range w.elementPatterns {
		if r.pattern != nil && r.pattern.MatchString(tag) {
			return r
		}
	}
	return nil
}

// DefaultRules whitelists a common safe subset of HTML used in content
// (headings, paragraphs, formatting, lists, links, images, tables,
// code, blockquotes) while rejecting script, style, event handlers, and
// every other element or attribute it does not name. Empty paragraphs
// are padded so they stay selectable; images must carry a src.
const DefaultRules = "@[id|class|lang|dir]," +
	"h1,h2,h3,h4,h5,h6," +
	"#p,br,hr," +
	"b/strong,i/em,u,s,strike,del,ins," +
	"a[!href|title|target<_blank?_self|rel]," +
	"img[!src|alt|title|width|height|loading]," +
	"ul,ol[start],li," +
	"table,thead,tbody,tfoot,tr," +
	"td[colspan|rowspan|align|valign],th[colspan|rowspan|align|valign|scope]," +
	"code,pre,kbd,samp," +
	"blockquote[cite],cite,q[cite]," +
	"figure,figcaption," +
	"div,span,section,article,header,footer," +
	"details,summary," +
	"abbr[title],acronym[title],address,sup,sub"

// InlineRules whitelists only basic inline formatting with no
// attributes at all, suitable for comment sections and other
// user-generated snippets where minimal markup is wanted.
const InlineRules = "b,i,em,strong,br,p,ul,ol,li"
