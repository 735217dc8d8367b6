package htmlwhitelist

import (
	"bytes"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// DefaultLinkRel is the rel value the link policy applies to anchors
// carrying a target attribute, unless overridden with WithLinkRel or
// disabled with WithoutLinkRel.
const DefaultLinkRel = "noopener noreferrer"

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithLinkRel overrides the rel value the link policy writes onto
// anchors that carry a target attribute. The empty string switches the
// policy to strip mode: rel attributes are removed instead of set.
func WithLinkRel(rel string) Option {
	return func(s *Sanitizer) { s.linkRel = &rel }
}

// WithoutLinkRel disables the link-rel policy entirely; rel and target
// attributes are then governed by the whitelist alone.
func WithoutLinkRel() Option {
	return func(s *Sanitizer) { s.linkRel = nil }
}

// Sanitizer applies a compiled Whitelist to parsed HTML documents. A
// Sanitizer is safe for concurrent use on independent documents; a
// single Clean call assumes the document is not mutated concurrently.
type Sanitizer struct {
	rules   *Whitelist
	linkRel *string
}

// New returns a Sanitizer bound to the given whitelist. If rules is
// nil, DefaultRules is compiled and used.
func New(rules *Whitelist, opts ...Option) *Sanitizer {
	if rules == nil {
		rules = Compile(DefaultRules)
	}
	rel := DefaultLinkRel
	s := &Sanitizer{rules: rules, linkRel: &rel}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clean sanitises the document in place. It locates the body element
// under doc, falling back to doc itself when there is none, and
// rewrites every descendant element against the whitelist: elements
// without a passing rule are unwrapped (their children take their
// place, in order) except script and style, which are removed together
// with their contents; elements that pass keep only the attributes
// their rule allows, receive default and forced values, and lose
// src/href/data attributes carrying dangerous URI schemes. The root
// itself is never validated.
func (s *Sanitizer) Clean(doc *html.Node) {
	if doc == nil {
		return
	}
	root := findBody(doc)
	if root == nil {
		root = doc
	}
	n := root.FirstChild
	for n != nil {
		if n.Type != html.ElementNode {
			n = next(n, root)
			continue
		}
		rule := s.rules.Rule(n.Data)
		if !elementPasses(n, rule) {
			n = removeOrUnwrap(n, root)
			continue
		}
		s.applyRule(n, rule)
		if s.linkRel != nil && n.Data == "a" {
			s.applyLinkRel(n)
		}
		n = next(n, root)
	}
}

// Sanitize parses input, applies the whitelist, and returns the
// sanitised HTML of the document body.
func (s *Sanitizer) Sanitize(input string) (string, error) {
	return s.SanitizeReader(strings.NewReader(input))
}

// SanitizeReader reads HTML from r, applies the whitelist, and returns
// the sanitised HTML of the document body.
func (s *Sanitizer) SanitizeReader(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	s.Clean(doc)

	root := findBody(doc)
	if root == nil {
		root = doc
	}
	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// elementPasses reports whether the element satisfies its rule. A nil
// rule always fails.
func elementPasses(n *html.Node, rule *ElementRule) bool {
	if rule == nil {
		return false
	}
	if len(rule.RequiredAttributes) > 0 {
		found := false
		for name := range rule.RequiredAttributes {
			if GetAttr(n, name) != "" {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if rule.RemoveEmpty && n.FirstChild == nil {
		return false
	}
	return true
}

// attributePasses reports whether the attribute satisfies its rule. A
// nil rule always fails.
func attributePasses(a html.Attribute, rule *AttributeRule) bool {
	if rule == nil {
		return false
	}
	if rule.Values != nil {
		if _, ok := rule.Values[a.Val]; !ok {
			return false
		}
	}
	return true
}

// contentStripped lists disallowed tags whose contents must never
// survive. Every other disallowed element is unwrapped instead.
var contentStripped = map[string]bool{
	"script": true,
	"style":  true,
}

// removeOrUnwrap takes a failed element out of the tree and returns the
// node at which the walk resumes. script and style subtrees are deleted
// wholesale; any other element is replaced by its own children in their
// original order, and the walk resumes at the first promoted child so
// newly exposed elements are not skipped.
func removeOrUnwrap(n, root *html.Node) *html.Node {
	parent := n.Parent
	resume := nextSkippingChildren(n, root)
	if contentStripped[n.Data] {
		parent.RemoveChild(n)
		return resume
	}
	first := n.FirstChild
	for c := n.FirstChild; c != nil; {
		cnext := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = cnext
	}
	parent.RemoveChild(n)
	if first != nil {
		return first
	}
	return resume
}

// applyRule rewrites a passing element: pads empty content when asked,
// filters attributes, fills defaults, overwrites forced values, and
// strips dangerous URIs.
func (s *Sanitizer) applyRule(n *html.Node, rule *ElementRule) {
	if rule.PadEmpty && n.FirstChild == nil && !isVoidElement(n.Data) {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: "\u00a0"})
	}

	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if attributePasses(a, rule.Attribute(a.Key)) {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs

	for name, value := range rule.DefaultAttributes {
		if GetAttr(n, name) == "" {
			SetAttr(n, name, value)
		}
	}
	for name, value := range rule.ForcedAttributes {
		SetAttr(n, name, value)
	}

	for _, name := range uriAttributes {
		if dangerousURI.MatchString(GetAttr(n, name)) {
			RemoveAttr(n, name)
		}
	}
}

// applyLinkRel keeps rel and target consistent on an anchor: anchors
// with a target get the configured rel value (or lose rel entirely in
// strip mode), and a previously applied rel is removed again once the
// target is gone. Running it twice on a conformant anchor is a no-op.
func (s *Sanitizer) applyLinkRel(n *html.Node) {
	rel := *s.linkRel
	target := GetAttr(n, "target")
	current := GetAttr(n, "rel")
	switch {
	case target != "" && current != rel:
		if rel == "" {
			RemoveAttr(n, "rel")
		} else {
			SetAttr(n, "rel", rel)
		}
	case target == "" && current == rel:
		RemoveAttr(n, "rel")
	}
}

// uriAttributes are the attribute names checked for dangerous URI
// schemes on every passing element.
var uriAttributes = [...]string{"src", "href", "data"}

// dangerousURI matches javascript: and data:text/html; values at the
// start of an attribute, case-insensitively and ignoring leading
// whitespace.
var dangerousURI = regexp.MustCompile(
	`(?i)^\s*(?:` + looseScheme("javascript:") + `|` + looseScheme("data:text/html;") + `)`)

// looseScheme builds a pattern that matches the scheme token with any
// amount of whitespace between its characters, defeating obfuscations
// like "jav\tascript:".
func looseScheme(token string) string {
	parts := strings.Split(token, "")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(parts, `\s*`)
}

// next returns the node after n in document order, descending into
// children first.
func next(n, root *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return nextSkippingChildren(n, root)
}

// nextSkippingChildren returns the node after n in document order
// without entering n's subtree. It must be called while n is still
// attached under root.
func nextSkippingChildren(n, root *html.Node) *html.Node {
	for n != nil && n != root {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// StripTags removes all HTML tags and returns plain text. Entity
// references are decoded.
func StripTags(htmlStr string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	body := findBody(doc)
	if body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return buf.String(), nil
}

// SetAttr sets (or adds) the attribute key=val on node n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// GetAttr returns the value of the named attribute on n, or "" if not
// present.
func GetAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// RemoveAttr removes the named attribute from n if present.
func RemoveAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

// --- helpers ---------------------------------------------------------

func isVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

func findBody(doc *html.Node) *html.Node {
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "body" {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if r := find(c); r != nil {
				return r
			}
		}
		return nil
	}
	return find(doc)
}
