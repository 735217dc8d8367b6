// Package htmlwhitelist provides a whitelist-driven HTML sanitizer for
// rich-text editor output.
//
// # Overview
//
// htmlwhitelist compiles a compact whitelist grammar (element names,
// allowed attributes, required/default/forced attribute values,
// empty-element handling) into a [Whitelist], and applies it in place
// to documents parsed with golang.org/x/net/html. Elements the
// whitelist does not allow are unwrapped: their children are promoted
// into the parent so legitimate content survives the removal of its
// wrapper. script and style are the exception; their contents are
// deleted outright. The [Sanitizer.Sanitize] and
// [Sanitizer.SanitizeReader] helpers wrap parsing and rendering around
// the in-place [Sanitizer.Clean].
//
// # Whitelist grammar
//
// A whitelist is a comma-separated list of element clauses:
//
//	[prefix]name[/outputName][attributes]
//
// The prefix '#' pads the element with a non-breaking space when it
// ends up empty, '-' removes it when empty, and '+' carries no flag.
// Attributes are '|'-separated tokens in square brackets, each with an
// optional '!' (required) or '-' (deny an inherited global attribute)
// prefix and an optional relation: '=' for a default value, ':' for a
// forced value, '<' for a '?'-separated list of valid values. The
// pseudo-element '@' captures its attributes as a global baseline
// inherited by every element declared after it. For example:
//
//	@[id|class],#p,a[!href|target<_blank?_self|rel],img[!src|alt]
//
// Element and attribute names may use '?', '+' and '*' as quantifiers
// of the character before them ("td+" matches td, tdd, tddd, ...);
// exact names always take precedence over such patterns. Clauses that
// do not fit the grammar are silently dropped.
//
// Two built-in whitelists are provided: [DefaultRules], covering common
// content markup, and [InlineRules], a minimal set for comments and
// similar user-generated snippets.
//
// # Security
//
// htmlwhitelist defends against common XSS vectors in editor output:
//   - Script and style injection: disallowed <script> and <style>
//     subtrees are deleted, never unwrapped.
//   - Event handler attributes (onclick, onerror, ...) and anything
//     else outside the whitelist are stripped.
//   - javascript: and data:text/html URIs in src, href, and data are
//     removed, including whitespace-obfuscated forms such as
//     "jav\tascript:".
//   - Reverse tabnabbing: anchors carrying a target attribute get
//     rel="noopener noreferrer" (configurable with [WithLinkRel],
//     disabled with [WithoutLinkRel]).
//
// It does not validate document structure or enforce a formal HTML5
// sanitisation spec; pair it with proper Content-Security-Policy
// headers for defence in depth.
//
// # Thread Safety
//
// A compiled [Whitelist] and any [Sanitizer] bound to it are safe for
// concurrent use. Each document passed to Clean must be owned by the
// calling goroutine for the duration of the call.
//
// # Example
//
//	s := htmlwhitelist.New(htmlwhitelist.Compile(htmlwhitelist.DefaultRules))
//	clean, err := s.Sanitize(userInput)
package htmlwhitelist
