package htmlwhitelist

import (
	"regexp"
	"strings"
)

// patternMeta holds the characters that turn a whitelist name token into
// a pattern rule instead of an exact-name rule.
const patternMeta = "*?+"

// isPattern reports whether a name token must be matched as a pattern.
func isPattern(token string) bool {
	return strings.ContainsAny(token, patternMeta)
}

// compilePattern turns a name token into an anchored regular expression.
// The token is embedded verbatim, so ?, + and * quantify the character
// written before them: "td+" matches "td", "tdd", "tddd" and so on, and
// "a*" matches "a", "aa", "aaa". These are not conventional glob
// wildcards. Matching is case-sensitive. Tokens that do not form a valid
// expression (for example a leading quantifier) report an error and the
// caller drops the clause.
func compilePattern(token string) (*regexp.Regexp, error) {
	return regexp.Compile("^" + token + "$")
}
