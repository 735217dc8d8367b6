package htmlwhitelist_test

import (
	"strings"
	"testing"

	"github.com/njchilds90/htmlwhitelist"
	"golang.org/x/net/html"
)

func TestSanitize_AttributeWhitelist(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[href|title]"))
	got, err := s.Sanitize(`<a href="x" title="y" onclick="evil()">click</a>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<a href="x" title="y">click</a>`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestSanitize_UnwrapPreservesContent(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("b"))
	got, err := s.Sanitize(`<div>one <b>two</b> three</div>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `one <b>two</b> three`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestSanitize_ScriptAndStyleDeleted(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("p"))
	got, err := s.Sanitize(`<p>keep</p><script>alert(1)</script><style>.x{}</style>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<p>keep</p>`; got != want {
		t.Errorf("script/style contents should be deleted: got %s", got)
	}
}

func TestSanitize_ScriptInsideUnwrappedElement(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("p"))
	got, err := s.Sanitize(`<div><script>evil()</script><p>ok</p></div>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<p>ok</p>`; got != want {
		t.Errorf("script exposed by unwrapping should still be deleted: got %s", got)
	}
}

func TestSanitize_NestedUnwrapExposesChildren(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("b"))
	got, err := s.Sanitize(`<div><section><b>deep</b></section></div>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<b>deep</b>`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestSanitize_EmptyWhitelistStripsEverything(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile(""))
	got, err := s.Sanitize(`<div>a<span>b</span></div>c`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `abc`; got != want {
		t.Errorf("text should survive in document order: got %s", got)
	}
}

func TestSanitize_RequiredAttribute(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("p,img[!src|alt]"))
	got, err := s.Sanitize(`<p><img src="x.png" alt="ok"><img alt="no src"><img src=""></p>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<p><img src="x.png" alt="ok"/></p>`; got != want {
		t.Errorf("images without a non-empty src should be removed: got %s", got)
	}
}

func TestSanitize_DefaultValue(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[href|rel=nofollow]"), htmlwhitelist.WithoutLinkRel())
	for input, want := range map[string]string{
		`<a href="x">y</a>`:          `<a href="x" rel="nofollow">y</a>`,
		`<a href="x" rel="">y</a>`:   `<a href="x" rel="nofollow">y</a>`,
		`<a href="x" rel="me">y</a>`: `<a href="x" rel="me">y</a>`,
	} {
		got, err := s.Sanitize(input)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Sanitize(%s) = %s, want %s", input, got, want)
		}
	}
}

func TestSanitize_ForcedValue(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[href|target:_blank]"), htmlwhitelist.WithoutLinkRel())
	for input, want := range map[string]string{
		`<a href="x">y</a>`:                 `<a href="x" target="_blank">y</a>`,
		`<a href="x" target="_self">y</a>`:  `<a href="x" target="_blank">y</a>`,
		`<a href="x" target="_blank">y</a>`: `<a href="x" target="_blank">y</a>`,
	} {
		got, err := s.Sanitize(input)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Sanitize(%s) = %s, want %s", input, got, want)
		}
	}
}

func TestSanitize_ForcedEmptyValueBlanks(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[href|target:]"), htmlwhitelist.WithoutLinkRel())
	got, err := s.Sanitize(`<a href="x" target="_blank">y</a>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<a href="x" target="">y</a>`; got != want {
		t.Errorf("a forced empty value should blank the attribute: got %s", got)
	}
}

func TestSanitize_ValidValues(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[href|target<_blank?_self]"), htmlwhitelist.WithoutLinkRel())
	got, err := s.Sanitize(`<a href="x" target="_blank">y</a>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<a href="x" target="_blank">y</a>`; got != want {
		t.Errorf("a listed value should be kept: got %s", got)
	}
	got, err = s.Sanitize(`<a href="x" target="_top">y</a>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<a href="x">y</a>`; got != want {
		t.Errorf("a value outside the list should strip the attribute: got %s", got)
	}
}

func TestSanitize_JavascriptURIStripped(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[href]"))
	for _, input := range []string{
		`<a href="javascript:alert(1)">x</a>`,
		`<a href="JaVaScRiPt:alert(1)">x</a>`,
		`<a href="  javascript:alert(1)">x</a>`,
		`<a href="jav&#9;ascript:alert(1)">x</a>`,
	} {
		got, err := s.Sanitize(input)
		if err != nil {
			t.Fatal(err)
		}
		if want := `<a>x</a>`; got != want {
			t.Errorf("Sanitize(%s) = %s, want the href removed", input, got)
		}
	}
}

func TestSanitize_SafeURIKept(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[href],img[src]"))
	for input, want := range map[string]string{
		`<a href="https://example.com/page">x</a>`: `<a href="https://example.com/page">x</a>`,
		`<a href="/relative/path">x</a>`:           `<a href="/relative/path">x</a>`,
		`<img src="data:image/png;base64,AAAA">`:   `<img src="data:image/png;base64,AAAA"/>`,
	} {
		got, err := s.Sanitize(input)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Sanitize(%s) = %s, want %s", input, got, want)
		}
	}
}

func TestSanitize_DataHTMLURIStripped(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("img[src],object[data]"))
	got, err := s.Sanitize(`<img src="data:text/html;base64,PHNjcmlwdD4=">`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<img/>`; got != want {
		t.Errorf("data:text/html src should be removed: got %s", got)
	}
	got, err = s.Sanitize(`<object data="data:text/html;,x">inner</object>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<object>inner</object>`; got != want {
		t.Errorf("data:text/html data attribute should be removed: got %s", got)
	}
}

func TestSanitize_LinkRelAppliedWithTarget(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[!href|target|rel]"))
	got, err := s.Sanitize(`<a href="x" target="_blank">y</a>`)
	if err != nil {
		t.Fatal(err)
	}
	want := `<a href="x" target="_blank" rel="noopener noreferrer">y</a>`
	if got != want {
		t.Errorf("got %s want %s", got, want)
	}

	got, err = s.Sanitize(`<a href="x" target="_blank" rel="me">y</a>`)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("an existing rel should be overwritten: got %s", got)
	}
}

func TestSanitize_LinkRelRemovedWithoutTarget(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[!href|target|rel]"))
	got, err := s.Sanitize(`<a href="x" rel="noopener noreferrer">y</a>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<a href="x">y</a>`; got != want {
		t.Errorf("a previously applied rel should be removed once target is gone: got %s", got)
	}

	got, err = s.Sanitize(`<a href="x" rel="author">y</a>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<a href="x" rel="author">y</a>`; got != want {
		t.Errorf("an unrelated rel should be left alone: got %s", got)
	}
}

func TestSanitize_LinkRelCustomValue(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[!href|target|rel]"), htmlwhitelist.WithLinkRel("nofollow"))
	got, err := s.Sanitize(`<a href="x" target="_blank">y</a>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<a href="x" target="_blank" rel="nofollow">y</a>`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestSanitize_LinkRelStripMode(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[!href|target|rel]"), htmlwhitelist.WithLinkRel(""))
	got, err := s.Sanitize(`<a href="x" target="_blank" rel="noopener">y</a>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<a href="x" target="_blank">y</a>`; got != want {
		t.Errorf("strip mode should remove rel instead of setting it: got %s", got)
	}
}

func TestSanitize_LinkRelDisabled(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("a[!href|target]"), htmlwhitelist.WithoutLinkRel())
	got, err := s.Sanitize(`<a href="x" target="_blank">y</a>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<a href="x" target="_blank">y</a>`; got != want {
		t.Errorf("disabled policy must not touch rel: got %s", got)
	}
}

func TestSanitize_ExactRuleBeatsPattern(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("table,tbody,tr,td[colspan],td*[align]"))
	got, err := s.Sanitize(`<table><tr><td colspan="2" align="left">x</td></tr></table>`)
	if err != nil {
		t.Fatal(err)
	}
	want := `<table><tbody><tr><td colspan="2">x</td></tr></tbody></table>`
	if got != want {
		t.Errorf("td should follow the exact rule, not the pattern: got %s", got)
	}
}

func TestSanitize_PatternElement(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("foo+[class]"))
	got, err := s.Sanitize(`<foo class="x">a</foo><fooo class="y">b</fooo><fo>c</fo>`)
	if err != nil {
		t.Fatal(err)
	}
	want := `<foo class="x">a</foo><fooo class="y">b</fooo>c`
	if got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestSanitize_GlobalAttributes(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("@[id|class],p,span[-class]"))
	got, err := s.Sanitize(`<p id="a" class="b" style="x">t</p><span class="b" id="c">u</span>`)
	if err != nil {
		t.Fatal(err)
	}
	want := `<p id="a" class="b">t</p><span id="c">u</span>`
	if got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestSanitize_SubstituteNameKeepsTag(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("b/strong"))
	got, err := s.Sanitize(`<b>x</b><strong>y</strong>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<b>x</b><strong>y</strong>`; got != want {
		t.Errorf("both names share the rule and neither is renamed: got %s", got)
	}
}

func TestSanitize_PadEmpty(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("#span[class]"))
	got, err := s.Sanitize(`<span class="badge"></span>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := "<span class=\"badge\">\u00a0</span>"; got != want {
		t.Errorf("empty element should be padded with a non-breaking space: got %q", got)
	}
	got, err = s.Sanitize(`<span class="badge">x</span>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<span class="badge">x</span>`; got != want {
		t.Errorf("non-empty element should not be padded: got %q", got)
	}
}

func TestSanitize_PadEmptySkipsVoidElements(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("#p,#br"))
	got, err := s.Sanitize(`<p></p><br>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := "<p>\u00a0</p><br/>"; got != want {
		t.Errorf("void elements can never hold padding: got %q", got)
	}
}

func TestSanitize_RemoveEmpty(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("p,-span"))
	got, err := s.Sanitize(`<p>one <span></span>two <span>three</span></p>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<p>one two <span>three</span></p>`; got != want {
		t.Errorf("empty spans should be removed: got %s", got)
	}
}

func TestSanitize_CommentsUntouched(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("p"))
	got, err := s.Sanitize(`<p>a</p><!-- note -->`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<p>a</p><!-- note -->`; got != want {
		t.Errorf("comments are not elements and pass through: got %s", got)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := htmlwhitelist.New(nil)
	input := `<div id="main"><p></p><font size="3">legacy</font><script>x()</script>` +
		`<a href="https://e.com/" target="_blank">link</a><img src="pic.png" alt="a pic"></div>`
	once, err := s.Sanitize(input)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := s.Sanitize(once)
	if err != nil {
		t.Fatal(err)
	}
	if once != twice {
		t.Errorf("second pass changed the output:\nonce:  %s\ntwice: %s", once, twice)
	}
}

func TestClean_MutatesInPlace(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<p class="x" onclick="y">hi</p>`))
	if err != nil {
		t.Fatal(err)
	}
	s := htmlwhitelist.New(htmlwhitelist.Compile("p[class]"))
	s.Clean(doc)

	body := doc.FirstChild.LastChild
	p := body.FirstChild
	if p == nil || p.Data != "p" {
		t.Fatalf("expected the p element to survive, got %+v", p)
	}
	if len(p.Attr) != 1 || p.Attr[0].Key != "class" || p.Attr[0].Val != "x" {
		t.Errorf("attributes not filtered in place: %+v", p.Attr)
	}
}

func TestClean_NilDocument(t *testing.T) {
	s := htmlwhitelist.New(nil)
	s.Clean(nil)
}

func TestNew_NilWhitelistUsesDefaultRules(t *testing.T) {
	s := htmlwhitelist.New(nil)
	got, err := s.Sanitize(`<p>ok</p><script>no</script>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<p>ok</p>`; got != want {
		t.Errorf("nil whitelist should fall back to DefaultRules: got %s", got)
	}
}

func TestSanitizeReader(t *testing.T) {
	s := htmlwhitelist.New(htmlwhitelist.Compile("b"))
	r := strings.NewReader(`<b>hello</b><script>bad</script>`)
	got, err := s.SanitizeReader(r)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<b>hello</b>`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestStripTags(t *testing.T) {
	got, err := htmlwhitelist.StripTags(`<p>Hello <b>world</b> &amp; friends</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if want := `Hello world & friends`; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestSetGetRemoveAttr(t *testing.T) {
	n := &html.Node{Type: html.ElementNode, Data: "a"}
	htmlwhitelist.SetAttr(n, "href", "https://example.com")
	if v := htmlwhitelist.GetAttr(n, "href"); v != "https://example.com" {
		t.Errorf("GetAttr got %q want https://example.com", v)
	}
	htmlwhitelist.SetAttr(n, "href", "https://other.com")
	if v := htmlwhitelist.GetAttr(n, "href"); v != "https://other.com" {
		t.Errorf("SetAttr update got %q", v)
	}
	htmlwhitelist.RemoveAttr(n, "href")
	if v := htmlwhitelist.GetAttr(n, "href"); v != "" {
		t.Errorf("RemoveAttr should leave empty, got %q", v)
	}
}

func BenchmarkSanitize(b *testing.B) {
	input := strings.Repeat(`<p>Hello <b>world</b> <script>bad()</script> <a href="https://x.com" target="_blank">link</a></p>`, 100)
	s := htmlwhitelist.New(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Sanitize(input)
	}
}

func BenchmarkCompile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = htmlwhitelist.Compile(htmlwhitelist.DefaultRules)
	}
}
