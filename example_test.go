package htmlwhitelist_test

import (
	"fmt"

	"github.com/njchilds90/htmlwhitelist"
)

func ExampleSanitizer_Sanitize() {
	s := htmlwhitelist.New(nil)
	clean, _ := s.Sanitize(`<p>Hello <b>world</b><script>alert('xss')</script>!</p>`)
	fmt.Println(clean)
	// Output: <p>Hello <b>world</b>!</p>
}

func ExampleSanitizer_Sanitize_unwrap() {
	s := htmlwhitelist.New(htmlwhitelist.Compile("b"))
	clean, _ := s.Sanitize(`<div><b>kept</b> content</div>`)
	fmt.Println(clean)
	// Output: <b>kept</b> content
}

func ExampleCompile() {
	wl := htmlwhitelist.Compile("td+[colspan]")
	fmt.Println(wl.Rule("tdd") != nil, wl.Rule("table") != nil)
	// Output: true false
}

func ExampleNew_linkRel() {
	wl := htmlwhitelist.Compile("a[!href|target<_blank?_self|rel]")
	s := htmlwhitelist.New(wl)
	clean, _ := s.Sanitize(`<a href="https://example.com" target="_blank">site</a>`)
	fmt.Println(clean)
	// Output: <a href="https://example.com" target="_blank" rel="noopener noreferrer">site</a>
}

func ExampleStripTags() {
	input := `<p>Hello <b>world</b></p>`
	text, _ := htmlwhitelist.StripTags(input)
	fmt.Println(text)
	// Output: Hello world
}
