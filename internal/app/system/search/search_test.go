package search

import (
	"regexp"
	"testing"
)

func TestEscape_Literal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hackathon", "hackathon"},
		{"c++ workshop", `c\+\+ workshop`},
		{"what?", `what\?`},
		{`a.b(c)|d`, `a\.b\(c\)\|d`},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Escape(tc.in); got != tc.want {
			t.Errorf("Escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscape_CompilesAndMatchesItself(t *testing.T) {
	inputs := []string{"c++", "[lost&found]", "50% off (really)", `back\slash`}
	for _, in := range inputs {
		re, err := regexp.Compile(Escape(in))
		if err != nil {
			t.Fatalf("Escape(%q) produced an invalid pattern: %v", in, err)
		}
		if !re.MatchString(in) {
			t.Errorf("escaped pattern for %q does not match the original string", in)
		}
	}
}

func TestAnyField(t *testing.T) {
	clauses := AnyField("robot", "title", "description", "tags")
	if len(clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d", len(clauses))
	}
}
