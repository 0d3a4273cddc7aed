package retrieval

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n\n ", ""},
		{"blank line run to newline", "para one\n\npara two\n\n\n\npara three", "para one\npara two\npara three"},
		{"blank lines with interleaved spaces", "a\n \t \npara", "a\npara"},
		{"space run collapse", "too   many\t\tspaces", "too many spaces"},
		{"padding around newline", "line one   \n   line two", "line one\nline two"},
		{"en and em dashes", "range 1–5 — inclusive", "range 1-5 - inclusive"},
		{"trim", "  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Collapsing blank lines after general whitespace collapsing would erase
// paragraph markers; this pins the documented ordering.
func TestNormalizeKeepsParagraphMarkers(t *testing.T) {
	got := Normalize("first paragraph here\n\nsecond paragraph here")
	want := "first paragraph here\nsecond paragraph here"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"a\n\nb\n\n\nc",
		"  tabs\tand\nnewlines \r\n\r\n mixed — here  ",
		"already\nnormal text",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
