package service

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Acme IDE Pro 2025":  "acme-ide-pro-2025",
		"  Spaces  Galore  ": "spaces-galore",
		"C++ Toolkit!":       "c-toolkit",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
