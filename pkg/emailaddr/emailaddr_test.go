package emailaddr

import "testing"

func TestIsValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"a@b.co", true},
		{"a.b@c-d.com", true},
		{"user+tag@example.io", true},
		{"USER@EXAMPLE.COM", true},
		{"user%x@sub.example.org", true},
		{"a@b", false},
		{"not-an-email", false},
		{"@example.com", false},
		{"user@", false},
		{"user@example.c", false},
		{"user@example.c0", false},
		{"", false},
		{"user @example.com", false},
	}

	for _, tc := range tests {
		if got := IsValid(tc.input); got != tc.want {
			t.Fatalf("IsValid(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  User@Example.COM \n", "user@example.com"},
		{"already@lower.io", "already@lower.io"},
		{"\tTABBED@x.co", "tabbed@x.co"},
	}

	for _, tc := range tests {
		if got := Normalize(tc.input); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
