package sluggen

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "simple name",
			in:   "Blue Mug",
			want: "blue-mug",
		},
		{
			name: "already a slug",
			in:   "blue-mug",
			want: "blue-mug",
		},
		{
			name: "punctuation collapsed",
			in:   "Hello, World!",
			want: "hello-world",
		},
		{
			name: "multiple spaces collapse",
			in:   "Blue   Mug",
			want: "blue-mug",
		},
		{
			name: "leading and trailing whitespace",
			in:   "  Blue Mug  ",
			want: "blue-mug",
		},
		{
			name: "mixed case",
			in:   "BLUE Mug",
			want: "blue-mug",
		},
		{
			name: "numbers preserved",
			in:   "Mug 2000",
			want: "mug-2000",
		},
		{
			name: "accented characters transliterated",
			in:   "Café Crème",
			want: "cafe-creme",
		},
		{
			name: "slashes become hyphens",
			in:   "one/two",
			want: "one-two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.in); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMake_Deterministic(t *testing.T) {
	inputs := []string{"Blue Mug", "Café Crème", "a b c", "X"}

	for _, in := range inputs {
		first := Make(in)
		for i := 0; i < 10; i++ {
			if got := Make(in); got != first {
				t.Fatalf("Make(%q) not deterministic: %q then %q", in, first, got)
			}
		}
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{"Blue Mug", "Hello, World!", "  Spaced  Out  ", "MiXeD CaSe 42"}

	for _, in := range inputs {
		once := Make(in)
		twice := Make(once)
		if once != twice {
			t.Errorf("Make not idempotent for %q: Make = %q, Make(Make) = %q", in, once, twice)
		}
	}
}

func TestMake_OnlyURLSafeOutput(t *testing.T) {
	inputs := []string{"Blue Mug?!", "100% cotton", "a&b", "tab\there"}

	for _, in := range inputs {
		got := Make(in)
		for _, c := range got {
			valid := (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-'
			if !valid {
				t.Errorf("Make(%q) = %q contains unsafe character %q", in, got, c)
			}
		}
		if strings.Contains(got, "--") {
			t.Errorf("Make(%q) = %q contains consecutive hyphens", in, got)
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"blue-mug", true},
		{"mug2000", true},
		{"Blue Mug", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValid(tt.slug); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}
