package validation

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Virat Kohli stats  ", "Virat Kohli stats"},
		{"\tCricket\n", "Cricket"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		def  int
		max  int
		want int
	}{
		{"empty uses default", "", 10, 100, 10},
		{"valid value", "25", 10, 100, 25},
		{"clamped to max", "500", 10, 100, 100},
		{"zero uses default", "0", 10, 100, 10},
		{"negative uses default", "-3", 10, 100, 10},
		{"garbage uses default", "abc", 10, 100, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLimit(tt.raw, tt.def, tt.max); got != tt.want {
				t.Errorf("ParseLimit(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}
