package concept

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Habit Garden", "habit-garden"},
		{"  Habit Garden 2.0! ", "habit-garden-2-0"},
		{"---", ""},
		{"Café Tracker", "café-tracker"},
		{"already-slugged", "already-slugged"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
