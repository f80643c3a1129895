package util

import "testing"

func TestSanitizePostgresText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain utf8",
			input: "Los Primos",
			want:  "Los Primos",
		},
		{
			name:  "contains null byte",
			input: "Fer\x00nandez",
			want:  "Fernandez",
		},
		{
			name:  "contains invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
		{
			name:  "accents kept",
			input: "Atlético Paraná",
			want:  "Atlético Paraná",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizePostgresText(tt.input)
			if got != tt.want {
				t.Fatalf("SanitizePostgresText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Martinez  ", "Martinez"},
		{"El jugador\n clave\t es   Diaz", "El jugador clave es Diaz"},
	}
	for _, tt := range tests {
		if got := CollapseWhitespace(tt.in); got != tt.want {
			t.Fatalf("CollapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
