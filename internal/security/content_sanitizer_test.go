package security

import "testing"

func TestTextSanitizer_StripsTags(t *testing.T) {
	s := NewTextSanitizer()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"texto plano", "María García", "María García"},
		{"script", `<script>alert("x")</script>María`, "María"},
		{"etiqueta simple", "<b>Empresa</b> S.A.", "Empresa S.A."},
		{"espacios alrededor", "  Empresa S.A.  ", "Empresa S.A."},
		{"vacío", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Sanitize(tc.input); got != tc.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
