package translit

import "testing"

func TestTransliterateTajik(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ғазал", "ghazal"},
		{"Ҷомӣ", "Jomi"},
		{"Ҳофизи Шерозӣ", "Hofizi Sherozi"},
		{"Рӯдакӣ", "Rudaki"},
		{"шоҳнома", "shohnoma"},
	}

	for _, tt := range tests {
		if got := Transliterate(tt.in); got != tt.want {
			t.Errorf("Transliterate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTransliteratePersian(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"شعر", "shar"},
		{"رودکی", "rvdky"},
		{"غزل", "ghzl"},
		{"۱۲۳", "123"},
	}

	for _, tt := range tests {
		if got := Transliterate(tt.in); got != tt.want {
			t.Errorf("Transliterate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTransliteratePassthrough(t *testing.T) {
	// Latin text and unmapped characters come back untouched.
	tests := []string{
		"",
		"already latin",
		"Hello, World! 123",
		"日本語", // unmapped script passes through
	}

	for _, in := range tests {
		if got := Transliterate(in); got != in {
			t.Errorf("Transliterate(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestTransliterateDeterministic(t *testing.T) {
	in := "Абуабдуллоҳи Рӯдакӣ"
	first := Transliterate(in)
	for range 5 {
		if got := Transliterate(in); got != first {
			t.Fatalf("Transliterate not deterministic: %q vs %q", got, first)
		}
	}
}
