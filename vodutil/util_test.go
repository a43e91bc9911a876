package vodutil

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5,0,10) = %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1,0,10) = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp(11,0,10) = %v", got)
	}
}

func TestSimpleHash(t *testing.T) {
	if got := SimpleHash(""); got != "0" {
		t.Errorf("SimpleHash(\"\") = %q", got)
	}
	if got := SimpleHash("a"); got != "97" {
		t.Errorf("SimpleHash(\"a\") = %q", got)
	}
	if SimpleHash("abc") != SimpleHash("abc") {
		t.Error("hash must be deterministic")
	}
	if SimpleHash("abc") == SimpleHash("abd") {
		t.Error("different inputs should hash differently")
	}
}

func TestEncodeQueryValue(t *testing.T) {
	cases := map[string]string{
		"abc-123_.~": "abc-123_.~",
		"a b":        "a%20b",
		"a+b":        "a%2Bb",
		"é":          "%C3%A9",
		"a=b&c":      "a%3Db%26c",
	}
	for input, want := range cases {
		if got := EncodeQueryValue(input); got != want {
			t.Errorf("EncodeQueryValue(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	if got := NormalizeLanguage("  FR "); got != "fr" {
		t.Errorf("NormalizeLanguage = %q", got)
	}
	if got := NormalizeLanguage(""); got != "" {
		t.Errorf("NormalizeLanguage(empty) = %q", got)
	}
}
