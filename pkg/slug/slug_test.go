package slug

import (
	"strings"
	"testing"
)

func TestWordDeterministic(t *testing.T) {
	a := Word("猫")
	b := Word("猫")
	if a != b {
		t.Fatalf("same word produced different slugs: %q vs %q", a, b)
	}
}

func TestWordDistinguishesHomophones(t *testing.T) {
	// Both read ハシ; the hash suffix must keep them apart.
	if Word("橋") == Word("箸") {
		t.Fatalf("homophones collided: %q", Word("橋"))
	}
}

func TestWordContainsReading(t *testing.T) {
	s := Word("猫")
	if !strings.HasPrefix(s, "neko-") {
		t.Fatalf("expected romanized reading prefix, got %q", s)
	}
}

func TestWordTrimsInput(t *testing.T) {
	if Word(" 猫 ") != Word("猫") {
		t.Fatalf("whitespace changed the slug")
	}
}

func TestMediaShape(t *testing.T) {
	name := Media("窓")
	if !strings.HasPrefix(name, "ankigen_") || !strings.HasSuffix(name, ".png") {
		t.Fatalf("unexpected media filename %q", name)
	}
}

func TestKataToRomaji(t *testing.T) {
	cases := map[string]string{
		"ネコ":    "neko",
		"キョウ":   "kyou",
		"ガッコウ":  "gakkou",
		"チャ":    "cha",
		"コーヒー":  "kohi",
		"ジュギョウ": "jugyou",
	}
	for kana, want := range cases {
		if got := kataToRomaji(kana); got != want {
			t.Fatalf("kataToRomaji(%q) = %q, want %q", kana, got, want)
		}
	}
}
