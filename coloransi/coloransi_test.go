package coloransi

import "testing"

func TestForeground(t *testing.T) {
	if got := Foreground(Red, "a", 1); got != "\033[31ma 1\033[0m" {
		t.Fatalf("unexpected escape sequence %q", got)
	}
	if got := Foreground(ColorOrange, "x"); got != "\033[38;2;255;140;0mx\033[0m" {
		t.Fatalf("unexpected rgb escape sequence %q", got)
	}
}

func TestDisabled(t *testing.T) {
	Enabled = false
	defer func() { Enabled = true }()

	if got := Color(Red, Black, "plain"); got != "plain" {
		t.Fatalf("expected plain text - got %q", got)
	}
	if got := Perms("r-xp"); got != "r-xp" {
		t.Fatalf("expected plain perms - got %q", got)
	}
}

func TestColorFromIsStable(t *testing.T) {
	if ColorFrom(42) != ColorFrom(42) {
		t.Fatal("same item produced different colors")
	}
}
