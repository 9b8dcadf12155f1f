package ui

import (
	"os"
	"testing"
)

// Theme state is global, so these tests do not run in parallel.

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	InitTheme(true)
	if got := GetCurrentTheme().Name; got != "none" {
		t.Errorf("InitTheme(true) selected %q, want none", got)
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if got := GetCurrentTheme().Name; got != "none" {
		t.Errorf("NO_COLOR should select none, got %q", got)
	}
}

func TestInitTheme_DefaultIsDark(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	if _, set := os.LookupEnv("NO_COLOR"); set {
		t.Skip("NO_COLOR is set in the environment")
	}
	InitTheme(false)
	if got := GetCurrentTheme().Name; got != "dark" {
		t.Errorf("default theme = %q, want dark", got)
	}
}

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	for name, want := range map[string]string{
		"light":   "light",
		"none":    "none",
		"dark":    "dark",
		"unknown": "dark",
	} {
		SetTheme(name)
		if got := GetCurrentTheme().Name; got != want {
			t.Errorf("SetTheme(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestStyles_PlainWithoutColor(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())
	SetCurrentTheme(NoColorTheme)

	for _, f := range []func(string) string{Header, Accent, Muted, Success, Warning, Error} {
		if got := f("qubits"); got != "qubits" {
			t.Errorf("styled text should be plain under NoColorTheme, got %q", got)
		}
	}
}

func TestCell(t *testing.T) {
	if got := Cell("42", 6, true); got != "    42" {
		t.Errorf("Cell right = %q", got)
	}
	if got := Cell("n", 4, false); got != "n   " {
		t.Errorf("Cell left = %q", got)
	}
}
