package tui

import (
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestDefaultKeyMap_AllBindingsDefined(t *testing.T) {
	km := DefaultKeyMap()
	for name, b := range map[string]key.Binding{"Quit": km.Quit, "Pause": km.Pause, "Up": km.Up, "Down": km.Down} {
		if !b.Enabled() || len(b.Keys()) == 0 {
			t.Errorf("%s binding should be enabled with at least one key", name)
		}
	}
	if len(km.ShortHelp()) != 4 {
		t.Errorf("ShortHelp lists %d bindings", len(km.ShortHelp()))
	}
}

func TestDefaultKeyMap_QuitKeys(t *testing.T) {
	keys := DefaultKeyMap().Quit.Keys()
	for _, want := range []string{"q", "ctrl+c"} {
		if !slices.Contains(keys, want) {
			t.Errorf("Quit binding should include %q", want)
		}
	}
}
