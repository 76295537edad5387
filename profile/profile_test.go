package profile

import (
	"errors"
	"slices"
	"testing"
)

func TestStartWithoutMode(t *testing.T) {
	s, err := Start(WithDir(t.TempDir()), WithQuiet(true))
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}

	s.Stop()
	s.Stop()
}

func TestStartUnknownMode(t *testing.T) {
	_, err := Start(WithMode("no-such-mode"), WithDir(t.TempDir()), WithQuiet(true))
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	var c config
	for _, opt := range []Option{WithMode("cpu"), WithDir("/p"), WithQuiet(true), WithMode("heap")} {
		c = opt(c)
	}

	if c != (config{mode: "heap", dir: "/p", quiet: true}) {
		t.Errorf("unexpected config %+v", c)
	}
}

func TestModesSorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("Modes() not sorted: %v", m)
	}
}
