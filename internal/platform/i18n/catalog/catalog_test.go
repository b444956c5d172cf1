package catalog

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadEmbedded(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	if !bundle.HasLocale(BaseLocale) {
		t.Fatalf("expected base locale %s", BaseLocale)
	}

	for _, key := range []string{
		"transition.no_change",
		"transition.stabilize",
		"transition.destab",
		"transition.critical",
		"transition.collapse",
		"verdict.win",
		"verdict.loss",
	} {
		if _, ok := bundle.Message(BaseLocale, key); !ok {
			t.Fatalf("expected message for key %q", key)
		}
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}

	value, ok := bundle.Message("pt-BR", "transition.collapse")
	if !ok {
		t.Fatal("expected base-locale fallback for unknown locale")
	}
	if !strings.Contains(value, "collapses") {
		t.Fatalf("unexpected fallback message: %q", value)
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US/transitions.yaml": &fstest.MapFile{Data: []byte(
			"locale: fr-FR\nnamespace: transitions\nmessages:\n  a: b\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected error for locale/path mismatch")
	}
}

func TestLoadFromFSRejectsDuplicateKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US/a.yaml": &fstest.MapFile{Data: []byte(
			"locale: en-US\nnamespace: a\nmessages:\n  shared.key: one\n")},
		"locales/en-US/b.yaml": &fstest.MapFile{Data: []byte(
			"locale: en-US\nnamespace: b\nmessages:\n  shared.key: two\n")},
	}
	if _, err := LoadFromFS(fsys); err == nil {
		t.Fatal("expected error for duplicate key across namespaces")
	}
}

func TestVerdictFlavorPoolsComplete(t *testing.T) {
	bundle := Default()
	for _, verdict := range []string{"win", "loss"} {
		for _, suffix := range []string{".0", ".1", ".2", ".3"} {
			key := "verdict." + verdict + suffix
			if _, ok := bundle.Message(BaseLocale, key); !ok {
				t.Fatalf("expected flavor message for %q", key)
			}
		}
	}
}
