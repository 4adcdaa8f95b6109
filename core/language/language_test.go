package language

import "testing"

func TestDirectionForProjectsSliderSide(t *testing.T) {
	left := DirectionFor(SideLeft, "en", "es")
	if left.From != "en" || left.To != "es" {
		t.Fatalf("expected left side to translate en->es, got %s", left)
	}

	right := DirectionFor(SideRight, "en", "es")
	if right.From != "es" || right.To != "en" {
		t.Fatalf("expected right side to translate es->en, got %s", right)
	}
}

func TestCatalogLookupFallsBackToCode(t *testing.T) {
	catalog := DefaultCatalog()

	if got := catalog.SpeechCode("es"); got != "es-ES" {
		t.Fatalf("expected es speech code es-ES, got %q", got)
	}
	if got := catalog.SpeechCode("xx"); got != "xx" {
		t.Fatalf("expected unknown code to be used as speech code, got %q", got)
	}
	if catalog.Supports("xx") {
		t.Fatalf("expected unknown code to be unsupported")
	}
}

func TestParseCodesKeepsKnownMetadata(t *testing.T) {
	catalog := DefaultCatalog().ParseCodes(" EN, ht ,,qq")

	languages := catalog.Languages()
	if len(languages) != 3 {
		t.Fatalf("expected 3 languages, got %d", len(languages))
	}
	if languages[1].Name != "Haitian Creole" {
		t.Fatalf("expected ht metadata to be kept, got %+v", languages[1])
	}
	if languages[2].SpeechCode != "qq" {
		t.Fatalf("expected unknown code fallback, got %+v", languages[2])
	}
}

func TestSideOpposite(t *testing.T) {
	if SideLeft.Opposite() != SideRight || SideRight.Opposite() != SideLeft {
		t.Fatalf("expected sides to be opposites of each other")
	}
	if _, err := ParseSide("middle"); err == nil {
		t.Fatalf("expected unknown side to fail parsing")
	}
}
