package deident

import "testing"

func TestApplyReplacesPlaceholders(t *testing.T) {
	text := "Patient [**Known firstname 123**] [**Known lastname**] was admitted."
	got := Apply(text, "Ada", "Quinn", Options{ReplacePlaceholders: true})
	want := "Patient Ada Quinn was admitted."
	if got != want {
		t.Fatalf("Apply = %q; want %q", got, want)
	}
}

func TestApplyIsCaseInsensitive(t *testing.T) {
	text := "[**KNOWN FIRSTNAME**] follow-up scheduled."
	got := Apply(text, "Ada", "Quinn", Options{ReplacePlaceholders: true})
	if got != "Ada follow-up scheduled." {
		t.Fatalf("Apply = %q", got)
	}
}

func TestApplyPrependsToEveryLine(t *testing.T) {
	text := "line one\nline two"
	got := Apply(text, "Ada", "Quinn", Options{PrependToLines: true})
	want := "Ada Quinn line one\nAda Quinn line two"
	if got != want {
		t.Fatalf("Apply = %q; want %q", got, want)
	}
}

func TestApplyWithoutOptionsIsIdentity(t *testing.T) {
	text := "[**Known firstname**] stays put"
	if got := Apply(text, "Ada", "Quinn", Options{}); got != text {
		t.Fatalf("Apply = %q; want unchanged", got)
	}
}

func TestModified(t *testing.T) {
	if !Modified("hello [**Known lastname 42**]") {
		t.Fatal("expected match")
	}
	if Modified("no placeholders here") {
		t.Fatal("unexpected match")
	}
}
