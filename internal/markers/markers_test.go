package markers

import (
	"strings"
	"testing"

	"github.com/consultflow/consultflow/internal/intent"
)

func TestExtractFormData_Valid(t *testing.T) {
	text := `Thanks! [FORM_DATA]{"language":"en","personal":{"name":"Jon Doe","phone":"5551234567"},"questionnaire":{"q1":"top area"}}[/FORM_DATA] Please upload photos.`
	got := ExtractFormData(text)
	if got == nil {
		t.Fatal("expected form data, got nil")
	}
	if got.Language != "en" {
		t.Errorf("language = %q, want en", got.Language)
	}
	if got.Personal == nil || got.Personal.Name != "Jon Doe" {
		t.Errorf("personal.name not preserved: %+v", got.Personal)
	}
	if got.Questionnaire == nil || got.Questionnaire.Q1 != "top area" {
		t.Errorf("questionnaire.q1 not preserved: %+v", got.Questionnaire)
	}
}

func TestExtractFormData_TrailingComma(t *testing.T) {
	text := `[FORM_DATA]{"personal":{"name":"Jon Doe",},"questionnaire":{"q1":"top",},}[/FORM_DATA]`
	got := ExtractFormData(text)
	if got == nil {
		t.Fatal("trailing-comma JSON should parse via the cleanup fallback")
	}
	if got.Personal.Name != "Jon Doe" || got.Questionnaire.Q1 != "top" {
		t.Errorf("unexpected parse result: %+v", got)
	}
}

func TestExtractFormData_MissingRequiredKey(t *testing.T) {
	if got := ExtractFormData(`[FORM_DATA]{"personal":{"name":"Jon"}}[/FORM_DATA]`); got != nil {
		t.Errorf("missing questionnaire must yield nil, got %+v", got)
	}
	if got := ExtractFormData(`[FORM_DATA]{"questionnaire":{"q1":"x"}}[/FORM_DATA]`); got != nil {
		t.Errorf("missing personal must yield nil, got %+v", got)
	}
}

func TestExtractFormData_NoMarker(t *testing.T) {
	if got := ExtractFormData("just a normal answer"); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestExtractFormData_MalformedJSON(t *testing.T) {
	if got := ExtractFormData(`[FORM_DATA]{not json at all[/FORM_DATA]`); got != nil {
		t.Errorf("malformed JSON must degrade to nil, got %+v", got)
	}
}

func TestExtractFormData_FirstBlockOnly(t *testing.T) {
	text := `[FORM_DATA]{"personal":{"name":"First"},"questionnaire":{"q1":"a"}}[/FORM_DATA]` +
		`[FORM_DATA]{"personal":{"name":"Second"},"questionnaire":{"q1":"b"}}[/FORM_DATA]`
	got := ExtractFormData(text)
	if got == nil || got.Personal.Name != "First" {
		t.Errorf("only the first block is honored, got %+v", got)
	}
}

func TestExtractSuggestedField(t *testing.T) {
	if got := ExtractSuggestedField("What is your birth date? [FIELD:dateOfBirth]"); got != "dateOfBirth" {
		t.Errorf("got %q, want dateOfBirth", got)
	}
	if got := ExtractSuggestedField("no field marker"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestGalleryMarkers(t *testing.T) {
	if !HasResultsGallery("intro [RESULTS_GALLERY]") {
		t.Error("results gallery marker not detected")
	}
	if !HasExamplePatientGallery("[EXAMPLE_PATIENT_GALLERY]") {
		t.Error("example patient gallery marker not detected")
	}
	if !HasBasicProfileCollected("Thanks! [BASIC_PROFILE_COLLECTED]") {
		t.Error("basic profile collected marker not detected")
	}
	if HasResultsGallery("plain text") || HasExamplePatientGallery("plain text") || HasBasicProfileCollected("plain text") {
		t.Error("marker detected in plain text")
	}
}

func TestStripSpecialBlocks_AllMarkers(t *testing.T) {
	text := `Hello [FORM_DATA]{"personal":{},"questionnaire":{}}[/FORM_DATA] there [FIELD:country] ` +
		`[RESULTS_GALLERY] [EXAMPLE_PATIENT_GALLERY] [BASIC_PROFILE_COLLECTED] end`
	got := StripSpecialBlocks(text)
	for _, marker := range []string{"[FORM_DATA]", "[/FORM_DATA]", "[FIELD:", "[RESULTS_GALLERY]", "[EXAMPLE_PATIENT_GALLERY]", "[BASIC_PROFILE_COLLECTED]"} {
		if strings.Contains(got, marker) {
			t.Errorf("marker %q survived stripping: %q", marker, got)
		}
	}
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "end") {
		t.Errorf("surrounding text lost: %q", got)
	}
}

func TestStripSpecialBlocks_Idempotent(t *testing.T) {
	text := "Please upload photos [FIELD:dateOfBirth] [RESULTS_GALLERY]"
	once := StripSpecialBlocks(text)
	twice := StripSpecialBlocks(once)
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

func TestStripSpecialBlocks_EndToEndScenario(t *testing.T) {
	text := `[FORM_DATA]{"personal":{"name":"Jon Doe"},"questionnaire":{"q1":"top"},}[/FORM_DATA] Please upload photos [FIELD:dateOfBirth]`
	if got := StripSpecialBlocks(text); got != "Please upload photos" {
		t.Errorf("clean message = %q, want %q", got, "Please upload photos")
	}
	form := ExtractFormData(text)
	if form == nil || form.Personal.Name != "Jon Doe" || form.Questionnaire.Q1 != "top" {
		t.Errorf("form data = %+v", form)
	}
	if got := ExtractSuggestedField(text); got != "dateOfBirth" {
		t.Errorf("suggested field = %q, want dateOfBirth", got)
	}
}

func TestStripGalleryRedundantText(t *testing.T) {
	text := "İşte sonuçlar:\n\nSonuç Görselleri\n13 Ay Sonrası:\n\n\n\nDevamı için yazın."
	got := StripGalleryRedundantText(text, intent.GalleryIntent{Results: true})
	if strings.Contains(got, "Sonuç Görselleri") || strings.Contains(got, "13 Ay Sonrası") {
		t.Errorf("redundant headings survived: %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank lines not collapsed: %q", got)
	}
	if !strings.Contains(got, "Devamı için yazın.") {
		t.Errorf("real content lost: %q", got)
	}
}

func TestStripGalleryRedundantText_InactiveIntent(t *testing.T) {
	text := "Operasyon:\nAmeliyat Öncesi:"
	got := StripGalleryRedundantText(text, intent.GalleryIntent{})
	if !strings.Contains(got, "Operasyon") {
		t.Errorf("headings must survive when no gallery intent is active: %q", got)
	}
}
