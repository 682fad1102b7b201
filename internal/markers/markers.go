// Package markers implements the sentinel-marker protocol embedded in model
// output. The protocol is a tiny grammar of five token types with fixed
// delimiters; this package is the single place that knows their syntax.
//
// All extraction functions are total: malformed or absent markers yield the
// zero value, never an error. The model produces markers on a best-effort
// basis only, so the caller combines these signals with the deterministic
// intent detector.
package markers

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/consultflow/consultflow/internal/intent"
	"github.com/consultflow/consultflow/internal/models"
)

// Gallery and profile markers use plain substring containment.
const (
	ResultsGalleryMarker        = "[RESULTS_GALLERY]"
	ExamplePatientGalleryMarker = "[EXAMPLE_PATIENT_GALLERY]"
	BasicProfileCollectedMarker = "[BASIC_PROFILE_COLLECTED]"
)

var (
	// Non-greedy: only the first block is honored, multiple blocks are not
	// supported by the protocol.
	formDataRegex = regexp.MustCompile(`(?s)\[FORM_DATA\](.*?)\[/FORM_DATA\]`)
	fieldRegex    = regexp.MustCompile(`\[FIELD:(\w+)\]`)

	trailingCommaObject = regexp.MustCompile(`,\s*}`)
	trailingCommaArray  = regexp.MustCompile(`,\s*]`)
)

// ExtractFormData locates the first [FORM_DATA] block and parses it into a
// ConsultationFormData. A strict JSON parse is attempted first; on failure it
// retries after removing trailing commas before '}' and ']', a common model
// formatting mistake. Returns nil unless the parsed object carries both the
// personal and questionnaire sub-objects.
func ExtractFormData(text string) *models.ConsultationFormData {
	m := formDataRegex.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	raw := strings.TrimSpace(m[1])
	candidates := []string{
		raw,
		trailingCommaArray.ReplaceAllString(trailingCommaObject.ReplaceAllString(raw, "}"), "]"),
	}
	for _, candidate := range candidates {
		var data models.ConsultationFormData
		if err := json.Unmarshal([]byte(candidate), &data); err != nil {
			continue
		}
		if data.IsComplete() {
			return &data
		}
	}
	return nil
}

// ExtractSuggestedField returns the field name of the first [FIELD:name]
// marker, or the empty string when none is present.
func ExtractSuggestedField(text string) string {
	m := fieldRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// HasFormDataBlock reports whether a complete [FORM_DATA]...[/FORM_DATA]
// span is present, regardless of whether its JSON payload parses.
func HasFormDataBlock(text string) bool {
	return formDataRegex.MatchString(text)
}

// HasResultsGallery reports whether the results gallery marker is present.
func HasResultsGallery(text string) bool {
	return strings.Contains(text, ResultsGalleryMarker)
}

// HasExamplePatientGallery reports whether the example-patient gallery marker
// is present.
func HasExamplePatientGallery(text string) bool {
	return strings.Contains(text, ExamplePatientGalleryMarker)
}

// HasBasicProfileCollected reports whether the onboarding completion marker
// is present.
func HasBasicProfileCollected(text string) bool {
	return strings.Contains(text, BasicProfileCollectedMarker)
}

// StripSpecialBlocks removes every marker span from the text and trims the
// result, producing the user-visible message. Idempotent.
func StripSpecialBlocks(text string) string {
	out := formDataRegex.ReplaceAllString(text, "")
	out = fieldRegex.ReplaceAllString(out, "")
	out = strings.ReplaceAll(out, ResultsGalleryMarker, "")
	out = strings.ReplaceAll(out, ExamplePatientGalleryMarker, "")
	out = strings.ReplaceAll(out, BasicProfileCollectedMarker, "")
	return strings.TrimSpace(out)
}

// Heading/list lines the model sometimes emits alongside a gallery marker
// despite being instructed not to. The UI renders the gallery itself, so
// these duplicate the content as dead text.
var (
	resultsRedundantLines = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*Sonuç Görselleri\s*$`),
		regexp.MustCompile(`(?m)^\s*13 Ay Sonrası\s*:?\s*$`),
		regexp.MustCompile(`(?m)^\s*1 Yıl Sonrası\s*:?\s*$`),
		regexp.MustCompile(`(?m)^\s*14 Ay Sonrası\s*:?\s*$`),
	}
	exampleRedundantLines = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*Örnek Hasta Süreci\s*$`),
		regexp.MustCompile(`(?m)^\s*Ameliyat Öncesi\s*:?\s*$`),
		regexp.MustCompile(`(?m)^\s*Operasyon\s*:?\s*$`),
		regexp.MustCompile(`(?m)^\s*20 Ay Sonrası\s*:?\s*$`),
		regexp.MustCompile(`(?m)^\s*27 Ay Sonrası\s*:?\s*$`),
	}

	multiBlankLines = regexp.MustCompile(`\n{3,}`)
	spacedBlankLine = regexp.MustCompile(`\n[ \t]*\n`)
)

// StripGalleryRedundantText removes known redundant heading lines for each
// active gallery intent and collapses the leftover blank runs to at most one
// blank line.
func StripGalleryRedundantText(text string, gi intent.GalleryIntent) string {
	out := text
	if gi.Results {
		for _, re := range resultsRedundantLines {
			out = re.ReplaceAllString(out, "")
		}
	}
	if gi.ExamplePatient {
		for _, re := range exampleRedundantLines {
			out = re.ReplaceAllString(out, "")
		}
	}
	out = multiBlankLines.ReplaceAllString(out, "\n\n")
	out = spacedBlankLine.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
