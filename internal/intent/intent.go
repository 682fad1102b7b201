// Package intent classifies a single user utterance into boolean intents via
// keyword heuristics. Detection is deterministic, case-insensitive, and
// deliberately conservative: an ambiguous message yields no intent, because a
// false positive injects unwanted content into an otherwise clean answer.
//
// The keyword lists are data, not logic. They are tuned primarily for Turkish
// with partial English coverage; extending a language means editing a list,
// not the detectors.
package intent

import (
	"regexp"
	"strings"
)

// GalleryIntent holds the per-gallery results of DetectGallery.
type GalleryIntent struct {
	Results        bool
	ExamplePatient bool
}

// Any reports whether either gallery was requested.
func (g GalleryIntent) Any() bool {
	return g.Results || g.ExamplePatient
}

var resultsGalleryKeywords = []string{
	"önce-sonra sonuç",
	"sonuç örnekleri",
	"sonuç galerisi",
	"sonuç galerisini aç",
	"results",
	"örnek sonuç",
	"13 ay",
	"1 yıl",
	"14 ay",
	"sonuç görselleri",
}

var examplePatientKeywords = []string{
	"1950 greft",
	"örnek hasta",
	"örnek süreç",
	"örnek süreç görselleri",
	"ameliyat öncesi operasyon",
	"öncesi operasyon 20 ay 27 ay",
	"example patient",
	"önce/sonra görselleri",
}

// DetectGallery reports which image galleries the user asked for. The flags
// are independent; a message may request both.
func DetectGallery(text string) GalleryIntent {
	lower := strings.ToLower(text)
	return GalleryIntent{
		Results:        containsAny(lower, resultsGalleryKeywords),
		ExamplePatient: containsAny(lower, examplePatientKeywords),
	}
}

// Explicit-contact keywords. Any of these marks the message as a genuine
// contact request even when it is phrased as a question.
var contactOverrideKeywords = []string{
	"phone number",
	"telefon numara",
	"numaranız",
	"contact information",
	"contact details",
	"iletişim bilgi",
	"appointment",
	"randevu",
	"whatsapp",
	"call you",
	"sizi arayabilir",
	"size nasıl ulaşabilirim",
	"how can i reach you",
	"book a consultation",
}

// Broader contact vocabulary. These only count when no exclusion pattern
// matches the message.
var contactKeywords = []string{
	"contact",
	"iletişim",
	"reach you",
	"get in touch",
	"ulaşmak istiyorum",
	"görüşmek istiyorum",
}

// Assistant-style phrases that patients tend to echo back verbatim. They must
// never trigger the detector on their own.
var assistantEchoPhrases = []string{
	"contact our team",
	"will contact you",
	"ekibimizle iletişime",
	"iletişime geçecek",
	"iletişime geçebilirsiniz",
}

// Generic informational-question shapes. Exclusions take precedence over the
// broad contact vocabulary, but not over the explicit override keywords.
var contactExclusionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*(what|how|why|when|where|who|which|is|are|does|do|can)\b.*\?\s*$`),
	regexp.MustCompile(`\bwhat\s+is\b`),
	regexp.MustCompile(`\bhow\s+(much|long|many)\b`),
	regexp.MustCompile(`\bnedir\b`),
	regexp.MustCompile(`\bne\s+demek\b`),
	regexp.MustCompile(`\bnasıl\s+(yapılır|çalışır|uygulanır)\b`),
	regexp.MustCompile(`\bne\s+kadar\s+sürer\b`),
}

// DetectContact reports whether the user explicitly asked for the clinic's
// contact details or an appointment.
func DetectContact(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}

	// Echoed assistant phrasing never counts unless an explicit request
	// keyword also appears.
	override := containsAny(lower, contactOverrideKeywords)
	if containsAny(lower, assistantEchoPhrases) && !override {
		return false
	}
	if override {
		return true
	}

	for _, re := range contactExclusionPatterns {
		if re.MatchString(lower) {
			return false
		}
	}
	return containsAny(lower, contactKeywords)
}

var opinionKeywords = []string{
	"review",
	"reviews",
	"opinion",
	"opinions",
	"yorum",
	"yorumlar",
	"görüşler",
	"değerlendirme",
	"deneyimleri",
	"experiences",
	"memnun mu",
	"compare",
	"comparison",
	"karşılaştır",
	"better than",
	"daha mı iyi",
	"en iyi klinik",
	"best clinic",
}

// DetectOpinionOrReview reports whether the user asked for opinions, reviews,
// or comparisons. The flow layer uses this to pin the model to context-backed
// facts only.
func DetectOpinionOrReview(text string) bool {
	return containsAny(strings.ToLower(text), opinionKeywords)
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
