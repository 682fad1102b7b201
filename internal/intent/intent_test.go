package intent

import "testing"

func TestDetectGallery_Results(t *testing.T) {
	got := DetectGallery("Sonuç galerisini aç lütfen")
	if !got.Results {
		t.Error("expected results gallery intent")
	}
	if got.ExamplePatient {
		t.Error("did not expect example patient intent")
	}
}

func TestDetectGallery_ExamplePatient(t *testing.T) {
	got := DetectGallery("1950 greft örnek hasta sürecini görebilir miyim?")
	if !got.ExamplePatient {
		t.Error("expected example patient intent")
	}
}

func TestDetectGallery_Both(t *testing.T) {
	got := DetectGallery("örnek hasta ve sonuç örnekleri")
	if !got.Results || !got.ExamplePatient {
		t.Errorf("expected both galleries, got %+v", got)
	}
	if !got.Any() {
		t.Error("Any should be true")
	}
}

func TestDetectGallery_None(t *testing.T) {
	got := DetectGallery("How long is the recovery period?")
	if got.Any() {
		t.Errorf("expected no gallery intent, got %+v", got)
	}
}

func TestDetectGallery_CaseInsensitive(t *testing.T) {
	if !DetectGallery("RESULTS please").Results {
		t.Error("detection must be case-insensitive")
	}
}

func TestDetectContact_InformationalQuestion(t *testing.T) {
	if DetectContact("What is FUE?") {
		t.Error("informational question must not trigger contact intent")
	}
}

func TestDetectContact_ExplicitRequest(t *testing.T) {
	if !DetectContact("Can I get your phone number?") {
		t.Error("explicit phone number request must trigger contact intent")
	}
}

func TestDetectContact_AssistantEcho(t *testing.T) {
	if DetectContact("you can contact our team") {
		t.Error("echoed assistant phrasing must not trigger contact intent")
	}
}

func TestDetectContact_Appointment(t *testing.T) {
	if !DetectContact("Randevu almak istiyorum") {
		t.Error("appointment request must trigger contact intent")
	}
}

func TestDetectContact_OverrideBeatsExclusion(t *testing.T) {
	// Question-shaped, but carries an explicit contact keyword.
	if !DetectContact("How can I reach you for an appointment?") {
		t.Error("override keyword must win over the question exclusion")
	}
}

func TestDetectContact_Empty(t *testing.T) {
	if DetectContact("") {
		t.Error("empty text must not trigger contact intent")
	}
	if DetectContact("   ") {
		t.Error("blank text must not trigger contact intent")
	}
}

func TestDetectContact_GenericHowMuch(t *testing.T) {
	if DetectContact("How much does it cost to get in touch with reality?") {
		t.Error("exclusion pattern should suppress broad contact vocabulary")
	}
}

func TestDetectOpinionOrReview(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"What do the reviews say about the clinic?", true},
		{"Hastaların deneyimleri nasıl?", true},
		{"Is this clinic better than others?", true},
		{"When should I wash my hair?", false},
		{"", false},
	}
	for _, c := range cases {
		if got := DetectOpinionOrReview(c.text); got != c.want {
			t.Errorf("DetectOpinionOrReview(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}
