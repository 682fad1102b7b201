package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNormalizeLang(t *testing.T) {
	tests := []struct {
		in       Lang
		expected Lang
	}{
		{LangTurkish, LangTurkish},
		{LangEnglish, LangEnglish},
		{LangArabic, LangArabic},
		{LangGerman, LangGerman},
		{LangRussian, LangRussian},
		{Lang(""), DefaultLang},
		{Lang("fr"), DefaultLang},
		{Lang("EN"), DefaultLang},
	}
	for _, tt := range tests {
		if got := NormalizeLang(tt.in); got != tt.expected {
			t.Errorf("NormalizeLang(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestConsultationFormDataIsComplete(t *testing.T) {
	var nilForm *ConsultationFormData
	if nilForm.IsComplete() {
		t.Error("nil form should not be complete")
	}
	if (&ConsultationFormData{Personal: &ConsultationPersonal{}}).IsComplete() {
		t.Error("form without questionnaire should not be complete")
	}
	if (&ConsultationFormData{Questionnaire: &ConsultationQuestionnaire{}}).IsComplete() {
		t.Error("form without personal should not be complete")
	}
	full := &ConsultationFormData{
		Personal:      &ConsultationPersonal{Name: "Jon Doe"},
		Questionnaire: &ConsultationQuestionnaire{Q1: "top"},
	}
	if !full.IsComplete() {
		t.Error("form with both sub-objects should be complete")
	}
}

func TestConsultationFormDataToJSON(t *testing.T) {
	form := &ConsultationFormData{
		Language:      LangTurkish,
		Personal:      &ConsultationPersonal{Name: "Jon Doe", Phone: "+15551234567"},
		Questionnaire: &ConsultationQuestionnaire{Q1: "top"},
	}
	out, err := form.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	var round ConsultationFormData
	if err := json.Unmarshal([]byte(out), &round); err != nil {
		t.Fatalf("round-trip failed: %v", err)
	}
	if round.Personal.Name != "Jon Doe" || round.Questionnaire.Q1 != "top" || round.Language != LangTurkish {
		t.Errorf("round-trip = %+v", round)
	}
}

func TestChatRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		req      ChatRequest
		expected error
	}{
		{"empty messages", ChatRequest{}, ErrNoMessages},
		{"bad role", ChatRequest{Messages: []ConversationTurn{{Role: "bot", Content: "x"}}}, ErrInvalidRole},
		{"empty content", ChatRequest{Messages: []ConversationTurn{{Role: RoleUser, Content: ""}}}, ErrEmptyContent},
		{"oversized content", ChatRequest{Messages: []ConversationTurn{{Role: RoleUser, Content: strings.Repeat("a", MaxMessageLength+1)}}}, ErrMessageTooLong},
		{"assistant only", ChatRequest{Messages: []ConversationTurn{{Role: RoleAssistant, Content: "hi"}}}, ErrNoUserMessage},
		{"valid", ChatRequest{Messages: []ConversationTurn{
			{Role: RoleSystem, Content: "s"},
			{Role: RoleUser, Content: "hello"},
			{Role: RoleAssistant, Content: "hi"},
		}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); !errors.Is(err, tt.expected) {
				t.Errorf("Validate() = %v, want %v", err, tt.expected)
			}
		})
	}
}

func TestChatRequestLastUserMessage(t *testing.T) {
	req := ChatRequest{Messages: []ConversationTurn{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "reply"},
		{Role: RoleUser, Content: "second"},
		{Role: RoleAssistant, Content: "reply again"},
	}}
	if got := req.LastUserMessage(); got != "second" {
		t.Errorf("LastUserMessage = %q, want second", got)
	}
	empty := ChatRequest{Messages: []ConversationTurn{{Role: RoleAssistant, Content: "x"}}}
	if got := empty.LastUserMessage(); got != "" {
		t.Errorf("LastUserMessage with no user turn = %q, want empty", got)
	}
}

func TestChatResponseOmitsUnsetFields(t *testing.T) {
	data, err := json.Marshal(ChatResponse{Message: "hi"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, field := range []string{"formData", "suggestedNextField", "showExamplePatientGallery", "showResultsGallery", "basicProfileCollected"} {
		if strings.Contains(string(data), field) {
			t.Errorf("unset field %q should be omitted: %s", field, data)
		}
	}
}

func TestLocalizedMessagesCoverAllLanguages(t *testing.T) {
	langs := []Lang{LangTurkish, LangEnglish, LangArabic, LangGerman, LangRussian}
	for _, lang := range langs {
		if GenericFailureMessage(lang) == "" {
			t.Errorf("GenericFailureMessage(%q) is empty", lang)
		}
		if TimeoutRetryMessage(lang) == "" {
			t.Errorf("TimeoutRetryMessage(%q) is empty", lang)
		}
		if ConfigErrorMessage(lang) == "" {
			t.Errorf("ConfigErrorMessage(%q) is empty", lang)
		}
	}
	// Unknown language falls back to the default, not empty.
	if GenericFailureMessage(Lang("xx")) != GenericFailureMessage(DefaultLang) {
		t.Error("unknown language should use the default language message")
	}
}

func TestAPIResponseHelpers(t *testing.T) {
	ok := Success(map[string]int{"n": 1})
	if ok.Status != string(APIStatusOK) || ok.Result == nil {
		t.Errorf("Success = %+v", ok)
	}
	withMsg := SuccessWithMessage("done", nil)
	if withMsg.Message != "done" || withMsg.Status != string(APIStatusOK) {
		t.Errorf("SuccessWithMessage = %+v", withMsg)
	}
	fail := Error("boom")
	if fail.Status != string(APIStatusError) || fail.Message != "boom" {
		t.Errorf("Error = %+v", fail)
	}
}
