// Package models defines the core data structures for ConsultFlow.
//
// It includes the consultation intake record, the chat request/response
// shapes, and the stream fragment types shared across modules.
package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Lang identifies a supported conversation language.
type Lang string

const (
	// LangTurkish is the clinic's primary language.
	LangTurkish Lang = "tr"
	// LangEnglish is the default for international patients.
	LangEnglish Lang = "en"
	// LangArabic is a supported patient language.
	LangArabic Lang = "ar"
	// LangGerman is a supported patient language.
	LangGerman Lang = "de"
	// LangRussian is a supported patient language.
	LangRussian Lang = "ru"

	// DefaultLang applies when the caller omits or sends an unknown language.
	DefaultLang = LangEnglish
)

// IsValidLang checks if the given language code is supported.
func IsValidLang(l Lang) bool {
	switch l {
	case LangTurkish, LangEnglish, LangArabic, LangGerman, LangRussian:
		return true
	default:
		return false
	}
}

// NormalizeLang maps an arbitrary language code onto the supported set.
func NormalizeLang(l Lang) Lang {
	if IsValidLang(l) {
		return l
	}
	return DefaultLang
}

// Conversation roles as supplied by the client.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationTurn is a single message in the client-supplied history.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConsultationPersonal holds the seven personal intake fields. All values are
// free text; content validation is delegated to the assistant.
type ConsultationPersonal struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Profession  string `json:"profession"`
}

// ConsultationQuestionnaire holds the thirteen fixed clinical questions. The
// topic of each key is fixed; the question text is localized per language.
type ConsultationQuestionnaire struct {
	Q1  string `json:"q1"`
	Q2  string `json:"q2"`
	Q3  string `json:"q3"`
	Q4  string `json:"q4"`
	Q5  string `json:"q5"`
	Q6  string `json:"q6"`
	Q7  string `json:"q7"`
	Q8  string `json:"q8"`
	Q9  string `json:"q9"`
	Q10 string `json:"q10"`
	Q11 string `json:"q11"`
	Q12 string `json:"q12"`
	Q13 string `json:"q13"`
}

// ConsultationFormData is the structured intake record the assistant emits
// inside a [FORM_DATA] block once the consultation flow is complete.
type ConsultationFormData struct {
	Language      Lang                       `json:"language,omitempty"`
	Personal      *ConsultationPersonal      `json:"personal,omitempty"`
	Questionnaire *ConsultationQuestionnaire `json:"questionnaire,omitempty"`
}

// IsComplete reports whether both required sub-objects are present. Field
// content is not checked here.
func (f *ConsultationFormData) IsComplete() bool {
	return f != nil && f.Personal != nil && f.Questionnaire != nil
}

// ToJSON serializes the form data to a JSON string.
func (f *ConsultationFormData) ToJSON() (string, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Error variables for request validation and testability.
var (
	ErrNoMessages     = errors.New("messages cannot be empty")
	ErrInvalidRole    = errors.New("message role must be user, assistant, or system")
	ErrEmptyContent   = errors.New("message content cannot be empty")
	ErrNoUserMessage  = errors.New("at least one user message is required")
	ErrMessageTooLong = errors.New("message content exceeds maximum length")
)

// MaxMessageLength bounds a single conversation turn supplied by the client.
const MaxMessageLength = 8192

// ChatRequest is the inbound payload for POST /chat. The client is the source
// of truth for conversation state; the server holds nothing between calls.
type ChatRequest struct {
	Messages              []ConversationTurn    `json:"messages"`
	Language              Lang                  `json:"language,omitempty"`
	CollectedData         *ConsultationFormData `json:"collectedData,omitempty"`
	PhotoUploadRequested  bool                  `json:"photoUploadRequested,omitempty"`
	ConsultationComplete  bool                  `json:"consultationComplete,omitempty"`
	FormDataPresent       bool                  `json:"formDataPresent,omitempty"`
	BasicProfileCollected bool                  `json:"basicProfileCollected,omitempty"`
	Stream                bool                  `json:"stream,omitempty"`
}

// Validate performs structural validation on a ChatRequest.
func (r *ChatRequest) Validate() error {
	if len(r.Messages) == 0 {
		return ErrNoMessages
	}
	hasUser := false
	for _, m := range r.Messages {
		switch m.Role {
		case RoleUser, RoleAssistant, RoleSystem:
		default:
			return ErrInvalidRole
		}
		if m.Content == "" {
			return ErrEmptyContent
		}
		if len(m.Content) > MaxMessageLength {
			return ErrMessageTooLong
		}
		if m.Role == RoleUser {
			hasUser = true
		}
	}
	if !hasUser {
		return ErrNoUserMessage
	}
	return nil
}

// LastUserMessage returns the content of the most recent user turn, or the
// empty string when no user turn exists.
func (r *ChatRequest) LastUserMessage() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// ChatResponse is the non-streaming reply for POST /chat. Optional fields are
// omitted when unset so the client payload stays minimal.
type ChatResponse struct {
	Message                   string                `json:"message"`
	FormData                  *ConsultationFormData `json:"formData,omitempty"`
	SuggestedNextField        string                `json:"suggestedNextField,omitempty"`
	ShowExamplePatientGallery bool                  `json:"showExamplePatientGallery,omitempty"`
	ShowResultsGallery        bool                  `json:"showResultsGallery,omitempty"`
	BasicProfileCollected     bool                  `json:"basicProfileCollected,omitempty"`
}

// StreamChunk is a single text fragment of a streamed reply.
type StreamChunk struct {
	C string `json:"c"`
}

// StreamError is an in-band fatal error fragment; it terminates the stream.
type StreamError struct {
	E string `json:"e"`
}

// StreamDone is the single terminal fragment carrying the final flags: g is
// the example-patient gallery, r the results gallery, b the onboarding
// profile-collected flag. The client must not treat any earlier fragment as
// final.
type StreamDone struct {
	D bool `json:"d"`
	G bool `json:"g"`
	R bool `json:"r"`
	B bool `json:"b"`
}

// ConsultationRecord is an archived finalized intake record.
type ConsultationRecord struct {
	ID         string    `json:"id"`
	Language   Lang      `json:"language"`
	FormJSON   string    `json:"form_json"`
	ReceivedAt time.Time `json:"received_at"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse is the standard envelope for admin/utility endpoints. The chat
// endpoint itself uses the raw ChatResponse/stream fragment shapes.
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Result  interface{} `json:"result,omitempty"`
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Result: result}
}

// SuccessWithMessage creates a successful API response with a message.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return APIResponse{Status: string(APIStatusOK), Message: message, Result: result}
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return APIResponse{Status: string(APIStatusError), Message: message}
}
