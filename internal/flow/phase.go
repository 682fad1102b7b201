// Package flow drives a consultation turn end to end: it selects the
// conversation phase, assembles the model request, and post-processes the
// response into the structured reply the client renders.
package flow

import (
	"strings"

	"github.com/consultflow/consultflow/internal/markers"
	"github.com/consultflow/consultflow/internal/models"
)

// Phase identifies which conversation stage a request belongs to.
type Phase string

const (
	// PhaseOnboarding collects name and phone with the slim prompt.
	PhaseOnboarding Phase = "onboarding"
	// PhaseConsultation runs the full knowledge-backed consultation.
	PhaseConsultation Phase = "consultation"
)

const (
	// OnboardingModel handles the short onboarding exchanges.
	OnboardingModel = "gpt-4o"
	// ConsultationModel handles the long-context consultation turns.
	ConsultationModel = "gpt-4o-mini"

	// historyWindow bounds the turns sent to the model in the consultation
	// phase. Onboarding always sends the full history since it is short and
	// the profile markers must stay visible.
	historyWindow = 10
)

// PhaseDecision is the routing outcome for a single request.
type PhaseDecision struct {
	Phase Phase
	Model string
	// StreamAllowed is false for onboarding; its replies are short and the
	// profile-collected flag must be computed before anything is sent.
	StreamAllowed bool
	// History is the (possibly windowed) slice of turns to send.
	History []models.ConversationTurn
}

// SelectPhase decides the phase for a request. Onboarding applies only while
// no consultation record, no form-data block and no basic profile exists;
// client flags and the conversation history are both consulted so a lost
// flag cannot restart onboarding.
func SelectPhase(req *models.ChatRequest) PhaseDecision {
	if !req.ConsultationComplete && !formDataInHistory(req) && !profileCollected(req) {
		return PhaseDecision{
			Phase:         PhaseOnboarding,
			Model:         OnboardingModel,
			StreamAllowed: false,
			History:       req.Messages,
		}
	}
	return PhaseDecision{
		Phase:         PhaseConsultation,
		Model:         ConsultationModel,
		StreamAllowed: true,
		History:       windowHistory(req.Messages, historyWindow),
	}
}

func formDataInHistory(req *models.ChatRequest) bool {
	if req.FormDataPresent {
		return true
	}
	for _, m := range req.Messages {
		if m.Role == models.RoleAssistant && markers.HasFormDataBlock(m.Content) {
			return true
		}
	}
	return false
}

func profileCollected(req *models.ChatRequest) bool {
	if req.BasicProfileCollected {
		return true
	}
	for _, m := range req.Messages {
		if m.Role == models.RoleAssistant && strings.Contains(m.Content, markers.BasicProfileCollectedMarker) {
			return true
		}
	}
	return false
}

func windowHistory(turns []models.ConversationTurn, n int) []models.ConversationTurn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}
