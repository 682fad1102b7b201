package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"github.com/consultflow/consultflow/internal/genai"
	"github.com/consultflow/consultflow/internal/intent"
	"github.com/consultflow/consultflow/internal/knowledge"
	"github.com/consultflow/consultflow/internal/markers"
	"github.com/consultflow/consultflow/internal/models"
	"github.com/consultflow/consultflow/internal/prompt"
	"github.com/consultflow/consultflow/internal/util"
)

// RequestTimeout bounds a single completion call, streaming or not. It sits
// below common proxy idle timeouts so the caller sees our retry message
// instead of a dropped connection.
const RequestTimeout = 85 * time.Second

// Archiver persists finalized consultation records. Failures are logged and
// never surfaced to the patient.
type Archiver interface {
	SaveConsultation(ctx context.Context, rec models.ConsultationRecord) error
}

// Notifier alerts the clinic team about a finalized consultation.
type Notifier interface {
	NotifyConsultation(ctx context.Context, rec models.ConsultationRecord) error
}

// StreamEmitter receives the fragments of a streamed reply in order. Chunk
// may be called many times, Error and Done at most once, and nothing after
// either.
type StreamEmitter interface {
	Chunk(text string) error
	Error(message string) error
	Done(done models.StreamDone) error
}

// Orchestrator runs one consultation turn: phase selection, prompt assembly,
// the model call, and post-processing of markers and intents into the
// structured reply. It holds no conversation state between calls.
type Orchestrator struct {
	client    genai.ClientInterface
	knowledge *knowledge.Loader

	archive     Archiver
	notifier    Notifier
	clinicPhone string
	bookingURL  string
	timeout     time.Duration
}

// Opts holds optional Orchestrator configuration.
type Opts struct {
	Archive     Archiver
	Notifier    Notifier
	ClinicPhone string
	BookingURL  string
	Timeout     time.Duration
}

// Option configures Opts.
type Option func(*Opts)

// WithArchiver enables persisting finalized consultations.
func WithArchiver(a Archiver) Option {
	return func(o *Opts) { o.Archive = a }
}

// WithNotifier enables clinic notifications for finalized consultations.
func WithNotifier(n Notifier) Option {
	return func(o *Opts) { o.Notifier = n }
}

// WithContactInfo overrides the clinic phone and booking URL appended on
// contact intent.
func WithContactInfo(phone, bookingURL string) Option {
	return func(o *Opts) {
		o.ClinicPhone = phone
		o.BookingURL = bookingURL
	}
}

// WithTimeout overrides the per-request completion deadline.
func WithTimeout(d time.Duration) Option {
	return func(o *Opts) { o.Timeout = d }
}

// NewOrchestrator creates an Orchestrator over a model client and a
// knowledge loader.
func NewOrchestrator(client genai.ClientInterface, loader *knowledge.Loader, opts ...Option) *Orchestrator {
	o := Opts{
		ClinicPhone: DefaultClinicPhone,
		BookingURL:  DefaultBookingURL,
		Timeout:     RequestTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Orchestrator{
		client:      client,
		knowledge:   loader,
		archive:     o.Archive,
		notifier:    o.Notifier,
		clinicPhone: o.ClinicPhone,
		bookingURL:  o.BookingURL,
		timeout:     o.Timeout,
	}
}

// Complete runs a non-streaming turn.
func (o *Orchestrator) Complete(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	decision := SelectPhase(req)
	messages := o.buildMessages(req, decision)

	raw, err := o.client.Generate(ctx, decision.Model, messages)
	if err != nil {
		slog.Error("Orchestrator.Complete: generation failed", "error", err, "phase", decision.Phase, "model", decision.Model)
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	resp, _ := o.postProcess(ctx, raw, req, decision)
	slog.Info("Orchestrator.Complete: turn complete",
		"phase", decision.Phase,
		"model", decision.Model,
		"responseLength", len(resp.Message),
		"formData", resp.FormData != nil)
	return resp, nil
}

// CompleteStream runs a streaming turn, forwarding text fragments to the
// emitter as they arrive. Onboarding turns are never streamed: the reply is
// generated in full and delivered as a single fragment so the terminal flags
// stay authoritative. Model failures are delivered in-band as an error
// fragment and also returned.
func (o *Orchestrator) CompleteStream(ctx context.Context, req *models.ChatRequest, emit StreamEmitter) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	decision := SelectPhase(req)
	messages := o.buildMessages(req, decision)

	var raw string
	var err error
	if decision.StreamAllowed {
		raw, err = o.client.GenerateStream(ctx, decision.Model, messages, func(delta string) error {
			return emit.Chunk(delta)
		})
	} else {
		raw, err = o.client.Generate(ctx, decision.Model, messages)
	}
	if err != nil {
		slog.Error("Orchestrator.CompleteStream: generation failed", "error", err, "phase", decision.Phase, "model", decision.Model)
		if emitErr := emit.Error(LocalizedErrorMessage(err, req.Language)); emitErr != nil {
			slog.Error("Orchestrator.CompleteStream: failed to emit error fragment", "error", emitErr)
		}
		return fmt.Errorf("completion failed: %w", err)
	}

	resp, contactTail := o.postProcess(ctx, raw, req, decision)

	if !decision.StreamAllowed {
		// Buffered fallback: the whole cleaned message as one fragment.
		if err := emit.Chunk(resp.Message); err != nil {
			return fmt.Errorf("failed to emit buffered reply: %w", err)
		}
	} else if contactTail != "" {
		// Post-processing appended contact details the streamed text lacked;
		// deliver just the appended tail so nothing is duplicated.
		if err := emit.Chunk(contactTail); err != nil {
			return fmt.Errorf("failed to emit contact fragment: %w", err)
		}
	}

	done := models.StreamDone{
		D: true,
		G: resp.ShowExamplePatientGallery,
		R: resp.ShowResultsGallery,
		B: resp.BasicProfileCollected,
	}
	if err := emit.Done(done); err != nil {
		return fmt.Errorf("failed to emit terminal fragment: %w", err)
	}
	slog.Info("Orchestrator.CompleteStream: turn complete",
		"phase", decision.Phase,
		"model", decision.Model,
		"streamed", decision.StreamAllowed,
		"responseLength", len(resp.Message))
	return nil
}

// buildMessages assembles the system prompt and the (windowed) history.
func (o *Orchestrator) buildMessages(req *models.ChatRequest, decision PhaseDecision) []openai.ChatCompletionMessageParamUnion {
	lang := models.NormalizeLang(req.Language)

	var system string
	if decision.Phase == PhaseOnboarding {
		system = prompt.BuildOnboarding(lang)
	} else {
		bundle := o.knowledge.Load()
		system = prompt.BuildFull(lang, bundle.Knowledge, bundle.YouTube, bundle.Extra)
		system = prompt.AppendContext(system, o.annotations(req))
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(decision.History)+1)
	messages = append(messages, openai.SystemMessage(system))
	for _, turn := range decision.History {
		switch turn.Role {
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		case models.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	return messages
}

// annotations derives the per-request prompt annotations for the full phase.
func (o *Orchestrator) annotations(req *models.ChatRequest) prompt.Annotations {
	ann := prompt.Annotations{
		ReExtract:            req.PhotoUploadRequested && !formDataInHistory(req),
		ConsultationComplete: req.ConsultationComplete,
		OpinionOnly:          intent.DetectOpinionOrReview(req.LastUserMessage()),
	}
	if req.CollectedData != nil {
		if summary, err := req.CollectedData.ToJSON(); err == nil {
			ann.CollectedSummary = summary
		}
	}
	return ann
}

// postProcess turns the raw model output into the structured reply and
// archives a finalized consultation when one was emitted. The second return
// is the contact block appended beyond the model's own text, if any, so the
// streaming path can deliver just that tail.
func (o *Orchestrator) postProcess(ctx context.Context, raw string, req *models.ChatRequest, decision PhaseDecision) (*models.ChatResponse, string) {
	lang := models.NormalizeLang(req.Language)
	lastUser := req.LastUserMessage()

	formData := markers.ExtractFormData(raw)
	gi := intent.DetectGallery(lastUser)

	resp := &models.ChatResponse{
		FormData:                  formData,
		SuggestedNextField:        markers.ExtractSuggestedField(raw),
		ShowResultsGallery:        markers.HasResultsGallery(raw) || gi.Results,
		ShowExamplePatientGallery: markers.HasExamplePatientGallery(raw) || gi.ExamplePatient,
	}
	if decision.Phase == PhaseOnboarding {
		resp.BasicProfileCollected = markers.HasBasicProfileCollected(raw)
	}

	msg := markers.StripSpecialBlocks(raw)
	msg = markers.StripGalleryRedundantText(msg, intent.GalleryIntent{
		Results:        resp.ShowResultsGallery,
		ExamplePatient: resp.ShowExamplePatientGallery,
	})
	var contactTail string
	if decision.Phase != PhaseOnboarding && intent.DetectContact(lastUser) {
		augmented := AppendContactInfo(msg, lang, o.clinicPhone, o.bookingURL)
		contactTail = augmented[len(msg):]
		msg = augmented
	}
	resp.Message = msg

	if formData.IsComplete() {
		if formData.Language == "" {
			formData.Language = lang
		}
		o.archiveConsultation(ctx, formData)
	}
	return resp, contactTail
}

// archiveConsultation persists and announces a finalized record. Both steps
// are best-effort: the patient-facing reply never fails because of them.
func (o *Orchestrator) archiveConsultation(ctx context.Context, formData *models.ConsultationFormData) {
	if o.archive == nil && o.notifier == nil {
		return
	}
	formJSON, err := formData.ToJSON()
	if err != nil {
		slog.Error("Orchestrator.archiveConsultation: failed to serialize form data", "error", err)
		return
	}
	rec := models.ConsultationRecord{
		ID:         util.GenerateRecordID(),
		Language:   formData.Language,
		FormJSON:   formJSON,
		ReceivedAt: time.Now().UTC(),
	}
	if o.archive != nil {
		if err := o.archive.SaveConsultation(ctx, rec); err != nil {
			slog.Error("Orchestrator.archiveConsultation: failed to save record", "error", err, "recordID", rec.ID)
		} else {
			slog.Info("Orchestrator.archiveConsultation: record saved", "recordID", rec.ID, "language", rec.Language)
		}
	}
	if o.notifier != nil {
		if err := o.notifier.NotifyConsultation(ctx, rec); err != nil {
			slog.Error("Orchestrator.archiveConsultation: failed to notify clinic", "error", err, "recordID", rec.ID)
		}
	}
}

// LocalizedErrorMessage maps a completion failure onto the fixed user-facing
// message for the language: deadline or cancellation gets the short retry
// message, everything else the generic failure message. Internal detail is
// logged elsewhere and never included.
func LocalizedErrorMessage(err error, lang models.Lang) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		strings.Contains(strings.ToLower(err.Error()), "abort") {
		return models.TimeoutRetryMessage(lang)
	}
	return models.GenericFailureMessage(lang)
}
