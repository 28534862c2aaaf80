// Package dialogue drives the quoting/booking conversation. The engine owns
// the state machine and produces exactly one reply per user turn; callers
// load and persist the conversation state and slots around each call.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mygoodmovers/movebot/internal/intent"
	"github.com/mygoodmovers/movebot/internal/pricing"
	"github.com/mygoodmovers/movebot/internal/slots"
)

// State identifies where a conversation sits in the booking flow.
type State string

const (
	StateInitial                   State = "INITIAL"
	StateCostEstimated             State = "COST_ESTIMATED"
	StateAwaitingContact           State = "AWAITING_CONTACT"
	StateAwaitingEmail             State = "AWAITING_EMAIL"
	StateAwaitingFinalConfirmation State = "AWAITING_FINAL_CONFIRMATION"
	StateModifyDetails             State = "MODIFY_DETAILS"
	StateConfirmed                 State = "CONFIRMED"
)

// Extractor turns one user message into a best-effort partial extraction.
type Extractor interface {
	Extract(ctx context.Context, userText string) slots.Extracted
}

// Estimator prices a move.
type Estimator interface {
	Estimate(ctx context.Context, in pricing.Input) (pricing.Quote, error)
}

// FAQMatcher answers policy questions from the curated dataset.
type FAQMatcher interface {
	Match(query string) (answer string, ok bool)
}

// Responder generates a free-form persona reply.
type Responder interface {
	Respond(ctx context.Context, systemPrompt, userContent string) (string, error)
}

// Turn is one user message in the context the caller loaded for it. History
// is the rendered prior transcript; it feeds the free-form fallback only.
type Turn struct {
	ConversationID string
	State          State
	Slots          slots.MoveSlots
	UserText       string
	History        string
}

// Outcome is the engine's full result for a turn. State and Slots must be
// persisted together with the reply; the caller observes no intermediate
// states.
type Outcome struct {
	State           State
	Slots           slots.MoveSlots
	Reply           string
	CostInvalidated bool
	Confirmed       bool
}

// Engine dispatches turns across the conversation states.
type Engine struct {
	extractor Extractor
	estimator Estimator
	faq       FAQMatcher
	responder Responder
	logger    *slog.Logger
	now       func() time.Time
}

// NewEngine creates the dialogue engine.
func NewEngine(log *slog.Logger, extractor Extractor, estimator Estimator, faq FAQMatcher, responder Responder) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		extractor: extractor,
		estimator: estimator,
		faq:       faq,
		responder: responder,
		logger:    log.With(slog.String("service", "dialogue")),
		now:       time.Now,
	}
}

// HandleTurn processes one user message and returns the single reply plus
// the state and slots to persist. FAQ questions divert to the dataset answer
// in every state, before any state-specific handling; this trades precision
// for predictability on purpose, so a booking turn that mentions "refund"
// gets the policy answer.
func (e *Engine) HandleTurn(ctx context.Context, turn Turn) Outcome {
	log := e.logger.With(
		slog.String("conversation_id", turn.ConversationID),
		slog.String("state", string(turn.State)),
	)

	if intent.IsFAQQuery(turn.UserText) {
		answer, matched := e.faq.Match(turn.UserText)
		log.Debug("faq diverted turn", slog.Bool("matched", matched))
		return Outcome{State: turn.State, Slots: turn.Slots, Reply: answer}
	}

	switch turn.State {
	case StateInitial:
		return e.handleInitial(ctx, log, turn)
	case StateCostEstimated:
		return e.handleCostEstimated(log, turn)
	case StateAwaitingContact:
		return e.handleAwaitingContact(log, turn)
	case StateAwaitingEmail:
		return e.handleAwaitingEmail(log, turn)
	case StateAwaitingFinalConfirmation:
		return e.handleFinalConfirmation(log, turn)
	case StateModifyDetails:
		return e.handleModifyDetails(ctx, log, turn)
	default:
		// CONFIRMED and anything unrecognized fall through to free-form so
		// the machine never gets stuck silently.
		return e.freeFormReply(ctx, log, turn)
	}
}

func (e *Engine) handleInitial(ctx context.Context, log *slog.Logger, turn Turn) Outcome {
	if !intent.IsMoveRequest(turn.UserText) {
		return e.freeFormReply(ctx, log, turn)
	}

	extracted := e.extractor.Extract(ctx, turn.UserText)
	merged, invalidated, dateErr := slots.Merge(turn.Slots, extracted, e.now())
	if dateErr != nil {
		log.Info("move date rejected", slog.Any("error", dateErr))
	}

	if merged.RequiredForEstimate() {
		quote, err := e.estimator.Estimate(ctx, pricing.Input{
			Origin:      merged.Origin,
			Destination: merged.Destination,
			Size:        merged.MoveSize,
			Services:    merged.Services,
			Date:        merged.MoveDate,
		})
		if err != nil {
			log.Error("estimation failed", slog.Any("error", err))
			return Outcome{State: turn.State, Slots: merged, Reply: replyEstimationFailed, CostInvalidated: invalidated}
		}
		merged.SetEstimate(quote.CostMin, quote.CostMax)
		return Outcome{
			State:           StateCostEstimated,
			Slots:           merged,
			Reply:           renderEstimate(merged),
			CostInvalidated: invalidated,
		}
	}

	reply := datePrefix(dateErr) + renderMissingFields(merged.MissingForEstimate())
	return Outcome{State: StateInitial, Slots: merged, Reply: reply, CostInvalidated: invalidated}
}

func (e *Engine) handleCostEstimated(log *slog.Logger, turn Turn) Outcome {
	switch parseYesNo(turn.UserText) {
	case answerYes:
		log.Info("estimate accepted")
		return Outcome{State: StateAwaitingContact, Slots: turn.Slots, Reply: replyAskContact}
	case answerNo:
		log.Info("estimate declined")
		return Outcome{State: StateInitial, Slots: turn.Slots, Reply: replyEstimateDeclined}
	default:
		return Outcome{State: StateCostEstimated, Slots: turn.Slots, Reply: replyProceedReprompt}
	}
}

func (e *Engine) handleAwaitingContact(log *slog.Logger, turn Turn) Outcome {
	name, rawPhone, ok := strings.Cut(turn.UserText, ",")
	if !ok {
		return Outcome{State: StateAwaitingContact, Slots: turn.Slots, Reply: replyContactFormat}
	}

	name = strings.TrimSpace(name)
	phone, err := slots.NormalizePhone(rawPhone)
	if err != nil || name == "" {
		log.Info("contact rejected", slog.Any("error", err))
		return Outcome{State: StateAwaitingContact, Slots: turn.Slots, Reply: replyPhoneInvalid}
	}

	updated := turn.Slots
	updated.ContactName = name
	updated.ContactPhone = phone
	return Outcome{State: StateAwaitingEmail, Slots: updated, Reply: replyAskEmail}
}

func (e *Engine) handleAwaitingEmail(log *slog.Logger, turn Turn) Outcome {
	email, err := slots.NormalizeEmail(turn.UserText)
	if err != nil {
		log.Info("email rejected", slog.Any("error", err))

		var emailErr *slots.EmailError
		if errors.As(err, &emailErr) && emailErr.Suggestion != "" {
			reply := fmt.Sprintf(replyEmailSuggestionFmt, emailErr.Suggestion)
			return Outcome{State: StateAwaitingEmail, Slots: turn.Slots, Reply: reply}
		}
		return Outcome{State: StateAwaitingEmail, Slots: turn.Slots, Reply: replyEmailInvalid}
	}

	updated := turn.Slots
	updated.ContactEmail = email
	return Outcome{
		State: StateAwaitingFinalConfirmation,
		Slots: updated,
		Reply: renderSummary(updated, summaryHeaderInitial),
	}
}

func (e *Engine) handleFinalConfirmation(log *slog.Logger, turn Turn) Outcome {
	switch parseYesNo(turn.UserText) {
	case answerYes:
		log.Info("booking confirmed")
		return Outcome{
			State:     StateConfirmed,
			Slots:     turn.Slots,
			Reply:     replyBookingConfirmed,
			Confirmed: true,
		}
	case answerNo:
		return Outcome{State: StateModifyDetails, Slots: turn.Slots, Reply: replyAskModifications}
	default:
		return Outcome{State: StateAwaitingFinalConfirmation, Slots: turn.Slots, Reply: replyConfirmReprompt}
	}
}

func (e *Engine) handleModifyDetails(ctx context.Context, log *slog.Logger, turn Turn) Outcome {
	extracted := e.extractor.Extract(ctx, turn.UserText)
	merged, invalidated, dateErr := slots.Merge(turn.Slots, extracted, e.now())
	if dateErr != nil {
		log.Info("move date rejected", slog.Any("error", dateErr))
	}

	if invalidated && merged.RequiredForEstimate() {
		quote, err := e.estimator.Estimate(ctx, pricing.Input{
			Origin:      merged.Origin,
			Destination: merged.Destination,
			Size:        merged.MoveSize,
			Services:    merged.Services,
			Date:        merged.MoveDate,
		})
		if err != nil {
			log.Error("estimation failed", slog.Any("error", err))
			return Outcome{State: StateModifyDetails, Slots: merged, Reply: replyEstimationFailed, CostInvalidated: invalidated}
		}
		merged.SetEstimate(quote.CostMin, quote.CostMax)
	}

	reply := datePrefix(dateErr) + renderSummary(merged, summaryHeaderUpdated)
	return Outcome{
		State:           StateAwaitingFinalConfirmation,
		Slots:           merged,
		Reply:           reply,
		CostInvalidated: invalidated,
	}
}

func (e *Engine) freeFormReply(ctx context.Context, log *slog.Logger, turn Turn) Outcome {
	userContent := fmt.Sprintf("Chat History:\n%s\nUser: %s", turn.History, turn.UserText)
	reply, err := e.responder.Respond(ctx, personaPrompt, userContent)
	if err != nil {
		log.Error("free-form reply failed", slog.Any("error", err))
		return Outcome{State: turn.State, Slots: turn.Slots, Reply: replyTryAgain}
	}
	return Outcome{State: turn.State, Slots: turn.Slots, Reply: reply}
}

type yesNoAnswer int

const (
	answerUnknown yesNoAnswer = iota
	answerYes
	answerNo
)

// parseYesNo matches the closed confirmation lexicon. Anything outside it is
// unknown and must re-prompt without a state change.
func parseYesNo(text string) yesNoAnswer {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "👍":
		return answerYes
	case "no", "n", "👎":
		return answerNo
	default:
		return answerUnknown
	}
}

// datePrefix turns a merge-time date rejection into a corrective lead-in for
// the reply. Other fields from the same turn were still merged.
func datePrefix(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, slots.ErrDateInPast):
		return "That move date is in the past. Please pick a future date. 📅 "
	default:
		return "I couldn't make sense of that move date. Please try a format like '31st March' or '2027-03-31'. 📅 "
	}
}
