package widget

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/logger"
)

// Submit checks the verification gate and required fields, then enters the
// sending phase and hands the payload to the submit collaborator. A rejected
// attempt returns an AlertMsg command and leaves the state untouched.
func (w *Widget) Submit() tea.Cmd {
	if w.opts.Disabled || !w.mounted || w.phase == PhaseSending {
		return nil
	}
	if w.opts.Verifier.Response() == "" {
		return alert(constants.AlertNeedsChallenge)
	}
	if strings.TrimSpace(w.fields.Email) == "" {
		return alert(constants.AlertNeedsEmail)
	}
	if strings.TrimSpace(w.fields.Message) == "" {
		return alert(constants.AlertNeedsMessage)
	}

	w.setPhase(PhaseSending, "")
	w.submissionID = uuid.NewString()
	w.pending = w.buildPayload()
	w.pendingFields = w.fields

	id := w.submissionID
	payload := w.pending
	submit := w.opts.OnSubmit
	logger.Info("Submitting feedback", "id", id, "category", w.category, "channel", payload.Channel)

	return func() tea.Msg {
		if err := submit(context.Background(), payload); err != nil {
			return ErrorMsg{ID: id, Err: err}
		}
		return SentMsg{ID: id}
	}
}

// Sent completes the current submission successfully: the form is cleared,
// verification must be redone and the button returns to idle after a delay.
func (w *Widget) Sent() tea.Cmd {
	if w.phase != PhaseSending {
		return nil
	}
	w.setPhase(PhaseSent, "")
	w.fields = Fields{}
	w.RemoveImage()
	w.resetVerification()
	return tea.Batch(w.scheduleDismiss(constants.SentDismissDelay), w.report(nil, ""))
}

// Error completes the current submission with a failure and shows the mapped
// message until the error delay passes.
func (w *Widget) Error(err error) tea.Cmd {
	if w.phase != PhaseSending {
		return nil
	}
	message := DetermineErrorType(err)
	logger.Warn("Feedback submission failed", "error", err, "display", message)
	w.setPhase(PhaseError, message)
	return tea.Batch(w.scheduleDismiss(constants.ErrorDismissDelay), w.report(err, message))
}

func (w *Widget) currentSubmission(id string) bool {
	return w.mounted && id != "" && id == w.submissionID
}

func (w *Widget) buildPayload() Payload {
	return BuildPayload(Report{
		Channel:   w.opts.Channel,
		Username:  w.opts.Username,
		IconEmoji: w.opts.IconEmoji,
		Category:  w.category,
		Fields:    w.fields,
		PageURL:   w.opts.Location(),
		ImageURL:  w.image.ResolvedURL,
	})
}

// report snapshots the finished submission and hands it to OnOutcome from a
// command.
func (w *Widget) report(err error, message string) tea.Cmd {
	onOutcome := w.opts.OnOutcome
	if onOutcome == nil {
		return nil
	}
	o := Outcome{
		SubmissionID: w.submissionID,
		Payload:      w.pending,
		Fields:       w.pendingFields,
		Err:          err,
		Message:      message,
		At:           nowFunc(),
	}
	return func() tea.Msg {
		onOutcome(o)
		return nil
	}
}
