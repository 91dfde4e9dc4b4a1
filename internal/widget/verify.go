package widget

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/slackfeedback/internal/constants"
	"github.com/julianstephens/slackfeedback/internal/logger"
)

// OnVerified records that the verification challenge was passed.
func (w *Widget) OnVerified() {
	w.isVerified = true
}

// VerifierRendered reports whether the challenge has been mounted.
func (w *Widget) VerifierRendered() bool { return w.verifierRendered }

func (w *Widget) pollVerifier(attempt int) tea.Cmd {
	gen := w.mountGen
	delay := constants.VerifierPollInterval
	if attempt == 0 {
		// First check happens right away; the interval only applies to retries.
		delay = 0
	}
	return tickFunc(delay, func(time.Time) tea.Msg {
		return verifierPollMsg{gen: gen, attempt: attempt}
	})
}

func (w *Widget) handleVerifierPoll(msg verifierPollMsg) tea.Cmd {
	if !w.mounted || msg.gen != w.mountGen || w.verifierRendered {
		return nil
	}

	if !w.opts.Verifier.Ready() {
		next := msg.attempt + 1
		if next >= constants.VerifierPollMaxAttempts {
			logger.Warn("Verification challenge never became ready", "attempts", next)
			return nil
		}
		return w.pollVerifier(next)
	}

	if err := w.opts.Verifier.Render(w.opts.SiteKey, w.verified); err != nil {
		logger.Error("Failed to render verification challenge", "error", err)
		return nil
	}
	w.verifierRendered = true
	logger.Info("Verification challenge rendered", "attempts", msg.attempt+1)
	return nil
}

func (w *Widget) resetVerification() {
	w.isVerified = false
	if r, ok := w.opts.Verifier.(Resetter); ok && w.verifierRendered {
		r.Reset()
	}
}
