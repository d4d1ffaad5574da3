package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jask/fieldpost/internal/intake"
	"github.com/jask/fieldpost/internal/staging"
)

// Validation failures surfaced to the user before anything is sent.
var (
	ErrNoRecipient     = errors.New("select a recipient")
	ErrNoCallTarget    = errors.New("select a call target")
	ErrNothingToSubmit = errors.New("nothing to submit")
	ErrSubmitInFlight  = errors.New("a submission is already in flight")
)

// Submitter validates a composed update and ships it through the intake
// client. It owns the one-at-a-time rule: while a submission is on the wire,
// further attempts are rejected rather than queued.
//
// The staged set itself stays with the caller. Its snapshot is taken on the
// caller's event loop and handed in as images, so the live set remains
// mutable and inspectable while the request is on the wire; clearing it
// after a confirmed success is the caller's step, on that same loop.
type Submitter struct {
	Client *intake.Client

	mu       sync.Mutex
	inFlight bool
}

// Outcome reports a confirmed submission.
type Outcome struct {
	CallID  string
	Message string
	Images  int
}

// Submit checks recipient, then call target, then content, in that order, so
// the user always sees the first missing piece. On any failure the staged
// state behind the snapshot is untouched and ready for retry.
func (s *Submitter) Submit(ctx context.Context, officerID, callID, text string, images []staging.File) (Outcome, error) {
	if strings.TrimSpace(officerID) == "" {
		return Outcome{}, ErrNoRecipient
	}
	if strings.TrimSpace(callID) == "" {
		return Outcome{}, ErrNoCallTarget
	}
	if strings.TrimSpace(text) == "" && len(images) == 0 {
		return Outcome{}, ErrNothingToSubmit
	}

	if err := s.begin(); err != nil {
		return Outcome{}, err
	}
	defer s.end()

	res, err := s.Client.Submit(ctx, intake.Update{
		OfficerID: officerID,
		CallID:    callID,
		Text:      text,
		Images:    images,
	})
	if err != nil {
		return Outcome{}, err
	}
	if !res.Success {
		reason := res.Error
		if reason == "" {
			reason = "update rejected"
		}
		return Outcome{}, fmt.Errorf("intake: %s", reason)
	}

	out := Outcome{CallID: callID, Message: res.Message, Images: len(images)}
	if res.CallID != "" {
		out.CallID = res.CallID
	}
	return out, nil
}

func (s *Submitter) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return ErrSubmitInFlight
	}
	s.inFlight = true
	return nil
}

func (s *Submitter) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// InFlight reports whether a submission is currently on the wire.
func (s *Submitter) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
