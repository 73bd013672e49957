// Package chat simulates an SMS-style conversation with a donor. Threads live
// for the process lifetime only.
package chat

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"lifedrop/internal/model"
	"lifedrop/pkg/eventloop"
)

const DefaultReplyDelay = 900 * time.Millisecond

var (
	ErrEmptyMessage  = errors.New("message text is empty")
	ErrThreadUnknown = errors.New("no chat thread for donor")
)

type thread struct {
	donor    model.Donor
	messages []model.ChatMessage
}

// Simulator is owned by the event loop.
type Simulator struct {
	sched      eventloop.Scheduler
	replyDelay time.Duration
	now        func() time.Time
	logger     *zap.Logger

	threads map[string]*thread
	current string
}

func NewSimulator(sched eventloop.Scheduler, replyDelay time.Duration, logger *zap.Logger) *Simulator {
	if replyDelay <= 0 {
		replyDelay = DefaultReplyDelay
	}
	return &Simulator{
		sched:      sched,
		replyDelay: replyDelay,
		now:        time.Now,
		logger:     logger,
		threads:    make(map[string]*thread),
	}
}

// Open makes donor's thread current, creating it on first use. A non-empty
// initial message is appended as coming from the donor side.
func (s *Simulator) Open(donor model.Donor, initial string) model.ChatThread {
	t, ok := s.threads[donor.ID]
	if !ok {
		t = &thread{donor: donor}
		s.threads[donor.ID] = t
	}
	if initial != "" {
		t.messages = append(t.messages, model.ChatMessage{Who: model.SpeakerThem, Text: initial, Time: s.now()})
	}
	s.current = donor.ID
	return snapshot(t)
}

// Send appends the user's message and schedules the donor's canned reply on
// the same thread.
func (s *Simulator) Send(donorID, text string) (model.ChatThread, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatThread{}, ErrEmptyMessage
	}
	t, ok := s.threads[donorID]
	if !ok {
		return model.ChatThread{}, ErrThreadUnknown
	}

	t.messages = append(t.messages, model.ChatMessage{Who: model.SpeakerMe, Text: text, Time: s.now()})
	reply := "Received. I can help. Call me: " + t.donor.Phone
	s.sched.After(s.replyDelay, func() {
		t.messages = append(t.messages, model.ChatMessage{Who: model.SpeakerThem, Text: reply, Time: s.now()})
		s.logger.Debug("Simulated chat reply", zap.String("donor_id", donorID))
	})
	return snapshot(t), nil
}

func (s *Simulator) Thread(donorID string) (model.ChatThread, bool) {
	t, ok := s.threads[donorID]
	if !ok {
		return model.ChatThread{}, false
	}
	return snapshot(t), true
}

// Current returns the thread most recently opened, unless it was closed.
func (s *Simulator) Current() (model.ChatThread, bool) {
	if s.current == "" {
		return model.ChatThread{}, false
	}
	return s.Thread(s.current)
}

// Close hides the current thread. Its history is kept.
func (s *Simulator) Close() {
	s.current = ""
}

func snapshot(t *thread) model.ChatThread {
	msgs := make([]model.ChatMessage, len(t.messages))
	copy(msgs, t.messages)
	return model.ChatThread{Donor: t.donor, Messages: msgs}
}
