// Package lifedrop wires the stores, the matcher, the notification log and
// the chat simulator into the user-facing operations: registering donors,
// logging requests, emergency alerts and the admin actions.
//
// A Service is owned by the event loop. Callers outside the loop go through
// eventloop.Loop.Do.
package lifedrop

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"lifedrop/internal/model"
	"lifedrop/internal/repository"
	"lifedrop/internal/service/chat"
	"lifedrop/internal/service/notify"
)

// EventPublisher queues an MQ event without blocking; outbox.Dispatcher
// implements it.
type EventPublisher interface {
	Enqueue(routingKey string, payload any) error
}

type Options struct {
	SeedDemoDonors bool
	// Events is nil when MQ is disabled.
	Events EventPublisher
}

type Service struct {
	donors    *repository.DonorStore
	receivers *repository.ReceiverStore
	notes     *notify.Log
	chat      *chat.Simulator
	events    EventPublisher
	seed      bool
	now       func() time.Time
	pick      func(n int) int
	actions   map[string]actionFunc
	logger    *zap.Logger
}

func NewService(
	donors *repository.DonorStore,
	receivers *repository.ReceiverStore,
	notes *notify.Log,
	chatSim *chat.Simulator,
	opts Options,
	logger *zap.Logger,
) *Service {
	s := &Service{
		donors:    donors,
		receivers: receivers,
		notes:     notes,
		chat:      chatSim,
		events:    opts.Events,
		seed:      opts.SeedDemoDonors,
		now:       time.Now,
		pick:      rand.Intn,
		logger:    logger,
	}
	s.actions = s.actionTable()
	return s
}

// Start hydrates every collection and seeds demo donors into an empty store.
func (s *Service) Start(ctx context.Context) {
	s.donors.Hydrate(ctx)
	s.receivers.Hydrate(ctx)
	s.notes.Hydrate(ctx)
	if s.seed {
		repository.SeedDemoDonors(ctx, s.donors)
	}
}

// Flush writes every collection. All errors are returned joined.
func (s *Service) Flush(ctx context.Context) error {
	return errors.Join(
		s.donors.Flush(ctx),
		s.receivers.Flush(ctx),
		s.notes.Flush(ctx),
	)
}

func (s *Service) Donors() []model.Donor { return s.donors.List() }

func (s *Service) Receivers() []model.Receiver { return s.receivers.List() }

func (s *Service) Feed() []model.Notification { return s.notes.Feed() }

func (s *Service) Dashboard() []model.Notification { return s.notes.Dashboard() }

func (s *Service) CurrentChat() (model.ChatThread, bool) { return s.chat.Current() }

func (s *Service) CloseChat() { s.chat.Close() }

func (s *Service) SendChat(donorID, text string) (model.ChatThread, error) {
	return s.chat.Send(donorID, text)
}
