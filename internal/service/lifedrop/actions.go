package lifedrop

import (
	"context"
	"fmt"

	"lifedrop/internal/model"
)

const (
	ActionContact       = "contact"
	ActionCopyPhone     = "copy_phone"
	ActionDeleteDonor   = "delete_donor"
	ActionDeleteRequest = "delete_request"
	ActionViewRequest   = "view_request"
)

// ActionResult holds whatever the action produced; unused fields stay nil.
type ActionResult struct {
	Action   string              `json:"action"`
	Chat     *model.ChatThread   `json:"chat,omitempty"`
	Receiver *model.Receiver     `json:"receiver,omitempty"`
	Note     *model.Notification `json:"notification,omitempty"`
}

type actionFunc func(ctx context.Context, id string) (ActionResult, error)

func (s *Service) actionTable() map[string]actionFunc {
	return map[string]actionFunc{
		ActionContact:       s.contactDonor,
		ActionCopyPhone:     s.copyPhone,
		ActionDeleteDonor:   s.deleteDonorAction,
		ActionDeleteRequest: s.deleteRequestAction,
		ActionViewRequest:   s.viewRequest,
	}
}

// Dispatch runs a named action against the entity with the given id.
func (s *Service) Dispatch(ctx context.Context, action, id string) (ActionResult, error) {
	fn, ok := s.actions[action]
	if !ok {
		return ActionResult{}, fmt.Errorf("%q: %w", action, ErrUnknownAction)
	}
	res, err := fn(ctx, id)
	res.Action = action
	return res, err
}

func (s *Service) donorByID(id string) (model.Donor, error) {
	d, ok := s.donors.FindByID(id)
	if !ok {
		return model.Donor{}, fmt.Errorf("donor %s: %w", id, ErrNotFound)
	}
	return d, nil
}

func (s *Service) contactDonor(_ context.Context, id string) (ActionResult, error) {
	d, err := s.donorByID(id)
	if err != nil {
		return ActionResult{}, err
	}
	th := s.chat.Open(d, fmt.Sprintf("Hi %s, someone is requesting %s. Can you help?", d.Name, d.Blood))
	return ActionResult{Chat: &th}, nil
}

func (s *Service) copyPhone(ctx context.Context, id string) (ActionResult, error) {
	d, err := s.donorByID(id)
	if err != nil {
		return ActionResult{}, err
	}
	n := s.notes.Record(ctx, "Copied", fmt.Sprintf("Phone %s copied to clipboard", d.Phone))
	return ActionResult{Note: &n}, nil
}

func (s *Service) deleteDonorAction(ctx context.Context, id string) (ActionResult, error) {
	if !s.DeleteDonor(ctx, id) {
		return ActionResult{}, fmt.Errorf("donor %s: %w", id, ErrNotFound)
	}
	return ActionResult{}, nil
}

func (s *Service) deleteRequestAction(ctx context.Context, id string) (ActionResult, error) {
	if !s.DeleteRequest(ctx, id) {
		return ActionResult{}, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	return ActionResult{}, nil
}

func (s *Service) viewRequest(_ context.Context, id string) (ActionResult, error) {
	r, ok := s.receivers.FindByID(id)
	if !ok {
		return ActionResult{}, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	return ActionResult{Receiver: &r}, nil
}
