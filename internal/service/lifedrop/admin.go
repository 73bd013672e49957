package lifedrop

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	CollectionDonors    = "donors"
	CollectionReceivers = "receivers"
)

func (s *Service) DeleteDonor(ctx context.Context, id string) bool {
	if !s.donors.Remove(ctx, id) {
		return false
	}
	s.notes.Record(ctx, "Donor removed", "A donor entry was deleted from storage.")
	return true
}

func (s *Service) DeleteRequest(ctx context.Context, id string) bool {
	if !s.receivers.Remove(ctx, id) {
		return false
	}
	s.notes.Record(ctx, "Request removed", "A receiver request was deleted.")
	return true
}

func (s *Service) ClearDonors(ctx context.Context) {
	s.donors.Clear(ctx)
	s.notes.Record(ctx, "Donors cleared", "All donor entries removed.")
}

func (s *Service) ClearRequests(ctx context.Context) {
	s.receivers.Clear(ctx)
	s.notes.Record(ctx, "Receivers cleared", "All receiver requests removed.")
}

// Export renders a collection as indented JSON together with its download
// file name.
func (s *Service) Export(collection string) (filename string, body []byte, err error) {
	var v any
	switch collection {
	case CollectionDonors:
		v = s.donors.List()
	case CollectionReceivers:
		v = s.receivers.List()
	default:
		return "", nil, fmt.Errorf("export %q: %w", collection, ErrNotFound)
	}

	body, err = json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("export %s: %w", collection, err)
	}
	return "lifedrop_" + collection + ".json", body, nil
}
