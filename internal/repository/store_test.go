package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"lifedrop/internal/model"
	"lifedrop/internal/storage"
)

const (
	donorsKey    = "lifedrop_donors"
	receiversKey = "lifedrop_receivers"
)

type StoreSuite struct {
	suite.Suite
	ctx       context.Context
	kv        *storage.MemoryKV
	gw        *storage.Gateway
	donors    *DonorStore
	receivers *ReceiverStore
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.kv = storage.NewMemoryKV()
	s.gw = storage.NewGateway(s.kv, zap.NewNop())
	s.donors = NewDonorStore(s.gw, donorsKey, zap.NewNop())
	s.receivers = NewReceiverStore(s.gw, receiversKey, zap.NewNop())
}

func (s *StoreSuite) persistedDonors() []model.Donor {
	raw, err := s.kv.Get(s.ctx, donorsKey)
	s.Require().NoError(err)
	var out []model.Donor
	s.Require().NoError(json.Unmarshal(raw, &out))
	return out
}

func (s *StoreSuite) TestAddPrependsAndPersists() {
	s.donors.Add(s.ctx, model.Donor{ID: "1", Name: "first", Blood: model.APos})
	s.donors.Add(s.ctx, model.Donor{ID: "2", Name: "second", Blood: model.ONeg})

	s.Equal([]string{"2", "1"}, ids(s.donors.List()))
	s.Equal([]string{"2", "1"}, ids(s.persistedDonors()))

	latest, ok := s.donors.Latest()
	s.True(ok)
	s.Equal("2", latest.ID)
}

func (s *StoreSuite) TestRemoveExactlyOne() {
	for _, id := range []string{"a", "b", "c"} {
		s.donors.Add(s.ctx, model.Donor{ID: id})
	}

	s.True(s.donors.Remove(s.ctx, "b"))
	s.Equal([]string{"c", "a"}, ids(s.donors.List()))
	s.Equal([]string{"c", "a"}, ids(s.persistedDonors()))

	_, found := s.donors.FindByID("b")
	s.False(found)
}

func (s *StoreSuite) TestRemoveMissingIsNoop() {
	s.donors.Add(s.ctx, model.Donor{ID: "a"})
	s.Require().NoError(s.kv.Set(s.ctx, donorsKey, []byte("sentinel")))

	s.False(s.donors.Remove(s.ctx, "zzz"))
	s.Equal(1, s.donors.Len())

	raw, err := s.kv.Get(s.ctx, donorsKey)
	s.Require().NoError(err)
	s.Equal("sentinel", string(raw), "no write for a missing id")
}

func (s *StoreSuite) TestClear() {
	for _, id := range []string{"a", "b"} {
		s.receivers.Add(s.ctx, model.Receiver{ID: id, Blood: model.BPos})
	}
	s.receivers.Clear(s.ctx)

	for _, id := range []string{"a", "b"} {
		_, found := s.receivers.FindByID(id)
		s.False(found, id)
	}
	raw, err := s.kv.Get(s.ctx, receiversKey)
	s.Require().NoError(err)
	s.Equal("[]", string(raw))

	_, ok := s.receivers.Latest()
	s.False(ok)
}

func (s *StoreSuite) TestPersistReloadYieldsEqualRecords() {
	in := model.Receiver{ID: "r1", Name: "Asha", Phone: "111", Blood: model.ABNeg, Urgency: model.UrgencyCritical, Hospital: "City", Condition: "surgery", Created: 1700000000000}
	s.receivers.Add(s.ctx, in)

	reloaded := NewReceiverStore(s.gw, receiversKey, zap.NewNop())
	reloaded.Hydrate(s.ctx)
	s.Equal([]model.Receiver{in}, reloaded.List())
}

func (s *StoreSuite) TestHydrateCorruptStartsEmpty() {
	s.Require().NoError(s.kv.Set(s.ctx, donorsKey, []byte("{{{")))
	s.donors.Hydrate(s.ctx)
	s.Zero(s.donors.Len())
}

func (s *StoreSuite) TestListIsCopy() {
	s.donors.Add(s.ctx, model.Donor{ID: "a", Name: "orig"})
	list := s.donors.List()
	list[0].Name = "changed"

	d, _ := s.donors.FindByID("a")
	s.Equal("orig", d.Name)
}

func (s *StoreSuite) TestSeedDemoDonors() {
	s.donors.Hydrate(s.ctx)
	s.True(SeedDemoDonors(s.ctx, s.donors))
	s.Require().Equal(5, s.donors.Len())

	unverified := 0
	seen := map[string]bool{}
	for _, d := range s.donors.List() {
		s.False(seen[d.ID], "ids unique")
		seen[d.ID] = true
		if !d.Verified {
			unverified++
			s.Equal("Deepika", d.Name)
		}
	}
	s.Equal(1, unverified)
	s.Len(s.persistedDonors(), 5)

	s.False(SeedDemoDonors(s.ctx, s.donors), "never seeds a non-empty store")
}

func (s *StoreSuite) TestFlush() {
	s.donors.Add(s.ctx, model.Donor{ID: "x"})
	s.Require().NoError(s.kv.Set(s.ctx, donorsKey, []byte("[]")))

	s.NoError(s.donors.Flush(s.ctx))
	s.Equal([]string{"x"}, ids(s.persistedDonors()))
}

func ids[T Entity](items []T) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.EntityID())
	}
	return out
}
