package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifedrop/internal/model"
)

func oneOfEach() []model.Donor {
	donors := make([]model.Donor, 0, len(model.BloodTypes))
	for i, bt := range model.BloodTypes {
		donors = append(donors, model.Donor{ID: string(rune('a' + i)), Name: bt.String(), Blood: bt})
	}
	return donors
}

func TestCompatibilityTable(t *testing.T) {
	cases := map[model.BloodType][]model.BloodType{
		model.APos:  {model.APos, model.ANeg, model.OPos, model.ONeg},
		model.ANeg:  {model.ANeg, model.ONeg},
		model.BPos:  {model.BPos, model.BNeg, model.OPos, model.ONeg},
		model.BNeg:  {model.BNeg, model.ONeg},
		model.ABPos: model.BloodTypes,
		model.ABNeg: {model.ANeg, model.BNeg, model.ABNeg, model.ONeg},
		model.OPos:  {model.OPos, model.ONeg},
		model.ONeg:  {model.ONeg},
	}
	for recipient, want := range cases {
		assert.ElementsMatch(t, want, CompatibleDonorTypes(recipient), recipient)
	}
}

func TestEveryTypeReceivesFromItselfAndONeg(t *testing.T) {
	for _, bt := range model.BloodTypes {
		assert.True(t, CanReceiveFrom(bt, bt), bt)
		assert.True(t, CanReceiveFrom(bt, model.ONeg), bt)
	}
}

func TestMatchDonors_SoundAndComplete(t *testing.T) {
	donors := oneOfEach()
	for _, requested := range model.BloodTypes {
		got := MatchDonors(requested, donors)

		for _, d := range got {
			assert.True(t, CanReceiveFrom(requested, d.Blood), "%s should not match %s", requested, d.Blood)
		}
		for _, d := range donors {
			if CanReceiveFrom(requested, d.Blood) {
				assert.Contains(t, got, d, "%s missing compatible donor %s", requested, d.Blood)
			}
		}
	}
}

func TestMatchDonors_PreservesOrder(t *testing.T) {
	donors := []model.Donor{
		{ID: "1", Blood: model.ONeg},
		{ID: "2", Blood: model.BPos},
		{ID: "3", Blood: model.APos},
		{ID: "4", Blood: model.OPos},
		{ID: "5", Blood: model.ANeg},
	}
	got := MatchDonors(model.APos, donors)
	ids := make([]string, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"1", "3", "4", "5"}, ids)
}

func TestMatchDonors_ONegOnlyFromONeg(t *testing.T) {
	got := MatchDonors(model.ONeg, oneOfEach())
	require.Len(t, got, 1)
	assert.Equal(t, model.ONeg, got[0].Blood)
}

func TestMatchDonors_ABPosUniversal(t *testing.T) {
	donors := oneOfEach()
	assert.Equal(t, donors, MatchDonors(model.ABPos, donors))
}

func TestMatchDonors_UnknownType(t *testing.T) {
	got := MatchDonors("C+", oneOfEach())
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, MatchDonors("", oneOfEach()))
	assert.Nil(t, CompatibleDonorTypes("C+"))
	assert.False(t, CanReceiveFrom("C+", model.ONeg))
}

func TestCompatibleDonorTypesReturnsCopy(t *testing.T) {
	types := CompatibleDonorTypes(model.ONeg)
	types[0] = model.ABPos
	assert.Equal(t, []model.BloodType{model.ONeg}, CompatibleDonorTypes(model.ONeg))
}
