// Package match holds the blood-type compatibility table and the donor
// matcher. Everything here is pure.
package match

import "lifedrop/internal/model"

// compatibility maps a recipient's type to the donor types it can receive
// from. The table is never mutated after init.
var compatibility = map[model.BloodType][]model.BloodType{
	model.APos:  {model.APos, model.ANeg, model.OPos, model.ONeg},
	model.ANeg:  {model.ANeg, model.ONeg},
	model.BPos:  {model.BPos, model.BNeg, model.OPos, model.ONeg},
	model.BNeg:  {model.BNeg, model.ONeg},
	model.ABPos: {model.APos, model.ANeg, model.BPos, model.BNeg, model.ABPos, model.ABNeg, model.OPos, model.ONeg},
	model.ABNeg: {model.ANeg, model.BNeg, model.ABNeg, model.ONeg},
	model.OPos:  {model.OPos, model.ONeg},
	model.ONeg:  {model.ONeg},
}

// CompatibleDonorTypes returns a copy of the donor types recipient can
// receive from, or nil for an unknown type.
func CompatibleDonorTypes(recipient model.BloodType) []model.BloodType {
	types, ok := compatibility[recipient]
	if !ok {
		return nil
	}
	out := make([]model.BloodType, len(types))
	copy(out, types)
	return out
}

func CanReceiveFrom(recipient, donor model.BloodType) bool {
	for _, t := range compatibility[recipient] {
		if t == donor {
			return true
		}
	}
	return false
}

// MatchDonors filters donors down to those compatible with requested,
// keeping input order. An unknown type yields an empty result.
func MatchDonors(requested model.BloodType, donors []model.Donor) []model.Donor {
	out := make([]model.Donor, 0)
	if _, ok := compatibility[requested]; !ok {
		return out
	}
	for _, d := range donors {
		if CanReceiveFrom(requested, d.Blood) {
			out = append(out, d)
		}
	}
	return out
}
