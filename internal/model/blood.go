package model

import "strings"

// BloodType ABO/Rh 血型
type BloodType string

const (
	APos  BloodType = "A+"
	ANeg  BloodType = "A-"
	BPos  BloodType = "B+"
	BNeg  BloodType = "B-"
	ABPos BloodType = "AB+"
	ABNeg BloodType = "AB-"
	OPos  BloodType = "O+"
	ONeg  BloodType = "O-"
)

// BloodTypes lists every defined type in display order.
var BloodTypes = []BloodType{APos, ANeg, BPos, BNeg, ABPos, ABNeg, OPos, ONeg}

// Valid reports whether t is one of the eight defined types.
func (t BloodType) Valid() bool {
	for _, bt := range BloodTypes {
		if bt == t {
			return true
		}
	}
	return false
}

func (t BloodType) String() string { return string(t) }

// ParseBloodType accepts case-insensitive input with surrounding spaces,
// e.g. " ab+ ".
func ParseBloodType(s string) (BloodType, bool) {
	t := BloodType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", false
	}
	return t, true
}
