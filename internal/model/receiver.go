package model

import (
	"strings"
	"time"
)

// Urgency 紧急程度，统一为小写
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

func NormalizeUrgency(s string) Urgency {
	return Urgency(strings.ToLower(strings.TrimSpace(s)))
}

func (u Urgency) IsCritical() bool { return u == UrgencyCritical }

// UrgencyOther labels any tier outside the known three.
const UrgencyOther = "other"

// Tier maps free-form urgency onto the known tiers, for metric labels.
func (u Urgency) Tier() string {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyCritical:
		return string(u)
	default:
		return UrgencyOther
	}
}

// Receiver 用血请求；created 按毫秒时间戳持久化
type Receiver struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Blood     BloodType `json:"blood"`
	Urgency   Urgency   `json:"urgency"`
	Hospital  string    `json:"hospital"`
	Condition string    `json:"condition,omitempty"`
	Created   int64     `json:"created"`
}

func (r Receiver) EntityID() string { return r.ID }

func (r Receiver) CreatedAt() time.Time {
	return time.UnixMilli(r.Created)
}
