package mq

import "time"

// DonorAlertedPayload 紧急请求时对每个匹配的献血者发出一条
type DonorAlertedPayload struct {
	ReceiverID string    `json:"receiver_id"`
	DonorID    string    `json:"donor_id"`
	DonorName  string    `json:"donor_name"`
	DonorPhone string    `json:"donor_phone"`
	Blood      string    `json:"blood"`
	Hospital   string    `json:"hospital"`
	Urgency    string    `json:"urgency"`
	Message    string    `json:"message"`
	AlertedAt  time.Time `json:"alerted_at"`
}

// EventID 去重用，同一请求对同一献血者只投递一次
func (p DonorAlertedPayload) EventID() string {
	return p.ReceiverID + ":" + p.DonorID
}
