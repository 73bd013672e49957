package mq

import "time"

// NotificationRecordedPayload 通知日志的镜像事件
type NotificationRecordedPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}
