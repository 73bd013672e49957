package model

import "time"

type NotificationLevel string

const (
	LevelInfo     NotificationLevel = "info"
	LevelCritical NotificationLevel = "critical"
)

// Notification 一条人类可读的事件
type Notification struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Text      string            `json:"text"`
	Level     NotificationLevel `json:"level"`
	Timestamp time.Time         `json:"timestamp"`
}

func (n Notification) EntityID() string { return n.ID }

// DashboardLine 仪表盘日志的展示格式
func (n Notification) DashboardLine() string {
	return n.Timestamp.Format("2006-01-02 15:04:05") + " — " + n.Title + ": " + n.Text
}
