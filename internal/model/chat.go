package model

import "time"

type Speaker string

const (
	SpeakerMe   Speaker = "me"
	SpeakerThem Speaker = "them"
)

type ChatMessage struct {
	Who  Speaker   `json:"who"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// ChatThread 与某个献血者的模拟短信会话，只存在于内存
type ChatThread struct {
	Donor    Donor         `json:"donor"`
	Messages []ChatMessage `json:"messages"`
}
