package model

import "time"

const (
	RoleUser   = "user"
	RoleSystem = "system"
)

type ChatMessage struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
