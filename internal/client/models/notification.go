package models

import "time"

type Notification struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
