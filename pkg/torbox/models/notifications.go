package models

import "time"

type Notification struct {
	Id        int64     `json:"id"`
	AuthId    string    `json:"auth_id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
}
