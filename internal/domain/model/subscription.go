package model

import "time"

type Subscription struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  bool       `json:"is_active"`
}
