package model

import "time"

type UserProfile struct {
	ID          int64      `json:"id"`
	UID         string     `json:"uid"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Latitude    *float64   `json:"latitude"`
	Longitude   *float64   `json:"longitude"`
	Interests   []string   `json:"interests"`
	IsPremium   bool       `json:"is_premium"`
	CreatedAt   time.Time  `json:"created_at"`
	Quota       QuotaState `json:"quota"`
}

// HasLocation reports whether both coordinates were ever set.
func (u UserProfile) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
