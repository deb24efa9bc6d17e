package model

import "time"

// Admin is an administrative account. Secret fields (the password hash and the
// security-answer hash) are never serialized; database exports rely on that.
type Admin struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	PasswordHash     []byte    `json:"-"`
	SecurityQuestion *string   `json:"securityQuestion"`
	SecurityAnswer   []byte    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
