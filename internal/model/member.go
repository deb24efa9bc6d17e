package model

import "time"

// Member represents one identity record in the registry.
// This is a pure domain model with no database-specific dependencies or tags.
// All identity attributes besides the assigned ID are optional; nil means the
// value was never provided.
type Member struct {
	ID                int64     `json:"id"`
	CustomID          *string   `json:"customId"`
	Name              *string   `json:"name"`
	Email             *string   `json:"email"`
	Address           *string   `json:"address"`
	Phone             *string   `json:"phone"`
	PANNumber         *string   `json:"panNumber"`
	CitizenshipNumber *string   `json:"citizenshipNumber"`
	NIDNumber         *string   `json:"nidNumber"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// MemberAttrs carries the optional identity fields supplied on create/update.
// A nil field means "not provided"; on update an empty string is also treated
// as not provided and never clears a stored value.
type MemberAttrs struct {
	CustomID          *string `json:"customId"`
	Name              *string `json:"name"`
	Email             *string `json:"email"`
	Address           *string `json:"address"`
	Phone             *string `json:"phone"`
	PANNumber         *string `json:"panNumber"`
	CitizenshipNumber *string `json:"citizenshipNumber"`
	NIDNumber         *string `json:"nidNumber"`
}
