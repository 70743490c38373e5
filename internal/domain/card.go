package domain

import "time"

type Challenge string

const (
	ChallengePin      Challenge = "pin"
	ChallengeWrongPin Challenge = "wrong-pin"
)

// Card is the public view of an NFC card. The PIN never leaves the backend.
type Card struct {
	Serial    string    `json:"serial"`
	Project   *string   `json:"project"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Owner     *string   `json:"owner"`
}

type CardLookup struct {
	Card      *Card      `json:"card"`
	Challenge *Challenge `json:"challenge"`
	Status    int        `json:"status"`
}
