package domain

import "time"

// Profile is the public profile snapshot the checkout backend attaches to a
// transaction party.
type Profile struct {
	Account     string `json:"account"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ImageMedium string `json:"image_medium"`
	ImageSmall  string `json:"image_small"`
	TokenID     string `json:"token_id"`
}

type Transaction struct {
	ID          string    `json:"id"`
	Hash        string    `json:"hash"`
	Contract    string    `json:"contract"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	FromProfile *Profile  `json:"from_profile,omitempty"`
	ToProfile   *Profile  `json:"to_profile,omitempty"`
}

func (t Transaction) Key() string {
	return t.ID
}

func (t Transaction) StatusValue() string {
	return t.Status
}

func (t Transaction) Created() time.Time {
	return t.CreatedAt
}

func (t Transaction) IsPending() bool {
	return IsPendingStatus(t.Status)
}

func (t Transaction) IsRefunded() bool {
	return IsRefundedStatus(t.Status)
}
