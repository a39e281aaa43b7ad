package model

import "time"

// OutcomeEvent is published to the outcome queue once per recipient.
type OutcomeEvent struct {
	CampaignID   string    `json:"campaign_id"`
	Email        string    `json:"email"`
	EmailType    string    `json:"email_type"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	ScheduledFor time.Time `json:"scheduled_for"`
	AttemptedAt  time.Time `json:"attempted_at"`
}
