package campaign

import (
	"errors"
	"time"
)

var (
	ErrInvalidRequest       = errors.New("invalid campaign request")
	ErrSchedulingInfeasible = errors.New("no valid send time")
	ErrCampaignInProgress   = errors.New("a batch is already in progress")
)

type EmailType string

const (
	TypeCold     EmailType = "cold"
	TypeReferral EmailType = "referral"
	TypeHR       EmailType = "hr"
)

func (t EmailType) Valid() bool {
	switch t {
	case TypeCold, TypeReferral, TypeHR:
		return true
	}
	return false
}

type CompanyDetails struct {
	CompanyName string `json:"companyName"`
	Position    string `json:"position"`
	JobID       string `json:"jobId"`
}

type Request struct {
	Emails         []string       `json:"emails"         binding:"required,min=1"`
	EmailType      EmailType      `json:"emailType"      binding:"required,oneof=cold referral hr"`
	CompanyDetails CompanyDetails `json:"companyDetails"`
	DaysToDelay    int            `json:"daysToDelay"    binding:"min=0,max=30"`
	SenderName     string         `json:"senderName"`
}

type Ack struct {
	Message       string    `json:"message"`
	CampaignID    string    `json:"campaignId"`
	EmailType     EmailType `json:"emailType"`
	TotalEmails   int       `json:"totalEmails"`
	DaysToDelay   int       `json:"daysToDelay"`
	ScheduledDate string    `json:"scheduledDate"`
	FirstSendAt   time.Time `json:"firstSendAt"`
}

const (
	StatusSent  = "sent"
	StatusError = "error"
)

type EmailOutcome struct {
	Email        string    `json:"email"`
	Time         time.Time `json:"time"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	EmailType    EmailType `json:"emailType"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

// State is the progress snapshot polled by clients. Total counts outcomes
// recorded so far, not the submitted batch size.
type State struct {
	Sent      int  `json:"sent"`
	Failed    int  `json:"failed"`
	Total     int  `json:"total"`
	AllDone   bool `json:"allDone"`
	HasErrors bool `json:"hasErrors"`
}
