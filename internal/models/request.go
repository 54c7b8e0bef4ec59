package models

import "time"

// Request status constants
const (
	RequestStatusPending = "pending"
)

// Contact request types
const (
	ContactTypeGeneral = "general"
	ContactTypeReport  = "report"
)

// Data removal types
const (
	RemovalTypeAccount  = "account"
	RemovalTypeLinks    = "links"
	RemovalTypeSpecific = "specific"
)

// ContactRequest is a message sent by a user to the site operators.
type ContactRequest struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	RequestType string    `json:"request_type"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	UserEmail   string    `json:"user_email"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// RemovalRequest asks the operators to remove a user's data.
type RemovalRequest struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	RemovalType   string    `json:"removal_type"`
	SpecificLinks []int64   `json:"specific_links"`
	Reason        string    `json:"reason"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserRequests is everything a user has filed.
type UserRequests struct {
	ContactRequests []ContactRequest `json:"contact_requests"`
	RemovalRequests []RemovalRequest `json:"removal_requests"`
}

// IsValidRemovalType reports whether t names a supported removal type.
func IsValidRemovalType(t string) bool {
	switch t {
	case RemovalTypeAccount, RemovalTypeLinks, RemovalTypeSpecific:
		return true
	}
	return false
}

// RemovalConfirmation is the message shown after a removal request is filed.
func RemovalConfirmation(removalType string) string {
	switch removalType {
	case RemovalTypeAccount:
		return "Your account deletion request has been received and will be processed within 72 hours as required by data protection regulations."
	case RemovalTypeLinks:
		return "Your request to remove all your shared links has been received and will be processed within 72 hours."
	default:
		return "Your request to remove specific links has been received and will be processed within 72 hours."
	}
}
