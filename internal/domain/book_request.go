package domain

import "time"

type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestApproved   RequestStatus = "approved"
	RequestRejected   RequestStatus = "rejected"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
)

// requestTransitions is the full lifecycle table. pending may branch to
// approved or rejected; the acquisition path is strictly linear and
// rejected/completed are terminal.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:    {RequestApproved, RequestRejected},
	RequestApproved:   {RequestInProgress},
	RequestInProgress: {RequestCompleted},
}

// CanTransition reports whether a request may move from one status to another.
func CanTransition(from, to RequestStatus) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type BookRequest struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"user_id"`
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	ExternalLink string        `json:"external_link,omitempty"`
	Status       RequestStatus `json:"status"`
	AdminComment string        `json:"admin_comment,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
