package domain

import "time"

// NotificationType tags a notification with the event that produced it.
type NotificationType string

const (
	NotifBorrowConfirmed      NotificationType = "borrow_confirmed"
	NotifBookBorrowed         NotificationType = "book_borrowed"
	NotifBookReturned         NotificationType = "book_returned"
	NotifRequestCreated       NotificationType = "request_created"
	NotifRequestApproved      NotificationType = "request_approved"
	NotifRequestRejected      NotificationType = "request_rejected"
	NotifAcquisitionStarted   NotificationType = "acquisition_started"
	NotifAcquisitionCompleted NotificationType = "acquisition_completed"
	NotifOverdue              NotificationType = "overdue"
	NotifReminder             NotificationType = "reminder"
)

type Notification struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	Type          NotificationType `json:"type"`
	Read          bool             `json:"read"`
	BorrowID      *int64           `json:"borrow_id,omitempty"`
	BookRequestID *int64           `json:"book_request_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
