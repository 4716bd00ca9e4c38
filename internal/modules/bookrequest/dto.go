package bookrequest

import (
	"time"

	"bookhive/internal/domain"
)

type CreateRequestRequest struct {
	Title        string `json:"title" binding:"required"`
	Author       string `json:"author" binding:"required"`
	ExternalLink string `json:"external_link"`
}

type RejectRequestRequest struct {
	Comment string `json:"comment"`
}

// RequestDetails is a request joined with its requester for the admin list.
type RequestDetails struct {
	ID             int64                `json:"id"`
	Title          string               `json:"title"`
	Author         string               `json:"author"`
	ExternalLink   string               `json:"external_link,omitempty"`
	Status         domain.RequestStatus `json:"status"`
	AdminComment   string               `json:"admin_comment,omitempty"`
	RequesterName  string               `json:"requester_name"`
	RequesterEmail string               `json:"requester_email"`
	CreatedAt      time.Time            `json:"created_at"`
}
