package bookrequest

import "errors"

var (
	ErrRequestNotFound = errors.New("book request not found")
	ErrInvalidState    = errors.New("invalid request state for this action")
	ErrCommentRequired = errors.New("rejection requires a comment")
	ErrValidation      = errors.New("title and author are required")
)
