package entity

import "errors"

// Domain errors for posts
var (
	// Validation errors
	ErrEmptyOwnerID     = errors.New("owner ID is required")
	ErrEmptyCaption     = errors.New("caption is required")
	ErrCaptionTooLong   = errors.New("caption exceeds maximum length of 2200 characters")
	ErrMissingSchedule  = errors.New("scheduled date and time are required")
	ErrInvalidImageURL  = errors.New("image URL must be an absolute http(s) URL")
	ErrInvalidStatus    = errors.New("invalid post status")
	ErrInvalidAccountID = errors.New("instagram account ID must be a UUID")

	// Business logic errors
	ErrPostNotFound    = errors.New("post not found")
	ErrPostNotEditable = errors.New("only scheduled posts can be edited")
	ErrAccountNotFound = errors.New("instagram account not found")
)
