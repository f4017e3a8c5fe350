package services

import "errors"

var (
	ErrNotFound     = errors.New("record not found")
	ErrSoldOut      = errors.New("ticket type is sold out")
	ErrTicketStatus = errors.New("ticket is not in a valid status for this operation")
)
