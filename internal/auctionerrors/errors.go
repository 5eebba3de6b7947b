package auctionerrors

import "errors"

// Bidding errors
var (
	ErrInvalidBid   = errors.New("invalid bid")
	ErrBidTooLow    = errors.New("bid amount too low")
	ErrAuctionEnded = errors.New("auction has ended")
)

// Listing errors
var (
	ErrInvalidAuction = errors.New("invalid auction details")
)

// Lookup and access errors
var (
	ErrNotFound         = errors.New("auction not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
)

// Configuration and upstream errors
var (
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
