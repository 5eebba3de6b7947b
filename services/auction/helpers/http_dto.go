package helpers

import "github.com/shopspring/decimal"

// UserIDKey is the gin context key the auth middleware stores the
// authenticated user id under.
const UserIDKey = "userID"

// Request DTOs
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PlaceBidRequest struct {
	AuctionItemID string          `json:"auctionItemId" binding:"required"`
	BidAmount     decimal.Decimal `json:"bidAmount" binding:"required"`
}

type AuctionRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	StartingBid decimal.Decimal `json:"startingBid" binding:"required"`
	EndDate     string          `json:"endDate" binding:"required"`
}
