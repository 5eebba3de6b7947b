package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a participant in the marketplace
type User struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AuctionItem represents a single auction listing
type AuctionItem struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartingBid decimal.Decimal `json:"startingBid"`
	EndDate     time.Time       `json:"endDate"`
	CreatedBy   string          `json:"createdBy"`
	HasBids     bool            `json:"hasBids"`
}

// Bid represents a user's offer on an auction item
type Bid struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"bidAmount"`
	PlacedAt  time.Time       `json:"placed_at"`
}
