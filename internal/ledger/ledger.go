package ledger

import (
	"fmt"
	"sort"
	"time"

	"auction-client/internal/auctionerrors"
	model "auction-client/internal/models"
)

// Ledger holds the append-only set of bids for a single auction item.
// It is a plain value type: every query recomputes from the bid set, and
// callers owning a Ledger must serialize their own mutations.
type Ledger struct {
	item model.AuctionItem
	bids []model.Bid
}

// New creates an empty ledger for the given auction item.
func New(item model.AuctionItem) *Ledger {
	return &Ledger{item: item}
}

// Load creates a ledger pre-populated with bids already fetched from the
// backend. The bids are trusted as-is; validation applies to new bids only.
func Load(item model.AuctionItem, bids []model.Bid) *Ledger {
	return &Ledger{item: item, bids: append([]model.Bid(nil), bids...)}
}

// Add validates and appends a bid. It rejects non-positive amounts, amounts
// below the starting bid, amounts not exceeding the current highest bid, and
// any bid placed at or after the auction's end date.
func (l *Ledger) Add(bid model.Bid, now time.Time) error {
	if !bid.Amount.IsPositive() {
		return fmt.Errorf("ledger: %w - non-positive bid amount", auctionerrors.ErrInvalidBid)
	}
	if !now.Before(l.item.EndDate) {
		return fmt.Errorf("ledger: %w - no bids after %s", auctionerrors.ErrAuctionEnded, l.item.EndDate.UTC().Format(time.RFC3339))
	}
	if bid.Amount.LessThan(l.item.StartingBid) {
		return fmt.Errorf("ledger: %w - starting bid is %s", auctionerrors.ErrBidTooLow, l.item.StartingBid)
	}
	if highest, ok := l.Highest(); ok && bid.Amount.LessThanOrEqual(highest.Amount) {
		return fmt.Errorf("ledger: %w - current highest bid is %s", auctionerrors.ErrBidTooLow, highest.Amount)
	}

	l.bids = append(l.bids, bid)
	return nil
}

// Highest returns the winning bid: the highest amount, ties broken by the
// earliest placement. The second return value is false when no bids exist.
func (l *Ledger) Highest() (model.Bid, bool) {
	if len(l.bids) == 0 {
		return model.Bid{}, false
	}

	highest := l.bids[0]
	for _, b := range l.bids[1:] {
		if b.Amount.GreaterThan(highest.Amount) || (b.Amount.Equal(highest.Amount) && b.PlacedAt.Before(highest.PlacedAt)) {
			highest = b
		}
	}
	return highest, true
}

// Rank returns the 1-based position of the bidder's best bid among all bids
// ordered by amount descending, ties by earliest placement. It returns 0 when
// the bidder has no bids in the ledger.
func (l *Ledger) Rank(bidderID string) int {
	ranked := l.Sorted()
	for i, b := range ranked {
		if b.BidderID == bidderID {
			return i + 1
		}
	}
	return 0
}

// Sorted returns a copy of the bids ordered by amount descending, ties by
// earliest placement.
func (l *Ledger) Sorted() []model.Bid {
	out := append([]model.Bid(nil), l.bids...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].PlacedAt.Before(out[j].PlacedAt)
	})
	return out
}

// Len returns the number of bids in the ledger.
func (l *Ledger) Len() int {
	return len(l.bids)
}

// Item returns the auction item this ledger belongs to.
func (l *Ledger) Item() model.AuctionItem {
	return l.item
}
