package view

import (
	"context"
	"fmt"

	"auction-client/internal/ledger"
	"auction-client/internal/lifecycle"
	model "auction-client/internal/models"
	"auction-client/internal/pagination"
	"auction-client/utils"
)

// Fetcher is the slice of the fetch layer the auction detail page needs.
type Fetcher interface {
	Auction(ctx context.Context, id string) (model.AuctionItem, error)
	Bids(ctx context.Context, auctionID string) ([]model.Bid, error)
	Winner(ctx context.Context, auctionID string) (*model.User, error)
}

// AuctionView is the renderable state of one auction detail page: the
// record, its bid ledger, the lifecycle evaluation, and the paginated bid
// list. Bid and winner fetch failures degrade the page instead of killing it;
// only a missing auction record is fatal.
type AuctionView struct {
	Item   model.AuctionItem
	Ledger *ledger.Ledger
	Eval   lifecycle.Evaluation
	Bids   *pagination.View[model.Bid]

	// Winner is the backend's answer once the auction has ended; nil means
	// no winner (or the lookup failed, see WinnerErr).
	Winner    *model.User
	BidsErr   error
	WinnerErr error

	clock lifecycle.Clock
}

// Load assembles the auction detail view. The caller abandons an in-flight
// load by cancelling ctx; a cancelled load returns ctx.Err() and must not be
// rendered.
func Load(ctx context.Context, f Fetcher, clock lifecycle.Clock, auctionID string, pageSize int) (*AuctionView, error) {
	item, err := f.Auction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("load auction view: %w", err)
	}

	v := &AuctionView{Item: item, clock: clock}

	bids, err := f.Bids(ctx, auctionID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The record still renders without its bid history.
		utils.Warn("view: bids unavailable", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		v.BidsErr = err
	}

	v.Ledger = ledger.Load(item, bids)
	v.Bids, err = pagination.NewView(v.Ledger.Sorted(), pageSize)
	if err != nil {
		return nil, fmt.Errorf("load auction view: %w", err)
	}

	v.Eval = lifecycle.Evaluate(item, v.Ledger, clock())
	if v.Eval.State == lifecycle.Ended {
		winner, err := f.Winner(ctx, auctionID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			utils.Warn("view: winner unavailable", map[string]any{
				"auction_id": auctionID,
				"error":      err.Error(),
			})
			v.WinnerErr = err
		}
		v.Winner = winner
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return v, nil
}

// Tick re-evaluates the countdown against the clock. The ticking page calls
// this once a second; crossing the end instant flips the state to Ended.
func (v *AuctionView) Tick() lifecycle.Evaluation {
	v.Eval = lifecycle.Evaluate(v.Item, v.Ledger, v.clock())
	return v.Eval
}

// HighestBid returns the current highest bid, or the zero bid when none
// exist.
func (v *AuctionView) HighestBid() (model.Bid, bool) {
	return v.Ledger.Highest()
}

// IsCreator reports whether the given user owns this listing and therefore
// sees edit/delete instead of the bid button.
func (v *AuctionView) IsCreator(userID string) bool {
	return userID != "" && v.Item.CreatedBy == userID
}

// CanBid reports whether the given user may place a bid right now: the
// auction is open and the user is not the listing's creator.
func (v *AuctionView) CanBid(userID string) bool {
	return v.Eval.State == lifecycle.Open && userID != "" && !v.IsCreator(userID)
}
