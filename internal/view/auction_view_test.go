package view

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"auction-client/internal/auctionerrors"
	"auction-client/internal/lifecycle"
	model "auction-client/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	item      model.AuctionItem
	itemErr   error
	bids      []model.Bid
	bidsErr   error
	winner    *model.User
	winnerErr error

	winnerCalls int
}

func (s *stubFetcher) Auction(ctx context.Context, id string) (model.AuctionItem, error) {
	return s.item, s.itemErr
}

func (s *stubFetcher) Bids(ctx context.Context, auctionID string) ([]model.Bid, error) {
	return s.bids, s.bidsErr
}

func (s *stubFetcher) Winner(ctx context.Context, auctionID string) (*model.User, error) {
	s.winnerCalls++
	return s.winner, s.winnerErr
}

func fixedClock(at time.Time) lifecycle.Clock {
	return func() time.Time { return at }
}

func openItem(now time.Time) model.AuctionItem {
	return model.AuctionItem{
		ID:          "auction1",
		Title:       "Vintage Camera",
		StartingBid: decimal.NewFromInt(25),
		EndDate:     now.Add(time.Hour),
		CreatedBy:   "owner1",
	}
}

func bidsFixture(now time.Time, n int) []model.Bid {
	bids := make([]model.Bid, n)
	for i := range bids {
		bids[i] = model.Bid{
			BidID:    fmt.Sprintf("bid%d", i+1),
			BidderID: fmt.Sprintf("user%d", i+1),
			Amount:   decimal.NewFromInt(int64(30 + i)),
			PlacedAt: now.Add(time.Duration(i) * time.Minute),
		}
	}
	return bids
}

func TestLoad_OpenAuction(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &stubFetcher{item: openItem(now), bids: bidsFixture(now, 25)}

	v, err := Load(context.Background(), f, fixedClock(now), "auction1", 10)
	require.NoError(t, err)

	require.Equal(t, lifecycle.Open, v.Eval.State)
	require.Nil(t, v.Winner)
	require.Zero(t, f.winnerCalls, "winner is fetched only for ended auctions")

	highest, ok := v.HighestBid()
	require.True(t, ok)
	require.True(t, highest.Amount.Equal(decimal.NewFromInt(54)))

	require.Equal(t, 3, v.Bids.TotalPages())
	require.Equal(t, "bid25", v.Bids.Window().Items[0].BidID, "bids sorted amount-descending")

	require.True(t, v.IsCreator("owner1"))
	require.False(t, v.CanBid("owner1"), "creators cannot bid on their own listing")
	require.True(t, v.CanBid("user1"))
	require.False(t, v.CanBid(""))
}

func TestLoad_EndedAuctionFetchesWinner(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := openItem(now)
	item.EndDate = now.Add(-time.Minute)

	winner := &model.User{UserID: "user3", Username: "carol"}
	f := &stubFetcher{item: item, bids: bidsFixture(now.Add(-2*time.Hour), 3), winner: winner}

	v, err := Load(context.Background(), f, fixedClock(now), "auction1", 10)
	require.NoError(t, err)

	require.Equal(t, lifecycle.Ended, v.Eval.State)
	require.True(t, v.Eval.Remaining.IsZero())
	require.Equal(t, 1, f.winnerCalls)
	require.Equal(t, "carol", v.Winner.Username)
	require.False(t, v.CanBid("user1"))
}

func TestLoad_MissingAuctionIsFatal(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{itemErr: auctionerrors.ErrNotFound}
	_, err := Load(context.Background(), f, fixedClock(time.Now()), "missing", 10)
	require.ErrorIs(t, err, auctionerrors.ErrNotFound)
}

// A failed bid fetch degrades the page instead of killing it.
func TestLoad_BidsFailureTolerated(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &stubFetcher{item: openItem(now), bidsErr: auctionerrors.ErrUnauthorized}

	v, err := Load(context.Background(), f, fixedClock(now), "auction1", 10)
	require.NoError(t, err)
	require.ErrorIs(t, v.BidsErr, auctionerrors.ErrUnauthorized)

	_, ok := v.HighestBid()
	require.False(t, ok)
	require.Equal(t, "Vintage Camera", v.Item.Title)
}

func TestLoad_WinnerFailureTolerated(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := openItem(now)
	item.EndDate = now.Add(-time.Minute)

	f := &stubFetcher{item: item, bids: bidsFixture(now.Add(-2*time.Hour), 2), winnerErr: errors.New("boom")}

	v, err := Load(context.Background(), f, fixedClock(now), "auction1", 10)
	require.NoError(t, err)
	require.Error(t, v.WinnerErr)
	require.Nil(t, v.Winner)
	require.Equal(t, lifecycle.Ended, v.Eval.State)
}

// A cancelled load is discarded, never rendered.
func TestLoad_CancelledContext(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &stubFetcher{item: openItem(now), bidsErr: context.Canceled}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, f, fixedClock(now), "auction1", 10)
	require.ErrorIs(t, err, context.Canceled)
}

// Crossing the end instant on a tick flips the state to Ended.
func TestTick(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	item := openItem(now)
	item.EndDate = now.Add(2 * time.Second)

	current := now
	clock := func() time.Time { return current }

	f := &stubFetcher{item: item}
	v, err := Load(context.Background(), f, clock, "auction1", 10)
	require.NoError(t, err)
	require.Equal(t, lifecycle.Open, v.Eval.State)
	require.Equal(t, 2, v.Eval.Remaining.Seconds)

	current = now.Add(3 * time.Second)
	ev := v.Tick()
	require.Equal(t, lifecycle.Ended, ev.State)
	require.True(t, ev.Remaining.IsZero())
}
