package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-client/internal/auctionerrors"
	model "auction-client/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Helper to create an auction item
func newItem(id, creator string, startingBid int64) model.AuctionItem {
	return model.AuctionItem{
		ID:          id,
		Title:       fmt.Sprintf("Listing %s", id),
		Description: fmt.Sprintf("%s description", id),
		StartingBid: decimal.NewFromInt(startingBid),
		EndDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy:   creator,
	}
}

// Helper to create a bid
func newBid(bidID, auctionID, bidderID string, amount int64, placedAt time.Time) model.Bid {
	return model.Bid{
		BidID:     bidID,
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    decimal.NewFromInt(amount),
		PlacedAt:  placedAt,
	}
}

// Test auction CRUD
func TestMemoryRepo_AuctionLifecycle(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	item := newItem("auction1", "user1", 50)

	require.NoError(t, repo.CreateAuction(item))
	require.Error(t, repo.CreateAuction(item), "duplicate id")

	got, err := repo.GetAuction("auction1")
	require.NoError(t, err)
	require.Equal(t, item.Title, got.Title)

	_, err = repo.GetAuction("missing")
	require.ErrorIs(t, err, auctionerrors.ErrNotFound)

	item.Title = "Renamed"
	require.NoError(t, repo.UpdateAuction(item))
	got, err = repo.GetAuction("auction1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Title)

	require.NoError(t, repo.DeleteAuction("auction1"))
	require.ErrorIs(t, repo.DeleteAuction("auction1"), auctionerrors.ErrNotFound)
	_, err = repo.GetAuction("auction1")
	require.ErrorIs(t, err, auctionerrors.ErrNotFound)
}

// Test RecordBid
func TestMemoryRepo_RecordBid(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateAuction(newItem("auction1", "user1", 50)))

	now := time.Now().UTC()

	tests := []struct {
		name      string
		bid       model.Bid
		wantError bool
	}{
		{name: "valid_bid", bid: newBid("bid1", "auction1", "user2", 100, now), wantError: false},
		{name: "auction_not_found", bid: newBid("bid2", "missing", "user2", 100, now), wantError: true},
		{name: "empty_auctionID", bid: newBid("bid3", "", "user2", 100, now), wantError: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := repo.RecordBid(tc.bid)
			if tc.wantError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				bids, err := repo.BidsByAuction(tc.bid.AuctionID)
				require.NoError(t, err)
				require.Contains(t, bids, tc.bid)
			}
		})
	}

	// Recording a bid flips HasBids on the auction.
	got, err := repo.GetAuction("auction1")
	require.NoError(t, err)
	require.True(t, got.HasBids)
}

func TestMemoryRepo_DeleteAuctionDropsBids(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateAuction(newItem("auction1", "user1", 50)))
	require.NoError(t, repo.RecordBid(newBid("bid1", "auction1", "user2", 100, time.Now())))

	require.NoError(t, repo.DeleteAuction("auction1"))

	_, err := repo.BidsByAuction("auction1")
	require.ErrorIs(t, err, auctionerrors.ErrNotFound)

	bids, err := repo.BidsByUser("user2")
	require.NoError(t, err)
	require.Empty(t, bids)
}

func TestMemoryRepo_PerUserQueries(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateAuction(newItem("auction1", "creator1", 50)))
	require.NoError(t, repo.CreateAuction(newItem("auction2", "creator1", 30)))
	require.NoError(t, repo.CreateAuction(newItem("auction3", "creator2", 10)))

	now := time.Now().UTC()
	require.NoError(t, repo.RecordBid(newBid("bid1", "auction1", "bidder1", 60, now)))
	require.NoError(t, repo.RecordBid(newBid("bid2", "auction3", "bidder1", 20, now)))
	require.NoError(t, repo.RecordBid(newBid("bid3", "auction3", "bidder2", 25, now)))

	owned, err := repo.AuctionsByCreator("creator1")
	require.NoError(t, err)
	require.Len(t, owned, 2)

	none, err := repo.AuctionsByCreator("stranger")
	require.NoError(t, err)
	require.Empty(t, none)

	bids, err := repo.BidsByUser("bidder1")
	require.NoError(t, err)
	require.Len(t, bids, 2)

	all, err := repo.ListAuctions()
	require.NoError(t, err)
	require.Len(t, all, 3)
}

// Test user storage
func TestMemoryRepo_Users(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	alice := model.User{UserID: "user1", Username: "alice"}

	require.NoError(t, repo.AddUser(alice, []byte("hash")))
	require.Error(t, repo.AddUser(model.User{UserID: "user2", Username: "alice"}, []byte("other")), "duplicate username")

	got, hash, err := repo.UserByUsername("alice")
	require.NoError(t, err)
	require.Equal(t, "user1", got.UserID)
	require.Equal(t, []byte("hash"), hash)

	_, _, err = repo.UserByUsername("nobody")
	require.ErrorIs(t, err, auctionerrors.ErrNotFound)

	byID, err := repo.UserByID("user1")
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)
}

// Concurrent writers and readers must not race.
func TestMemoryRepo_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateAuction(newItem("auction1", "user1", 50)))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = repo.RecordBid(newBid(fmt.Sprintf("bid%d", i), "auction1", "user2", int64(60+i), time.Now()))
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.BidsByAuction("auction1")
		}()
	}
	wg.Wait()

	bids, err := repo.BidsByAuction("auction1")
	require.NoError(t, err)
	require.Len(t, bids, 20)
}
