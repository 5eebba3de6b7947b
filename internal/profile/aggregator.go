package profile

import (
	"context"
	"fmt"
	"sync"

	model "auction-client/internal/models"
	"auction-client/internal/pagination"
	"auction-client/utils"
)

// Loader is the slice of the fetch layer the profile dashboard needs. The
// three fetches are independent; each may fail on its own.
type Loader interface {
	OwnedAuctions(ctx context.Context) ([]model.AuctionItem, error)
	PlacedBids(ctx context.Context) ([]model.Bid, error)
	WonAuctions(ctx context.Context) ([]model.AuctionItem, error)
}

// Section is one independently fetched, independently paginated collection of
// the profile view.
type Section[T any] struct {
	view *pagination.View[T]
	err  error
}

// OK reports whether this section's fetch succeeded.
func (s *Section[T]) OK() bool {
	return s.err == nil
}

// Err returns the section's fetch failure, or nil.
func (s *Section[T]) Err() error {
	return s.err
}

// Window returns the section's current page. Failed sections yield an empty
// page so the rest of the dashboard still renders.
func (s *Section[T]) Window() pagination.Window[T] {
	return s.view.Window()
}

// SetPage selects a page within the section, clamped into range.
func (s *Section[T]) SetPage(page int) {
	s.view.SetPage(page)
}

// CurrentPage returns the section's selected page.
func (s *Section[T]) CurrentPage() int {
	return s.view.CurrentPage()
}

// TotalPages returns the section's page count.
func (s *Section[T]) TotalPages() int {
	return s.view.TotalPages()
}

// Profile is the aggregated dashboard: the user's own listings, the bids they
// placed, and the auctions they won. Sections fail independently; one failed
// fetch never clears the other two.
type Profile struct {
	Owned  Section[model.AuctionItem]
	Placed Section[model.Bid]
	Won    Section[model.AuctionItem]
}

// Aggregate issues the three profile fetches concurrently and waits for all
// of them to settle. pageSize applies to every section.
func Aggregate(ctx context.Context, loader Loader, pageSize int) (*Profile, error) {
	var (
		wg     sync.WaitGroup
		owned  []model.AuctionItem
		placed []model.Bid
		won    []model.AuctionItem

		ownedErr, placedErr, wonErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		owned, ownedErr = loader.OwnedAuctions(ctx)
	}()
	go func() {
		defer wg.Done()
		placed, placedErr = loader.PlacedBids(ctx)
	}()
	go func() {
		defer wg.Done()
		won, wonErr = loader.WonAuctions(ctx)
	}()
	wg.Wait()

	p := &Profile{}
	var err error
	if p.Owned, err = newSection(owned, pageSize, ownedErr, "owned auctions"); err != nil {
		return nil, err
	}
	if p.Placed, err = newSection(placed, pageSize, placedErr, "placed bids"); err != nil {
		return nil, err
	}
	if p.Won, err = newSection(won, pageSize, wonErr, "won auctions"); err != nil {
		return nil, err
	}
	return p, nil
}

func newSection[T any](items []T, pageSize int, fetchErr error, name string) (Section[T], error) {
	if fetchErr != nil {
		utils.Error("profile: fetch failed", map[string]any{
			"section": name,
			"error":   fetchErr.Error(),
		})
		items = nil
		fetchErr = fmt.Errorf("failed to load %s: %w", name, fetchErr)
	}

	view, err := pagination.NewView(items, pageSize)
	if err != nil {
		return Section[T]{}, err
	}
	return Section[T]{view: view, err: fetchErr}, nil
}

// FirstError returns the user-visible failure in fixed priority order: owned
// listings, then placed bids, then won auctions. Nil when everything loaded.
func (p *Profile) FirstError() error {
	switch {
	case p.Owned.err != nil:
		return p.Owned.err
	case p.Placed.err != nil:
		return p.Placed.err
	case p.Won.err != nil:
		return p.Won.err
	default:
		return nil
	}
}

// DeleteOwned removes a listing from the owned section without waiting for a
// re-fetch, re-clamping that section's page. It reports whether the listing
// was present.
func (p *Profile) DeleteOwned(auctionID string) bool {
	items := p.Owned.view.Items()
	kept := make([]model.AuctionItem, 0, len(items))
	found := false
	for _, item := range items {
		if item.ID == auctionID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if found {
		p.Owned.view.Replace(kept)
	}
	return found
}
