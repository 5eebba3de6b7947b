package repository

import (
	"fmt"
	"sync"

	"auction-client/internal/auctionerrors"
	model "auction-client/internal/models"
)

// AuctionDB defines the auction and bid storage interface for the backend
type AuctionDB interface {
	CreateAuction(item model.AuctionItem) error
	GetAuction(id string) (model.AuctionItem, error)
	UpdateAuction(item model.AuctionItem) error
	DeleteAuction(id string) error
	ListAuctions() ([]model.AuctionItem, error)
	AuctionsByCreator(userID string) ([]model.AuctionItem, error)
	RecordBid(bid model.Bid) error
	BidsByAuction(auctionID string) ([]model.Bid, error)
	BidsByUser(userID string) ([]model.Bid, error)
}

// UserDB defines the user storage interface for the backend
type UserDB interface {
	AddUser(user model.User, passwordHash []byte) error
	UserByUsername(username string) (model.User, []byte, error)
	UserByID(id string) (model.User, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB and
// UserDB
type MemoryRepo struct {
	mu       sync.RWMutex
	auctions map[string]model.AuctionItem // key: auctionID
	bids     map[string][]model.Bid       // key: auctionID -> bids in placement order
	users    map[string]model.User        // key: userID
	byName   map[string]string            // key: username -> userID
	hashes   map[string][]byte            // key: userID -> bcrypt hash
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions: make(map[string]model.AuctionItem),
		bids:     make(map[string][]model.Bid),
		users:    make(map[string]model.User),
		byName:   make(map[string]string),
		hashes:   make(map[string][]byte),
	}
}

// CreateAuction stores a new auction listing
func (r *MemoryRepo) CreateAuction(item model.AuctionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[item.ID]; ok {
		return fmt.Errorf("create auction %s: already exists", item.ID)
	}
	r.auctions[item.ID] = item
	return nil
}

// GetAuction returns one auction listing
func (r *MemoryRepo) GetAuction(id string) (model.AuctionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.auctions[id]
	if !ok {
		return model.AuctionItem{}, fmt.Errorf("get auction %s: %w", id, auctionerrors.ErrNotFound)
	}
	return item, nil
}

// UpdateAuction replaces a stored auction listing
func (r *MemoryRepo) UpdateAuction(item model.AuctionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[item.ID]; !ok {
		return fmt.Errorf("update auction %s: %w", item.ID, auctionerrors.ErrNotFound)
	}
	r.auctions[item.ID] = item
	return nil
}

// DeleteAuction removes a listing and its bids
func (r *MemoryRepo) DeleteAuction(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[id]; !ok {
		return fmt.Errorf("delete auction %s: %w", id, auctionerrors.ErrNotFound)
	}
	delete(r.auctions, id)
	delete(r.bids, id)
	return nil
}

// ListAuctions returns all auction listings
func (r *MemoryRepo) ListAuctions() ([]model.AuctionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.AuctionItem, 0, len(r.auctions))
	for _, item := range r.auctions {
		items = append(items, item)
	}
	return items, nil
}

// AuctionsByCreator returns the listings created by one user
func (r *MemoryRepo) AuctionsByCreator(userID string) ([]model.AuctionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.AuctionItem, 0)
	for _, item := range r.auctions {
		if item.CreatedBy == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

// RecordBid appends a bid to its auction and marks the auction as bid on
func (r *MemoryRepo) RecordBid(bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.auctions[bid.AuctionID]
	if !ok {
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrNotFound)
	}

	r.bids[bid.AuctionID] = append(r.bids[bid.AuctionID], bid)

	if !item.HasBids {
		item.HasBids = true
		r.auctions[bid.AuctionID] = item
	}
	return nil
}

// BidsByAuction returns all bids for an auction in placement order
func (r *MemoryRepo) BidsByAuction(auctionID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, auctionerrors.ErrNotFound)
	}
	return append([]model.Bid(nil), r.bids[auctionID]...), nil
}

// BidsByUser returns all bids one user has placed across auctions
func (r *MemoryRepo) BidsByUser(userID string) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Bid, 0)
	for _, bids := range r.bids {
		for _, b := range bids {
			if b.BidderID == userID {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

// AddUser stores a user and their password hash
func (r *MemoryRepo) AddUser(user model.User, passwordHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.Username]; ok {
		return fmt.Errorf("add user %s: already exists", user.Username)
	}
	r.users[user.UserID] = user
	r.byName[user.Username] = user.UserID
	r.hashes[user.UserID] = passwordHash
	return nil
}

// UserByUsername returns a user and their password hash
func (r *MemoryRepo) UserByUsername(username string) (model.User, []byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return model.User{}, nil, fmt.Errorf("get user %s: %w", username, auctionerrors.ErrNotFound)
	}
	return r.users[id], r.hashes[id], nil
}

// UserByID returns a user by id
func (r *MemoryRepo) UserByID(id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", id, auctionerrors.ErrNotFound)
	}
	return user, nil
}
