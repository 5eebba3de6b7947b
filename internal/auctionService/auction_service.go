package auction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-client/internal/auctionerrors"
	"auction-client/internal/ledger"
	"auction-client/internal/lifecycle"
	model "auction-client/internal/models"
	"auction-client/internal/repository"
	"auction-client/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Service implements the backend business logic for the auction marketplace:
// listings, bidding, winner resolution and user authentication.
type Service struct {
	repo  repository.AuctionDB
	users repository.UserDB
	clock lifecycle.Clock
}

// NewService creates a new Service instance
func NewService(repo repository.AuctionDB, users repository.UserDB, clock lifecycle.Clock) *Service {
	return &Service{
		repo:  repo,
		users: users,
		clock: clock,
	}
}

// Draft carries the editable fields of an auction listing.
type Draft struct {
	Title       string
	Description string
	StartingBid decimal.Decimal
	EndDate     time.Time
}

func (d Draft) validate(now time.Time) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("service: %w - title is required", auctionerrors.ErrInvalidAuction)
	}
	if !d.StartingBid.IsPositive() {
		return fmt.Errorf("service: %w - starting bid must be positive", auctionerrors.ErrInvalidAuction)
	}
	if !d.EndDate.After(now) {
		return fmt.Errorf("service: %w - end date must be in the future", auctionerrors.ErrInvalidAuction)
	}
	return nil
}

// CreateAuction validates a draft and stores it as a new listing owned by
// creatorID.
func (s *Service) CreateAuction(creatorID string, draft Draft) (model.AuctionItem, error) {
	if creatorID == "" {
		return model.AuctionItem{}, fmt.Errorf("service: %w - missing creator", auctionerrors.ErrUnauthorized)
	}
	if err := draft.validate(s.clock()); err != nil {
		return model.AuctionItem{}, err
	}

	item := model.AuctionItem{
		ID:          utils.GenerateID(),
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
		StartingBid: draft.StartingBid,
		EndDate:     draft.EndDate,
		CreatedBy:   creatorID,
	}
	if err := s.repo.CreateAuction(item); err != nil {
		return model.AuctionItem{}, fmt.Errorf("service: failed to create auction: %w", err)
	}
	return item, nil
}

// GetAuction returns one listing.
func (s *Service) GetAuction(id string) (model.AuctionItem, error) {
	if id == "" {
		return model.AuctionItem{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}
	item, err := s.repo.GetAuction(id)
	if err != nil {
		return model.AuctionItem{}, fmt.Errorf("service: failed to get auction %s: %w", id, err)
	}
	return item, nil
}

// UpdateAuction edits a listing. Only the owner may edit, and once a listing
// has bids its end date may only move later.
func (s *Service) UpdateAuction(userID, id string, draft Draft) (model.AuctionItem, error) {
	item, err := s.GetAuction(id)
	if err != nil {
		return model.AuctionItem{}, err
	}
	if item.CreatedBy != userID {
		return model.AuctionItem{}, fmt.Errorf("service: %w - only the creator may edit auction %s", auctionerrors.ErrPermissionDenied, id)
	}
	if err := draft.validate(s.clock()); err != nil {
		return model.AuctionItem{}, err
	}
	if item.HasBids {
		if draft.EndDate.Before(item.EndDate) {
			return model.AuctionItem{}, fmt.Errorf("service: %w - end date may only move later once bids exist", auctionerrors.ErrInvalidAuction)
		}
		if !draft.StartingBid.Equal(item.StartingBid) {
			return model.AuctionItem{}, fmt.Errorf("service: %w - starting bid is fixed once bids exist", auctionerrors.ErrInvalidAuction)
		}
	}

	item.Title = strings.TrimSpace(draft.Title)
	item.Description = draft.Description
	item.StartingBid = draft.StartingBid
	item.EndDate = draft.EndDate

	if err := s.repo.UpdateAuction(item); err != nil {
		return model.AuctionItem{}, fmt.Errorf("service: failed to update auction %s: %w", id, err)
	}
	return item, nil
}

// DeleteAuction removes a listing. Only the owner may delete.
func (s *Service) DeleteAuction(userID, id string) error {
	item, err := s.GetAuction(id)
	if err != nil {
		return err
	}
	if item.CreatedBy != userID {
		return fmt.Errorf("service: %w - only the creator may delete auction %s", auctionerrors.ErrPermissionDenied, id)
	}
	if err := s.repo.DeleteAuction(id); err != nil {
		return fmt.Errorf("service: failed to delete auction %s: %w", id, err)
	}
	return nil
}

// PlaceBid validates and records a user's bid on an auction.
func (s *Service) PlaceBid(auctionID, userID string, amount decimal.Decimal) (model.Bid, error) {
	if auctionID == "" || userID == "" {
		return model.Bid{}, fmt.Errorf("service: %w - missing auctionID or userID", auctionerrors.ErrInvalidBid)
	}

	item, err := s.repo.GetAuction(auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	existing, err := s.repo.BidsByAuction(auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}

	now := s.clock()
	bid := model.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: auctionID,
		BidderID:  userID,
		Amount:    amount,
		PlacedAt:  now.UTC(),
	}

	l := ledger.Load(item, existing)
	if err := l.Add(bid, now); err != nil {
		return model.Bid{}, fmt.Errorf("service: %w", err)
	}

	if err := s.repo.RecordBid(bid); err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to record bid for auction %s by user %s: %w", auctionID, userID, err)
	}
	return bid, nil
}

// BidsForAuction returns an auction's bids ordered by amount descending.
func (s *Service) BidsForAuction(auctionID string) ([]model.Bid, error) {
	item, err := s.GetAuction(auctionID)
	if err != nil {
		return nil, err
	}
	bids, err := s.repo.BidsByAuction(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}
	return ledger.Load(item, bids).Sorted(), nil
}

// Winner resolves the winning user of an auction. It returns nil with no
// error while the auction is still open or when it closed without bids.
func (s *Service) Winner(auctionID string) (*model.User, error) {
	item, err := s.GetAuction(auctionID)
	if err != nil {
		return nil, err
	}
	bids, err := s.repo.BidsByAuction(auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}

	ev := lifecycle.Evaluate(item, ledger.Load(item, bids), s.clock())
	if ev.Winner == nil {
		return nil, nil
	}

	user, err := s.users.UserByID(ev.Winner.BidderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to resolve winner of auction %s: %w", auctionID, err)
	}
	return &user, nil
}

// OwnedAuctions returns the listings created by a user.
func (s *Service) OwnedAuctions(userID string) ([]model.AuctionItem, error) {
	items, err := s.repo.AuctionsByCreator(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get auctions for user %s: %w", userID, err)
	}
	return items, nil
}

// BidsByUser returns all bids a user has placed.
func (s *Service) BidsByUser(userID string) ([]model.Bid, error) {
	bids, err := s.repo.BidsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for user %s: %w", userID, err)
	}
	return bids, nil
}

// WonAuctions returns the ended auctions whose highest bid belongs to the
// user.
func (s *Service) WonAuctions(userID string) ([]model.AuctionItem, error) {
	items, err := s.repo.ListAuctions()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}

	now := s.clock()
	won := make([]model.AuctionItem, 0)
	for _, item := range items {
		bids, err := s.repo.BidsByAuction(item.ID)
		if err != nil {
			return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", item.ID, err)
		}
		ev := lifecycle.Evaluate(item, ledger.Load(item, bids), now)
		if ev.Winner != nil && ev.Winner.BidderID == userID {
			won = append(won, item)
		}
	}
	return won, nil
}

// Authenticate checks a username/password pair against the stored hash.
func (s *Service) Authenticate(username, password string) (model.User, error) {
	user, hash, err := s.users.UserByUsername(username)
	if err != nil {
		if errors.Is(err, auctionerrors.ErrNotFound) {
			return model.User{}, fmt.Errorf("service: %w - unknown user", auctionerrors.ErrUnauthorized)
		}
		return model.User{}, fmt.Errorf("service: failed to look up user %s: %w", username, err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return model.User{}, fmt.Errorf("service: %w - wrong password", auctionerrors.ErrUnauthorized)
	}
	return user, nil
}

// UserByID returns a user's profile.
func (s *Service) UserByID(id string) (model.User, error) {
	user, err := s.users.UserByID(id)
	if err != nil {
		return model.User{}, fmt.Errorf("service: failed to get user %s: %w", id, err)
	}
	return user, nil
}

// RegisterUser stores a user with a bcrypt-hashed password. Used for seeding
// and tests.
func (s *Service) RegisterUser(username, password string) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("service: failed to hash password: %w", err)
	}
	user := model.User{UserID: utils.GenerateID(), Username: username}
	if err := s.users.AddUser(user, hash); err != nil {
		return model.User{}, fmt.Errorf("service: failed to add user %s: %w", username, err)
	}
	return user, nil
}
