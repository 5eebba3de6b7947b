package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"auction-client/internal/auctionerrors"
	model "auction-client/internal/models"
	"auction-client/utils"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"
)

// TokenSource supplies the opaque session credential and is told when the
// backend rejects it. *session.Gate satisfies this.
type TokenSource interface {
	Token() string
	Invalidate()
}

// Client is the fetch layer: a typed HTTP client for the auction backend. It
// owns no view state; every call is a plain request/response pair that the
// caller may abandon through its context.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	// maxTries bounds the backoff retry loop for idempotent GETs.
	maxTries uint
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 15 * time.Second},
		tokens:   tokens,
		maxTries: 3,
	}
}

// AuctionDraft carries the editable fields of an auction listing.
type AuctionDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	StartingBid decimal.Decimal `json:"startingBid"`
	EndDate     time.Time       `json:"endDate"`
}

type placeBidRequest struct {
	AuctionItemID string          `json:"auctionItemId"`
	BidAmount     decimal.Decimal `json:"bidAmount"`
}

// Auction fetches a single auction record.
func (c *Client) Auction(ctx context.Context, id string) (model.AuctionItem, error) {
	var item model.AuctionItem
	if err := c.get(ctx, "/api/auctions/"+id, &item); err != nil {
		return model.AuctionItem{}, fmt.Errorf("fetch auction %s: %w", id, err)
	}
	return item, nil
}

// Bids fetches all bids for an auction, ordered by amount descending.
func (c *Client) Bids(ctx context.Context, auctionID string) ([]model.Bid, error) {
	var bids []model.Bid
	if err := c.get(ctx, "/api/bids/"+auctionID, &bids); err != nil {
		return nil, fmt.Errorf("fetch bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// Winner fetches the winning user of an ended auction. A nil user with a nil
// error means the auction closed without bids.
func (c *Client) Winner(ctx context.Context, auctionID string) (*model.User, error) {
	var res struct {
		Winner json.RawMessage `json:"winner"`
	}
	if err := c.get(ctx, "/api/auctions/winner/"+auctionID, &res); err != nil {
		return nil, fmt.Errorf("fetch winner for auction %s: %w", auctionID, err)
	}

	// The backend encodes "no winner" as an empty string.
	if len(res.Winner) == 0 || string(res.Winner) == `""` || string(res.Winner) == "null" {
		return nil, nil
	}

	var winner model.User
	if err := json.Unmarshal(res.Winner, &winner); err != nil {
		return nil, fmt.Errorf("fetch winner for auction %s: decode: %w", auctionID, err)
	}
	return &winner, nil
}

// PlaceBid submits a bid on an auction.
func (c *Client) PlaceBid(ctx context.Context, auctionID string, amount decimal.Decimal) (model.Bid, error) {
	var bid model.Bid
	err := c.do(ctx, http.MethodPost, "/api/bids", placeBidRequest{AuctionItemID: auctionID, BidAmount: amount}, &bid)
	if err != nil {
		return model.Bid{}, fmt.Errorf("place bid on auction %s: %w", auctionID, err)
	}
	return bid, nil
}

// CreateAuction creates a new listing owned by the current user.
func (c *Client) CreateAuction(ctx context.Context, draft AuctionDraft) (model.AuctionItem, error) {
	var item model.AuctionItem
	if err := c.do(ctx, http.MethodPost, "/api/auctions", draft, &item); err != nil {
		return model.AuctionItem{}, fmt.Errorf("create auction: %w", err)
	}
	return item, nil
}

// UpdateAuction edits an existing listing. Owner-only; once an auction has
// bids its end date may only move later, which the backend enforces.
func (c *Client) UpdateAuction(ctx context.Context, id string, draft AuctionDraft) (model.AuctionItem, error) {
	var item model.AuctionItem
	if err := c.do(ctx, http.MethodPut, "/api/auctions/"+id, draft, &item); err != nil {
		return model.AuctionItem{}, fmt.Errorf("update auction %s: %w", id, err)
	}
	return item, nil
}

// DeleteAuction removes a listing. Owner-only.
func (c *Client) DeleteAuction(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/auctions/"+id, nil, nil); err != nil {
		return fmt.Errorf("delete auction %s: %w", id, err)
	}
	return nil
}

// OwnedAuctions fetches the auctions created by the current user.
func (c *Client) OwnedAuctions(ctx context.Context) ([]model.AuctionItem, error) {
	var res struct {
		AuctionItems []model.AuctionItem `json:"auctionItems"`
	}
	if err := c.get(ctx, "/api/auctions/user", &res); err != nil {
		return nil, fmt.Errorf("fetch owned auctions: %w", err)
	}
	return res.AuctionItems, nil
}

// PlacedBids fetches the bids the current user has placed.
func (c *Client) PlacedBids(ctx context.Context) ([]model.Bid, error) {
	var res struct {
		Bids []model.Bid `json:"bids"`
	}
	if err := c.get(ctx, "/api/bids/user", &res); err != nil {
		return nil, fmt.Errorf("fetch placed bids: %w", err)
	}
	return res.Bids, nil
}

// WonAuctions fetches the ended auctions the current user won.
func (c *Client) WonAuctions(ctx context.Context) ([]model.AuctionItem, error) {
	var res struct {
		WonAuctions []model.AuctionItem `json:"wonAuctions"`
	}
	if err := c.get(ctx, "/api/auctions/won", &res); err != nil {
		return nil, fmt.Errorf("fetch won auctions: %w", err)
	}
	return res.WonAuctions, nil
}

// Me verifies the session credential and returns the profile behind it.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	if err := c.get(ctx, "/api/users/me", &user); err != nil {
		return model.User{}, fmt.Errorf("fetch profile: %w", err)
	}
	return user, nil
}

// Login authenticates and returns the profile plus the jwt cookie value the
// backend set.
func (c *Client) Login(ctx context.Context, username, password string) (model.User, string, error) {
	body := map[string]string{"username": username, "password": password}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/users/login", body)
	if err != nil {
		return model.User{}, "", err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return model.User{}, "", fmt.Errorf("login: %w: %v", auctionerrors.ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return model.User{}, "", fmt.Errorf("login: %w", c.statusError(res))
	}

	var payload struct {
		User model.User `json:"user"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return model.User{}, "", fmt.Errorf("login: decode: %w", err)
	}

	for _, cookie := range res.Cookies() {
		if cookie.Name == "jwt" {
			return payload.User, cookie.Value, nil
		}
	}
	return model.User{}, "", fmt.Errorf("login: backend set no jwt cookie")
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/users/logout", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// get performs an idempotent GET, retrying transport errors and 5xx responses
// with exponential backoff. Non-5xx responses are never retried.
func (c *Client) get(ctx context.Context, path string, out any) error {
	operation := func() (*http.Response, error) {
		req, err := c.newRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		res, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		if res.StatusCode >= http.StatusInternalServerError {
			res.Body.Close()
			return nil, fmt.Errorf("status %d", res.StatusCode)
		}
		return res, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second

	res, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(c.maxTries))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		utils.Warn("fetch: giving up after retries", map[string]any{"path": path, "error": err.Error()})
		return fmt.Errorf("%w: %v", auctionerrors.ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return c.statusError(res)
	}
	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// do performs a non-idempotent request exactly once.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", auctionerrors.ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(res)
	}
	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// statusError maps an error response to the closed error taxonomy, carrying
// the backend's user-visible message. A 401 also invalidates the token
// source, whatever the call was.
func (c *Client) statusError(res *http.Response) error {
	message := "request failed"
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Message != "" {
		message = body.Message
	}

	switch res.StatusCode {
	case http.StatusUnauthorized:
		if c.tokens != nil {
			c.tokens.Invalidate()
		}
		return fmt.Errorf("%w: %s", auctionerrors.ErrUnauthorized, message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", auctionerrors.ErrPermissionDenied, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", auctionerrors.ErrNotFound, message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", auctionerrors.ErrBidTooLow, message)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", auctionerrors.ErrInvalidBid, message)
	default:
		return fmt.Errorf("%w: status %d: %s", auctionerrors.ErrUpstreamUnavailable, res.StatusCode, message)
	}
}
