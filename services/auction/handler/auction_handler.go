package handler

import (
	"net/http"
	"time"

	auction "auction-client/internal/auctionService"
	"auction-client/internal/auth"
	model "auction-client/internal/models"
	"auction-client/services/auction/helpers"
	"auction-client/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AuctionServiceInterface interface {
	CreateAuction(creatorID string, draft auction.Draft) (model.AuctionItem, error)
	GetAuction(id string) (model.AuctionItem, error)
	UpdateAuction(userID, id string, draft auction.Draft) (model.AuctionItem, error)
	DeleteAuction(userID, id string) error
	PlaceBid(auctionID, userID string, amount decimal.Decimal) (model.Bid, error)
	BidsForAuction(auctionID string) ([]model.Bid, error)
	Winner(auctionID string) (*model.User, error)
	OwnedAuctions(userID string) ([]model.AuctionItem, error)
	BidsByUser(userID string) ([]model.Bid, error)
	WonAuctions(userID string) ([]model.AuctionItem, error)
	Authenticate(username, password string) (model.User, error)
	UserByID(id string) (model.User, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
	tokens  *auth.TokenIssuer
}

func NewAuctionHandler(service AuctionServiceInterface, tokens *auth.TokenIssuer) *AuctionHandler {
	return &AuctionHandler{service: service, tokens: tokens}
}

// GetAuctionHandler handles GET /api/auctions/:id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	id := c.Param("id")
	item, err := h.service.GetAuction(id)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": id, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
	helpers.LogSuccess("GetAuctionHandler", "auction retrieved", map[string]any{"auction_id": id})
}

// GetWinnerHandler handles GET /api/auctions/winner/:id. An open auction
// or one with no bids reports an empty winner rather than an error.
func (h *AuctionHandler) GetWinnerHandler(c *gin.Context) {
	id := c.Param("id")
	winner, err := h.service.Winner(id)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("GetWinnerHandler: error resolving winner", map[string]any{"auction_id": id, "error": err.Error()})
		return
	}

	if winner == nil {
		c.JSON(http.StatusOK, gin.H{"winner": ""})
		return
	}

	c.JSON(http.StatusOK, gin.H{"winner": winner})
	helpers.LogSuccess("GetWinnerHandler", "winner resolved", map[string]any{"auction_id": id, "user_id": winner.UserID})
}

// CreateAuctionHandler handles POST /api/auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.AuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	draft, err := draftFromRequest(req)
	if err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	item, err := h.service.CreateAuction(helpers.UserID(c), draft)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
	helpers.LogSuccess("CreateAuctionHandler", "auction created", map[string]any{
		"auction_id": item.ID,
		"created_by": item.CreatedBy,
	})
}

// UpdateAuctionHandler handles PUT /api/auctions/:id
func (h *AuctionHandler) UpdateAuctionHandler(c *gin.Context) {
	var req helpers.AuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateAuctionHandler", err)
		return
	}

	draft, err := draftFromRequest(req)
	if err != nil {
		helpers.HandleBindError(c, "UpdateAuctionHandler", err)
		return
	}

	id := c.Param("id")
	item, err := h.service.UpdateAuction(helpers.UserID(c), id, draft)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("UpdateAuctionHandler: failed to update auction", map[string]any{"auction_id": id, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
	helpers.LogSuccess("UpdateAuctionHandler", "auction updated", map[string]any{"auction_id": id})
}

// DeleteAuctionHandler handles DELETE /api/auctions/:id
func (h *AuctionHandler) DeleteAuctionHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.DeleteAuction(helpers.UserID(c), id); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("DeleteAuctionHandler: failed to delete auction", map[string]any{"auction_id": id, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "auction deleted"})
	helpers.LogSuccess("DeleteAuctionHandler", "auction deleted", map[string]any{"auction_id": id})
}

// PlaceBidHandler handles POST /api/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	userID := helpers.UserID(c)
	bid, err := h.service.PlaceBid(req.AuctionItemID, userID, req.BidAmount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"auction_id": req.AuctionItemID,
			"user_id":    userID,
			"error":      err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, bid)
	helpers.LogSuccess("PlaceBidHandler", "bid placed", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"user_id":    userID,
		"amount":     bid.Amount.String(),
	})
}

// GetBidsHandler handles GET /api/bids/:id
func (h *AuctionHandler) GetBidsHandler(c *gin.Context) {
	id := c.Param("id")
	bids, err := h.service.BidsForAuction(id)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("GetBidsHandler: error retrieving bids", map[string]any{"auction_id": id, "error": err.Error()})
		return
	}

	if bids == nil {
		bids = []model.Bid{}
	}

	c.JSON(http.StatusOK, bids)
	helpers.LogSuccess("GetBidsHandler", "bids retrieved", map[string]any{"auction_id": id, "count": len(bids)})
}

// GetOwnedAuctionsHandler handles GET /api/auctions/user
func (h *AuctionHandler) GetOwnedAuctionsHandler(c *gin.Context) {
	userID := helpers.UserID(c)
	items, err := h.service.OwnedAuctions(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("GetOwnedAuctionsHandler: error retrieving auctions", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if items == nil {
		items = []model.AuctionItem{}
	}

	c.JSON(http.StatusOK, gin.H{"auctionItems": items})
}

// GetPlacedBidsHandler handles GET /api/bids/user
func (h *AuctionHandler) GetPlacedBidsHandler(c *gin.Context) {
	userID := helpers.UserID(c)
	bids, err := h.service.BidsByUser(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("GetPlacedBidsHandler: error retrieving bids", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if bids == nil {
		bids = []model.Bid{}
	}

	c.JSON(http.StatusOK, gin.H{"bids": bids})
}

// GetWonAuctionsHandler handles GET /api/auctions/won
func (h *AuctionHandler) GetWonAuctionsHandler(c *gin.Context) {
	userID := helpers.UserID(c)
	items, err := h.service.WonAuctions(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("GetWonAuctionsHandler: error retrieving auctions", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	if items == nil {
		items = []model.AuctionItem{}
	}

	c.JSON(http.StatusOK, gin.H{"wonAuctions": items})
}

// LoginHandler handles POST /api/users/login. On success it issues a JWT
// and sets it both as a cookie and in the response body.
func (h *AuctionHandler) LoginHandler(c *gin.Context) {
	var req helpers.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "LoginHandler", err)
		return
	}

	user, err := h.service.Authenticate(req.Username, req.Password)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("LoginHandler: authentication failed", map[string]any{"username": req.Username})
		return
	}

	token, err := h.tokens.Issue(user.UserID, time.Now())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
		utils.Error("LoginHandler: failed to issue token", map[string]any{"error": err.Error()})
		return
	}

	c.SetCookie("jwt", token, int(h.tokens.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	helpers.LogSuccess("LoginHandler", "user logged in", map[string]any{"user_id": user.UserID})
}

// LogoutHandler handles POST /api/users/logout
func (h *AuctionHandler) LogoutHandler(c *gin.Context) {
	c.SetCookie("jwt", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// MeHandler handles GET /api/users/me
func (h *AuctionHandler) MeHandler(c *gin.Context) {
	userID := helpers.UserID(c)
	user, err := h.service.UserByID(userID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, message)
		utils.Warn("MeHandler: error retrieving user", map[string]any{"user_id": userID, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

func draftFromRequest(req helpers.AuctionRequest) (auction.Draft, error) {
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return auction.Draft{}, err
	}
	return auction.Draft{
		Title:       req.Title,
		Description: req.Description,
		StartingBid: req.StartingBid,
		EndDate:     endDate,
	}, nil
}
