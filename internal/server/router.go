package server

import (
	auction "auction-client/internal/auctionService"
	"auction-client/internal/auth"
	handler "auction-client/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService *auction.Service, issuer *auth.TokenIssuer) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService, issuer)
	requireAuth := RequireAuth(issuer)

	auctions := router.Group("/api/auctions")
	{
		auctions.GET("/:id", auctionHandler.GetAuctionHandler)
		auctions.GET("/winner/:id", auctionHandler.GetWinnerHandler)
		auctions.GET("/user", requireAuth, auctionHandler.GetOwnedAuctionsHandler)
		auctions.GET("/won", requireAuth, auctionHandler.GetWonAuctionsHandler)
		auctions.POST("", requireAuth, auctionHandler.CreateAuctionHandler)
		auctions.PUT("/:id", requireAuth, auctionHandler.UpdateAuctionHandler)
		auctions.DELETE("/:id", requireAuth, auctionHandler.DeleteAuctionHandler)
	}

	bids := router.Group("/api/bids")
	{
		bids.GET("/user", requireAuth, auctionHandler.GetPlacedBidsHandler)
		bids.GET("/:id", requireAuth, auctionHandler.GetBidsHandler)
		bids.POST("", requireAuth, auctionHandler.PlaceBidHandler)
	}

	users := router.Group("/api/users")
	{
		users.POST("/login", auctionHandler.LoginHandler)
		users.POST("/logout", requireAuth, auctionHandler.LogoutHandler)
		users.GET("/me", requireAuth, auctionHandler.MeHandler)
	}

	return router
}
