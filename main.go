package main

import (
	"fmt"
	"os"
	"time"

	auction "auction-client/internal/auctionService"
	"auction-client/internal/auth"
	"auction-client/internal/config"
	"auction-client/internal/lifecycle"
	"auction-client/internal/repository"
	"auction-client/internal/server"
	"auction-client/utils"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "AUCTION_AUTH_JWTSECRET is required")
		os.Exit(1)
	}

	issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create token issuer: %v\n", err)
		os.Exit(1)
	}

	repo := repository.NewMemoryRepo()
	auctionSvc := auction.NewService(repo, repo, lifecycle.Clock(time.Now))

	prepopulate(auctionSvc)

	router := server.SetupRouter(auctionSvc, issuer)

	fmt.Printf("Starting auction server on %s...\n", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// prepopulate seeds sample users and listings into the in-memory repo
func prepopulate(svc *auction.Service) {
	alice, err := svc.RegisterUser("alice", "password1")
	if err != nil {
		utils.Warn("seed: failed to register user", map[string]any{"username": "alice", "error": err.Error()})
		return
	}
	if _, err := svc.RegisterUser("bob", "password2"); err != nil {
		utils.Warn("seed: failed to register user", map[string]any{"username": "bob", "error": err.Error()})
	}

	drafts := []auction.Draft{
		{Title: "Vintage camera", Description: "1960s rangefinder, working", StartingBid: decimal.NewFromInt(100), EndDate: time.Now().Add(72 * time.Hour)},
		{Title: "Mountain bike", Description: "Hardtail, medium frame", StartingBid: decimal.NewFromInt(250), EndDate: time.Now().Add(48 * time.Hour)},
		{Title: "Record player", Description: "Belt drive turntable", StartingBid: decimal.NewFromInt(80), EndDate: time.Now().Add(24 * time.Hour)},
	}

	for _, d := range drafts {
		if _, err := svc.CreateAuction(alice.UserID, d); err != nil {
			utils.Warn("seed: failed to create auction", map[string]any{"title": d.Title, "error": err.Error()})
		}
	}
}
