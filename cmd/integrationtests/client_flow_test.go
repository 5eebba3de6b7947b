package integrationtests

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"auction-client/internal/fetch"
	"auction-client/internal/lifecycle"
	model "auction-client/internal/models"
	"auction-client/internal/profile"
	"auction-client/internal/session"
	"auction-client/internal/view"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// TestClientFlow drives the typed HTTP client against a live router: log in,
// place a bid, assemble the auction view and the profile page.
func TestClientFlow(t *testing.T) {
	router, service, _, issuer := SetupTestRouter(t)
	alice, _ := SeedUser(t, service, issuer, "alice", "password1")
	_, _ = SeedUser(t, service, issuer, "bob", "password2")

	item, err := service.CreateAuction(alice.UserID, draft("Vintage camera", 100, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	defer srv.Close()

	gate := session.NewGate()
	client := fetch.NewClient(srv.URL, gate)
	ctx := context.Background()

	t.Run("Login_Authenticates_The_Gate", func(t *testing.T) {
		user, token, err := client.Login(ctx, "bob", "password2")
		require.NoError(t, err)
		require.Equal(t, "bob", user.Username)
		require.NotEmpty(t, token)

		gate.Login(user, token)
		require.Equal(t, session.Authenticated, gate.State())
		require.Equal(t, session.Allow, gate.Decide())
	})

	t.Run("Place_Bid_And_Assemble_View", func(t *testing.T) {
		bid, err := client.PlaceBid(ctx, item.ID, decimal.NewFromInt(150))
		require.NoError(t, err)
		require.True(t, bid.Amount.Equal(decimal.NewFromInt(150)))

		v, err := view.Load(ctx, client, time.Now, item.ID, 10)
		require.NoError(t, err)
		require.Equal(t, item.ID, v.Item.ID)

		highest, ok := v.HighestBid()
		require.True(t, ok)
		require.True(t, highest.Amount.Equal(decimal.NewFromInt(150)))
		require.Equal(t, lifecycle.Open, v.Eval.State)
	})

	t.Run("Profile_Aggregates_All_Sections", func(t *testing.T) {
		p, err := profile.Aggregate(ctx, client, 3)
		require.NoError(t, err)
		require.NoError(t, p.FirstError())
		require.Len(t, p.Placed.Window().Items, 1)
		require.Empty(t, p.Owned.Window().Items)
	})

	t.Run("Me_Round_Trips_The_Session", func(t *testing.T) {
		me, err := client.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, "bob", me.Username)
	})

	t.Run("Rejected_Credential_Anonymizes_The_Gate", func(t *testing.T) {
		expired, err := issuer.Issue("ghost", time.Now().Add(-2*time.Hour))
		require.NoError(t, err)

		staleGate := session.NewGate()
		staleGate.Login(model.User{UserID: "ghost", Username: "ghost"}, expired)
		require.Equal(t, session.Authenticated, staleGate.State())
		staleClient := fetch.NewClient(srv.URL, staleGate)

		_, err = staleClient.Me(ctx)
		require.Error(t, err)
		require.Equal(t, session.Anonymous, staleGate.State())
		require.Equal(t, session.Redirect, staleGate.Decide())
	})
}
