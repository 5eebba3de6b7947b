package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	auction "auction-client/internal/auctionService"
	"auction-client/internal/auth"
	"auction-client/internal/lifecycle"
	model "auction-client/internal/models"
	"auction-client/internal/repository"
	"auction-client/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "integration-test-secret"

// SetupTestRouter initializes the router with an in-memory repository for
// integration testing. It returns the service and repo so tests can seed
// state directly.
func SetupTestRouter(t *testing.T) (*gin.Engine, *auction.Service, *repository.MemoryRepo, *auth.TokenIssuer) {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	service := auction.NewService(repo, repo, lifecycle.Clock(time.Now))

	issuer, err := auth.NewTokenIssuer(testJWTSecret, time.Hour)
	require.NoError(t, err)

	router := server.SetupRouter(service, issuer)
	return router, service, repo, issuer
}

// SeedUser registers a user and returns it with a valid session token.
func SeedUser(t *testing.T, service *auction.Service, issuer *auth.TokenIssuer, username, password string) (model.User, string) {
	user, err := service.RegisterUser(username, password)
	require.NoError(t, err)

	token, err := issuer.Issue(user.UserID, time.Now())
	require.NoError(t, err)
	return user, token
}

// ExecuteRequest executes an HTTP request with an optional bearer token and
// returns the response recorder.
func ExecuteRequest(t *testing.T, router *gin.Engine, method, url, token string, body any) *httptest.ResponseRecorder {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ParseResponse unmarshals a JSON object response body.
func ParseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp
}
