package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/immxrtalbeast/basha_lagbe/internal/pubsub"
	"github.com/immxrtalbeast/basha_lagbe/internal/repository"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
	"github.com/immxrtalbeast/basha_lagbe/internal/storage"
	"github.com/immxrtalbeast/basha_lagbe/lib/logger/slogdiscard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	store  *repository.Store
	images *storage.MemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())

	log := slogdiscard.NewDiscardLogger()
	store := repository.NewInMemoryStore()
	broker := pubsub.NewMemoryBroker(16)
	t.Cleanup(func() { _ = broker.Close() })
	images := storage.NewMemoryStorage("http://images.test", "listing-images")

	notifier := service.NewNotifier(broker, log)
	auth := service.NewAuthService(store.Users, "test-secret", time.Hour, log)
	bookings := service.NewBookingService(store, notifier, log)
	leases := service.NewLeaseService(store.LeaseRequests, store.Listings, store.Users, bookings, notifier, log)
	origins := []string{"http://localhost:3000"}

	router := SetupRouter(origins, log, auth, Controllers{
		Users:       NewUserController(auth, service.NewUserService(store.Users, log), log),
		Listings:    NewListingController(service.NewListingService(store.Listings, store.LeaseRequests, images, 1<<20, log), log),
		Leases:      NewLeaseController(leases, bookings, log),
		Chat:        NewChatController(service.NewChatService(store, broker, notifier, log), origins, 50*time.Millisecond, log),
		Communities: NewCommunityController(service.NewCommunityService(store, log), log),
	})

	return &testServer{router: router, store: store, images: images}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type account struct {
	ID    uuid.UUID
	Token string
}

func (s *testServer) signup(t *testing.T, name, role string) account {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret1",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
	}
	decode(t, rec, &resp)
	return account{ID: resp.User.ID, Token: resp.Token}
}

func (s *testServer) createListing(t *testing.T, owner account) uuid.UUID {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/listings", owner.Token, gin.H{
		"title":         "Two bed flat",
		"city":          "Dhaka",
		"area":          "Dhanmondi",
		"bedrooms":      2,
		"pricePerMonth": 25000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Listing struct {
			ID uuid.UUID `json:"id"`
		} `json:"listing"`
	}
	decode(t, rec, &resp)
	return resp.Listing.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rec, &resp)
	return resp.Error
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	renter := srv.signup(t, "rahim", "renter")
	rec = srv.do(t, http.MethodGet, "/api/users/me", renter.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me?token="+renter.Token, nil)
	rec = httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupLoginAndRoleChange(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "x", "email": "x@example.com", "password": "123", "role": "renter"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password must be at least 6", errorOf(t, rec))

	renter := srv.signup(t, "rahim", "renter")

	rec = srv.do(t, http.MethodPost, "/api/auth/signup", "", gin.H{"name": "r", "email": "rahim@example.com", "password": "secret1", "role": "owner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "rahim@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "rahim@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/listings", renter.Token, gin.H{"title": "t", "city": "Dhaka", "pricePerMonth": 100})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/users/me/role", renter.Token, gin.H{"role": "owner"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)

	rec = srv.do(t, http.MethodPost, "/api/listings", resp.Token, gin.H{"title": "t", "city": "Dhaka", "pricePerMonth": 100})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// the token issued before the change acts with the stored role
	other := srv.signup(t, "karim", "owner")
	rec = srv.do(t, http.MethodPost, "/api/leaseRequests", renter.Token, gin.H{"listingId": srv.createListing(t, other)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = srv.do(t, http.MethodPost, "/api/listings", renter.Token, gin.H{"title": "t2", "city": "Dhaka", "pricePerMonth": 100})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.do(t, http.MethodPatch, "/api/users/me/role", resp.Token, gin.H{"role": "renter"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSearchListings(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.signup(t, "karim", "owner")
	id := srv.createListing(t, owner)

	rec := srv.do(t, http.MethodGet, "/api/listings?city=dhaka&bedrooms=2&sort=price_asc", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Listings []struct {
			ID uuid.UUID `json:"id"`
		} `json:"listings"`
	}
	decode(t, rec, &resp)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, id, resp.Listings[0].ID)

	rec = srv.do(t, http.MethodGet, "/api/listings?sort=cheapest", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/listings/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/listings/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/users/me/listings", owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.Len(t, resp.Listings, 1)
}
