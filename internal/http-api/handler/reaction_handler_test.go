package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookhub/internal/http-api/dto"
	"bookhub/internal/http-api/handler"
	"bookhub/internal/http-api/models"
	"bookhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReactionService struct {
	mock.Mock
}

func (m *MockReactionService) Get(ctx context.Context, userID string, bookID int64) (*dto.ReactionResponse, error) {
	args := m.Called(ctx, userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReactionResponse), args.Error(1)
}

func (m *MockReactionService) Update(ctx context.Context, userID string, bookID int64, in dto.UpdateReactionDTO) (*dto.ReactionResponse, error) {
	args := m.Called(ctx, userID, bookID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReactionResponse), args.Error(1)
}

func (m *MockReactionService) RecomputeRating(ctx context.Context, bookID int64) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}

func setupReactionRouter(mockService *MockReactionService, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewReactionHandler(mockService)

	rg := r.Group("/api/books")
	h.RegisterRoutes(rg, identityMiddleware(user))
	return r
}

func TestReactionUpdate(t *testing.T) {
	mockService := new(MockReactionService)
	actor := &models.User{ID: "u1", Username: "maks"}
	router := setupReactionRouter(mockService, actor)

	rate := 5
	mockService.On("Update", mock.Anything, "u1", int64(1), mock.MatchedBy(func(in dto.UpdateReactionDTO) bool {
		return in.Rate != nil && *in.Rate == 5 && in.Like == nil
	})).Return(&dto.ReactionResponse{BookID: 1, Rate: &rate}, nil)

	body, _ := json.Marshal(gin.H{"rate": 5})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/api/books/1/reaction", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ReactionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.BookID)
	require.NotNil(t, resp.Rate)
	assert.Equal(t, 5, *resp.Rate)
}

func TestReactionUpdateRateOutOfRange(t *testing.T) {
	mockService := new(MockReactionService)
	router := setupReactionRouter(mockService, &models.User{ID: "u1"})

	for _, rate := range []int{0, 6, -1} {
		body, _ := json.Marshal(gin.H{"rate": rate})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPatch, "/api/books/1/reaction", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "rate %d must be rejected", rate)
	}
	mockService.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReactionUpdateStaleRating(t *testing.T) {
	mockService := new(MockReactionService)
	router := setupReactionRouter(mockService, &models.User{ID: "u1"})

	// The reaction row persisted but the derived rating recompute failed.
	// The response must carry both the error and the saved reaction.
	rate := 4
	mockService.On("Update", mock.Anything, "u1", int64(1), mock.Anything).
		Return(&dto.ReactionResponse{BookID: 1, Rate: &rate}, service.ErrRatingStale)

	body, _ := json.Marshal(gin.H{"rate": 4})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/api/books/1/reaction", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Error    string               `json:"error"`
		Reaction dto.ReactionResponse `json:"reaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "rating is stale")
	assert.Equal(t, int64(1), resp.Reaction.BookID)
	require.NotNil(t, resp.Reaction.Rate)
	assert.Equal(t, 4, *resp.Reaction.Rate)
}

func TestReactionUpdateUnknownBook(t *testing.T) {
	mockService := new(MockReactionService)
	router := setupReactionRouter(mockService, &models.User{ID: "u1"})

	mockService.On("Update", mock.Anything, "u1", int64(42), mock.Anything).
		Return(nil, service.ErrBookNotFound)

	body, _ := json.Marshal(gin.H{"like": true})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/api/books/42/reaction", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReactionUpdateUnauthenticated(t *testing.T) {
	mockService := new(MockReactionService)
	router := setupReactionRouter(mockService, nil)

	body, _ := json.Marshal(gin.H{"like": true})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/api/books/1/reaction", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReactionGet(t *testing.T) {
	mockService := new(MockReactionService)
	router := setupReactionRouter(mockService, &models.User{ID: "u1"})

	mockService.On("Get", mock.Anything, "u1", int64(1)).
		Return(&dto.ReactionResponse{BookID: 1}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/books/1/reaction", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ReactionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Like)
	assert.False(t, resp.InBookmarks)
	assert.Nil(t, resp.Rate)
}
