package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidshare/internal/httpapi/dto"
	"vidshare/internal/httpapi/handler"
	"vidshare/internal/httpapi/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) SubmitRating(ctx context.Context, userID string, videoID int64, value int) (*dto.RatingResult, error) {
	args := m.Called(ctx, userID, videoID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingResult), args.Error(1)
}

func setupRatingRouter(mockRating *MockRatingService, mockAuth *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewRatingHandler(mockRating, mockAuth, testLogger())
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func ratingRequest(videoID string, body interface{}, token string) *http.Request {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, "/api/rate/"+videoID, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRatingHandler_Rate(t *testing.T) {
	t.Run("RequiresAuth", func(t *testing.T) {
		mockRating := new(MockRatingService)
		r := setupRatingRouter(mockRating, new(MockAuthService))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, ratingRequest("7", gin.H{"rating": 4}, ""))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockRating.AssertNotCalled(t, "SubmitRating")
	})

	t.Run("Success", func(t *testing.T) {
		mockRating := new(MockRatingService)
		mockAuth := new(MockAuthService)
		creatorAuth(mockAuth)
		r := setupRatingRouter(mockRating, mockAuth)

		mockRating.On("SubmitRating", mock.Anything, "u-consumer", int64(7), 4).
			Return(&dto.RatingResult{UserRating: 4, AverageRating: 4.0, TotalRatings: 3}, nil).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, ratingRequest("7", gin.H{"rating": 4}, "consumer-token"))

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, true, response["success"])
		assert.Equal(t, float64(4), response["user_rating"])
		assert.Equal(t, 4.0, response["average_rating"])
		assert.Equal(t, float64(3), response["total_ratings"])
		mockRating.AssertExpectations(t)
	})

	t.Run("OutOfRangeBody", func(t *testing.T) {
		mockRating := new(MockRatingService)
		mockAuth := new(MockAuthService)
		creatorAuth(mockAuth)
		r := setupRatingRouter(mockRating, mockAuth)

		// Binding rejects 0 and 6 before the service is reached.
		for _, value := range []int{0, 6} {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, ratingRequest("7", gin.H{"rating": value}, "consumer-token"))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
		mockRating.AssertNotCalled(t, "SubmitRating")
	})

	t.Run("VideoMissing", func(t *testing.T) {
		mockRating := new(MockRatingService)
		mockAuth := new(MockAuthService)
		creatorAuth(mockAuth)
		r := setupRatingRouter(mockRating, mockAuth)

		mockRating.On("SubmitRating", mock.Anything, "u-consumer", int64(999), 3).
			Return(nil, service.ErrVideoNotFound).Once()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, ratingRequest("999", gin.H{"rating": 3}, "consumer-token"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
