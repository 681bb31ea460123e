package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vidshare/internal/config"
	"vidshare/internal/httpapi/dto"
	"vidshare/internal/httpapi/handler"
	"vidshare/internal/httpapi/models"
	"vidshare/internal/httpapi/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- SHARED MOCKS AND HELPERS ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockVideoService struct {
	mock.Mock
}

func (m *MockVideoService) ListVideos(ctx context.Context, params service.ListParams) (*dto.VideoListResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoListResult), args.Error(1)
}

func (m *MockVideoService) GetDetail(ctx context.Context, videoID int64, userID string) (*dto.VideoDetail, error) {
	args := m.Called(ctx, videoID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoDetail), args.Error(1)
}

func (m *MockVideoService) CreateVideo(ctx context.Context, creator *models.User, in dto.UploadVideoDTO, source dto.ContentSource) (*models.Video, error) {
	args := m.Called(ctx, creator, in, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockVideoService) MyVideos(ctx context.Context, creator *models.User, page, pageSize int) (*dto.VideoListResult, error) {
	args := m.Called(ctx, creator, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoListResult), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		APIPageSize:      12,
		MyVideosPageSize: 10,
		MediaURLPrefix:   "/media/",
		MaxUploadBytes:   100 * 1024 * 1024,
		VideoDataPath:    t.TempDir(),
		AuthRateLimit:    100,
		AuthRateBurst:    100,
	}
}

// creatorAuth wires the mock so "Bearer creator-token" authenticates as a
// creator and "Bearer consumer-token" as a consumer.
func creatorAuth(mockAuth *MockAuthService) {
	mockAuth.On("ValidateToken", "creator-token").Return(&service.Claims{
		UserID:   "u-creator",
		Username: "alice",
		UserType: models.UserTypeCreator,
	}, nil).Maybe()
	mockAuth.On("GetUser", mock.Anything, "u-creator").Return(&models.User{
		ID:       "u-creator",
		Username: "alice",
		UserType: models.UserTypeCreator,
	}, nil).Maybe()

	mockAuth.On("ValidateToken", "consumer-token").Return(&service.Claims{
		UserID:   "u-consumer",
		Username: "bob",
		UserType: models.UserTypeConsumer,
	}, nil).Maybe()
	mockAuth.On("GetUser", mock.Anything, "u-consumer").Return(&models.User{
		ID:       "u-consumer",
		Username: "bob",
		UserType: models.UserTypeConsumer,
	}, nil).Maybe()
}

func setupVideoRouter(t *testing.T, mockVideo *MockVideoService, mockAuth *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewVideoHandler(mockVideo, mockAuth, testConfig(t), testLogger())
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func emptyListResult(page, totalPages int, total int64) *dto.VideoListResult {
	return &dto.VideoListResult{
		Videos: []dto.VideoSummary{},
		Pagination: dto.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalCount:  total,
			HasNext:     page < totalPages,
			HasPrevious: page > 1,
		},
	}
}

// --- TESTS ---

func TestVideoHandler_List(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		r := setupVideoRouter(t, mockVideo, new(MockAuthService))

		result := &dto.VideoListResult{
			Videos: []dto.VideoSummary{
				{ID: 1, Title: "First", Creator: "alice", AverageRating: 4.5, CommentsCount: 2},
			},
			Pagination: dto.Pagination{CurrentPage: 1, TotalPages: 1, TotalCount: 1},
		}
		mockVideo.On("ListVideos", mock.Anything, service.ListParams{Page: 1, PageSize: 12}).
			Return(result, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/videos", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)

		assert.Equal(t, true, response["success"])
		videos := response["videos"].([]interface{})
		assert.Len(t, videos, 1)
		item := videos[0].(map[string]interface{})
		assert.Equal(t, "First", item["title"])
		assert.Equal(t, "alice", item["creator"])
		assert.Equal(t, 4.5, item["average_rating"])

		pagination := response["pagination"].(map[string]interface{})
		assert.Equal(t, float64(1), pagination["current_page"])
		assert.Equal(t, false, pagination["has_next"])
		mockVideo.AssertExpectations(t)
	})

	t.Run("QueryParamsForwarded", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		r := setupVideoRouter(t, mockVideo, new(MockAuthService))

		expected := service.ListParams{Query: "bread", Genre: "education", Page: 2, PageSize: 5}
		mockVideo.On("ListVideos", mock.Anything, expected).Return(emptyListResult(2, 3, 15), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/videos?query=bread&genre=education&page=2&per_page=5", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockVideo.AssertExpectations(t)
	})

	t.Run("MalformedPageFallsBackToDefaults", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		r := setupVideoRouter(t, mockVideo, new(MockAuthService))

		mockVideo.On("ListVideos", mock.Anything, service.ListParams{Page: 1, PageSize: 12}).
			Return(emptyListResult(1, 1, 0), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/videos?page=banana&per_page=-3", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockVideo.AssertExpectations(t)
	})
}

func TestVideoHandler_Detail(t *testing.T) {
	t.Run("AnonymousSuccess", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		r := setupVideoRouter(t, mockVideo, new(MockAuthService))

		detail := &dto.VideoDetail{ID: 7, Title: "Sourdough basics", Views: 42}
		mockVideo.On("GetDetail", mock.Anything, int64(7), "").Return(detail, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/videos/7", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		video := response["video"].(map[string]interface{})
		assert.Equal(t, "Sourdough basics", video["title"])
		assert.Equal(t, float64(42), video["views"])
		// Anonymous callers still get the key, with a null value.
		assert.Contains(t, video, "user_rating")
		assert.Nil(t, video["user_rating"])
		mockVideo.AssertExpectations(t)
	})

	t.Run("AuthenticatedPassesUserID", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		mockAuth := new(MockAuthService)
		creatorAuth(mockAuth)
		r := setupVideoRouter(t, mockVideo, mockAuth)

		mockVideo.On("GetDetail", mock.Anything, int64(7), "u-consumer").
			Return(&dto.VideoDetail{ID: 7}, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/videos/7", nil)
		req.Header.Set("Authorization", "Bearer consumer-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockVideo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		r := setupVideoRouter(t, mockVideo, new(MockAuthService))

		mockVideo.On("GetDetail", mock.Anything, int64(999), "").
			Return(nil, service.ErrVideoNotFound).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/videos/999", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("NonNumericID", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		r := setupVideoRouter(t, mockVideo, new(MockAuthService))

		req, _ := http.NewRequest(http.MethodGet, "/api/videos/abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockVideo.AssertNotCalled(t, "GetDetail")
	})
}

func multipartBody(t *testing.T, fields map[string]string) (*strings.Reader, string) {
	var sb strings.Builder
	writer := multipart.NewWriter(&sb)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	writer.Close()
	return strings.NewReader(sb.String()), writer.FormDataContentType()
}

func TestVideoHandler_Upload(t *testing.T) {
	t.Run("RequiresAuth", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		r := setupVideoRouter(t, mockVideo, new(MockAuthService))

		body, contentType := multipartBody(t, map[string]string{"title": "My video"})
		req, _ := http.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockVideo.AssertNotCalled(t, "CreateVideo")
	})

	t.Run("ConsumerForbidden", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		mockAuth := new(MockAuthService)
		creatorAuth(mockAuth)
		r := setupVideoRouter(t, mockVideo, mockAuth)

		mockVideo.On("CreateVideo", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, service.ErrNotCreator).Once()

		body, contentType := multipartBody(t, map[string]string{"title": "My video"})
		req, _ := http.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer consumer-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("ValidationErrorsKeyedByField", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		mockAuth := new(MockAuthService)
		creatorAuth(mockAuth)
		r := setupVideoRouter(t, mockVideo, mockAuth)

		fieldErrs := service.FieldErrors{}
		fieldErrs.Add("title", "Title is required")
		fieldErrs.Add("source", "provide exactly one source")
		mockVideo.On("CreateVideo", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fieldErrs).Once()

		body, contentType := multipartBody(t, map[string]string{"genre": "music"})
		req, _ := http.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer creator-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, false, response["success"])
		errs := response["errors"].(map[string]interface{})
		assert.Contains(t, errs, "title")
		assert.Contains(t, errs, "source")
	})

	t.Run("ExternalURLSuccess", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		mockAuth := new(MockAuthService)
		creatorAuth(mockAuth)
		r := setupVideoRouter(t, mockVideo, mockAuth)

		mockVideo.On("CreateVideo", mock.Anything,
			mock.MatchedBy(func(u *models.User) bool { return u.ID == "u-creator" }),
			mock.MatchedBy(func(in dto.UploadVideoDTO) bool { return in.Title == "My video" }),
			mock.MatchedBy(func(s dto.ContentSource) bool { return !s.HasFile() && s.ExternalURL != "" }),
		).Return(&models.Video{ID: 31, Title: "My video"}, nil).Once()

		body, contentType := multipartBody(t, map[string]string{
			"title":        "My video",
			"genre":        "music",
			"age_rating":   "G",
			"external_url": "https://example.com/v",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer creator-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, true, response["success"])
		assert.Equal(t, float64(31), response["video_id"])
		mockVideo.AssertExpectations(t)
	})
}

func TestVideoHandler_MyVideos(t *testing.T) {
	t.Run("RequiresAuth", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		r := setupVideoRouter(t, mockVideo, new(MockAuthService))

		req, _ := http.NewRequest(http.MethodGet, "/api/my-videos", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("CreatorSuccess", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		mockAuth := new(MockAuthService)
		creatorAuth(mockAuth)
		r := setupVideoRouter(t, mockVideo, mockAuth)

		mockVideo.On("MyVideos", mock.Anything,
			mock.MatchedBy(func(u *models.User) bool { return u.ID == "u-creator" }),
			2, 10,
		).Return(emptyListResult(2, 2, 15), nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/my-videos?page=2", nil)
		req.Header.Set("Authorization", "Bearer creator-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockVideo.AssertExpectations(t)
	})

	t.Run("ConsumerForbidden", func(t *testing.T) {
		mockVideo := new(MockVideoService)
		mockAuth := new(MockAuthService)
		creatorAuth(mockAuth)
		r := setupVideoRouter(t, mockVideo, mockAuth)

		mockVideo.On("MyVideos", mock.Anything, mock.Anything, 1, 10).
			Return(nil, service.ErrNotCreator).Once()

		req, _ := http.NewRequest(http.MethodGet, "/api/my-videos", nil)
		req.Header.Set("Authorization", "Bearer consumer-token")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
