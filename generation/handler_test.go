package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GhazanSubz/fypstudio-api/models"
	"github.com/GhazanSubz/fypstudio-api/tasks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const requestBody = `{
	"prompt": "A dragon flying over a castle",
	"genre": "Fantasy",
	"iterations": 3,
	"backgroundType": "urban",
	"musicType": "Rock",
	"voiceType": "en_speaker_4",
	"subtitleColor": "#00ff66"
}`

func newTestContext(t *testing.T, userID uint, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/generate-video", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		c.Set("user_id", userID)
	}
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGenerateVideo_Unauthorized(t *testing.T) {
	h := NewHandler(new(MockStore), new(MockObjectStore), new(MockInference), nil, nil)
	c, w := newTestContext(t, 0, requestBody)

	h.GenerateVideo(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decodeBody(t, w)["error"])
}

func TestGenerateVideo_UpstreamTimeout(t *testing.T) {
	inference := new(MockInference)
	inference.On("Generate", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: deadline", ErrUpstreamTimeout))

	h := NewHandler(new(MockStore), new(MockObjectStore), inference, nil, nil)
	c, w := newTestContext(t, 7, requestBody)

	h.GenerateVideo(c)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "taking too long")
}

func TestGenerateVideo_UpstreamUnreachable(t *testing.T) {
	inference := new(MockInference)
	inference.On("Generate", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: connection refused", ErrUpstreamUnreachable))

	h := NewHandler(new(MockStore), new(MockObjectStore), inference, nil, nil)
	c, w := newTestContext(t, 7, requestBody)

	h.GenerateVideo(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Failed to connect to video generation service", body["error"])
	assert.Contains(t, body["details"], "connection refused")
}

func TestGenerateVideo_MissingPayload(t *testing.T) {
	inference := new(MockInference)
	inference.On("Generate", mock.Anything, mock.Anything).Return(nil, ErrNoVideoData)

	h := NewHandler(new(MockStore), new(MockObjectStore), inference, nil, nil)
	c, w := newTestContext(t, 7, requestBody)

	h.GenerateVideo(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "No video data returned from backend", decodeBody(t, w)["error"])
}

func TestGenerateVideo_StorageFailure(t *testing.T) {
	inference := new(MockInference)
	inference.On("Generate", mock.Anything, mock.Anything).Return([]byte("mp4"), nil)

	objects := new(MockObjectStore)
	objects.On("Upload", mock.Anything, mock.Anything, []byte("mp4"), "video/mp4").Return(errors.New("bucket unavailable"))

	store := new(MockStore)
	h := NewHandler(store, objects, inference, nil, nil)
	c, w := newTestContext(t, 7, requestBody)

	h.GenerateVideo(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Failed to save video to storage", body["error"])
	assert.Contains(t, body["details"], "bucket unavailable")
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestGenerateVideo_DatabaseFailureCompensatesBlob(t *testing.T) {
	inference := new(MockInference)
	inference.On("Generate", mock.Anything, mock.Anything).Return([]byte("mp4"), nil)

	objects := new(MockObjectStore)
	objects.On("Upload", mock.Anything, mock.Anything, []byte("mp4"), "video/mp4").Return(nil)
	objects.On("PublicURL", mock.Anything).Return("https://cdn.example.com/videos/x.mp4")

	store := new(MockStore)
	store.On("Insert", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	queue := new(MockQueue)
	queue.On("Enqueue", mock.Anything, tasks.QueueStorageDelete, mock.MatchedBy(func(p tasks.StorageDeletePayload) bool {
		return strings.HasPrefix(p.Key, "7/") && p.Attempt == 1
	})).Return(nil)

	h := NewHandler(store, objects, inference, queue, nil)
	c, w := newTestContext(t, 7, requestBody)

	h.GenerateVideo(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Failed to save video metadata", body["error"])
	assert.Contains(t, body["details"], "insert failed")
	queue.AssertExpectations(t)
}

func TestGenerateVideo_SuccessPersistsSettingsSnapshot(t *testing.T) {
	inference := new(MockInference)
	inference.On("Generate", mock.Anything, InferenceRequest{
		Prompt:         "A dragon flying over a castle",
		Genre:          "Fantasy",
		Iterations:     3,
		BackgroundType: "urban",
		MusicType:      "Rock",
		VoiceType:      "en_speaker_4",
		SubtitleColor:  "#00ff66",
	}).Return([]byte("mp4-bytes"), nil)

	objects := new(MockObjectStore)
	objects.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "7/7_") && strings.HasSuffix(key, ".mp4")
	}), []byte("mp4-bytes"), "video/mp4").Return(nil)
	objects.On("PublicURL", mock.Anything).Return("https://cdn.example.com/videos/42.mp4")

	var inserted *models.Video
	store := new(MockStore)
	store.On("Insert", mock.Anything, mock.AnythingOfType("*models.Video")).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*models.Video)
		inserted.ID = 42
	}).Return(nil)

	h := NewHandler(store, objects, inference, nil, nil)
	c, w := newTestContext(t, 7, requestBody)

	h.GenerateVideo(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(42), body["videoId"])
	assert.Equal(t, "https://cdn.example.com/videos/42.mp4", body["url"])

	// Round trip: the settings snapshot is persisted field for field,
	// exactly as submitted.
	require.NotNil(t, inserted)
	assert.Equal(t, uint(7), inserted.UserID)
	assert.Equal(t, "A dragon flying over a castle", inserted.Prompt)
	assert.Equal(t, "Fantasy", inserted.Genre)
	assert.Equal(t, models.VideoSettings{
		SubtitleColor:   "#00ff66",
		Iterations:      3,
		Genre:           "Fantasy",
		BackgroundVideo: "urban",
		BackgroundMusic: "Rock",
		VoiceType:       "en_speaker_4",
	}, inserted.Settings)
	assert.True(t, strings.HasPrefix(inserted.Filename, "7/"), "filename must be namespaced by user")

	inference.AssertExpectations(t)
	objects.AssertExpectations(t)
	store.AssertExpectations(t)
}

type fakeEnhancer struct {
	out string
	err error
}

func (f fakeEnhancer) Enhance(ctx context.Context, prompt, genre string) (string, error) {
	return f.out, f.err
}

func TestGenerateVideo_EnhanceFallsBackOnError(t *testing.T) {
	inference := new(MockInference)
	inference.On("Generate", mock.Anything, mock.MatchedBy(func(req InferenceRequest) bool {
		return req.Prompt == "A dragon flying over a castle"
	})).Return([]byte("mp4"), nil)

	objects := new(MockObjectStore)
	objects.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	objects.On("PublicURL", mock.Anything).Return("https://cdn.example.com/v.mp4")

	store := new(MockStore)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	h := NewHandler(store, objects, inference, nil, nil)
	h.Enhancer = fakeEnhancer{err: errors.New("rate limited")}

	body := strings.Replace(requestBody, `"genre": "Fantasy",`, `"genre": "Fantasy", "enhance": true,`, 1)
	c, w := newTestContext(t, 7, body)

	h.GenerateVideo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	inference.AssertExpectations(t)
}

func TestGenerateVideo_EnhanceRewritesPromptButStoresOriginal(t *testing.T) {
	inference := new(MockInference)
	inference.On("Generate", mock.Anything, mock.MatchedBy(func(req InferenceRequest) bool {
		return req.Prompt == "A colossal dragon wheeling over a storm-lit castle"
	})).Return([]byte("mp4"), nil)

	objects := new(MockObjectStore)
	objects.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	objects.On("PublicURL", mock.Anything).Return("https://cdn.example.com/v.mp4")

	var inserted *models.Video
	store := new(MockStore)
	store.On("Insert", mock.Anything, mock.AnythingOfType("*models.Video")).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*models.Video)
	}).Return(nil)

	h := NewHandler(store, objects, inference, nil, nil)
	h.Enhancer = fakeEnhancer{out: "A colossal dragon wheeling over a storm-lit castle"}

	body := strings.Replace(requestBody, `"genre": "Fantasy",`, `"genre": "Fantasy", "enhance": true,`, 1)
	c, w := newTestContext(t, 7, body)

	h.GenerateVideo(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, inserted)
	// The row keeps what the user typed
	assert.Equal(t, "A dragon flying over a castle", inserted.Prompt)
	inference.AssertExpectations(t)
}
