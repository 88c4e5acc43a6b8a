package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/GhazanSubz/fypstudio-api/models"
	"github.com/GhazanSubz/fypstudio-api/storage"
	"github.com/GhazanSubz/fypstudio-api/tasks"
	"github.com/GhazanSubz/fypstudio-api/videos"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// VideoCreatedChannel is the Redis pub/sub channel notified after a
// successful generation.
const VideoCreatedChannel = "video_created"

// Enhancer optionally rewrites the user's prompt before it is
// forwarded to the inference service.
type Enhancer interface {
	Enhance(ctx context.Context, prompt, genre string) (string, error)
}

// GenerateRequest is the wire contract of POST /generate-video.
type GenerateRequest struct {
	Prompt         string `json:"prompt" binding:"required"`
	Genre          string `json:"genre"`
	Iterations     int    `json:"iterations"`
	BackgroundType string `json:"backgroundType"`
	MusicType      string `json:"musicType"`
	VoiceType      string `json:"voiceType"`
	SubtitleColor  string `json:"subtitleColor"`
	Enhance        bool   `json:"enhance,omitempty"`
}

// VideoCreatedMessage is published on VideoCreatedChannel.
type VideoCreatedMessage struct {
	VideoID uint `json:"video_id"`
	UserID  uint `json:"user_id"`
}

// Handler is the generation proxy. It forwards the settings to the
// inference service, persists the returned artifact, and answers with
// a stable public URL.
type Handler struct {
	Store     videos.Store
	Objects   storage.ObjectStore
	Inference InferenceClient
	Queue     tasks.Queue
	Redis     *redis.Client
	Enhancer  Enhancer
}

func NewHandler(store videos.Store, objects storage.ObjectStore, inference InferenceClient, queue tasks.Queue, rdb *redis.Client) *Handler {
	return &Handler{
		Store:     store,
		Objects:   objects,
		Inference: inference,
		Queue:     queue,
		Redis:     rdb,
	}
}

func (h *Handler) GenerateVideo(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	prompt := req.Prompt
	if req.Enhance && h.Enhancer != nil {
		enhanced, err := h.Enhancer.Enhance(c.Request.Context(), req.Prompt, req.Genre)
		if err != nil {
			// Enhancement is best effort, fall back to the raw prompt
			log.Printf("Prompt enhancement failed for user %d: %v", userID, err)
		} else {
			prompt = enhanced
		}
	}

	data, err := h.Inference.Generate(c.Request.Context(), InferenceRequest{
		Prompt:         prompt,
		Genre:          req.Genre,
		Iterations:     req.Iterations,
		BackgroundType: req.BackgroundType,
		MusicType:      req.MusicType,
		VoiceType:      req.VoiceType,
		SubtitleColor:  req.SubtitleColor,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUpstreamTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timed out after 30 minutes. Video generation is taking too long.",
			})
		case errors.Is(err, ErrNoVideoData):
			log.Printf("Malformed inference response for user %d: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No video data returned from backend"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "Failed to connect to video generation service",
				"details": err.Error(),
			})
		}
		return
	}

	// Key is namespaced by user and timestamped so filenames never
	// collide across users or requests.
	key := fmt.Sprintf("%d/%d_%d.mp4", userID, userID, time.Now().UnixMilli())

	if err := h.Objects.Upload(c.Request.Context(), key, data, "video/mp4"); err != nil {
		log.Printf("Storage upload failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save video to storage",
			"details": err.Error(),
		})
		return
	}

	publicURL := h.Objects.PublicURL(key)

	video := models.Video{
		UserID:   userID,
		Filename: key,
		URL:      publicURL,
		Prompt:   req.Prompt,
		Genre:    req.Genre,
		Settings: models.VideoSettings{
			SubtitleColor:   req.SubtitleColor,
			Iterations:      req.Iterations,
			Genre:           req.Genre,
			BackgroundVideo: req.BackgroundType,
			BackgroundMusic: req.MusicType,
			VoiceType:       req.VoiceType,
		},
	}
	if err := h.Store.Insert(c.Request.Context(), &video); err != nil {
		// The blob is already in storage with no row pointing at it.
		// Queue a compensating delete so it does not stay orphaned.
		h.enqueueStorageDelete(c.Request.Context(), key)
		log.Printf("Metadata insert failed for user %d, queued delete of %s: %v", userID, key, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save video metadata",
			"details": err.Error(),
		})
		return
	}

	h.publishVideoCreated(c.Request.Context(), video.ID, userID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"videoId": video.ID,
		"url":     publicURL,
	})
}

func (h *Handler) enqueueStorageDelete(ctx context.Context, key string) {
	if h.Queue == nil {
		return
	}
	payload := tasks.StorageDeletePayload{Key: key, Attempt: 1}
	if err := h.Queue.Enqueue(ctx, tasks.QueueStorageDelete, payload); err != nil {
		log.Printf("Error enqueueing storage delete for %s: %v", key, err)
	}
}

func (h *Handler) publishVideoCreated(ctx context.Context, videoID, userID uint) {
	if h.Redis == nil {
		return
	}
	payload, err := json.Marshal(VideoCreatedMessage{VideoID: videoID, UserID: userID})
	if err != nil {
		log.Printf("Error marshalling json: %v", err)
		return
	}
	if err := h.Redis.Publish(ctx, VideoCreatedChannel, payload).Err(); err != nil {
		log.Printf("Error publishing to redis: %v", err)
	}
}
