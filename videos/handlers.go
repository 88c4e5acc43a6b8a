package videos

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"

	"github.com/GhazanSubz/fypstudio-api/storage"
	"github.com/GhazanSubz/fypstudio-api/tasks"
	"github.com/gin-gonic/gin"
)

// Download filenames are user supplied, keep them boring.
var filenamePattern = regexp.MustCompile(`^[a-zA-Z0-9 _-]{1,64}$`)

type Handler struct {
	Store   Store
	Objects storage.ObjectStore
	Queue   tasks.Queue
}

func NewHandler(store Store, objects storage.ObjectStore, queue tasks.Queue) *Handler {
	return &Handler{Store: store, Objects: objects, Queue: queue}
}

// ListVideos returns every object in the bucket with its public URL.
func (h *Handler) ListVideos(c *gin.Context) {
	objects, err := h.Objects.List(c.Request.Context(), "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	videos := make([]gin.H, 0, len(objects))
	for _, obj := range objects {
		videos = append(videos, gin.H{
			"name": obj.Key,
			"url":  h.Objects.PublicURL(obj.Key),
		})
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// GetRecent returns the caller's five most recent videos.
func (h *Handler) GetRecent(c *gin.Context) {
	userID := c.GetUint("user_id")

	videos, err := h.Store.Recent(c.Request.Context(), userID, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve videos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// GetExports returns the caller's downloaded videos, newest first.
func (h *Handler) GetExports(c *gin.Context) {
	userID := c.GetUint("user_id")

	videos, err := h.Store.Exports(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve videos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// DeleteVideo removes the row and the stored artifact. A failed
// storage delete is logged and retried from the queue, never fatal:
// the row goes away regardless so the user's library stays correct.
func (h *Handler) DeleteVideo(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}

	video, err := h.Store.Get(c.Request.Context(), userID, uint(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	if err := h.Objects.Remove(c.Request.Context(), video.Filename); err != nil {
		log.Printf("Storage delete failed for %s, queueing retry: %v", video.Filename, err)
		h.enqueueStorageDelete(c, video.Filename)
	}

	if err := h.Store.Delete(c.Request.Context(), userID, uint(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleted from another tab between the Get and now
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type DownloadRequest struct {
	Filename string `json:"filename" binding:"required"`
}

// DownloadVideo completes the download-with-custom-name action: the
// artifact is renamed to the chosen filename, the row's filename is
// updated to match, and the video is flagged for the exports view.
func (h *Handler) DownloadVideo(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}

	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !filenamePattern.MatchString(req.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Filename must be 1-64 characters and contain only letters, numbers, spaces, hyphens, and underscores",
		})
		return
	}

	video, err := h.Store.Get(c.Request.Context(), userID, uint(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	newKey := fmt.Sprintf("%d/%s.mp4", userID, req.Filename)
	if newKey != video.Filename {
		if err := h.Objects.Rename(c.Request.Context(), video.Filename, newKey); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to rename video in storage",
				"details": err.Error(),
			})
			return
		}
	}

	newURL := h.Objects.PublicURL(newKey)
	if err := h.Store.MarkDownloaded(c.Request.Context(), userID, uint(id), newKey, newURL); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update video"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": newKey,
		"url":      newURL,
	})
}

func (h *Handler) enqueueStorageDelete(c *gin.Context, key string) {
	if h.Queue == nil {
		return
	}
	payload := tasks.StorageDeletePayload{Key: key, Attempt: 1}
	if err := h.Queue.Enqueue(c.Request.Context(), tasks.QueueStorageDelete, payload); err != nil {
		log.Printf("Error enqueueing storage delete for %s: %v", key, err)
	}
}
