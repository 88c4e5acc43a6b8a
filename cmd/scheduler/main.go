package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/GhazanSubz/fypstudio-api/generation"
	"github.com/GhazanSubz/fypstudio-api/internal/platform"
	"github.com/GhazanSubz/fypstudio-api/models"
	"github.com/GhazanSubz/fypstudio-api/tasks"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func main() {
	// Use the shared initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()
	ctx := context.Background()

	c := cron.New()

	// Hourly orphan sweep: storage objects with no matching video row
	// get cleaned up by the worker.
	_, err := c.AddFunc("@hourly", func() {
		payload, err := tasks.Marshal(tasks.OrphanSweepPayload{GraceMinutes: 60})
		if err != nil {
			log.Printf("Error marshalling orphan sweep task: %v", err)
			return
		}
		if err := rdb.LPush(ctx, tasks.QueueOrphanSweep, payload).Err(); err != nil {
			log.Printf("Error pushing orphan sweep task to queue: %v", err)
			return
		}
		log.Println("Queued orphan sweep")
	})
	if err != nil {
		log.Fatalf("Error scheduling orphan sweep: %v", err)
	}

	// Daily purge of expired sessions
	_, err = c.AddFunc("@daily", func() {
		result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
		if result.Error != nil {
			log.Printf("Error purging expired sessions: %v", result.Error)
			return
		}
		log.Printf("Purged %d expired sessions", result.RowsAffected)
	})
	if err != nil {
		log.Fatalf("Error scheduling session purge: %v", err)
	}

	c.Start()
	defer c.Stop()

	// Audit trail of successful generations
	go listenForCreatedVideos(ctx, db, rdb)

	log.Println("Scheduler started, waiting for cron ticks...")
	// Keep the main thread alive
	select {}
}

// listenForCreatedVideos subscribes to the video_created channel and
// logs each generation. Only run one instance of this service.
func listenForCreatedVideos(ctx context.Context, db *gorm.DB, rdb *redis.Client) {
	pubsub := rdb.Subscribe(ctx, generation.VideoCreatedChannel)
	defer pubsub.Close()
	ch := pubsub.Channel()

	log.Println("Scheduler listening for created videos...")

	for msg := range ch {
		var message generation.VideoCreatedMessage
		if err := json.Unmarshal([]byte(msg.Payload), &message); err != nil {
			log.Printf("Error unmarshalling %s message: %v", generation.VideoCreatedChannel, err)
			continue
		}

		var video models.Video
		if err := db.First(&video, message.VideoID).Error; err != nil {
			log.Printf("Video %d not found: %v", message.VideoID, err)
			continue
		}
		log.Printf("Video %d created for user %d (%s, genre %s)", video.ID, message.UserID, video.Filename, video.Genre)
	}
}
