package main

import (
	"context"
	"log"

	"github.com/GhazanSubz/fypstudio-api/internal/platform"
	"github.com/GhazanSubz/fypstudio-api/storage"
	"github.com/GhazanSubz/fypstudio-api/tasks"
	"github.com/GhazanSubz/fypstudio-api/videos"
	"github.com/GhazanSubz/fypstudio-api/worker"
)

func main() {
	// Use the shared initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()
	objects := storage.NewMinioStore(platform.NewObjectStoreClient())
	ctx := context.Background()

	store := videos.NewGormStore(db)
	processor := worker.NewProcessor(store, objects, rdb)

	processor.Register(tasks.QueueStorageDelete, processor.HandleStorageDelete)
	processor.Register(tasks.QueueOrphanSweep, processor.HandleOrphanSweep)

	log.Println("Worker started, waiting for queue tasks...")
	processor.Listen(ctx, tasks.QueueStorageDelete, tasks.QueueOrphanSweep)
}
