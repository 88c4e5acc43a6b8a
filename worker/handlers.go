package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/GhazanSubz/fypstudio-api/tasks"
)

// HandleStorageDelete processes tasks from QueueStorageDelete. The
// delete is retried with a bounded attempt count; a key that still
// cannot be removed is logged for manual cleanup.
func (p *Processor) HandleStorageDelete(ctx context.Context, payload string) error {
	var task tasks.StorageDeletePayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}

	log.Printf("Deleting storage object %s (attempt %d)", task.Key, task.Attempt)

	if err := p.Objects.Remove(ctx, task.Key); err != nil {
		if task.Attempt >= tasks.MaxDeleteAttempts {
			log.Printf("Giving up on storage delete for %s after %d attempts: %v", task.Key, task.Attempt, err)
			return nil
		}

		// Wait before re-pushing. Without the pause all attempts
		// burn off within milliseconds of the same outage.
		select {
		case <-time.After(p.retryDelay(task.Attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}

		retry := tasks.StorageDeletePayload{Key: task.Key, Attempt: task.Attempt + 1}
		if qerr := p.requeue(ctx, tasks.QueueStorageDelete, retry); qerr != nil {
			log.Printf("Error re-enqueueing storage delete for %s: %v", task.Key, qerr)
			return qerr
		}
		return err
	}

	log.Printf("Deleted storage object %s", task.Key)
	return nil
}

// HandleOrphanSweep processes tasks from QueueOrphanSweep. It lists
// the bucket, collects the keys the database knows about, and removes
// stored artifacts that have no row. Objects younger than the grace
// window are skipped so an in-flight generation can finish its insert.
func (p *Processor) HandleOrphanSweep(ctx context.Context, payload string) error {
	var task tasks.OrphanSweepPayload
	if err := json.Unmarshal([]byte(payload), &task); err != nil {
		return err
	}
	grace := time.Duration(task.GraceMinutes) * time.Minute
	if grace <= 0 {
		grace = time.Hour
	}

	objects, err := p.Objects.List(ctx, "")
	if err != nil {
		return err
	}

	filenames, err := p.Store.Filenames(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(filenames))
	for _, f := range filenames {
		known[f] = true
	}

	removed := 0
	for _, obj := range objects {
		if known[obj.Key] {
			continue
		}
		if time.Since(obj.LastModified) < grace {
			continue
		}
		if err := p.Objects.Remove(ctx, obj.Key); err != nil {
			log.Printf("Error removing orphaned object %s: %v", obj.Key, err)
			continue
		}
		removed++
	}

	log.Printf("Orphan sweep complete: %d objects scanned, %d orphans removed", len(objects), removed)
	return nil
}
