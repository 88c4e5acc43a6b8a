package tasks

import (
	"context"
	"encoding/json"
)

// ---
// QUEUE DEFINITIONS
// ---
// We define all queue names as constants here.
const (
	// QueueStorageDelete retries removal of a storage object whose
	// first delete failed, or compensates a blob left behind by a
	// failed metadata insert.
	QueueStorageDelete = "q_storage_delete"

	// QueueOrphanSweep scans the bucket for artifacts that have no
	// matching video row and removes them.
	QueueOrphanSweep = "q_orphan_sweep"
)

// MaxDeleteAttempts bounds how often a storage delete is retried
// before the worker gives up and logs the key.
const MaxDeleteAttempts = 5

// ---
// TASK PAYLOADS
// ---
// These are the structs that will be JSON-marshalled and sent to Redis.

// StorageDeletePayload is the payload for QueueStorageDelete
type StorageDeletePayload struct {
	Key     string `json:"key"`
	Attempt int    `json:"attempt"`
}

// OrphanSweepPayload is the payload for QueueOrphanSweep. Objects
// younger than the grace window are left alone so an in-flight
// generation can finish its metadata insert.
type OrphanSweepPayload struct {
	GraceMinutes int `json:"grace_minutes"`
}

// Queue is implemented by anything that can enqueue a task. HTTP
// handlers hold this interface rather than a concrete worker so they
// can be tested without Redis.
type Queue interface {
	Enqueue(ctx context.Context, queueName string, payload interface{}) error
}

// Marshal creates a JSON payload for a task.
func Marshal(payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
