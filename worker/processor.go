package worker

import (
	"context"
	"log"
	"time"

	"github.com/GhazanSubz/fypstudio-api/storage"
	"github.com/GhazanSubz/fypstudio-api/tasks"
	"github.com/GhazanSubz/fypstudio-api/videos"
	"github.com/go-redis/redis/v8"
)

// defaultRetryBaseDelay spaces storage-delete retries so a transient
// storage outage has time to clear between attempts.
const defaultRetryBaseDelay = 30 * time.Second

// TaskHandler is a function that processes a task payload.
type TaskHandler func(ctx context.Context, payload string) error

// Processor holds dependencies and registered task handlers.
type Processor struct {
	Store    videos.Store
	Objects  storage.ObjectStore
	RDB      *redis.Client
	handlers map[string]TaskHandler

	// RetryBaseDelay scales linearly with the attempt number; zero
	// means defaultRetryBaseDelay.
	RetryBaseDelay time.Duration

	// requeue pushes a retry task back onto its queue. Points at
	// Enqueue in production, swapped in tests.
	requeue func(ctx context.Context, queueName string, payload interface{}) error
}

// NewProcessor creates a new worker processor.
func NewProcessor(store videos.Store, objects storage.ObjectStore, rdb *redis.Client) *Processor {
	p := &Processor{
		Store:    store,
		Objects:  objects,
		RDB:      rdb,
		handlers: make(map[string]TaskHandler),
	}
	p.requeue = p.Enqueue
	return p
}

func (p *Processor) retryDelay(attempt int) time.Duration {
	base := p.RetryBaseDelay
	if base == 0 {
		base = defaultRetryBaseDelay
	}
	return time.Duration(attempt) * base
}

// Register maps a queue name (task type) to a handler function.
func (p *Processor) Register(queueName string, handler TaskHandler) {
	p.handlers[queueName] = handler
	log.Printf("Registered handler for queue: %s", queueName)
}

// Enqueue is a helper to add a new task to a queue.
func (p *Processor) Enqueue(ctx context.Context, queueName string, payload interface{}) error {
	payloadStr, err := tasks.Marshal(payload)
	if err != nil {
		return err
	}
	return p.RDB.LPush(ctx, queueName, payloadStr).Err()
}

// Listen starts the worker, listening on all registered queues.
func (p *Processor) Listen(ctx context.Context, queueNames ...string) {
	log.Printf("Worker listening on %d queues: %v", len(queueNames), queueNames)

	for {
		// BRPop blocks until a task is available on any of the listed queues.
		result, err := p.RDB.BRPop(ctx, 0, queueNames...).Result()
		if err != nil {
			log.Printf("Error popping from queue: %v", err)
			continue
		}

		// result[0] is the queue name, result[1] is the payload
		queueName := result[0]
		payload := result[1]

		handler, ok := p.handlers[queueName]
		if !ok {
			log.Printf("Error: No handler registered for queue %s", queueName)
			continue
		}

		log.Printf("Received task from queue %s", queueName)

		if err := handler(ctx, payload); err != nil {
			log.Printf("Error processing task from %s: %v", queueName, err)
		}
	}
}
