package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"pinboard/internal/queue"
)

// ObjectDeleter removes stored files. Satisfied by storage.ObjectStore.
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// Handler processes media events from the queue.
type Handler struct {
	objects ObjectDeleter
}

// NewHandler creates a new event handler.
func NewHandler(objects ObjectDeleter) *Handler {
	return &Handler{objects: objects}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.MediaEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventMediaOrphaned:
		err = h.handleMediaOrphaned(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleMediaOrphaned deletes the stored file. Missing files count as reclaimed.
func (h *Handler) handleMediaOrphaned(ctx context.Context, event queue.MediaEvent) error {
	log.Printf("[Worker] MediaOrphaned: ref=%s reason=%s user=%d post=%d",
		event.Ref, event.Reason, event.UserID, event.PostID)

	if event.Ref == "" {
		return fmt.Errorf("media event without ref")
	}

	if err := h.objects.Delete(ctx, event.Ref); err != nil {
		return fmt.Errorf("delete object %s: %w", event.Ref, err)
	}

	log.Printf("[Worker] MediaOrphaned DONE: ref=%s", event.Ref)
	return nil
}
