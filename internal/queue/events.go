package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the media stream
const (
	// EventMediaOrphaned means a stored file is no longer referenced by any record.
	EventMediaOrphaned = "media_orphaned"
)

// Stream names
const (
	StreamMedia = "stream:media"
)

// Consumer group name for reclamation workers
const (
	ConsumerGroupMedia = "media_reclaimers"
)

// Reasons attached to orphaned media events.
const (
	ReasonPostDeleted           = "post_deleted"
	ReasonProfilePictureReplace = "profile_picture_replaced"
)

// MediaEvent is published after a database commit drops the last reference
// to a stored file.
type MediaEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`

	Ref    string `json:"ref"`
	Reason string `json:"reason,omitempty"`
	UserID int64  `json:"user_id,omitempty"`
	PostID int64  `json:"post_id,omitempty"`
}

// NewPostImageOrphanedEvent is published after a post and its list reference are deleted.
func NewPostImageOrphanedEvent(ref string, postID, userID int64) MediaEvent {
	return MediaEvent{
		Type:      EventMediaOrphaned,
		Timestamp: time.Now().Unix(),
		Ref:       ref,
		Reason:    ReasonPostDeleted,
		UserID:    userID,
		PostID:    postID,
	}
}

// NewProfilePictureOrphanedEvent is published after a new profile picture reference commits.
func NewProfilePictureOrphanedEvent(ref string, userID int64) MediaEvent {
	return MediaEvent{
		Type:      EventMediaOrphaned,
		Timestamp: time.Now().Unix(),
		Ref:       ref,
		Reason:    ReasonProfilePictureReplace,
		UserID:    userID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e MediaEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseMediaEvent parses a MediaEvent from Redis stream message values.
func ParseMediaEvent(values map[string]interface{}) (MediaEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return MediaEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event MediaEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return MediaEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
