// Package notify publishes marketplace events to Redis for the gateway to
// fan out to users. The channel is strictly fire-and-forget: publish
// failures are logged and never surfaced to, or allowed to block, the
// primary action they accompany.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Channel names consumed by the gateway.
const (
	ChannelApplicationCreated  = "EVENT_APPLICATION_CREATED"
	ChannelApplicationApproved = "EVENT_APPLICATION_APPROVED"
)

// Notifier publishes events over Redis pub/sub.
type Notifier struct {
	rdb *redis.Client
}

// New returns a configured Notifier.
func New(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// event is the wire payload for every channel.
type event struct {
	EventID       string `json:"eventId"`
	Type          string `json:"type"`
	ApplicationID string `json:"applicationId"`
	PostID        string `json:"postId"`
	RecipientID   string `json:"recipientId"`
	ActorID       string `json:"actorId"`
	At            string `json:"at"`
}

// ApplicationCreated tells the post owner that someone applied.
func (n *Notifier) ApplicationCreated(ctx context.Context, applicationID, postID, ownerID, applicantID string) {
	n.publish(ctx, ChannelApplicationCreated, event{
		ApplicationID: applicationID,
		PostID:        postID,
		RecipientID:   ownerID,
		ActorID:       applicantID,
	})
}

// ApplicationApproved tells the applicant their application was approved.
func (n *Notifier) ApplicationApproved(ctx context.Context, applicationID, postID, applicantID, ownerID string) {
	n.publish(ctx, ChannelApplicationApproved, event{
		ApplicationID: applicationID,
		PostID:        postID,
		RecipientID:   applicantID,
		ActorID:       ownerID,
	})
}

func (n *Notifier) publish(ctx context.Context, channel string, e event) {
	if n == nil || n.rdb == nil {
		return
	}
	e.EventID = uuid.NewString()
	e.Type = channel
	e.At = time.Now().UTC().Format(time.RFC3339)

	payload, _ := json.Marshal(e)
	if err := n.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		slog.Warn("notification publish failed", "channel", channel, "applicationId", e.ApplicationID, "err", err)
	}
}
