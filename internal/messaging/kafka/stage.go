package kafka

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/akashvinod-2003/empmanage/internal/shared/contextutil"
)

// Stage builds a pending outbox event for the given aggregate, carrying
// the request id from the context for traceability. The caller writes it
// through a repository bound to the workflow transaction.
func Stage(ctx context.Context, aggregateType, aggregateID, eventType, topic string, payload any) (OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, err
	}
	return OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        OutboxStatusPending,
	}, nil
}
