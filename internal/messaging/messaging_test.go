package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-staffing/internal/models"
)

func TestNewPublishing(t *testing.T) {
	event := models.NewStaffEvent(models.EventChequeCreated, "req-9")
	event.ChequeID = 4
	event.EmployeeID = 2

	pub, err := newPublishing(event)
	require.NoError(t, err)

	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, uint8(amqp091.Persistent), pub.DeliveryMode)
	assert.Equal(t, "cheque.created", pub.Type)
	assert.Equal(t, "req-9", pub.CorrelationId)

	var decoded models.StaffEvent
	require.NoError(t, json.Unmarshal(pub.Body, &decoded))
	assert.Equal(t, models.EventChequeCreated, decoded.Type)
	assert.Equal(t, int64(4), decoded.ChequeID)
}

func TestParseMessage_Malformed(t *testing.T) {
	var event models.StaffEvent
	err := ParseMessage([]byte("{not json"), &event)
	require.Error(t, err)

	assert.True(t, isMalformed(err))
	assert.True(t, isMalformed(fmt.Errorf("handle: %w", err)))
	assert.False(t, isMalformed(fmt.Errorf("db down")))
}

func TestBindingsRouteEveryEventType(t *testing.T) {
	types := []models.EventType{
		models.EventStatementSubmitted,
		models.EventStatementAccepted,
		models.EventStatementRemoved,
		models.EventWaiterHired,
		models.EventWaiterUpdated,
		models.EventWaiterDismissed,
		models.EventChequeCreated,
		models.EventChequeUpdated,
		models.EventChequeDeleted,
	}

	for _, typ := range types {
		routed := false
		for _, b := range Bindings {
			if b.queue == NotificationsQueue && topicMatch(b.routingKey, string(typ)) {
				routed = true
			}
		}
		assert.True(t, routed, "%s is not routed to %s", typ, NotificationsQueue)
	}
}

// topicMatch handles the single-segment wildcard used by Bindings
func topicMatch(pattern, key string) bool {
	var pp, kp string
	for i := range pattern {
		if pattern[i] == '.' {
			pp = pattern[:i]
			break
		}
	}
	for i := range key {
		if key[i] == '.' {
			kp = key[:i]
			break
		}
	}
	return pp == kp && pattern[len(pp):] == ".*"
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	assert.NoError(t, p.PublishEvent(context.Background(), models.NewStaffEvent(models.EventWaiterHired, "")))
}
