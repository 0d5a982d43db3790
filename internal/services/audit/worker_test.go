package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-staffing/internal/logger"
	"restaurant-staffing/internal/messaging"
	"restaurant-staffing/internal/models"
	"restaurant-staffing/internal/testutil"
)

type fakeConsumer struct {
	bodies  [][]byte
	results []error
	closed  bool
}

func (f *fakeConsumer) StartConsuming(ctx context.Context, handler messaging.MessageHandler) error {
	for _, body := range f.bodies {
		f.results = append(f.results, handler(ctx, body))
	}
	return nil
}

func (f *fakeConsumer) Close() error {
	f.closed = true
	return nil
}

func body(t *testing.T, eventType models.EventType, chequeID int64) []byte {
	t.Helper()
	b, err := json.Marshal(models.StaffEvent{Type: eventType, ChequeID: chequeID, Timestamp: time.Now().UTC()})
	require.NoError(t, err)
	return b
}

func TestWorker_AuditsChequeEvents(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	r := testutil.SeedRestaurant(t, st, "Navat", 10)
	waiter := testutil.SeedStaff(t, st, r.ID, 1, models.RoleWaiter)
	item := testutil.SeedMenuItem(t, st, r.ID, "Soup", "15.00")

	cheque := &models.Cheque{WaiterID: waiter.ID, CreatedAt: time.Now().UTC(), Items: []models.MenuItem{*item}}
	require.NoError(t, st.Cheques().Create(ctx, cheque))

	consumer := &fakeConsumer{bodies: [][]byte{
		body(t, models.EventChequeCreated, cheque.ID),
		body(t, models.EventChequeUpdated, 999),
		body(t, models.EventChequeDeleted, 998),
		body(t, models.EventWaiterHired, 0),
		[]byte("not json"),
	}}

	w := NewWorker("audit-1", 0, st, consumer, logger.Discard())
	require.NoError(t, w.Start(ctx))

	require.Len(t, consumer.results, 5)
	for i := 0; i < 4; i++ {
		assert.NoError(t, consumer.results[i], "event %d", i)
	}
	var malformed *messaging.ErrMalformed
	assert.ErrorAs(t, consumer.results[4], &malformed)

	assert.Equal(t, int64(4), w.Processed())
	assert.True(t, consumer.closed)
}

func TestWorker_TotalsMatchPricing(t *testing.T) {
	st := testutil.NewStore(t)
	ctx := context.Background()
	r := testutil.SeedRestaurant(t, st, "Navat", 10)
	waiter := testutil.SeedStaff(t, st, r.ID, 1, models.RoleWaiter)
	soup := testutil.SeedMenuItem(t, st, r.ID, "Soup", "15.00")
	steak := testutil.SeedMenuItem(t, st, r.ID, "Steak", "25.00")

	cheque := &models.Cheque{WaiterID: waiter.ID, CreatedAt: time.Now().UTC(), Items: []models.MenuItem{*soup, *steak}}
	require.NoError(t, st.Cheques().Create(ctx, cheque))

	var out bytes.Buffer
	consumer := &fakeConsumer{bodies: [][]byte{body(t, models.EventChequeCreated, cheque.ID)}}
	w := NewWorker("audit-1", 0, st, consumer, logger.NewWithWriter("audit", &out, slog.LevelInfo))
	require.NoError(t, w.Start(ctx))
	require.NoError(t, consumer.results[0])

	var audited map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["action"] == "cheque_audited" {
			audited = entry
		}
	}
	require.NotNil(t, audited, "no cheque_audited log line")
	assert.Equal(t, "40.00", audited["raw_total"])
	assert.Equal(t, "50", audited["grand_total"])
}
