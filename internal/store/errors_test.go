package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A foreign key failure is a constraint violation too, but it must not read
// as "row already exists".
func TestCreateTicket_MissingEventNotDuplicate(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)
	user := mustCreateUser(t, q, "guest", "guest@example.com")

	_, err := q.CreateTicket(context.Background(), CreateTicketParams{
		UserID:    user.ID,
		EventID:   9999,
		SeatType:  "standard",
		Reference: "ref-1",
		BookedAt:  time.Now(),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestIsUniqueViolation_MessageFallback(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
	assert.False(t, isUniqueViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: tickets.user_id, tickets.event_id")))
}
