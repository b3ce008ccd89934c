package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/poster-outreach/constants"
	"github.com/joseph-ayodele/poster-outreach/internal/entity"
	"github.com/joseph-ayodele/poster-outreach/internal/store"
)

// Runs only against a real server: POSTER_TEST_POSTGRES_DSN=postgres://... go test ./...
func TestRecorderAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("POSTER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTER_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, Config{DSN: dsn, DialTimeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	defer s.Close()

	sheet := "test-" + uuid.NewString()
	r := store.NewRecorder(s, sheet, nil)
	h, err := r.EnsureStore(ctx)
	require.NoError(t, err)
	_, err = r.EnsureStore(ctx)
	require.NoError(t, err)

	assert.True(t, r.Append(ctx, h, entity.NewEventRecord()))
	assert.True(t, r.Append(ctx, h, entity.NewEventRecord()))

	rows, err := r.Rows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, constants.StoreHeader, rows[0])
}

func TestOpenRejectsBadDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{DSN: "://not a dsn"}, nil)
	assert.Error(t, err)
}
