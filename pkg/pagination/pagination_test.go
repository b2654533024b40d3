package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	require.Equal(t, DefaultLimit, NormalizeLimit(0))
	require.Equal(t, DefaultLimit, NormalizeLimit(-5))
	require.Equal(t, 10, NormalizeLimit(10))
	require.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+50))
	require.Equal(t, 11, LimitWithBuffer(10))
}

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 8, 10, 12, 30, 45, 123456789, time.UTC)
	encoded := EncodeCursor(Cursor{CreatedAt: createdAt, ID: 42})

	cursor, err := ParseCursor(encoded)
	require.NoError(t, err)
	require.NotNil(t, cursor)
	require.True(t, cursor.CreatedAt.Equal(createdAt))
	require.Equal(t, int64(42), cursor.ID)
}

func TestParseCursorEmpty(t *testing.T) {
	cursor, err := ParseCursor("  ")
	require.NoError(t, err)
	require.Nil(t, cursor)
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"not-base64!", "Z2FyYmFnZQ==", "MjAyNXwtMQ=="} {
		_, err := ParseCursor(raw)
		require.Error(t, err, "cursor %q", raw)
	}
}
