package store_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-academy/internal/store"
)

func TestToUUIDRoundTrip(t *testing.T) {
	raw := uuid.NewString()

	id, err := store.ToUUID(raw)
	require.NoError(t, err)
	require.True(t, id.Valid)
	require.Equal(t, raw, store.UUIDString(id))
}

func TestToUUIDRejectsMalformedInput(t *testing.T) {
	for _, bad := range []string{"", "not-a-uuid", "1234", "00000000-0000-0000-0000-00000000000g"} {
		_, err := store.ToUUID(bad)
		require.Error(t, err, "input %q", bad)
	}
}

func TestUUIDStringEmptyForInvalid(t *testing.T) {
	require.Equal(t, "", store.UUIDString(pgtype.UUID{}))
}

func TestUUIDEqual(t *testing.T) {
	a, err := store.ToUUID(uuid.NewString())
	require.NoError(t, err)
	b, err := store.ToUUID(uuid.NewString())
	require.NoError(t, err)

	require.True(t, store.UUIDEqual(a, a))
	require.False(t, store.UUIDEqual(a, b))
	require.False(t, store.UUIDEqual(a, pgtype.UUID{Bytes: a.Bytes}))
}
