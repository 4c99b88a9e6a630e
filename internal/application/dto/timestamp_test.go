package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendedores-api/internal/domain"
)

func TestTimestamp_In(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	cases := []struct {
		in   Timestamp
		want time.Time
	}{
		{"2024-03-10T23:59:00", time.Date(2024, 3, 11, 4, 59, 0, 0, time.UTC)},
		{"2024-03-10T23:59", time.Date(2024, 3, 11, 4, 59, 0, 0, time.UTC)},
		{"2024-03-10 08:00:00", time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC)},
		{"2024-03-10", time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC)},
		{"2024-03-10T23:59:00Z", time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)},
		{"2024-03-10T23:59:00-05:00", time.Date(2024, 3, 11, 4, 59, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := tc.in.In(bogota)
		require.NoError(t, err, tc.in)
		assert.True(t, got.Equal(tc.want), "%s: %s", tc.in, got)
	}

	zero, err := Timestamp("").In(bogota)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = Timestamp("10/03/2024").In(bogota)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
