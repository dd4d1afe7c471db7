package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhub/helpdesk/internal/domain"
)

func TestDeriveDueAt(t *testing.T) {
	// Wednesday afternoon.
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		option domain.DueOption
		want   time.Time
	}{
		{domain.DueOptionToday, time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC)},
		{domain.DueOptionTomorrow, time.Date(2024, 1, 11, 23, 59, 59, 0, time.UTC)},
		// Wednesday = weekday 3, so 7-3 = 4 days out lands on Sunday.
		{domain.DueOptionThisWeek, time.Date(2024, 1, 14, 23, 59, 59, 0, time.UTC)},
		{domain.DueOptionNextWeek, time.Date(2024, 1, 21, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.option), func(t *testing.T) {
			got := DeriveDueAt(tt.option, nil, now)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestDeriveDueAtNoneAndCustom(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

	assert.Nil(t, DeriveDueAt(domain.DueOptionNone, nil, now))

	custom := time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC)
	got := DeriveDueAt(domain.DueOptionCustom, &custom, now)
	require.NotNil(t, got)
	assert.Equal(t, custom, *got)

	// Custom without a date yields nothing; validation happens upstream.
	assert.Nil(t, DeriveDueAt(domain.DueOptionCustom, nil, now))
}

func TestDeriveDueAtIsDeterministic(t *testing.T) {
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	first := DeriveDueAt(domain.DueOptionThisWeek, nil, now)
	second := DeriveDueAt(domain.DueOptionThisWeek, nil, now)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}

func TestDeriveDueAtSundayEdge(t *testing.T) {
	// Sunday = weekday 0: this_week falls a full seven days out.
	sunday := time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC)
	got := DeriveDueAt(domain.DueOptionThisWeek, nil, sunday)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 14, 23, 59, 59, 0, time.UTC), *got)
}
