package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddBusinessDays(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		days     int
		expected time.Time
	}{
		{
			name:     "lunes más tres días hábiles cae jueves",
			from:     time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), // lunes
			days:     3,
			expected: time.Date(2025, 3, 6, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "jueves más tres días hábiles salta el fin de semana",
			from:     time.Date(2025, 3, 6, 10, 0, 0, 0, time.UTC), // jueves
			days:     3,
			expected: time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "viernes más un día hábil cae lunes",
			from:     time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC), // viernes
			days:     1,
			expected: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "sábado más un día hábil cae lunes",
			from:     time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC), // sábado
			days:     1,
			expected: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddBusinessDays(tt.from, tt.days))
		})
	}
}
