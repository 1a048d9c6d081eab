package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DurationCategory
		wantErr bool
	}{
		{name: "regular 12hr", input: "REGULAR_12HR", want: Regular12HR},
		{name: "regular 24hr", input: "REGULAR_24HR", want: Regular24HR},
		{name: "weekend 12hr", input: "WEEKEND_12HR", want: Weekend12HR},
		{name: "weekend 24hr", input: "WEEKEND_24HR", want: Weekend24HR},
		{name: "empty string rejected", input: "", wantErr: true},
		{name: "unknown category rejected", input: "HOLIDAY_48HR", wantErr: true},
		{name: "lowercase rejected", input: "regular_12hr", wantErr: true},
		{name: "whitespace rejected", input: " REGULAR_12HR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDurationCategory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDurationCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationCategoryHours(t *testing.T) {
	assert.Equal(t, 12, Regular12HR.Hours())
	assert.Equal(t, 12, Weekend12HR.Hours())
	assert.Equal(t, 24, Regular24HR.Hours())
	assert.Equal(t, 24, Weekend24HR.Hours())
}

func TestDurationCategoryFlags(t *testing.T) {
	assert.True(t, Regular24HR.IsOvernight())
	assert.True(t, Weekend24HR.IsOvernight())
	assert.False(t, Regular12HR.IsOvernight())
	assert.False(t, Weekend12HR.IsOvernight())

	assert.True(t, Weekend12HR.IsWeekend())
	assert.True(t, Weekend24HR.IsWeekend())
	assert.False(t, Regular12HR.IsWeekend())
	assert.False(t, Regular24HR.IsWeekend())
}
