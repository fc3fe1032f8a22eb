package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"bodymetrics/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurement_MarshalJSON(t *testing.T) {
	m := domain.Measurement{
		ID:                7,
		UserID:            1,
		MeasurementTypeID: 2,
		Value:             81.5,
		Unit:              "kg",
		MeasurementDate:   time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(m)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "2024-03-09", got["measurementDate"])
	assert.Equal(t, 81.5, got["value"])
	assert.NotContains(t, got, "measurementType")
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = domain.ParseDate("29/02/2024")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestTruncateDate(t *testing.T) {
	in := time.Date(2024, 5, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), domain.TruncateDate(in))
}
