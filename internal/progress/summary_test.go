package progress_test

import (
	"testing"
	"time"

	"bodymetrics/internal/domain"
	"bodymetrics/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func meas(id int64, date string, value float64) domain.Measurement {
	return domain.Measurement{
		ID:                id,
		UserID:            1,
		MeasurementTypeID: 1,
		Value:             value,
		MeasurementDate:   day(date),
		Unit:              "kg",
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := progress.Summarize(nil)

	assert.Equal(t, 0, s.Count)
	assert.Nil(t, s.Latest)
	assert.Nil(t, s.Previous)
	assert.Nil(t, s.Delta)
	assert.Nil(t, s.PercentChange)
	assert.Nil(t, s.Min)
	assert.Nil(t, s.Max)
	assert.Nil(t, s.NetChange)
	assert.NotNil(t, s.Window)
	assert.Empty(t, s.Window)
}

func TestSummarize_Single(t *testing.T) {
	s := progress.Summarize([]domain.Measurement{meas(1, "2024-01-01", 80)})

	require.NotNil(t, s.Latest)
	assert.Equal(t, 80.0, s.Latest.Value)
	assert.Nil(t, s.Previous)
	assert.Nil(t, s.Delta)
	assert.Nil(t, s.PercentChange)
	require.NotNil(t, s.Min)
	require.NotNil(t, s.Max)
	require.NotNil(t, s.NetChange)
	assert.Equal(t, 80.0, *s.Min)
	assert.Equal(t, 80.0, *s.Max)
	assert.Equal(t, 0.0, *s.NetChange)
	assert.Len(t, s.Window, 1)
}

func TestSummarize_ThreeMonths(t *testing.T) {
	s := progress.Summarize([]domain.Measurement{
		meas(1, "2024-01-01", 80),
		meas(2, "2024-02-01", 78),
		meas(3, "2024-03-01", 76),
	})

	require.NotNil(t, s.Latest)
	require.NotNil(t, s.Previous)
	assert.Equal(t, "2024-03-01", s.Latest.Day())
	assert.Equal(t, 76.0, s.Latest.Value)
	assert.Equal(t, "2024-02-01", s.Previous.Day())
	assert.Equal(t, 78.0, s.Previous.Value)

	require.NotNil(t, s.Delta)
	assert.Equal(t, -2.0, *s.Delta)
	require.NotNil(t, s.PercentChange)
	assert.InDelta(t, -2.564, *s.PercentChange, 0.001)

	assert.Equal(t, 76.0, *s.Min)
	assert.Equal(t, 80.0, *s.Max)
	assert.Equal(t, -4.0, *s.NetChange)

	require.Len(t, s.Window, 3)
	assert.Equal(t, "2024-01-01", s.Window[0].Day())
	assert.Equal(t, "2024-03-01", s.Window[2].Day())
}

func TestSummarize_PreviousZero(t *testing.T) {
	for _, latest := range []float64{-3, 0, 5, 1000} {
		s := progress.Summarize([]domain.Measurement{
			meas(1, "2024-01-01", 0),
			meas(2, "2024-01-02", latest),
		})
		assert.Nil(t, s.PercentChange, "latest=%v", latest)
		require.NotNil(t, s.Delta)
		assert.Equal(t, latest, *s.Delta)
	}
}

func TestSummarize_DeltaRoundedToOneDecimal(t *testing.T) {
	s := progress.Summarize([]domain.Measurement{
		meas(1, "2024-01-01", 80.0),
		meas(2, "2024-01-02", 80.26),
	})
	require.NotNil(t, s.Delta)
	assert.Equal(t, 0.3, *s.Delta)
}

func TestSummarize_SameDateKeepsInputOrder(t *testing.T) {
	s := progress.Summarize([]domain.Measurement{
		meas(1, "2024-01-01", 10),
		meas(2, "2024-01-01", 12),
	})

	require.NotNil(t, s.Latest)
	require.NotNil(t, s.Previous)
	assert.Equal(t, int64(1), s.Latest.ID)
	assert.Equal(t, int64(2), s.Previous.ID)
	assert.Equal(t, 2.0, *s.NetChange)
}

func TestSummarize_Unsorted(t *testing.T) {
	s := progress.Summarize([]domain.Measurement{
		meas(2, "2024-02-01", 78),
		meas(3, "2024-03-01", 76),
		meas(1, "2024-01-01", 80),
	})
	assert.Equal(t, int64(3), s.Latest.ID)
	assert.Equal(t, int64(2), s.Previous.ID)
	assert.Equal(t, -4.0, *s.NetChange)
}

func TestSummarize_WindowKeepsLastThirty(t *testing.T) {
	start := day("2024-01-01")
	var ms []domain.Measurement
	for i := 0; i < 35; i++ {
		m := meas(int64(i+1), "2024-01-01", float64(100-i))
		m.MeasurementDate = start.AddDate(0, 0, i)
		ms = append(ms, m)
	}

	s := progress.Summarize(ms)

	require.Len(t, s.Window, progress.WindowSize)
	assert.Equal(t, int64(6), s.Window[0].ID)
	assert.Equal(t, int64(35), s.Window[29].ID)
	// stats cover the whole history, not only the window
	assert.Equal(t, 100.0, *s.Max)
	assert.Equal(t, 66.0, *s.Min)
	assert.Equal(t, -34.0, *s.NetChange)
}

func TestSummarize_IdempotentAndPure(t *testing.T) {
	in := []domain.Measurement{
		meas(2, "2024-02-01", 78),
		meas(1, "2024-01-01", 80),
		meas(3, "2024-03-01", 76),
	}
	before := make([]domain.Measurement, len(in))
	copy(before, in)

	first := progress.Summarize(in)
	second := progress.Summarize(in)

	assert.Equal(t, first, second)
	assert.Equal(t, before, in)
}
