package alarm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is an in-memory HoursSource keyed by brand and model.
type fakeSource struct {
	sums  map[[2]string]float64
	err   error
	calls int
}

func (f *fakeSource) SumHoursByBrandModel(_ context.Context, brand, model string) (float64, bool, error) {
	f.calls++
	if f.err != nil {
		return 0, false, f.err
	}
	v, ok := f.sums[[2]string{brand, model}]
	return v, ok, nil
}

func statuses(r Report) []Status {
	out := make([]Status, len(r.Thresholds))
	for i, t := range r.Thresholds {
		out[i] = t.Status
	}
	return out
}

func TestClassify(t *testing.T) {
	P, R := StatusPending, StatusReached
	testCases := []struct {
		name     string
		total    float64
		expected []Status
	}{
		{name: "Nothing", total: 0, expected: []Status{P, P, P, P}},
		{name: "Just below 500", total: 499.99, expected: []Status{P, P, P, P}},
		{name: "Exactly 500", total: 500, expected: []Status{R, P, P, P}},
		{name: "Between", total: 1250, expected: []Status{R, R, P, P}},
		{name: "Exactly 1500", total: 1500, expected: []Status{R, R, R, P}},
		{name: "Beyond last", total: 5000, expected: []Status{R, R, R, R}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := Classify("Cat", "320", tc.total)
			assert.Equal(t, tc.expected, statuses(r))
			assert.Equal(t, tc.total, r.TotalHours)
			require.Len(t, r.Thresholds, 4)
			assert.Equal(t, []float64{500, 1000, 1500, 2000}, []float64{
				r.Thresholds[0].Hours, r.Thresholds[1].Hours, r.Thresholds[2].Hours, r.Thresholds[3].Hours,
			})
		})
	}
}

func TestClassify_Monotonic(t *testing.T) {
	totals := []float64{0, 120, 499.5, 500, 777, 1000, 1499, 1500, 1999.9, 2000, 2600}
	for i := 0; i < len(totals); i++ {
		for j := i + 1; j < len(totals); j++ {
			a := Classify("x", "y", totals[i]).Reached()
			b := Classify("x", "y", totals[j]).Reached()
			assert.Subset(t, b, a, "reached(%v) must be a subset of reached(%v)", totals[i], totals[j])
		}
	}
}

func TestCompute(t *testing.T) {
	src := &fakeSource{sums: map[[2]string]float64{{"Cat", "320"}: 520}}

	r, err := Compute(context.Background(), src, "Cat", "320", 70)
	require.NoError(t, err)
	assert.Equal(t, 520.0, r.TotalHours)
	assert.Equal(t, []float64{500}, r.Reached())
	assert.Equal(t, "Cat", r.Brand)
	assert.Equal(t, "320", r.Model)
}

func TestCompute_FallbackWhenBucketEmpty(t *testing.T) {
	src := &fakeSource{sums: map[[2]string]float64{}}

	r, err := Compute(context.Background(), src, "Cat", "320", 600)
	require.NoError(t, err)
	assert.Equal(t, 600.0, r.TotalHours)
	assert.Equal(t, []float64{500}, r.Reached())
}

func TestCompute_Idempotent(t *testing.T) {
	src := &fakeSource{sums: map[[2]string]float64{{"Cat", "320"}: 1450}}

	first, err := Compute(context.Background(), src, "Cat", "320", 0)
	require.NoError(t, err)
	second, err := Compute(context.Background(), src, "Cat", "320", 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, src.calls)
}

func TestCompute_SourceError(t *testing.T) {
	boom := errors.New("database is locked")
	_, err := Compute(context.Background(), &fakeSource{err: boom}, "Cat", "320", 0)
	assert.ErrorIs(t, err, boom)
}

func TestCrossed(t *testing.T) {
	assert.Empty(t, Crossed(0, 450))
	assert.Equal(t, []float64{500}, Crossed(450, 520))
	assert.Equal(t, []float64{500}, Crossed(499.9, 500))
	assert.Empty(t, Crossed(500, 999), "already reached thresholds are not reported again")
	assert.Equal(t, []float64{1000, 1500, 2000}, Crossed(900, 2100))
	assert.Empty(t, Crossed(2100, 3000))
}
