package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestParse_Invalid(t *testing.T) {
	cases := []string{
		"",
		"* * * *",
		"60 * * * *",
		"* 24 * * *",
		"* * 0 * *",
		"* * * 13 *",
		"* * * * 8",
		"*/0 * * * *",
		"5-1 * * * *",
		"a * * * *",
	}
	for _, expr := range cases {
		_, err := Parse(expr)
		assert.Error(t, err, expr)
	}
}

func TestNext_DailyAtEight(t *testing.T) {
	loc := mustLoad(t, "America/Argentina/Buenos_Aires")
	s, err := Parse("0 8 * * *")
	require.NoError(t, err)

	before := time.Date(2024, 3, 10, 7, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 10, 8, 0, 0, 0, loc), s.Next(before, loc))

	at := time.Date(2024, 3, 10, 8, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 3, 11, 8, 0, 0, 0, loc), s.Next(at, loc))
}

func TestNext_MonthlyReport(t *testing.T) {
	loc := mustLoad(t, "America/Argentina/Buenos_Aires")
	s, err := Parse("0 9 20 * *")
	require.NoError(t, err)

	from := time.Date(2024, 3, 20, 9, 1, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 4, 20, 9, 0, 0, 0, loc), s.Next(from, loc))

	from = time.Date(2024, 12, 25, 0, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2025, 1, 20, 9, 0, 0, 0, loc), s.Next(from, loc))
}

func TestNext_EvaluatedInLocation(t *testing.T) {
	loc := mustLoad(t, "America/Argentina/Buenos_Aires")
	s, err := Parse("0 8 * * *")
	require.NoError(t, err)

	// 10:30 UTC is 07:30 in Buenos Aires (UTC-3).
	from := time.Date(2024, 3, 10, 10, 30, 0, 0, time.UTC)
	next := s.Next(from, loc)
	assert.Equal(t, time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC), next.UTC())
}

func TestNext_StepsListsAndWeekdays(t *testing.T) {
	s, err := Parse("*/15 9-10 * * 1-5")
	require.NoError(t, err)

	// Saturday 2024-03-09 -> Monday 09:00.
	from := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC), s.Next(from, time.UTC))

	from = time.Date(2024, 3, 11, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 11, 9, 15, 0, 0, time.UTC), s.Next(from, time.UTC))

	s, err = Parse("0 12 * * 0,6")
	require.NoError(t, err)
	from = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC), s.Next(from, time.UTC))

	s, err = Parse("0 12 * * 7")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC), s.Next(from, time.UTC))
}

func TestNext_DayOfMonthOrWeekday(t *testing.T) {
	// Fires on the 15th and on every Monday.
	s, err := Parse("0 0 15 * 1")
	require.NoError(t, err)

	from := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), s.Next(from, time.UTC))

	from = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), s.Next(from, time.UTC))
}

func TestNext_Never(t *testing.T) {
	s, err := Parse("0 0 30 2 *")
	require.NoError(t, err)
	assert.True(t, s.Next(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC).IsZero())
}

func TestScheduler_AddJobRejectsBadSpec(t *testing.T) {
	s := NewScheduler(time.UTC)
	err := s.AddJob("bad", "not a cron", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestScheduler_RunOnceAndStop(t *testing.T) {
	s := NewScheduler(time.UTC)
	var calls int32
	require.NoError(t, s.AddJob("count", "0 8 * * *", func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))
	require.NoError(t, s.AddJob("fail", "0 9 * * *", func(ctx context.Context) error {
		return errors.New("boom")
	}))

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Len(t, s.Jobs(), 2)

	s.Start()
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	// Start does not run jobs immediately.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
