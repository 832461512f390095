package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rxtech-lab/market-sim/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type SchedulerTestSuite struct {
	suite.Suite
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (suite *SchedulerTestSuite) TestEveryRunsRepeatedly() {
	var calls atomic.Int32

	h, err := Every(context.Background(), 5*time.Millisecond, func(context.Context) { calls.Add(1) })
	suite.Require().NoError(err)
	defer h.Stop()

	suite.Eventually(func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
}

func (suite *SchedulerTestSuite) TestStopPreventsFurtherCalls() {
	var calls atomic.Int32

	h, err := Every(context.Background(), 2*time.Millisecond, func(context.Context) { calls.Add(1) })
	suite.Require().NoError(err)

	suite.Eventually(func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	h.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	suite.Equal(after, calls.Load())

	suite.NotPanics(h.Stop, "stop is idempotent")
}

func (suite *SchedulerTestSuite) TestStopWaitsForInFlightCall() {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	h, err := Every(context.Background(), time.Millisecond, func(context.Context) {
		select {
		case started <- struct{}{}:
		default:
			return
		}
		<-release
		finished.Store(true)
	})
	suite.Require().NoError(err)

	<-started

	stopped := make(chan struct{})
	go func() {
		h.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		suite.Fail("stop returned while the task was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-stopped
	suite.True(finished.Load())
}

func (suite *SchedulerTestSuite) TestContextCancelStopsTask() {
	ctx, cancel := context.WithCancel(context.Background())

	h, err := Every(ctx, time.Millisecond, func(context.Context) {})
	suite.Require().NoError(err)

	cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		suite.Fail("task did not exit after context cancellation")
	}
}

func (suite *SchedulerTestSuite) TestEveryRejectsBadInput() {
	_, err := Every(context.Background(), 0, func(context.Context) {})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = Every(context.Background(), -time.Second, func(context.Context) {})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = Every(context.Background(), time.Second, nil)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))
}

func (suite *SchedulerTestSuite) TestScheduleReplacesByName() {
	s := New(context.Background(), nil)
	defer s.StopAll()

	var first, second atomic.Int32

	suite.Require().NoError(s.Schedule("ticker", 2*time.Millisecond, func(context.Context) { first.Add(1) }))
	suite.Eventually(func() bool { return first.Load() >= 1 }, time.Second, time.Millisecond)

	suite.Require().NoError(s.Schedule("ticker", 2*time.Millisecond, func(context.Context) { second.Add(1) }))
	frozen := first.Load()

	suite.Eventually(func() bool { return second.Load() >= 2 }, time.Second, time.Millisecond)
	suite.Equal(frozen, first.Load())
	suite.Equal([]string{"ticker"}, s.Names())
}

func (suite *SchedulerTestSuite) TestCancel() {
	s := New(context.Background(), nil)
	defer s.StopAll()

	suite.Require().NoError(s.Schedule("candles", time.Millisecond, func(context.Context) {}))
	suite.Require().NoError(s.Schedule("trades", time.Millisecond, func(context.Context) {}))
	suite.Equal([]string{"candles", "trades"}, s.Names())

	suite.True(s.Cancel("candles"))
	suite.False(s.Cancel("candles"))
	suite.Equal([]string{"trades"}, s.Names())
}

func (suite *SchedulerTestSuite) TestStopAllRefusesNewTasks() {
	s := New(context.Background(), nil)

	var calls atomic.Int32
	suite.Require().NoError(s.Schedule("depth", time.Millisecond, func(context.Context) { calls.Add(1) }))
	suite.Eventually(func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)

	s.StopAll()
	after := calls.Load()
	time.Sleep(10 * time.Millisecond)
	suite.Equal(after, calls.Load())
	suite.Empty(s.Names())

	err := s.Schedule("depth", time.Millisecond, func(context.Context) {})
	suite.True(errors.HasCode(err, errors.ErrCodeSchedulerShutdown))
}

func (suite *SchedulerTestSuite) TestScheduleWrapsInvalidInterval() {
	s := New(context.Background(), nil)
	defer s.StopAll()

	err := s.Schedule("bad", 0, func(context.Context) {})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
	suite.Empty(s.Names())
}
