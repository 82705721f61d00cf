// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package pacer runs a function at a fixed frequency and measures the
// frequency it actually achieved.
package pacer

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

const DefaultReportInterval = 500 * time.Millisecond

// Rate is a frequency in ticks per second published by one goroutine and
// read by any number of others.
type Rate struct {
	bits atomic.Uint64
}

func (r *Rate) Load() float64 {
	return math.Float64frombits(r.bits.Load())
}

func (r *Rate) Store(value float64) {
	r.bits.Store(math.Float64bits(value))
}

// Loop calls Body Rate times per second. A Rate of zero runs Body back to
// back without sleeping.
//
// Sleeping targets a deadline that advances by exactly 1/Rate per tick, so
// time spent in Body and oversleeping are both paid back on the next tick.
type Loop struct {
	Name           string
	Rate           uint32
	ReportInterval time.Duration

	// Limit stops the loop after that many ticks. Zero runs until the
	// context is done.
	Limit uint64

	Body func(ctx context.Context) error

	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration)

	measured Rate
	ticks    atomic.Uint64
}

// Measured returns the throughput over the last report interval.
func (l *Loop) Measured() float64 {
	return l.measured.Load()
}

func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Run returns nil when ctx is done or Limit is reached, and the Body's error
// otherwise. A panic in Body is returned as an error.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case error:
				err = errors.Wrapf(e, "%s loop: recovered after %d ticks", l.Name, l.Ticks())
			default:
				err = errors.Errorf("%s loop: %v", l.Name, e)
			}
		}
	}()

	if l.Body == nil {
		return errors.Errorf("%s loop: no body", l.Name)
	}

	now := l.Now
	if now == nil {
		now = time.Now
	}

	sleep := l.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	interval := l.ReportInterval
	if interval <= 0 {
		interval = DefaultReportInterval
	}

	var period time.Duration
	if l.Rate > 0 {
		period = time.Second / time.Duration(l.Rate)
	}

	start := now()
	deadline := start
	reportStart := start
	count := 0

	for {
		if ctx.Err() != nil {
			return nil
		}

		if l.Limit > 0 && l.ticks.Load() >= l.Limit {
			return nil
		}

		if err := l.Body(ctx); err != nil {
			return err
		}

		l.ticks.Add(1)
		count++

		t := now()

		if elapsed := t.Sub(reportStart); elapsed >= interval {
			l.measured.Store(float64(count) / elapsed.Seconds())
			reportStart = t
			count = 0
		}

		if period == 0 {
			continue
		}

		deadline = deadline.Add(period)
		remaining := deadline.Sub(t)

		if remaining > 0 {
			sleep(ctx, remaining)
		} else if -remaining > interval {
			// Too far behind, drop the missed ticks
			deadline = t
		}
	}
}
