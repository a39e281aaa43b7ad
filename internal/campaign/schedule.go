package campaign

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	WindowStartHour = 10
	WindowEndHour   = 16
	MaxDelayDays    = 30

	maxSlotAttempts = 100
	minGap          = 5 * time.Minute
	maxGap          = 10 * time.Minute
)

// Policy picks send times inside the daily business-hours window.
// Day of week is not considered.
type Policy struct {
	loc *time.Location

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewPolicy(loc *time.Location, rnd *rand.Rand) *Policy {
	if loc == nil {
		loc = time.Local
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Policy{loc: loc, rnd: rnd}
}

func (p *Policy) Location() *time.Location { return p.loc }

// SendTime returns when the email at index should go out, daysToDelay days
// after now. Same-day requests need a slot strictly after now.
func (p *Policy) SendTime(daysToDelay, index int, now time.Time) (time.Time, error) {
	if daysToDelay < 0 || daysToDelay > MaxDelayDays {
		return time.Time{}, fmt.Errorf("%w: daysToDelay %d out of range", ErrInvalidRequest, daysToDelay)
	}
	now = now.In(p.loc)

	p.mu.Lock()
	defer p.mu.Unlock()

	if daysToDelay > 0 {
		return p.slot(now, daysToDelay), nil
	}
	if now.Hour() >= WindowEndHour {
		return time.Time{}, fmt.Errorf("%w: business hours (%02d:00-%02d:00) are over for today", ErrSchedulingInfeasible, WindowStartHour, WindowEndHour)
	}
	for i := 0; i < maxSlotAttempts; i++ {
		if at := p.slot(now, 0); at.After(now) {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: no slot left today for email %d", ErrSchedulingInfeasible, index)
}

func (p *Policy) slot(now time.Time, days int) time.Time {
	y, m, d := now.Date()
	h := WindowStartHour + p.rnd.Intn(WindowEndHour-WindowStartHour)
	return time.Date(y, m, d+days, h, p.rnd.Intn(60), p.rnd.Intn(60), 0, p.loc)
}

// InterEmailDelay spaces emails out: zero for the first, 5-10 minutes after.
func (p *Policy) InterEmailDelay(index int) time.Duration {
	if index <= 0 {
		return 0
	}
	span := int64((maxGap - minGap) / time.Millisecond)

	p.mu.Lock()
	defer p.mu.Unlock()
	return minGap + time.Duration(p.rnd.Int63n(span+1))*time.Millisecond
}
