package main

import (
	"sync"
	"time"
)

// TimerHandle cancels a pending timer. Stop is safe to call more than once.
type TimerHandle interface {
	Stop()
}

// Clock abstracts time so tests can drive timers by hand.
type Clock interface {
	Now() time.Time
	// After schedules fn once after d.
	After(d time.Duration, fn func()) TimerHandle
	// Every schedules fn repeatedly with period d until the handle stops.
	Every(d time.Duration, fn func()) TimerHandle
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) After(d time.Duration, fn func()) TimerHandle {
	return &afterHandle{timer: time.AfterFunc(d, fn)}
}

func (systemClock) Every(d time.Duration, fn func()) TimerHandle {
	h := &everyHandle{done: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return h
}

type afterHandle struct {
	timer *time.Timer
}

func (h *afterHandle) Stop() { h.timer.Stop() }

type everyHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *everyHandle) Stop() {
	h.once.Do(func() { close(h.done) })
}
