package clock

import (
	"sync"
	"time"
)

// Clock - источник текущего времени. Бизнес-логика не читает время напрямую.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type realClock struct {
	loc *time.Location
}

// New возвращает системные часы в указанной временной зоне
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &realClock{loc: loc}
}

// LoadLocation загружает временную зону по имени, при ошибке возвращает UTC
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *realClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *realClock) Location() *time.Location {
	return c.loc
}

// Fixed - часы с заданным временем для тестов
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixed создает часы, всегда возвращающие now
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

func (f *Fixed) Location() *time.Location {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now.Location()
}

// Set переставляет часы
func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	f.now = now
	f.mu.Unlock()
}

// Advance сдвигает часы на d
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
