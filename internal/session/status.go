package session

import "time"

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}
	return "info"
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Status is a transient message shown to the user until ExpiresAt.
type Status struct {
	Text      string    `json:"text"`
	Level     Level     `json:"level"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Active reports whether s should still be displayed at now.
func (s Status) Active(now time.Time) bool {
	return s.Text != "" && now.Before(s.ExpiresAt)
}

// Board holds at most one status message. The zero value is ready to use
// with the default duration; it is not safe for concurrent use on its own.
type Board struct {
	Duration time.Duration
	Now      func() time.Time

	current Status
}

func (b *Board) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

// Post replaces the current message.
func (b *Board) Post(level Level, text string) Status {
	d := b.Duration
	if d <= 0 {
		d = defaultStatusDuration
	}
	b.current = Status{Text: text, Level: level, ExpiresAt: b.now().Add(d)}
	return b.current
}

// Current returns the live message, or the zero Status once it expired.
func (b *Board) Current() Status {
	if !b.current.Active(b.now()) {
		return Status{}
	}
	return b.current
}
