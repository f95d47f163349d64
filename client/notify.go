package client

// Level is the severity of a user-facing notification banner.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notifier surfaces transient notifications to the user. Failures are
// never fatal; the banner is the whole error UX.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }
