// Package logger provides leveled logging for the game.
// Player actions and engine decisions are traceable through Event.
package logger

import (
	"fmt"
	"io"
	"log"
)

// Logger provides leveled logging with context.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// New creates a logger writing every level to w.
func New(w io.Writer) *Logger {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds
	return &Logger{
		infoLogger:  log.New(w, "[CRISIS-INFO] ", flags),
		warnLogger:  log.New(w, "[CRISIS-WARN] ", flags),
		errorLogger: log.New(w, "[CRISIS-ERROR] ", flags),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

// OrDiscard lets constructors accept a nil logger.
func OrDiscard(l *Logger) *Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// Info logs informational messages.
func (l *Logger) Info(format string, args ...any) {
	l.infoLogger.Output(2, fmt.Sprintf(format, args...))
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...any) {
	l.warnLogger.Output(2, fmt.Sprintf(format, args...))
}

// Error logs error messages.
func (l *Logger) Error(format string, args ...any) {
	l.errorLogger.Output(2, fmt.Sprintf(format, args...))
}

// Event logs a game event attributed to an actor (usually a role or session id).
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.infoLogger.Printf("[EVENT:%s] Actor:%s | %s", eventType, actorID, details)
}
