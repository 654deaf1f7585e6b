package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// baseLogger writes text-formatted entries to a single writer. Loggers
// derived via With/WithComponent share the writer and level.
type baseLogger struct {
	mu        *sync.Mutex
	out       io.Writer
	level     *Level
	component string
	fields    []Field
}

// Option configures a logger at construction time.
type Option func(*baseLogger)

// WithOutput directs entries to w instead of stderr.
func WithOutput(w io.Writer) Option {
	return func(l *baseLogger) { l.out = w }
}

// WithLevel sets the initial minimum level.
func WithLevel(level Level) Option {
	return func(l *baseLogger) { *l.level = level }
}

// NewLogger creates a text logger writing to stderr at info level.
func NewLogger(opts ...Option) Logger {
	level := InfoLevel
	l := &baseLogger{
		mu:    &sync.Mutex{},
		out:   os.Stderr,
		level: &level,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *baseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *baseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *baseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *baseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

func (l *baseLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	clone := *l
	clone.fields = append(append([]Field{}, l.fields...), fields...)
	return &clone
}

func (l *baseLogger) WithComponent(component string) Logger {
	clone := *l
	clone.component = component
	return &clone
}

func (l *baseLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level
}

func (l *baseLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.level
}

func (l *baseLogger) log(level Level, msg string, fields []Field) {
	if level < l.GetLevel() {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().UTC().Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("]")
	if l.component != "" {
		b.WriteString(" ")
		b.WriteString(l.component)
		b.WriteString(":")
	}
	b.WriteString(" ")
	b.WriteString(msg)

	all := append(append([]Field{}, l.fields...), fields...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Key < all[j].Key })
	for _, f := range all {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	b.WriteString("\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.out, b.String())
}
