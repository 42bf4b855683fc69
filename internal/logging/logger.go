// Package logging provides categorized logging for schoolhub.
// Every category logs through one zap logger installed at startup and
// carries a "category" field. Until Initialize is called all output is discarded.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup and shutdown
	CategoryConfig    Category = "config"    // Config loading and validation
	CategoryFeed      Category = "feed"      // Alert sheet fetching
	CategoryAlerts    Category = "alerts"    // Parsing and the alert board
	CategoryServer    Category = "server"    // HTTP surface
	CategoryAssistant Category = "assistant" // Gemini chat and image calls
	CategoryAdmin     Category = "admin"     // Admin gate and sheet status
	CategoryTUI       Category = "tui"       // Terminal shell
)

// Options configures the zap logger built by New.
type Options struct {
	Level string `yaml:"level"` // debug, info, warn, error
	// Format is "json" (production encoder) or "text" (console encoder).
	Format string `yaml:"format"`
	// File sends output to a file instead of stderr. The terminal shell
	// only logs when it is set.
	File string `yaml:"file,omitempty"`
	// Categories disables individual categories when set to false.
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// Logger is a category-scoped printf-style logger.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu       sync.RWMutex
	base     = zap.NewNop()
	disabled = map[Category]bool{}
	loggers  = map[Category]*Logger{}
)

// New builds a zap logger from opts.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(opts.Format, "text") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	if opts.File != "" {
		cfg.OutputPaths = []string{opts.File}
		cfg.ErrorOutputPaths = []string{opts.File}
	}
	return cfg.Build()
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Initialize installs l as the sink for every category. A nil l discards output.
func Initialize(l *zap.Logger, categories map[string]bool) {
	mu.Lock()
	defer mu.Unlock()

	if l == nil {
		l = zap.NewNop()
	}
	base = l
	disabled = map[Category]bool{}
	for name, enabled := range categories {
		if !enabled {
			disabled[Category(name)] = true
		}
	}
	loggers = map[Category]*Logger{}
}

// Base returns the installed zap logger.
func Base() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries.
func Sync() error {
	return Base().Sync()
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return !disabled[category]
}

// Get returns (or creates) a logger for the given category.
func Get(category Category) *Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	z := zap.NewNop()
	if !disabled[category] {
		z = base.WithOptions(zap.AddCallerSkip(2)).With(zap.String("category", string(category)))
	}
	l := &Logger{category: category, sugar: z.Sugar()}
	loggers[category] = l
	return l
}

// Category returns the logger's category.
func (l *Logger) Category() Category { return l.category }

func (l *Logger) Debug(format string, args ...interface{}) { l.log(zapcore.DebugLevel, format, args) }

func (l *Logger) Info(format string, args ...interface{}) { l.log(zapcore.InfoLevel, format, args) }

func (l *Logger) Warn(format string, args ...interface{}) { l.log(zapcore.WarnLevel, format, args) }

func (l *Logger) Error(format string, args ...interface{}) { l.log(zapcore.ErrorLevel, format, args) }

func (l *Logger) log(level zapcore.Level, format string, args []interface{}) {
	l.sugar.Logf(level, format, args...)
}

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.Desugar().With(fields...).Sugar()}
}

// =============================================================================
// Category helpers
// =============================================================================

func Boot(format string, args ...interface{})     { Get(CategoryBoot).Info(format, args...) }
func BootWarn(format string, args ...interface{}) { Get(CategoryBoot).Warn(format, args...) }

func Config(format string, args ...interface{})     { Get(CategoryConfig).Info(format, args...) }
func ConfigWarn(format string, args ...interface{}) { Get(CategoryConfig).Warn(format, args...) }

func Feed(format string, args ...interface{})      { Get(CategoryFeed).Info(format, args...) }
func FeedDebug(format string, args ...interface{}) { Get(CategoryFeed).Debug(format, args...) }
func FeedWarn(format string, args ...interface{})  { Get(CategoryFeed).Warn(format, args...) }
func FeedError(format string, args ...interface{}) { Get(CategoryFeed).Error(format, args...) }

func Alerts(format string, args ...interface{})      { Get(CategoryAlerts).Info(format, args...) }
func AlertsDebug(format string, args ...interface{}) { Get(CategoryAlerts).Debug(format, args...) }
func AlertsWarn(format string, args ...interface{})  { Get(CategoryAlerts).Warn(format, args...) }
func AlertsError(format string, args ...interface{}) { Get(CategoryAlerts).Error(format, args...) }

func Server(format string, args ...interface{})      { Get(CategoryServer).Info(format, args...) }
func ServerDebug(format string, args ...interface{}) { Get(CategoryServer).Debug(format, args...) }
func ServerWarn(format string, args ...interface{})  { Get(CategoryServer).Warn(format, args...) }
func ServerError(format string, args ...interface{}) { Get(CategoryServer).Error(format, args...) }

func Assistant(format string, args ...interface{}) { Get(CategoryAssistant).Info(format, args...) }
func AssistantDebug(format string, args ...interface{}) {
	Get(CategoryAssistant).Debug(format, args...)
}
func AssistantWarn(format string, args ...interface{}) { Get(CategoryAssistant).Warn(format, args...) }
func AssistantError(format string, args ...interface{}) {
	Get(CategoryAssistant).Error(format, args...)
}

func Admin(format string, args ...interface{})     { Get(CategoryAdmin).Info(format, args...) }
func AdminWarn(format string, args ...interface{}) { Get(CategoryAdmin).Warn(format, args...) }

func TUIDebug(format string, args ...interface{}) { Get(CategoryTUI).Debug(format, args...) }
