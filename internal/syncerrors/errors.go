// Package syncerrors provides the stable error taxonomy the analysis core
// raises, plus an enhanced-error wrapper for attaching diagnostic context.
package syncerrors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"sync"
	"time"
)

// Category groups errors for logging/metrics without callers needing to
// parse messages.
type Category string

const (
	CategoryInvalidAudio       Category = "invalid-audio"
	CategoryInsufficientChunks Category = "insufficient-chunks"
	CategorySelectorFailed     Category = "selector-failed"
	CategoryMissingVideo       Category = "missing-video"
	CategoryConfiguration      Category = "configuration"
	CategoryCorrelation        Category = "correlation"
	CategoryGeneric            Category = "generic"
)

// EnhancedError wraps an error with a category, component, and free-form
// context for diagnostics.
type EnhancedError struct {
	Err       error
	Component string
	Category  Category
	Context   map[string]any
	Timestamp time.Time

	mu sync.RWMutex
}

func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

func (ee *EnhancedError) Is(target error) bool {
	var other *EnhancedError
	if stderrors.As(target, &other) {
		return ee.Category == other.Category
	}
	return stderrors.Is(ee.Err, target)
}

// GetContext returns a copy of the error's context map.
func (ee *EnhancedError) GetContext() map[string]any {
	ee.mu.RLock()
	defer ee.mu.RUnlock()
	if ee.Context == nil {
		return nil
	}
	out := make(map[string]any, len(ee.Context))
	maps.Copy(out, ee.Context)
	return out
}

// Builder provides a fluent interface for constructing EnhancedErrors.
type Builder struct {
	err       error
	component string
	category  Category
	context   map[string]any
}

// New starts a Builder wrapping err.
func New(err error) *Builder {
	return &Builder{err: err}
}

// Newf starts a Builder wrapping a formatted error.
func Newf(format string, args ...any) *Builder {
	return New(fmt.Errorf(format, args...))
}

func (b *Builder) Component(component string) *Builder {
	b.component = component
	return b
}

func (b *Builder) Category(category Category) *Builder {
	b.category = category
	return b
}

func (b *Builder) Context(key string, value any) *Builder {
	if b.context == nil {
		b.context = make(map[string]any)
	}
	b.context[key] = value
	return b
}

// Build produces the EnhancedError.
func (b *Builder) Build() *EnhancedError {
	category := b.category
	if category == "" {
		category = CategoryGeneric
	}
	component := b.component
	if component == "" {
		component = "syncalign"
	}
	return &EnhancedError{
		Err:       b.err,
		Component: component,
		Category:  category,
		Context:   b.context,
		Timestamp: time.Now(),
	}
}

// IsCategory reports whether err is an EnhancedError in the given category.
func IsCategory(err error, category Category) bool {
	var ee *EnhancedError
	return stderrors.As(err, &ee) && ee.Category == category
}

// Standard-library passthroughs so callers can treat this package as a
// drop-in for "errors" when they only need Is/As/Unwrap/Join.
func Is(err, target error) bool { return stderrors.Is(err, target) }
func As(err error, target any) bool { return stderrors.As(err, target) }
func Unwrap(err error) error    { return stderrors.Unwrap(err) }
func Join(errs ...error) error  { return stderrors.Join(errs...) }
