package syncerrors

import "fmt"

// InvalidAudioError reports a chunk or source whose samples could not be
// analyzed: too short, silent, or containing NaN/Inf.
type InvalidAudioError struct {
	*EnhancedError
	Message string
}

// Unwrap exposes the embedded EnhancedError to errors.As/Is chains. The
// promoted Unwrap would skip straight to the inner error, hiding the
// category from IsCategory.
func (e *InvalidAudioError) Unwrap() error { return e.EnhancedError }

// InvalidAudio builds a stable InvalidAudio error.
func InvalidAudio(message string) *InvalidAudioError {
	return &InvalidAudioError{
		EnhancedError: New(fmt.Errorf("invalid audio: %s", message)).
			Category(CategoryInvalidAudio).
			Component("syncchunk").
			Context("message", message).
			Build(),
		Message: message,
	}
}

// InsufficientChunksError reports that too few chunks were accepted to
// reach min_accepted_chunks.
type InsufficientChunksError struct {
	*EnhancedError
	Valid    int
	Required int
}

// Unwrap exposes the embedded EnhancedError to errors.As/Is chains.
func (e *InsufficientChunksError) Unwrap() error { return e.EnhancedError }

// InsufficientChunks builds a stable InsufficientChunks error.
func InsufficientChunks(valid, required int) *InsufficientChunksError {
	return &InsufficientChunksError{
		EnhancedError: New(fmt.Errorf("insufficient accepted chunks: %d/%d", valid, required)).
			Category(CategoryInsufficientChunks).
			Component("syncengine").
			Context("valid", valid).
			Context("required", required).
			Build(),
		Valid:    valid,
		Required: required,
	}
}

// SelectorFailedError reports that a delay selector produced no
// DelaySelection from the accepted chunks handed to it.
type SelectorFailedError struct {
	*EnhancedError
	Reason   string
	Accepted int
}

// Unwrap exposes the embedded EnhancedError to errors.As/Is chains.
func (e *SelectorFailedError) Unwrap() error { return e.EnhancedError }

// SelectorFailed builds a stable SelectorFailed error.
func SelectorFailed(reason string, accepted int) *SelectorFailedError {
	return &SelectorFailedError{
		EnhancedError: New(fmt.Errorf("selector failed: %s (accepted=%d)", reason, accepted)).
			Category(CategorySelectorFailed).
			Component("syncselect").
			Context("reason", reason).
			Context("accepted", accepted).
			Build(),
		Reason:   reason,
		Accepted: accepted,
	}
}

// MissingVideoError reports that video-verified refinement could not
// proceed because a video path was absent or unreadable.
type MissingVideoError struct {
	*EnhancedError
	Message string
}

// Unwrap exposes the embedded EnhancedError to errors.As/Is chains.
func (e *MissingVideoError) Unwrap() error { return e.EnhancedError }

// MissingVideo builds a stable MissingVideo error (video-verified only).
func MissingVideo(message string) *MissingVideoError {
	return &MissingVideoError{
		EnhancedError: New(fmt.Errorf("missing video: %s", message)).
			Category(CategoryMissingVideo).
			Component("syncvideo").
			Context("message", message).
			Build(),
		Message: message,
	}
}
