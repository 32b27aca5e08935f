package syncconf

import (
	"fmt"
)

// ValidationError aggregates every problem found in a Settings value so a
// caller sees all of them at once instead of failing on the first.
type ValidationError struct {
	Errors []string
}

// Error implements error.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("invalid settings: %v", ve.Errors)
}

// Validate checks settings for internally-inconsistent or out-of-range
// values, defaulting a handful of fields the way conf.ValidateSettings
// defaults an unset BirdNET model path. An unset CorrelationMethod is not
// an error; it is silently defaulted to SCC.
func Validate(settings *Settings) error {
	ve := ValidationError{}

	if settings.CorrelationMethod == "" {
		settings.CorrelationMethod = MethodSCC
	}
	if !validMethod(settings.CorrelationMethod) {
		ve.Errors = append(ve.Errors, fmt.Sprintf("correlation_method %q is not a recognized method", settings.CorrelationMethod))
	}

	if settings.ChunkCount <= 0 {
		ve.Errors = append(ve.Errors, "chunk_count must be positive")
	}
	if settings.ChunkDuration <= 0 {
		ve.Errors = append(ve.Errors, "chunk_duration must be positive")
	}

	if settings.ScanStartPct < 0 {
		settings.ScanStartPct = 0
	}
	if settings.ScanEndPct > 100 {
		settings.ScanEndPct = 100
	}
	if settings.ScanStartPct >= settings.ScanEndPct {
		ve.Errors = append(ve.Errors, fmt.Sprintf("scan_start_pct (%.2f) must be less than scan_end_pct (%.2f)", settings.ScanStartPct, settings.ScanEndPct))
	}

	if settings.MinMatchPct < 0 || settings.MinMatchPct > 100 {
		ve.Errors = append(ve.Errors, "min_match_pct must be between 0 and 100")
	}
	if settings.MinAcceptedChunks <= 0 {
		ve.Errors = append(ve.Errors, "min_accepted_chunks must be positive")
	}

	if settings.AnalysisSampleRate <= 0 {
		ve.Errors = append(ve.Errors, "analysis_sample_rate must be positive")
	}

	if err := validateFilterSettings(&settings.Filter); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateSelectorSettings(&settings.Selector); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateVideoVerifiedSettings(&settings.VideoVerified); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateMultiCorrSettings(&settings.MultiCorr); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	switch settings.SyncMode {
	case SyncPositiveOnly, SyncAllowNegative:
	case "":
		settings.SyncMode = SyncPositiveOnly
	default:
		ve.Errors = append(ve.Errors, fmt.Sprintf("sync_mode %q is not recognized", settings.SyncMode))
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validMethod(m CorrelationMethod) bool {
	for _, known := range AllMethods {
		if m == known {
			return true
		}
	}
	return false
}

func validateFilterSettings(f *FilterSettings) error {
	var errs []string
	switch f.Method {
	case FilterNone, FilterLowPass, FilterBandPass, FilterHighPass:
	case "":
		f.Method = FilterNone
	default:
		errs = append(errs, fmt.Sprintf("filter.method %q is not recognized", f.Method))
	}
	if f.Order < 0 {
		errs = append(errs, "filter.order must not be negative")
	}
	if f.Method == FilterBandPass && f.LowCutoffHz >= f.HighCutoffHz && f.HighCutoffHz != 0 {
		errs = append(errs, "filter.low_cutoff_hz must be less than filter.high_cutoff_hz for bandpass")
	}
	if len(errs) > 0 {
		return fmt.Errorf("filter settings errors: %v", errs)
	}
	return nil
}

func validateSelectorSettings(s *SelectorSettings) error {
	var errs []string
	switch s.Mode {
	case SelectModeMode, SelectModeClustered, SelectModeEarly, SelectModeFirstStable, SelectModeAverage:
	case "":
		s.Mode = SelectModeMode
	default:
		errs = append(errs, fmt.Sprintf("selector.mode %q is not recognized", s.Mode))
	}
	if s.EarlyClusterWindow <= 0 {
		errs = append(errs, "selector.early_cluster_window must be positive")
	}
	if s.EarlyClusterThreshold <= 0 {
		errs = append(errs, "selector.early_cluster_threshold must be positive")
	}
	if s.FirstStableMinChunks <= 0 {
		errs = append(errs, "selector.first_stable_min_chunks must be positive")
	}
	if s.FirstStableOutlierToleranceMS < 0 {
		errs = append(errs, "selector.first_stable_outlier_tolerance_ms must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("selector settings errors: %v", errs)
	}
	return nil
}

func validateVideoVerifiedSettings(v *VideoVerifiedSettings) error {
	if !v.Enabled {
		return nil
	}
	var errs []string
	if v.NumCheckpoints <= 0 {
		errs = append(errs, "video_verified.num_checkpoints must be positive when enabled")
	}
	if v.SearchRange < 0 {
		errs = append(errs, "video_verified.search_range must not be negative")
	}
	switch v.HashAlgorithm {
	case "phash", "dhash", "ahash":
	default:
		errs = append(errs, fmt.Sprintf("video_verified.hash_algorithm %q is not recognized", v.HashAlgorithm))
	}
	if v.HashSize <= 0 {
		errs = append(errs, "video_verified.hash_size must be positive")
	}
	switch v.ComparisonMethod {
	case "hash", "ssim", "mse":
	default:
		errs = append(errs, fmt.Sprintf("video_verified.comparison_method %q is not recognized", v.ComparisonMethod))
	}
	if v.SequenceLength <= 0 {
		errs = append(errs, "video_verified.sequence_length must be positive")
	}

	if v.InterlacedNumCheckpoints < 0 {
		errs = append(errs, "video_verified.interlaced_num_checkpoints must not be negative")
	}
	if v.InterlacedSearchRange < 0 {
		errs = append(errs, "video_verified.interlaced_search_range must not be negative")
	}
	if v.InterlacedHashAlgorithm != "" {
		switch v.InterlacedHashAlgorithm {
		case "phash", "dhash", "ahash":
		default:
			errs = append(errs, fmt.Sprintf("video_verified.interlaced_hash_algorithm %q is not recognized", v.InterlacedHashAlgorithm))
		}
	}
	if v.InterlacedHashSize < 0 {
		errs = append(errs, "video_verified.interlaced_hash_size must not be negative")
	}
	if v.InterlacedComparisonMethod != "" {
		switch v.InterlacedComparisonMethod {
		case "hash", "ssim", "mse":
		default:
			errs = append(errs, fmt.Sprintf("video_verified.interlaced_comparison_method %q is not recognized", v.InterlacedComparisonMethod))
		}
	}
	if v.InterlacedSequenceLength < 0 {
		errs = append(errs, "video_verified.interlaced_sequence_length must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("video_verified settings errors: %v", errs)
	}
	return nil
}

func validateMultiCorrSettings(m *MultiCorrelationSettings) error {
	if !m.Enabled {
		return nil
	}
	if len(m.Methods) == 0 {
		m.Methods = AllMethods
		return nil
	}
	var errs []string
	for _, method := range m.Methods {
		if !validMethod(method) {
			errs = append(errs, fmt.Sprintf("multi_corr.methods contains unrecognized method %q", method))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multi_corr settings errors: %v", errs)
	}
	return nil
}
