// Package syncconf defines the configuration surface of the analysis core
// and loads it with viper: defaults, optional YAML file, environment
// overrides.
package syncconf

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// CorrelationMethod names one of the seven interchangeable correlation
// algorithms.
type CorrelationMethod string

const (
	MethodSCC         CorrelationMethod = "scc"
	MethodGCCPhat     CorrelationMethod = "gcc_phat"
	MethodGCCScot     CorrelationMethod = "gcc_scot"
	MethodWhitened    CorrelationMethod = "whitened"
	MethodOnset       CorrelationMethod = "onset"
	MethodDTW         CorrelationMethod = "dtw"
	MethodSpectrogram CorrelationMethod = "spectrogram"
)

// AllMethods lists every correlation method in the fixed order multi-
// correlation iterates them.
var AllMethods = []CorrelationMethod{
	MethodSCC, MethodGCCPhat, MethodGCCScot, MethodWhitened, MethodOnset, MethodDTW, MethodSpectrogram,
}

// FilteringMethod selects the IIR filter applied to chunk pairs before
// correlation.
type FilteringMethod string

const (
	FilterNone     FilteringMethod = "none"
	FilterLowPass  FilteringMethod = "lowpass"
	FilterBandPass FilteringMethod = "bandpass"
	FilterHighPass FilteringMethod = "highpass"
)

// SelectionMode selects the delay-selector strategy.
type SelectionMode string

const (
	SelectModeMode         SelectionMode = "mode"
	SelectModeClustered    SelectionMode = "mode_clustered"
	SelectModeEarly        SelectionMode = "mode_early"
	SelectModeFirstStable  SelectionMode = "first_stable"
	SelectModeAverage      SelectionMode = "average"
)

// SyncMode controls global-shift reconciliation.
type SyncMode string

const (
	SyncPositiveOnly  SyncMode = "positive_only"
	SyncAllowNegative SyncMode = "allow_negative"
)

// FilterSettings configures the optional IIR filter.
type FilterSettings struct {
	Method       FilteringMethod `mapstructure:"method"`
	LowCutoffHz  float64         `mapstructure:"low_cutoff_hz"`
	HighCutoffHz float64         `mapstructure:"high_cutoff_hz"`
	Order        int             `mapstructure:"order"`
}

// SelectorSettings configures the delay selector and its mode-specific
// knobs.
type SelectorSettings struct {
	Mode                          SelectionMode `mapstructure:"mode"`
	EarlyClusterWindow            int           `mapstructure:"early_cluster_window"`
	EarlyClusterThreshold         int           `mapstructure:"early_cluster_threshold"`
	FirstStableMinChunks          int           `mapstructure:"first_stable_min_chunks"`
	FirstStableSkipUnstable       bool          `mapstructure:"first_stable_skip_unstable"`
	FirstStableOutlierToleranceMS float64       `mapstructure:"first_stable_outlier_tolerance_ms"`
}

// VideoVerifiedSettings configures the optional video-verified refinement
// pass. The Interlaced* fields override their non-interlaced counterpart
// once Verify detects an interlaced source or target; each tunable gets a
// distinct value for interlaced content, chosen before the candidate scan
// rather than only at the final fallback decision. A zero value means "use
// the non-interlaced setting unchanged".
type VideoVerifiedSettings struct {
	Enabled            bool   `mapstructure:"enabled"`
	NumCheckpoints     int    `mapstructure:"num_checkpoints"`
	SearchRange        int    `mapstructure:"search_range"`
	HashAlgorithm      string `mapstructure:"hash_algorithm"`
	HashSize           int    `mapstructure:"hash_size"`
	HashThreshold      int    `mapstructure:"hash_threshold"`
	ComparisonMethod   string `mapstructure:"comparison_method"`
	SequenceLength     int    `mapstructure:"sequence_length"`
	InterlacedFallback bool   `mapstructure:"interlaced_fallback"`

	InterlacedNumCheckpoints   int    `mapstructure:"interlaced_num_checkpoints"`
	InterlacedSearchRange      int    `mapstructure:"interlaced_search_range"`
	InterlacedHashAlgorithm    string `mapstructure:"interlaced_hash_algorithm"`
	InterlacedHashSize         int    `mapstructure:"interlaced_hash_size"`
	InterlacedHashThreshold    int    `mapstructure:"interlaced_hash_threshold"`
	InterlacedComparisonMethod string `mapstructure:"interlaced_comparison_method"`
	InterlacedSequenceLength   int    `mapstructure:"interlaced_sequence_length"`
}

// Effective returns the settings to use for one Verify call, substituting
// any non-zero Interlaced* override when interlaced is true.
func (v VideoVerifiedSettings) Effective(interlaced bool) VideoVerifiedSettings {
	if !interlaced {
		return v
	}
	eff := v
	if v.InterlacedNumCheckpoints > 0 {
		eff.NumCheckpoints = v.InterlacedNumCheckpoints
	}
	if v.InterlacedSearchRange > 0 {
		eff.SearchRange = v.InterlacedSearchRange
	}
	if v.InterlacedHashAlgorithm != "" {
		eff.HashAlgorithm = v.InterlacedHashAlgorithm
	}
	if v.InterlacedHashSize > 0 {
		eff.HashSize = v.InterlacedHashSize
	}
	if v.InterlacedHashThreshold > 0 {
		eff.HashThreshold = v.InterlacedHashThreshold
	}
	if v.InterlacedComparisonMethod != "" {
		eff.ComparisonMethod = v.InterlacedComparisonMethod
	}
	if v.InterlacedSequenceLength > 0 {
		eff.SequenceLength = v.InterlacedSequenceLength
	}
	return eff
}

// MultiCorrelationSettings enables the multi-method path.
type MultiCorrelationSettings struct {
	Enabled bool                `mapstructure:"enabled"`
	Methods []CorrelationMethod `mapstructure:"methods"`
}

// Settings is the full recognized configuration surface.
type Settings struct {
	CorrelationMethod       CorrelationMethod `mapstructure:"correlation_method"`
	ChunkCount              int               `mapstructure:"chunk_count"`
	ChunkDuration           float64           `mapstructure:"chunk_duration"`
	ScanStartPct            float64           `mapstructure:"scan_start_pct"`
	ScanEndPct              float64           `mapstructure:"scan_end_pct"`
	MinMatchPct             float64           `mapstructure:"min_match_pct"`
	MinAcceptedChunks       int               `mapstructure:"min_accepted_chunks"`
	UsePeakFit              bool              `mapstructure:"use_peak_fit"`
	UseHighQualityResampler bool              `mapstructure:"use_high_quality_resampler"`
	AnalysisSampleRate      int               `mapstructure:"analysis_sample_rate"`

	Filter        FilterSettings           `mapstructure:"filter"`
	Selector      SelectorSettings         `mapstructure:"selector"`
	SyncMode      SyncMode                 `mapstructure:"sync_mode"`
	MultiCorr     MultiCorrelationSettings `mapstructure:"multi_corr"`
	VideoVerified VideoVerifiedSettings    `mapstructure:"video_verified"`
}

var (
	settingsInstance *Settings
	settingsMu       sync.RWMutex
	once             sync.Once
)

// Default returns the recommended default settings: SCC, peak-fit on, mode selector, positive-only
// sync, video-verified disabled.
func Default() *Settings {
	return &Settings{
		CorrelationMethod:       MethodSCC,
		ChunkCount:              5,
		ChunkDuration:           15,
		ScanStartPct:            5,
		ScanEndPct:              95,
		MinMatchPct:             5,
		MinAcceptedChunks:       3,
		UsePeakFit:              true,
		UseHighQualityResampler: false,
		AnalysisSampleRate:      16000,
		Filter: FilterSettings{
			Method: FilterNone,
			Order:  5,
		},
		Selector: SelectorSettings{
			Mode:                          SelectModeMode,
			EarlyClusterWindow:            5,
			EarlyClusterThreshold:         3,
			FirstStableMinChunks:          3,
			FirstStableSkipUnstable:       true,
			FirstStableOutlierToleranceMS: 1.0,
		},
		SyncMode: SyncPositiveOnly,
		MultiCorr: MultiCorrelationSettings{
			Enabled: false,
		},
		VideoVerified: VideoVerifiedSettings{
			Enabled:          false,
			NumCheckpoints:   5,
			SearchRange:      3,
			HashAlgorithm:    "phash",
			HashSize:         8,
			HashThreshold:    10,
			ComparisonMethod: "hash",
			SequenceLength:   6,
			InterlacedFallback: true,

			// Interlaced content compares noisier frame pairs (combing
			// artifacts inflate hash distance), so it gets more checkpoints,
			// a wider search range, and a looser threshold than progressive.
			InterlacedNumCheckpoints:   8,
			InterlacedSearchRange:      5,
			InterlacedHashThreshold:    16,
			InterlacedSequenceLength:   4,
		},
	}
}

func setDefaultConfig(v *viper.Viper) {
	d := Default()
	v.SetDefault("correlation_method", string(d.CorrelationMethod))
	v.SetDefault("chunk_count", d.ChunkCount)
	v.SetDefault("chunk_duration", d.ChunkDuration)
	v.SetDefault("scan_start_pct", d.ScanStartPct)
	v.SetDefault("scan_end_pct", d.ScanEndPct)
	v.SetDefault("min_match_pct", d.MinMatchPct)
	v.SetDefault("min_accepted_chunks", d.MinAcceptedChunks)
	v.SetDefault("use_peak_fit", d.UsePeakFit)
	v.SetDefault("use_high_quality_resampler", d.UseHighQualityResampler)
	v.SetDefault("analysis_sample_rate", d.AnalysisSampleRate)

	v.SetDefault("filter.method", string(d.Filter.Method))
	v.SetDefault("filter.low_cutoff_hz", d.Filter.LowCutoffHz)
	v.SetDefault("filter.high_cutoff_hz", d.Filter.HighCutoffHz)
	v.SetDefault("filter.order", d.Filter.Order)

	v.SetDefault("selector.mode", string(d.Selector.Mode))
	v.SetDefault("selector.early_cluster_window", d.Selector.EarlyClusterWindow)
	v.SetDefault("selector.early_cluster_threshold", d.Selector.EarlyClusterThreshold)
	v.SetDefault("selector.first_stable_min_chunks", d.Selector.FirstStableMinChunks)
	v.SetDefault("selector.first_stable_skip_unstable", d.Selector.FirstStableSkipUnstable)
	v.SetDefault("selector.first_stable_outlier_tolerance_ms", d.Selector.FirstStableOutlierToleranceMS)

	v.SetDefault("sync_mode", string(d.SyncMode))

	v.SetDefault("multi_corr.enabled", d.MultiCorr.Enabled)

	v.SetDefault("video_verified.enabled", d.VideoVerified.Enabled)
	v.SetDefault("video_verified.num_checkpoints", d.VideoVerified.NumCheckpoints)
	v.SetDefault("video_verified.search_range", d.VideoVerified.SearchRange)
	v.SetDefault("video_verified.hash_algorithm", d.VideoVerified.HashAlgorithm)
	v.SetDefault("video_verified.hash_size", d.VideoVerified.HashSize)
	v.SetDefault("video_verified.hash_threshold", d.VideoVerified.HashThreshold)
	v.SetDefault("video_verified.comparison_method", d.VideoVerified.ComparisonMethod)
	v.SetDefault("video_verified.sequence_length", d.VideoVerified.SequenceLength)
	v.SetDefault("video_verified.interlaced_fallback", d.VideoVerified.InterlacedFallback)
	v.SetDefault("video_verified.interlaced_num_checkpoints", d.VideoVerified.InterlacedNumCheckpoints)
	v.SetDefault("video_verified.interlaced_search_range", d.VideoVerified.InterlacedSearchRange)
	v.SetDefault("video_verified.interlaced_hash_algorithm", d.VideoVerified.InterlacedHashAlgorithm)
	v.SetDefault("video_verified.interlaced_hash_size", d.VideoVerified.InterlacedHashSize)
	v.SetDefault("video_verified.interlaced_hash_threshold", d.VideoVerified.InterlacedHashThreshold)
	v.SetDefault("video_verified.interlaced_comparison_method", d.VideoVerified.InterlacedComparisonMethod)
	v.SetDefault("video_verified.interlaced_sequence_length", d.VideoVerified.InterlacedSequenceLength)
}

// Load reads configPaths (directories to search for "syncalign.yaml") and
// environment variables (prefixed SYNCALIGN_) into a fresh Settings value.
// If no config file is found, defaults alone are used; an absent optional
// config file is not an error.
func Load(configPaths ...string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("syncalign")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SYNCALIGN")
	v.AutomaticEnv()

	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	setDefaultConfig(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading syncalign config: %w", err)
		}
	}

	settings := Default()
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("unmarshaling syncalign config: %w", err)
	}

	if err := Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid syncalign config: %w", err)
	}

	settingsMu.Lock()
	settingsInstance = settings
	settingsMu.Unlock()

	return settings, nil
}

// Current returns the process-wide settings instance, loading defaults on
// first access if Load was never called.
func Current() *Settings {
	once.Do(func() {
		settingsMu.Lock()
		if settingsInstance == nil {
			settingsInstance = Default()
		}
		settingsMu.Unlock()
	})
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settingsInstance
}
