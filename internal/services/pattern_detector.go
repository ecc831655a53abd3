package services

import (
	"time"

	"github.com/securevote/app-verify/internal/models"
)

// PatternConfig tunes the pattern detector.
type PatternConfig struct {
	WindowSize       int
	AnalysisInterval time.Duration
	FraudThreshold   float64

	ChangeRatioThreshold    float64
	ReappearanceThreshold   int
	AlternationLength       int
	EnergyVarianceThreshold float64
}

// DefaultPatternConfig returns the production defaults.
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		WindowSize:              30,
		AnalysisInterval:        3 * time.Second,
		FraudThreshold:          3,
		ChangeRatioThreshold:    0.3,
		ReappearanceThreshold:   2,
		AlternationLength:       6,
		EnergyVarianceThreshold: 0.02,
	}
}

// PatternDetector scores a session's observation stream. It is owned by one
// session and is not safe for concurrent use.
type PatternDetector struct {
	cfg          PatternConfig
	ring         []models.Observation
	head         int
	size         int
	lastAnalysis time.Time
	suspicious   float64
	report       models.PatternReport
}

// NewPatternDetector returns an empty detector.
func NewPatternDetector(cfg PatternConfig) *PatternDetector {
	defaults := DefaultPatternConfig()
	if cfg.WindowSize < defaults.AlternationLength {
		cfg.WindowSize = defaults.WindowSize
	}
	if cfg.FraudThreshold <= 0 {
		cfg.FraudThreshold = defaults.FraudThreshold
	}
	if cfg.ChangeRatioThreshold <= 0 {
		cfg.ChangeRatioThreshold = defaults.ChangeRatioThreshold
	}
	if cfg.ReappearanceThreshold <= 0 {
		cfg.ReappearanceThreshold = defaults.ReappearanceThreshold
	}
	if cfg.AlternationLength < 2 {
		cfg.AlternationLength = defaults.AlternationLength
	}
	if cfg.EnergyVarianceThreshold <= 0 {
		cfg.EnergyVarianceThreshold = defaults.EnergyVarianceThreshold
	}
	return &PatternDetector{
		cfg:  cfg,
		ring: make([]models.Observation, cfg.WindowSize),
	}
}

// Observe appends obs and, when the analysis interval has elapsed on the
// observation clock, re-scores the window.
func (d *PatternDetector) Observe(obs models.Observation) models.PatternReport {
	d.push(obs)

	report := d.report
	report.Analyzed = false
	report.WindowSize = d.size

	if !d.lastAnalysis.IsZero() && obs.Timestamp.Sub(d.lastAnalysis) < d.cfg.AnalysisInterval {
		return report
	}
	d.lastAnalysis = obs.Timestamp

	signals := AnalyzeWindow(d.Window(), d.cfg)
	score := signals.Score()
	d.suspicious = adjustSuspicion(d.suspicious, score)

	analyzedAt := obs.Timestamp
	d.report = models.PatternReport{
		Analyzed:           true,
		WindowSize:         d.size,
		Signals:            signals,
		SuspiciousScore:    score,
		SuspiciousPatterns: d.suspicious,
		FraudDetected:      d.suspicious >= d.cfg.FraudThreshold,
		AnalyzedAt:         &analyzedAt,
	}
	return d.report
}

// adjustSuspicion raises suspicion by 1 for a suspicious window and lowers it
// by 0.5 for a clean one, never below zero.
func adjustSuspicion(current float64, score int) float64 {
	if score >= 1 {
		return current + 1
	}
	current -= 0.5
	if current < 0 {
		return 0
	}
	return current
}

// SuspiciousPatterns returns the accumulated suspicion.
func (d *PatternDetector) SuspiciousPatterns() float64 {
	return d.suspicious
}

func (d *PatternDetector) push(obs models.Observation) {
	idx := (d.head + d.size) % len(d.ring)
	d.ring[idx] = obs
	if d.size < len(d.ring) {
		d.size++
		return
	}
	d.head = (d.head + 1) % len(d.ring)
}

// Window returns the buffered observations, oldest first.
func (d *PatternDetector) Window() []models.Observation {
	out := make([]models.Observation, d.size)
	for i := 0; i < d.size; i++ {
		out[i] = d.ring[(d.head+i)%len(d.ring)]
	}
	return out
}

// AnalyzeWindow evaluates the pattern signals over window.
func AnalyzeWindow(window []models.Observation, cfg PatternConfig) models.PatternSignals {
	var signals models.PatternSignals
	if len(window) == 0 {
		return signals
	}

	counts := make([]int, len(window))
	for i, obs := range window {
		counts[i] = obs.Count()
	}

	changes := 0
	seenPresent := counts[0] > 0
	for i := 1; i < len(counts); i++ {
		if counts[i] != counts[i-1] {
			changes++
		}
		if counts[i] > 0 && counts[i-1] == 0 && seenPresent {
			signals.Reappearances++
		}
		if counts[i] > 0 {
			seenPresent = true
		}
	}
	signals.ChangeRatio = float64(changes) / float64(len(counts))
	signals.RapidChanges = signals.ChangeRatio > cfg.ChangeRatioThreshold
	signals.PeriodicAbsence = signals.Reappearances >= cfg.ReappearanceThreshold
	signals.Alternating = isAlternating(counts, cfg.AlternationLength)

	signals.EnergyVariance = energyVariance(window)
	signals.EnergyVarianceHigh = signals.EnergyVariance > cfg.EnergyVarianceThreshold
	return signals
}

// isAlternating reports an a,b,a,b,... tail of length n with a != b.
func isAlternating(counts []int, n int) bool {
	if len(counts) < n {
		return false
	}
	tail := counts[len(counts)-n:]
	a, b := tail[0], tail[1]
	if a == b {
		return false
	}
	for i, c := range tail {
		if (i%2 == 0 && c != a) || (i%2 == 1 && c != b) {
			return false
		}
	}
	return true
}

func energyVariance(window []models.Observation) float64 {
	var sum float64
	for _, obs := range window {
		sum += obs.AudioEnergy
	}
	mean := sum / float64(len(window))

	var variance float64
	for _, obs := range window {
		d := obs.AudioEnergy - mean
		variance += d * d
	}
	return variance / float64(len(window))
}
