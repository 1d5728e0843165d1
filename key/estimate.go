package key

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/sonido-nota/logging"
	"github.com/RyanBlaney/sonido-nota/pitch"
)

// Profile selects the key profile templates used for correlation
type Profile int

const (
	ProfileKrumhansl Profile = iota
	ProfileTemperley
	ProfileDiatonic
	ProfileTonicTriad
)

func (p Profile) String() string {
	switch p {
	case ProfileKrumhansl:
		return "Krumhansl-Schmuckler"
	case ProfileTemperley:
		return "Temperley"
	case ProfileDiatonic:
		return "Diatonic"
	case ProfileTonicTriad:
		return "Tonic Triad"
	default:
		return "Unknown"
	}
}

// ParseProfile accepts "krumhansl", "temperley", "diatonic" or "tonic-triad".
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "krumhansl", "krumhansl-schmuckler", "":
		return ProfileKrumhansl, nil
	case "temperley":
		return ProfileTemperley, nil
	case "diatonic":
		return ProfileDiatonic, nil
	case "tonic-triad", "tonic triad", "triad":
		return ProfileTonicTriad, nil
	}
	return ProfileKrumhansl, fmt.Errorf("unknown key profile %q", s)
}

// ProfileTemplate holds the major and minor weights of a profile, indexed by
// pitch class relative to the tonic.
type ProfileTemplate struct {
	Major       []float64 `json:"major"`
	Minor       []float64 `json:"minor"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// Candidate is a key with its correlation score.
type Candidate struct {
	Key         *Key    `json:"key"`
	Correlation float64 `json:"correlation"` // Pearson correlation with the rotated profile
	Confidence  float64 `json:"confidence"`  // correlation clipped to 0..1
}

// Result contains key estimation results
type Result struct {
	Key        *Key    `json:"key"`
	Confidence float64 `json:"confidence"`

	Candidates []Candidate `json:"candidates"`

	// Analysis details
	Histogram []float64 `json:"histogram"` // pitch-class weights of the input
	Scores    []float64 `json:"scores"`    // 12 major then 12 minor correlations, by tonic pitch class
	Profile   string    `json:"profile"`

	// Quality metrics
	Clarity   float64 `json:"clarity"`   // (best - second) / best
	Ambiguity float64 `json:"ambiguity"` // normalized entropy of the positive scores
}

// Params contains parameters for key estimation
type Params struct {
	Profile       Profile `json:"profile"`
	MaxCandidates int     `json:"max_candidates"` // candidates kept in the result
	BinaryMode    bool    `json:"binary_mode"`    // count each pitch class once
	WeightBass    float64 `json:"weight_bass"`    // extra weight for the lowest pitch, 0 disables
}

// DefaultParams returns Krumhansl profiles with five candidates.
func DefaultParams() Params {
	return Params{
		Profile:       ProfileKrumhansl,
		MaxCandidates: 5,
	}
}

// Estimator correlates pitch-class histograms with rotated key profiles.
// An Estimator is safe for concurrent use once constructed.
type Estimator struct {
	params   Params
	profiles map[Profile]*ProfileTemplate
	logger   logging.Logger
}

// NewEstimator creates an estimator. A nil logger uses the global logger.
func NewEstimator(params Params, logger logging.Logger) *Estimator {
	if params.MaxCandidates <= 0 {
		params.MaxCandidates = DefaultParams().MaxCandidates
	}
	if logger == nil {
		logger = logging.WithFields(logging.Fields{"component": "key_estimator"})
	}
	e := &Estimator{
		params:   params,
		profiles: make(map[Profile]*ProfileTemplate),
		logger:   logger,
	}
	e.initializeProfiles()
	return e
}

// Params returns the estimator parameters.
func (e *Estimator) Params() Params { return e.params }

// Template returns the profile template in use.
func (e *Estimator) Template() ProfileTemplate {
	t := e.template()
	return ProfileTemplate{
		Major:       append([]float64(nil), t.Major...),
		Minor:       append([]float64(nil), t.Minor...),
		Name:        t.Name,
		Description: t.Description,
	}
}

func (e *Estimator) template() *ProfileTemplate {
	if t, ok := e.profiles[e.params.Profile]; ok {
		return t
	}
	return e.profiles[ProfileKrumhansl]
}

// Histogram counts the occurrences of each pitch class among the sounded
// pitches. Rests are skipped.
func (e *Estimator) Histogram(pitches []pitch.Pitch) []float64 {
	hist := make([]float64, 12)
	var bass pitch.Pitch
	for _, p := range pitches {
		if p.IsSilent() {
			continue
		}
		if e.params.BinaryMode {
			hist[p.PitchClass()] = 1
		} else {
			hist[p.PitchClass()]++
		}
		if !p.IsOctaveNeutral() && (bass.IsSilent() || p.Compare(bass) < 0) {
			bass = p
		}
	}
	if e.params.WeightBass > 0 && !bass.IsSilent() {
		hist[bass.PitchClass()] += e.params.WeightBass
	}
	return hist
}

// Estimate returns the most likely key of pitches together with the best
// candidates in descending order of correlation.
func (e *Estimator) Estimate(pitches []pitch.Pitch) (Result, error) {
	hist := e.Histogram(pitches)
	if floats.Sum(hist) == 0 {
		return Result{}, ErrNoPitches
	}
	if stat.Variance(hist, nil) == 0 {
		return Result{}, fmt.Errorf("uniform pitch-class histogram: %w", ErrAmbiguous)
	}

	profile := e.template()
	scores := make([]float64, 24)
	candidates := make([]Candidate, 0, 24)
	for tonic := 0; tonic < 12; tonic++ {
		for _, mode := range []Mode{Major, Minor} {
			weights := profile.Major
			if mode == Minor {
				weights = profile.Minor
			}
			corr := e.correlateWithProfile(hist, weights, tonic)
			scores[int(mode)*12+tonic] = corr
			candidates = append(candidates, Candidate{
				Key:         ForPitchClass(tonic, mode),
				Correlation: corr,
				Confidence:  math.Max(0, corr),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Correlation > candidates[j].Correlation
	})
	if len(candidates) > e.params.MaxCandidates {
		candidates = candidates[:e.params.MaxCandidates]
	}

	best := candidates[0]
	result := Result{
		Key:        best.Key,
		Confidence: best.Confidence,
		Candidates: candidates,
		Histogram:  hist,
		Scores:     scores,
		Profile:    profile.Name,
		Clarity:    calculateClarity(scores),
		Ambiguity:  calculateAmbiguity(scores),
	}

	e.logger.Debug("Key estimated", logging.Fields{
		"key":        best.Key.Name(),
		"confidence": result.Confidence,
		"clarity":    result.Clarity,
		"profile":    profile.Name,
		"pitches":    len(pitches),
	})
	return result, nil
}

// correlateWithProfile rotates the profile so that its tonic weight sits on
// pitch class tonic and returns the Pearson correlation with hist.
func (e *Estimator) correlateWithProfile(hist, profile []float64, tonic int) float64 {
	shifted := make([]float64, len(profile))
	for i := range profile {
		shifted[i] = profile[((i-tonic)%12+12)%12]
	}
	corr := stat.Correlation(hist, shifted, nil)
	if math.IsNaN(corr) {
		return 0
	}
	return corr
}

func calculateClarity(scores []float64) float64 {
	if len(scores) < 2 {
		return 0
	}
	sorted := append([]float64(nil), scores...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if sorted[0] > 0 {
		return (sorted[0] - sorted[1]) / sorted[0]
	}
	return 0
}

func calculateAmbiguity(scores []float64) float64 {
	positive := make([]float64, 0, len(scores))
	for _, s := range scores {
		if s > 0 {
			positive = append(positive, s)
		}
	}
	if len(positive) < 2 {
		return 0
	}
	floats.Scale(1/floats.Sum(positive), positive)
	return stat.Entropy(positive) / math.Log(float64(len(scores)))
}

// initializeProfiles installs the profile templates
func (e *Estimator) initializeProfiles() {
	// Krumhansl-Schmuckler profiles (empirically derived)
	e.profiles[ProfileKrumhansl] = &ProfileTemplate{
		Major:       []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88},
		Minor:       []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17},
		Name:        ProfileKrumhansl.String(),
		Description: "Empirical profiles based on listener ratings",
	}

	// Temperley profiles (corpus-based)
	e.profiles[ProfileTemperley] = &ProfileTemplate{
		Major:       []float64{5.0, 2.0, 3.5, 2.0, 4.5, 4.0, 2.0, 4.5, 2.0, 3.5, 1.5, 4.0},
		Minor:       []float64{5.0, 2.0, 3.5, 4.5, 2.0, 4.0, 2.0, 4.5, 3.5, 2.0, 1.5, 4.0},
		Name:        ProfileTemperley.String(),
		Description: "Statistical profiles from musical corpora",
	}

	e.profiles[ProfileDiatonic] = &ProfileTemplate{
		Major:       []float64{5.0, 0.0, 3.0, 0.0, 4.0, 3.5, 0.0, 4.5, 0.0, 3.0, 0.0, 2.0},
		Minor:       []float64{5.0, 0.0, 3.0, 3.5, 0.0, 3.5, 0.0, 4.5, 3.0, 0.0, 2.0, 0.0},
		Name:        ProfileDiatonic.String(),
		Description: "Simple diatonic scale weights",
	}

	e.profiles[ProfileTonicTriad] = &ProfileTemplate{
		Major:       []float64{5.0, 0.0, 0.0, 0.0, 3.0, 0.0, 0.0, 4.0, 0.0, 0.0, 0.0, 0.0},
		Minor:       []float64{5.0, 0.0, 0.0, 3.0, 0.0, 0.0, 0.0, 4.0, 0.0, 0.0, 0.0, 0.0},
		Name:        ProfileTonicTriad.String(),
		Description: "Emphasizes tonic triad notes only",
	}
}
