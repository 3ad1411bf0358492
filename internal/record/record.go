// Package record persists benchmark runs as immutable JSON
// snapshots. A run is sealed with a content digest over its payload
// so later consumers (the delta engine, report rendering) can detect
// a tampered or truncated file before trusting it.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
)

// SchemaVersion is the run record format version.
const SchemaVersion = "1.0.0"

// Mode names. A mode is one direction of the fidelity check.
const (
	ModeRead  = "read"
	ModeWrite = "write"
)

// Modes lists the checked modes in rendering order.
var Modes = []string{ModeRead, ModeWrite}

// ErrDigestMismatch marks a record whose content no longer matches
// its sealed digest.
var ErrDigestMismatch = errors.New("run record digest mismatch")

// Tool identifies the harness build that produced a record.
type Tool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Metadata describes one run.
type Metadata struct {
	// RunID is a random identifier minted at run start.
	RunID string `json:"run_id"`

	// Generated is the run start time in UTC.
	Generated time.Time `json:"generated"`

	// Profile is the fixture corpus flavor the run executed against.
	Profile corpus.Profile `json:"profile"`

	Harness  Tool   `json:"harness"`
	Platform string `json:"platform"`

	// DurationMS is the wall-clock run duration in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Partial marks a run that was cancelled before the grid
	// finished. Partial records are valid but diff against a full
	// run with care.
	Partial bool `json:"partial,omitempty"`

	// Digest is the SHA-256 hex of the canonicalized payload,
	// stamped by Seal.
	Digest string `json:"digest,omitempty"`
}

// Scores holds the per-mode feature scores. A nil pointer is
// not_applicable, which is distinct from a zero score.
type Scores struct {
	Read  *int `json:"read"`
	Write *int `json:"write"`
}

// ForMode returns the score pointer for a mode name, nil for an
// unknown mode.
func (s Scores) ForMode(mode string) *int {
	switch mode {
	case ModeRead:
		return s.Read
	case ModeWrite:
		return s.Write
	}
	return nil
}

// ModeResult is one case verdict in one mode. Expected and actual
// payloads are retained in full for diagnosis.
type ModeResult struct {
	Passed   bool           `json:"passed"`
	Expected any            `json:"expected,omitempty"`
	Actual   any            `json:"actual,omitempty"`
	Fault    *adapter.Fault `json:"fault,omitempty"`
}

// CaseResult groups the per-mode verdicts of one test case. A nil
// mode was not attempted.
type CaseResult struct {
	Read  *ModeResult `json:"read,omitempty"`
	Write *ModeResult `json:"write,omitempty"`
}

// ForMode returns the mode result for a mode name.
func (c CaseResult) ForMode(mode string) *ModeResult {
	switch mode {
	case ModeRead:
		return c.Read
	case ModeWrite:
		return c.Write
	}
	return nil
}

// FeatureResult is the scored outcome of one (feature, library)
// pair across both modes.
type FeatureResult struct {
	Feature string `json:"feature"`
	Library string `json:"library"`
	Scores  Scores `json:"scores"`

	// Cases maps case ID to its verdicts.
	Cases map[string]CaseResult `json:"test_cases"`

	// Notes carries curated limitation notes merged in at report
	// time plus harness remarks (timeouts, panics).
	Notes []string `json:"notes,omitempty"`
}

// Record is one immutable benchmark run.
type Record struct {
	SchemaVersion string                  `json:"schema_version"`
	Metadata      Metadata                `json:"metadata"`
	Libraries     map[string]adapter.Info `json:"libraries"`
	Results       []FeatureResult         `json:"results"`
}

// New starts a record for a run against the given profile. The
// caller fills Libraries and Results, then stamps DurationMS and
// calls Seal.
func New(profile corpus.Profile, harness Tool) *Record {
	return &Record{
		SchemaVersion: SchemaVersion,
		Metadata: Metadata{
			RunID:     uuid.NewString(),
			Generated: time.Now().UTC().Truncate(time.Second),
			Profile:   profile,
			Harness:   harness,
			Platform:  runtime.GOOS + "-" + runtime.GOARCH,
		},
		Libraries: map[string]adapter.Info{},
		Results:   []FeatureResult{},
	}
}

// WriteJSON writes the record as indented JSON.
func (r *Record) WriteJSON(w io.Writer) error {
	rec := *r
	if rec.Libraries == nil {
		rec.Libraries = map[string]adapter.Info{}
	}
	if rec.Results == nil {
		rec.Results = []FeatureResult{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// Load reads a persisted record and verifies its digest when one is
// present. A digest mismatch wraps ErrDigestMismatch.
func Load(path string) (*Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("parse run record %s: %w", path, err)
	}

	if want := rec.Metadata.Digest; want != "" {
		got, err := rec.Digest()
		if err != nil {
			return nil, fmt.Errorf("verify run record %s: %w", path, err)
		}
		if got != want {
			return nil, fmt.Errorf("%s: %w: recorded %s, computed %s",
				path, ErrDigestMismatch, want, got)
		}
	}

	return &rec, nil
}

// Validate checks the structural invariants a well-formed record
// holds. It returns the first violation.
func (r *Record) Validate() error {
	if r.SchemaVersion != SchemaVersion {
		return fmt.Errorf("schema version %q, this build reads %q",
			r.SchemaVersion, SchemaVersion)
	}
	if r.Metadata.RunID == "" {
		return errors.New("metadata missing run_id")
	}
	if !corpus.KnownProfiles[r.Metadata.Profile] {
		return fmt.Errorf("unknown profile %q", r.Metadata.Profile)
	}

	for _, fr := range r.Results {
		if fr.Feature == "" || fr.Library == "" {
			return fmt.Errorf("result missing feature or library (feature %q, library %q)",
				fr.Feature, fr.Library)
		}
		if _, ok := r.Libraries[fr.Library]; !ok {
			return fmt.Errorf("%s/%s: library not declared in libraries",
				fr.Library, fr.Feature)
		}
		for _, mode := range Modes {
			if err := validateMode(fr, mode); err != nil {
				return fmt.Errorf("%s/%s %s: %w", fr.Library, fr.Feature, mode, err)
			}
		}
	}
	return nil
}

// validateMode enforces the score range and the full-fidelity rule:
// a feature scores 3 only when every executed case of that mode
// passed.
func validateMode(fr FeatureResult, mode string) error {
	score := fr.Scores.ForMode(mode)
	if score == nil {
		return nil
	}
	if *score < 0 || *score > 3 {
		return fmt.Errorf("score %d out of range", *score)
	}
	if *score == 3 {
		for id, cr := range fr.Cases {
			if mr := cr.ForMode(mode); mr != nil && !mr.Passed {
				return fmt.Errorf("score 3 but case %s failed", id)
			}
		}
	}
	return nil
}
