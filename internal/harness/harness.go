// Package harness executes the benchmark grid. It crosses every
// selected adapter with every fixture case in both modes, isolates
// each invocation behind a timeout and panic recovery, and reduces
// the outcomes into a sealed run record.
package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/compare"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/record"
	"github.com/unbound-force/assay/internal/score"
)

// DefaultTimeout bounds one invocation's wall clock. Library calls
// can hang; the timeout converts a hang into an internal fault
// without stalling the rest of the grid.
const DefaultTimeout = 10 * time.Second

// Options tunes a Runner. The zero value runs with defaults.
type Options struct {
	// Jobs is the worker count. Zero or negative means NumCPU.
	Jobs int

	// Timeout is the per-invocation wall clock limit. Zero or
	// negative means DefaultTimeout.
	Timeout time.Duration

	// Rubric maps case outcomes to feature scores. The zero value
	// means score.DefaultRubric.
	Rubric score.Rubric

	// Tolerance replaces compare.DefaultTolerance for cases that
	// carry no explicit comparison policy. Zero keeps the default;
	// negative demands exact equality.
	Tolerance float64

	// Tool identifies the harness in run metadata.
	Tool record.Tool

	// Logger receives progress and skip warnings. Nil discards.
	Logger *charmlog.Logger
}

// Runner drives one benchmark run. All dependencies are injected and
// read-only once constructed, so a Runner is safe to reuse.
type Runner struct {
	manifest *corpus.Manifest
	adapters []adapter.Adapter
	verifier adapter.Adapter
	opts     Options
	log      *charmlog.Logger
}

// New builds a Runner over a loaded manifest and a selected adapter
// registry. verifier is the trusted reader used to check written
// workbooks; it must read the manifest's profile format.
func New(m *corpus.Manifest, reg *adapter.Registry, verifier adapter.Adapter, opts Options) (*Runner, error) {
	if m == nil {
		return nil, fmt.Errorf("nil manifest")
	}
	if reg == nil || reg.Len() == 0 {
		return nil, fmt.Errorf("no adapters registered")
	}
	if verifier == nil {
		return nil, fmt.Errorf("nil verifier")
	}
	ext := m.Profile.Extension()
	if !verifier.CanRead() || !adapter.SupportsFormat(verifier, ext) {
		return nil, fmt.Errorf("verifier %s cannot read %s files",
			verifier.Info().Name, ext)
	}

	if opts.Jobs <= 0 {
		opts.Jobs = max(1, runtime.NumCPU())
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Rubric == (score.Rubric{}) {
		opts.Rubric = score.DefaultRubric()
	}
	if opts.Tool == (record.Tool{}) {
		opts.Tool = record.Tool{Name: "assay", Version: "dev"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}

	return &Runner{
		manifest: m,
		adapters: reg.All(),
		verifier: verifier,
		opts:     opts,
		log:      logger,
	}, nil
}

// unit is one grid invocation: one adapter against one case in one
// mode. path is the fixture to read, or the scratch file to write.
type unit struct {
	file corpus.TestFile
	c    corpus.TestCase
	ad   adapter.Adapter
	mode string
	path string
}

func (u unit) location() adapter.Location {
	loc := adapter.Location{
		Feature: u.file.Feature,
		Op:      u.mode,
		CaseID:  u.c.ID,
		Sheet:   u.file.SheetFor(u.c),
	}
	if ref, err := u.c.Ref(); err == nil {
		loc.Cell = ref.String()
	}
	return loc
}

// unitResult carries one invocation's outcome back to assembly.
// executed is false when cancellation skipped the unit.
type unitResult struct {
	executed bool
	res      record.ModeResult
}

// Run executes the full grid and returns the sealed record. Faults
// inside adapters never fail the run; they become diagnostics on the
// affected cases. On context cancellation Run stops dispatching,
// finishes in-flight units, and returns a record with
// Metadata.Partial set, still sealed and fit to persist. The error
// is reserved for corpus-level problems and record assembly.
func (r *Runner) Run(ctx context.Context) (*record.Record, error) {
	start := time.Now()

	warnings, err := r.manifest.Validate()
	if err != nil {
		return nil, fmt.Errorf("fixture corpus unusable: %w", err)
	}
	for _, w := range warnings {
		r.log.Warn(w)
	}

	scratch, err := os.MkdirTemp("", "assay-write-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	units := r.expand(scratch)
	r.log.Info("running benchmark grid",
		"profile", r.manifest.Profile,
		"adapters", len(r.adapters),
		"files", len(r.manifest.Files),
		"units", len(units),
		"jobs", r.opts.Jobs)

	results := make([]unitResult, len(units))
	sem := make(chan struct{}, r.opts.Jobs)
	var wg sync.WaitGroup
	for i := range units {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()
			results[i] = r.invoke(ctx, units[i])
		}()
	}
	wg.Wait()

	rec := r.assemble(units, results)
	rec.Metadata.DurationMS = time.Since(start).Milliseconds()
	if err := rec.Seal(); err != nil {
		return nil, fmt.Errorf("sealing run record: %w", err)
	}

	r.log.Info("run complete",
		"run_id", rec.Metadata.RunID,
		"duration", time.Since(start).Round(time.Millisecond),
		"partial", rec.Metadata.Partial)
	return rec, nil
}

// expand builds the work list: manifest file order, then adapter
// order, then case order, read before write. Files with unknown
// features and unusable cases are left out, mirroring the manifest
// validation warnings.
func (r *Runner) expand(scratch string) []unit {
	ext := r.manifest.Profile.Extension()
	var units []unit
	for _, f := range r.manifest.Files {
		if _, ok := corpus.FeatureByID(f.Feature); !ok {
			continue
		}
		cases := usableCases(f)
		for _, ad := range r.adapters {
			canRead, canWrite := r.modesFor(ad)
			if !canRead && !canWrite {
				continue
			}
			name := ad.Info().Name
			for _, c := range cases {
				if canRead {
					units = append(units, unit{
						file: f, c: c, ad: ad,
						mode: record.ModeRead,
						path: r.manifest.FilePath(f),
					})
				}
				if canWrite {
					out := fmt.Sprintf("%s_%s_%s.%s", name, f.Feature, c.ID, ext)
					units = append(units, unit{
						file: f, c: c, ad: ad,
						mode: record.ModeWrite,
						path: filepath.Join(scratch, out),
					})
				}
			}
		}
	}
	return units
}

// modesFor reports which modes apply for an adapter under the run's
// profile. An inapplicable mode is never invoked; it shows up as a
// nil score, not a failure.
func (r *Runner) modesFor(a adapter.Adapter) (read, write bool) {
	if !adapter.SupportsFormat(a, r.manifest.Profile.Extension()) {
		return false, false
	}
	return a.CanRead(), a.CanWrite()
}

// usableCases filters a file's cases the way manifest validation
// flags them: empty IDs, duplicate IDs (later occurrence), and cases
// without a resolvable cell are skipped.
func usableCases(f corpus.TestFile) []corpus.TestCase {
	seen := make(map[string]bool, len(f.Cases))
	var cases []corpus.TestCase
	for _, c := range f.Cases {
		if c.ID == "" || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		if c.Row <= 0 && c.Cell == "" {
			continue
		}
		cases = append(cases, c)
	}
	return cases
}

// invoke runs one unit in its own goroutine under the timeout. A
// timed-out invocation is abandoned: its goroutine keeps the buffered
// channel as its only reference and its eventual result is dropped.
func (r *Runner) invoke(ctx context.Context, u unit) unitResult {
	if ctx.Err() != nil {
		return unitResult{}
	}
	r.log.Debug("invoke",
		"library", u.ad.Info().Name,
		"feature", u.file.Feature,
		"case", u.c.ID,
		"mode", u.mode)

	done := make(chan record.ModeResult, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				f := adapter.NewFault(adapter.CategoryInternal, u.location(),
					fmt.Sprintf("panic: %v", p))
				f.Cause = "library panicked"
				done <- failed(u, f)
			}
		}()
		done <- r.execute(u)
	}()

	timer := time.NewTimer(r.opts.Timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return unitResult{executed: true, res: res}
	case <-timer.C:
		err := fmt.Errorf("no result after %s, invocation abandoned: %w",
			r.opts.Timeout, context.DeadlineExceeded)
		return unitResult{executed: true, res: failed(u, adapter.Classify(err, u.location()))}
	case <-ctx.Done():
		return unitResult{}
	}
}

func (r *Runner) execute(u unit) record.ModeResult {
	if u.mode == record.ModeRead {
		return r.executeRead(u)
	}
	return r.executeWrite(u)
}

// executeRead opens the fixture with the adapter under test and
// compares the extracted payload against the case expectation.
func (r *Runner) executeRead(u unit) record.ModeResult {
	rd, err := u.ad.OpenReader(u.path)
	if err != nil {
		return failed(u, adapter.Classify(err, u.location()))
	}
	defer rd.Close()

	got, err := Observe(rd, u.file, u.c)
	if err != nil {
		return failed(u, adapter.Classify(err, u.location()))
	}
	return r.verdict(u, got)
}

// executeWrite has the adapter under test build a one-case workbook,
// then reads it back with the trusted verifier and compares. The
// written file only ever proves or disproves the writer; the
// verifier's extraction is held to be correct.
func (r *Runner) executeWrite(u unit) record.ModeResult {
	if err := u.ad.WriteCase(u.path, u.file, u.c); err != nil {
		return failed(u, adapter.Classify(err, u.location()))
	}

	rd, err := r.verifier.OpenReader(u.path)
	if err != nil {
		f := adapter.NewFault(adapter.CategoryInternal, u.location(),
			fmt.Sprintf("verifier cannot open written file: %v", err))
		f.Cause = "written workbook unreadable"
		return failed(u, f)
	}
	defer rd.Close()

	got, err := Observe(rd, u.file, u.c)
	if err != nil {
		return failed(u, adapter.Classify(err, u.location()))
	}
	return r.verdict(u, got)
}

// verdict compares expectation and observation. Passes carry no
// payloads; failures keep both sides for audit.
func (r *Runner) verdict(u unit, got any) record.ModeResult {
	pol := u.c.Policy()
	if u.c.Compare == nil && r.opts.Tolerance != 0 {
		pol.Tolerance = r.opts.Tolerance
	}
	out := compare.Values(u.c.Expected, got, pol)
	if out.Passed {
		return record.ModeResult{Passed: true}
	}
	return record.ModeResult{
		Passed:   false,
		Expected: u.c.Expected,
		Actual:   got,
		Fault:    adapter.NewFault(adapter.CategoryDataMismatch, u.location(), out.Reason),
	}
}

func failed(u unit, f *adapter.Fault) record.ModeResult {
	return record.ModeResult{Passed: false, Expected: u.c.Expected, Fault: f}
}

// assemble reduces unit results into the record. Output order is
// fixed regardless of completion order: manifest file order, adapter
// name order, case order. A mode with no executed outcomes stays
// unscored.
func (r *Runner) assemble(units []unit, results []unitResult) *record.Record {
	rec := record.New(r.manifest.Profile, r.opts.Tool)
	for _, ad := range r.adapters {
		info := ad.Info()
		rec.Libraries[info.Name] = info
	}

	type invKey struct{ feature, library, caseID, mode string }
	byKey := make(map[invKey]unitResult, len(units))
	for i, u := range units {
		byKey[invKey{u.file.Feature, u.ad.Info().Name, u.c.ID, u.mode}] = results[i]
	}

	partial := false
	for _, f := range r.manifest.Files {
		if _, ok := corpus.FeatureByID(f.Feature); !ok {
			continue
		}
		cases := usableCases(f)
		for _, ad := range r.adapters {
			name := ad.Info().Name
			canRead, canWrite := r.modesFor(ad)
			fr := record.FeatureResult{
				Feature: f.Feature,
				Library: name,
				Cases:   make(map[string]record.CaseResult, len(cases)),
			}

			var readOuts, writeOuts []score.Outcome
			for _, c := range cases {
				var cr record.CaseResult
				if canRead {
					ur, ok := byKey[invKey{f.Feature, name, c.ID, record.ModeRead}]
					if ok && ur.executed {
						res := ur.res
						cr.Read = &res
						readOuts = append(readOuts, score.Outcome{Importance: c.Importance, Passed: res.Passed})
					} else {
						partial = true
					}
				}
				if canWrite {
					ur, ok := byKey[invKey{f.Feature, name, c.ID, record.ModeWrite}]
					if ok && ur.executed {
						res := ur.res
						cr.Write = &res
						writeOuts = append(writeOuts, score.Outcome{Importance: c.Importance, Passed: res.Passed})
					} else {
						partial = true
					}
				}
				if cr.Read != nil || cr.Write != nil {
					fr.Cases[c.ID] = cr
				}
			}

			if len(readOuts) > 0 {
				s := score.Compute(readOuts, r.opts.Rubric)
				fr.Scores.Read = &s
			}
			if len(writeOuts) > 0 {
				s := score.Compute(writeOuts, r.opts.Rubric)
				fr.Scores.Write = &s
			}
			rec.Results = append(rec.Results, fr)
		}
	}

	rec.Metadata.Partial = partial
	return rec
}
