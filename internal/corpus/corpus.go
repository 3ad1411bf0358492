// Package corpus models the fixture corpus: workbook files with
// known content and a manifest of expected values that drives the
// harness grid.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/unbound-force/assay/internal/compare"
	"github.com/unbound-force/assay/internal/sheet"
)

// ManifestSchemaVersion is the manifest format this build reads.
const ManifestSchemaVersion = 1

// ErrManifestMissing marks an absent or unreadable corpus manifest.
// This is the only condition that aborts a run outright.
var ErrManifestMissing = errors.New("corpus manifest missing")

// Profile names a fixture corpus flavor, keyed by file format.
type Profile string

// Supported corpus profiles.
const (
	ProfileXLSX Profile = "xlsx"
	ProfileXLS  Profile = "xls"
	ProfileXLSB Profile = "xlsb"
)

// KnownProfiles lists every supported profile.
var KnownProfiles = map[Profile]bool{
	ProfileXLSX: true,
	ProfileXLS:  true,
	ProfileXLSB: true,
}

// Extension returns the file extension for the profile, without dot.
func (p Profile) Extension() string { return string(p) }

// Importance weights a test case for scoring.
type Importance string

// Case importance levels. Basic cases gate the lower scores; edge
// cases separate full fidelity from functional support.
const (
	ImportanceBasic Importance = "basic"
	ImportanceEdge  Importance = "edge"
)

// Manifest describes one fixture corpus directory.
type Manifest struct {
	// SchemaVersion is the manifest format version.
	SchemaVersion int `json:"schema_version"`

	// Profile is the corpus flavor (xlsx, xls, xlsb).
	Profile Profile `json:"profile"`

	// Generated is the corpus build time.
	Generated time.Time `json:"generated"`

	// Generator identifies the tool that built the corpus.
	Generator GeneratorInfo `json:"generator"`

	// Files lists the fixture workbooks.
	Files []TestFile `json:"files"`

	// Dir is the corpus directory the manifest was loaded from.
	Dir string `json:"-"`
}

// GeneratorInfo identifies the corpus builder.
type GeneratorInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// TestFile is one fixture workbook exercising one feature.
type TestFile struct {
	// Path is the workbook location relative to the corpus dir.
	Path string `json:"path"`

	// Feature is the catalog feature ID (e.g. "cell_values").
	Feature string `json:"feature"`

	// Tier is the feature tier (1..3).
	Tier int `json:"tier"`

	// Sheet is the worksheet holding the cases. Defaults to
	// "Sheet1".
	Sheet string `json:"sheet,omitempty"`

	// Cases are the expectations contained in this workbook.
	Cases []TestCase `json:"cases"`
}

// TestCase is one expectation inside a fixture workbook.
type TestCase struct {
	// ID is the stable case identifier, unique within the file.
	ID string `json:"id"`

	// Label is the human-readable description, also written to
	// column A of the case row.
	Label string `json:"label"`

	// Row is the 1-based worksheet row holding the case. The data
	// cell defaults to column B of this row.
	Row int `json:"row,omitempty"`

	// Cell optionally overrides the data cell (A1 notation).
	Cell string `json:"cell,omitempty"`

	// Sheet optionally overrides the worksheet for this case.
	Sheet string `json:"sheet,omitempty"`

	// Importance is basic or edge. Defaults to basic.
	Importance Importance `json:"importance,omitempty"`

	// Expected is the decoded expectation payload.
	Expected any `json:"expected"`

	// Setup carries writer-side instructions that are not part of
	// the expectation: "operands" lists values placed two columns
	// right of the data cell, "sheets" lists extra worksheets as
	// {name, cell, value} objects.
	Setup map[string]any `json:"setup,omitempty"`

	// Compare overrides comparison rules for this case.
	Compare *compare.Policy `json:"compare,omitempty"`
}

// Ref resolves the case's data cell.
func (c TestCase) Ref() (sheet.Ref, error) {
	if c.Cell != "" {
		return sheet.ParseRef(c.Cell)
	}
	if c.Row <= 0 {
		return sheet.Ref{}, fmt.Errorf("case %s: no cell and no positive row", c.ID)
	}
	return sheet.Ref{Col: 2, Row: c.Row}, nil
}

// Policy returns the case's comparison policy, or the zero policy.
func (c TestCase) Policy() compare.Policy {
	if c.Compare != nil {
		return *c.Compare
	}
	return compare.Policy{}
}

// SheetName returns the worksheet holding the file's cases.
func (f TestFile) SheetName() string {
	if f.Sheet != "" {
		return f.Sheet
	}
	return "Sheet1"
}

// SheetFor resolves the worksheet for one case: the case override
// when present, else the file's sheet.
func (f TestFile) SheetFor(c TestCase) string {
	if c.Sheet != "" {
		return c.Sheet
	}
	return f.SheetName()
}

// ManifestPath returns the manifest location inside a corpus dir.
func ManifestPath(dir string) string {
	return filepath.Join(dir, "manifest.json")
}

// Load reads and decodes the manifest of a corpus directory. A
// missing manifest yields ErrManifestMissing; callers treat that as
// a hard abort.
func Load(dir string) (*Manifest, error) {
	raw, err := os.ReadFile(ManifestPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("fixture corpus at %s: %w", dir, ErrManifestMissing)
		}
		return nil, fmt.Errorf("fixture corpus at %s: %w: %v", dir, ErrManifestMissing, err)
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestPath(dir), err)
	}
	m.Dir = dir

	for i := range m.Files {
		for j := range m.Files[i].Cases {
			if m.Files[i].Cases[j].Importance == "" {
				m.Files[i].Cases[j].Importance = ImportanceBasic
			}
		}
	}
	return &m, nil
}

// FilePath resolves a fixture workbook's absolute path.
func (m *Manifest) FilePath(f TestFile) string {
	return filepath.Join(m.Dir, filepath.FromSlash(f.Path))
}

// Validate checks the manifest for structural problems. Fatal
// problems (wrong schema version, unknown profile, empty file list)
// return an error; recoverable ones (unknown features, duplicate
// case IDs, missing workbooks) return warnings and the runner skips
// the affected units.
func (m *Manifest) Validate() ([]string, error) {
	if m.SchemaVersion != ManifestSchemaVersion {
		return nil, fmt.Errorf("manifest schema version %d, this build reads %d",
			m.SchemaVersion, ManifestSchemaVersion)
	}
	if !KnownProfiles[m.Profile] {
		return nil, fmt.Errorf("unknown corpus profile %q", m.Profile)
	}
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("manifest lists no fixture files")
	}

	var warnings []string
	for _, f := range m.Files {
		if _, ok := FeatureByID(f.Feature); !ok {
			warnings = append(warnings,
				fmt.Sprintf("%s: unknown feature %q, file skipped", f.Path, f.Feature))
			continue
		}
		if len(f.Cases) == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: no cases", f.Path))
		}
		if _, err := os.Stat(m.FilePath(f)); err != nil {
			warnings = append(warnings,
				fmt.Sprintf("%s: fixture not on disk, cases will fault", f.Path))
		}

		seen := map[string]bool{}
		for _, c := range f.Cases {
			if c.ID == "" {
				warnings = append(warnings,
					fmt.Sprintf("%s: case with empty id skipped", f.Path))
				continue
			}
			if seen[c.ID] {
				warnings = append(warnings,
					fmt.Sprintf("%s: duplicate case id %q, later occurrence skipped", f.Path, c.ID))
			}
			seen[c.ID] = true
			if c.Importance != ImportanceBasic && c.Importance != ImportanceEdge {
				warnings = append(warnings,
					fmt.Sprintf("%s: case %s has unknown importance %q, treated as basic",
						f.Path, c.ID, c.Importance))
			}
			if c.Row <= 0 && c.Cell == "" {
				warnings = append(warnings,
					fmt.Sprintf("%s: case %s has no row or cell, skipped", f.Path, c.ID))
			}
		}
	}
	return warnings, nil
}

// Save writes the manifest to its corpus directory.
func (m *Manifest) Save() error {
	f, err := os.Create(ManifestPath(m.Dir))
	if err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return nil
}
