package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	xl "github.com/xuri/excelize/v2"

	"github.com/unbound-force/assay/internal/compare"
	"github.com/unbound-force/assay/internal/sheet"
)

// GeneratorVersion stamps manifests produced by Generate.
const GeneratorVersion = "0.1.0"

// ErrCannotGenerate marks a profile whose fixtures this tool cannot
// build. The xls and xlsb corpora are produced externally and only
// loaded.
var ErrCannotGenerate = errors.New("corpus generation supports only the xlsx profile")

// fixture pairs a catalog feature with its workbook builder. sheet
// names the first worksheet when the fixture does not use the
// default.
type fixture struct {
	feature string
	sheet   string
	build   func(b *book) ([]TestCase, error)
}

// fixtures lists the builders in catalog order.
var fixtures = []fixture{
	{feature: "cell_values", build: genCellValues},
	{feature: "formulas", build: genFormulas},
	{feature: "text_formatting", build: genTextFormatting},
	{feature: "background_colors", build: genBackgroundColors},
	{feature: "number_formats", build: genNumberFormats},
	{feature: "alignment", build: genAlignment},
	{feature: "borders", build: genBorders},
	{feature: "dimensions", build: genDimensions},
	{feature: "multiple_sheets", sheet: "Alpha", build: genMultipleSheets},
	{feature: "merged_cells", sheet: "MergeRow", build: genMergedCells},
	{feature: "conditional_formatting", sheet: "Greater", build: genConditionalFormatting},
	{feature: "data_validation", sheet: "List", build: genDataValidation},
	{feature: "hyperlinks", sheet: "Web", build: genHyperlinks},
	{feature: "images", sheet: "Pics", build: genImages},
	{feature: "pivot_tables", sheet: "Pivot", build: genPivotTables},
	{feature: "comments", sheet: "Note", build: genComments},
	{feature: "freeze_panes", sheet: "TopRow", build: genFreezePanes},
	{feature: "named_ranges", build: genNamedRanges},
	{feature: "tables", sheet: "Orders", build: genTables},
}

// Generate builds the fixture corpus for a profile under dir and
// writes its manifest. Each fixture workbook uses a three column
// layout: the case label in column A, the test cell in column B
// unless the case overrides it, and the expected payload as JSON in
// column C. The same expectations land in the manifest, which is the
// copy the harness consumes.
func Generate(dir string, profile Profile) (*Manifest, error) {
	if profile != ProfileXLSX {
		return nil, fmt.Errorf("profile %s: %w", profile, ErrCannotGenerate)
	}

	m := &Manifest{
		SchemaVersion: ManifestSchemaVersion,
		Profile:       profile,
		Generated:     time.Now().UTC(),
		Generator:     GeneratorInfo{Name: "assay-gen", Version: GeneratorVersion},
		Dir:           dir,
	}

	for _, fx := range fixtures {
		feat, ok := FeatureByID(fx.feature)
		if !ok {
			return nil, fmt.Errorf("no catalog entry for feature %q", fx.feature)
		}
		tf, err := buildFixture(dir, profile, feat, fx)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", fx.feature, err)
		}
		m.Files = append(m.Files, tf)
	}

	if err := m.Save(); err != nil {
		return nil, err
	}
	return m, nil
}

func buildFixture(dir string, profile Profile, feat Feature, fx fixture) (TestFile, error) {
	b, err := newBook(fx.sheet)
	if err != nil {
		return TestFile{}, err
	}
	defer b.f.Close()

	cases, err := fx.build(b)
	if err != nil {
		return TestFile{}, err
	}

	tf := TestFile{
		Feature: feat.ID,
		Tier:    feat.Tier,
		Sheet:   fx.sheet,
		Cases:   cases,
	}
	for i := range tf.Cases {
		if tf.Cases[i].Importance == "" {
			tf.Cases[i].Importance = ImportanceBasic
		}
		if err := b.annotate(tf.SheetFor(tf.Cases[i]), tf.Cases[i]); err != nil {
			return TestFile{}, err
		}
	}

	rel := filepath.Join(fmt.Sprintf("tier%d", feat.Tier), feat.FileName(profile))
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return TestFile{}, err
	}
	if err := b.f.SaveAs(path); err != nil {
		return TestFile{}, fmt.Errorf("saving %s: %w", path, err)
	}

	tf.Path = filepath.ToSlash(rel)
	return tf, nil
}

// book is an in-progress fixture workbook. def is the worksheet
// cases land on when they carry no override.
type book struct {
	f   *xl.File
	def string
}

func newBook(first string) (*book, error) {
	if first == "" {
		first = "Sheet1"
	}
	f := xl.NewFile()
	if first != "Sheet1" {
		if err := f.SetSheetName("Sheet1", first); err != nil {
			f.Close()
			return nil, err
		}
	}
	b := &book{f: f, def: first}
	if err := b.header(first); err != nil {
		f.Close()
		return nil, err
	}
	return b, nil
}

// addSheet appends a worksheet with the standard header.
func (b *book) addSheet(name string) error {
	if _, err := b.f.NewSheet(name); err != nil {
		return err
	}
	return b.header(name)
}

// header writes the column headings every fixture sheet starts with.
func (b *book) header(sheetName string) error {
	for i, title := range []string{"Label", "Test Cell", "Expected"} {
		cell := sheet.Ref{Col: i + 1, Row: 1}.String()
		if err := b.f.SetCellStr(sheetName, cell, title); err != nil {
			return err
		}
	}
	style, err := b.f.NewStyle(&xl.Style{
		Font: &xl.Font{Bold: true},
		Fill: xl.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCDCDC"}},
	})
	if err != nil {
		return err
	}
	if err := b.f.SetCellStyle(sheetName, "A1", "C1", style); err != nil {
		return err
	}
	widths := []struct {
		col string
		w   float64
	}{{"A", 30}, {"B", 25}, {"C", 50}}
	for _, c := range widths {
		if err := b.f.SetColWidth(sheetName, c.col, c.col, c.w); err != nil {
			return err
		}
	}
	return nil
}

// annotate writes the label and expected JSON columns of a case row.
func (b *book) annotate(sheetName string, c TestCase) error {
	if c.Row <= 0 {
		return fmt.Errorf("case %s: no row", c.ID)
	}
	label := sheet.Ref{Col: 1, Row: c.Row}.String()
	if err := b.f.SetCellStr(sheetName, label, c.Label); err != nil {
		return err
	}
	raw, err := json.Marshal(c.Expected)
	if err != nil {
		return fmt.Errorf("case %s: %w", c.ID, err)
	}
	expCell := sheet.Ref{Col: 3, Row: c.Row}.String()
	return b.f.SetCellStr(sheetName, expCell, string(raw))
}

func newCase(id, label string, row int, edge bool, expected map[string]any) TestCase {
	c := TestCase{ID: id, Label: label, Row: row, Expected: expected}
	if edge {
		c.Importance = ImportanceEdge
	}
	return c
}

// allowExtra is the policy for features where a faithful reader may
// observe more than the case pinned down.
func allowExtra() *compare.Policy {
	return &compare.Policy{AllowExtra: true}
}

// normalizeNewlines is the policy for cases whose text crosses lines.
// Readers disagree on CRLF versus LF and neither is wrong.
func normalizeNewlines() *compare.Policy {
	return &compare.Policy{NormalizeNewlines: true}
}
