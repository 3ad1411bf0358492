package corpus

import "fmt"

// Feature is one catalog entry: a workbook capability the corpus
// exercises.
type Feature struct {
	// ID is the stable feature identifier.
	ID string `json:"id"`

	// Number is the fixture file prefix (01..19).
	Number int `json:"number"`

	// Tier groups features by how widely libraries support them:
	// 1 core, 2 structural, 3 advanced.
	Tier int `json:"tier"`

	// Title is the display name.
	Title string `json:"title"`
}

// FileName returns the conventional fixture file name for a profile.
func (f Feature) FileName(p Profile) string {
	return fmt.Sprintf("%02d_%s.%s", f.Number, f.ID, p.Extension())
}

// Catalog is the ordered feature list. Order is the canonical
// report row order.
var Catalog = []Feature{
	{ID: "cell_values", Number: 1, Tier: 1, Title: "Cell Values"},
	{ID: "formulas", Number: 2, Tier: 1, Title: "Formulas"},
	{ID: "text_formatting", Number: 3, Tier: 1, Title: "Text Formatting"},
	{ID: "background_colors", Number: 4, Tier: 1, Title: "Background Colors"},
	{ID: "number_formats", Number: 5, Tier: 1, Title: "Number Formats"},
	{ID: "alignment", Number: 6, Tier: 1, Title: "Alignment"},
	{ID: "borders", Number: 7, Tier: 1, Title: "Borders"},
	{ID: "dimensions", Number: 8, Tier: 1, Title: "Row & Column Dimensions"},
	{ID: "multiple_sheets", Number: 9, Tier: 1, Title: "Multiple Sheets"},
	{ID: "merged_cells", Number: 10, Tier: 2, Title: "Merged Cells"},
	{ID: "conditional_formatting", Number: 11, Tier: 2, Title: "Conditional Formatting"},
	{ID: "data_validation", Number: 12, Tier: 2, Title: "Data Validation"},
	{ID: "hyperlinks", Number: 13, Tier: 2, Title: "Hyperlinks"},
	{ID: "images", Number: 14, Tier: 2, Title: "Images"},
	{ID: "pivot_tables", Number: 15, Tier: 2, Title: "Pivot Tables"},
	{ID: "comments", Number: 16, Tier: 2, Title: "Comments"},
	{ID: "freeze_panes", Number: 17, Tier: 2, Title: "Freeze Panes"},
	{ID: "named_ranges", Number: 18, Tier: 3, Title: "Named Ranges"},
	{ID: "tables", Number: 19, Tier: 3, Title: "Tables"},
}

var catalogByID = func() map[string]Feature {
	m := make(map[string]Feature, len(Catalog))
	for _, f := range Catalog {
		m[f.ID] = f
	}
	return m
}()

// FeatureByID looks up a catalog feature.
func FeatureByID(id string) (Feature, bool) {
	f, ok := catalogByID[id]
	return f, ok
}

// FeatureIDs returns the catalog IDs in canonical order.
func FeatureIDs() []string {
	ids := make([]string, len(Catalog))
	for i, f := range Catalog {
		ids[i] = f.ID
	}
	return ids
}
