package adapter

import "github.com/unbound-force/assay/internal/sheet"

// UnsupportedReader is an embeddable Reader base whose every method
// reports ErrUnsupported. Adapters embed it and override what their
// library can serve.
type UnsupportedReader struct{}

func (UnsupportedReader) Close() error { return nil }

func (UnsupportedReader) SheetNames() ([]string, error) {
	return nil, Unsupportedf("sheet names")
}

func (UnsupportedReader) CellValue(string, sheet.Ref) (sheet.CellValue, error) {
	return sheet.CellValue{}, Unsupportedf("cell values")
}

func (UnsupportedReader) CellFormat(string, sheet.Ref) (sheet.CellFormat, error) {
	return sheet.CellFormat{}, Unsupportedf("cell formatting")
}

func (UnsupportedReader) CellBorders(string, sheet.Ref) (sheet.Borders, error) {
	return sheet.Borders{}, Unsupportedf("cell borders")
}

func (UnsupportedReader) CellAlignment(string, sheet.Ref) (sheet.Alignment, error) {
	return sheet.Alignment{}, Unsupportedf("cell alignment")
}

func (UnsupportedReader) NumberFormat(string, sheet.Ref) (string, error) {
	return "", Unsupportedf("number formats")
}

func (UnsupportedReader) RowHeight(string, int) (float64, error) {
	return 0, Unsupportedf("row heights")
}

func (UnsupportedReader) ColWidth(string, int) (float64, error) {
	return 0, Unsupportedf("column widths")
}

func (UnsupportedReader) MergedRanges(string) ([]sheet.Range, error) {
	return nil, Unsupportedf("merged cells")
}

func (UnsupportedReader) Hyperlinks(string) ([]sheet.Hyperlink, error) {
	return nil, Unsupportedf("hyperlinks")
}

func (UnsupportedReader) Comments(string) ([]sheet.Comment, error) {
	return nil, Unsupportedf("comments")
}

func (UnsupportedReader) FreezePane(string) (sheet.FreezePane, error) {
	return sheet.FreezePane{}, Unsupportedf("freeze panes")
}

func (UnsupportedReader) NamedRanges() ([]sheet.NamedRange, error) {
	return nil, Unsupportedf("named ranges")
}

func (UnsupportedReader) Tables(string) ([]sheet.Table, error) {
	return nil, Unsupportedf("tables")
}

func (UnsupportedReader) DataValidations(string) ([]sheet.Validation, error) {
	return nil, Unsupportedf("data validation")
}

func (UnsupportedReader) ConditionalFormats(string) ([]sheet.CondFormat, error) {
	return nil, Unsupportedf("conditional formatting")
}

func (UnsupportedReader) Images(string) ([]sheet.Image, error) {
	return nil, Unsupportedf("images")
}

func (UnsupportedReader) PivotTables(string) ([]sheet.Pivot, error) {
	return nil, Unsupportedf("pivot tables")
}
