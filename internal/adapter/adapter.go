// Package adapter defines the uniform contract spreadsheet library
// wrappers implement, the fault taxonomy for their failures, and the
// registry the harness draws adapters from.
package adapter

import (
	"runtime/debug"

	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

// Capability tags.
const (
	CapRead  = "read"
	CapWrite = "write"
)

// Info identifies a wrapped library in run records.
type Info struct {
	// Name is the registry name of the adapter.
	Name string `json:"name"`

	// Version is the wrapped library's module version.
	Version string `json:"version"`

	// Language is the library's implementation language.
	Language string `json:"language"`

	// Capabilities lists the supported modes ("read", "write").
	Capabilities []string `json:"capabilities"`
}

// Adapter wraps one spreadsheet library behind the harness contract.
//
// OpenReader returns a fresh Reader per call; invocations never share
// reader state. WriteCase builds a one-case workbook at path; the
// harness verifies it by reading it back with a trusted adapter.
// Unsupported modes and operations return ErrUnsupported (wrapped).
type Adapter interface {
	Info() Info
	Formats() []string
	CanRead() bool
	CanWrite() bool
	OpenReader(path string) (Reader, error)
	WriteCase(path string, f corpus.TestFile, c corpus.TestCase) error
}

// Reader is an open workbook exposing per-feature extraction. A
// method a library cannot serve returns ErrUnsupported (wrapped);
// the harness records it as an unsupported_feature fault.
type Reader interface {
	Close() error

	SheetNames() ([]string, error)
	CellValue(sheetName string, ref sheet.Ref) (sheet.CellValue, error)
	CellFormat(sheetName string, ref sheet.Ref) (sheet.CellFormat, error)
	CellBorders(sheetName string, ref sheet.Ref) (sheet.Borders, error)
	CellAlignment(sheetName string, ref sheet.Ref) (sheet.Alignment, error)
	NumberFormat(sheetName string, ref sheet.Ref) (string, error)
	RowHeight(sheetName string, row int) (float64, error)
	ColWidth(sheetName string, col int) (float64, error)
	MergedRanges(sheetName string) ([]sheet.Range, error)
	Hyperlinks(sheetName string) ([]sheet.Hyperlink, error)
	Comments(sheetName string) ([]sheet.Comment, error)
	FreezePane(sheetName string) (sheet.FreezePane, error)
	NamedRanges() ([]sheet.NamedRange, error)
	Tables(sheetName string) ([]sheet.Table, error)
	DataValidations(sheetName string) ([]sheet.Validation, error)
	ConditionalFormats(sheetName string) ([]sheet.CondFormat, error)
	Images(sheetName string) ([]sheet.Image, error)
	PivotTables(sheetName string) ([]sheet.Pivot, error)
}

// SupportsFormat reports whether the adapter handles files with the
// given extension (without dot).
func SupportsFormat(a Adapter, ext string) bool {
	for _, f := range a.Formats() {
		if f == ext {
			return true
		}
	}
	return false
}

// Caps builds the capability list from the adapter's mode support.
func Caps(a Adapter) []string {
	var caps []string
	if a.CanRead() {
		caps = append(caps, CapRead)
	}
	if a.CanWrite() {
		caps = append(caps, CapWrite)
	}
	return caps
}

// ModuleVersion resolves a dependency's version from build info.
// Returns "unknown" outside a module-built binary.
func ModuleVersion(modulePath string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range bi.Deps {
		if dep.Path == modulePath {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return "unknown"
}
