// Package all wires the builtin adapters into a registry.
package all

import (
	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/adapter/excelize"
	"github.com/unbound-force/assay/internal/adapter/goxlsb"
	"github.com/unbound-force/assay/internal/adapter/tealeg"
	"github.com/unbound-force/assay/internal/adapter/xlsreader"
	"github.com/unbound-force/assay/internal/adapter/xlsxreader"
)

// Registry returns a registry holding every builtin adapter.
func Registry() (*adapter.Registry, error) {
	return adapter.NewRegistry(
		excelize.New(),
		tealeg.New(),
		xlsxreader.New(),
		xlsreader.New(),
		goxlsb.New(),
	)
}
