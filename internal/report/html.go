package report

import (
	"fmt"
	"io"

	"github.com/unbound-force/assay/internal/record"
)

// WriteHTML writes a run record as a self-contained HTML page.
//
// Planned features:
//   - Score matrix with sortable columns
//   - Per-library grade cards
//   - Collapsible per-feature failure detail
//   - Self-contained single-file HTML (embedded CSS/JS)
//   - Light/dark theme support
//
// This is not yet implemented. Use text, markdown, csv, or json
// format instead.
func WriteHTML(_ io.Writer, _ *record.Record, _ Options) error {
	return fmt.Errorf("HTML report format is not yet implemented")
}
