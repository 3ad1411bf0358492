package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/record"
)

// WriteCSV emits a flat row per scored (library, feature, mode) so
// the record can land in a spreadsheet or a dashboard query without
// reshaping. Modes that did not apply are omitted rather than written
// as blanks.
func WriteCSV(w io.Writer, rec *record.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"library", "feature", "tier", "mode", "score"}); err != nil {
		return err
	}
	for _, fr := range rec.Results {
		tier := ""
		if f, ok := corpus.FeatureByID(fr.Feature); ok {
			tier = strconv.Itoa(f.Tier)
		}
		for _, mode := range record.Modes {
			s := fr.Scores.ForMode(mode)
			if s == nil {
				continue
			}
			row := []string{fr.Library, fr.Feature, tier, mode, strconv.Itoa(*s)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
