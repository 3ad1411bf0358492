package report

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed notes.yaml
var notesYAML []byte

// Note is a curated remark about a known library limitation. Notes
// are advisory text under a detailed result, never part of scoring.
type Note struct {
	Library string `yaml:"library"`
	Feature string `yaml:"feature"`
	Text    string `yaml:"text"`
}

type noteFile struct {
	Notes []Note `yaml:"notes"`
}

var loadNotes = sync.OnceValue(func() map[[2]string][]string {
	var nf noteFile
	if err := yaml.Unmarshal(notesYAML, &nf); err != nil {
		panic(fmt.Sprintf("report: embedded notes.yaml is malformed: %v", err))
	}
	byKey := make(map[[2]string][]string, len(nf.Notes))
	for _, n := range nf.Notes {
		k := [2]string{n.Library, n.Feature}
		byKey[k] = append(byKey[k], n.Text)
	}
	return byKey
})

// notesFor returns the curated notes for one (library, feature) pair,
// in file order.
func notesFor(library, feature string) []string {
	return loadNotes()[[2]string{library, feature}]
}
