package adapter

import (
	"reflect"
	"testing"

	"github.com/unbound-force/assay/internal/corpus"
)

// stubAdapter is a minimal Adapter for registry tests.
type stubAdapter struct {
	name string
}

func (s stubAdapter) Info() Info {
	return Info{Name: s.name, Version: "v0.0.0", Language: "go", Capabilities: []string{CapRead}}
}
func (s stubAdapter) Formats() []string { return []string{"xlsx"} }
func (s stubAdapter) CanRead() bool     { return true }
func (s stubAdapter) CanWrite() bool    { return false }
func (s stubAdapter) OpenReader(string) (Reader, error) {
	return nil, Unsupportedf("stub")
}
func (s stubAdapter) WriteCase(string, corpus.TestFile, corpus.TestCase) error {
	return Unsupportedf("write")
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(stubAdapter{"a"}, stubAdapter{"a"})
	if err == nil {
		t.Fatal("duplicate names accepted")
	}
}

func TestNewRegistry_RejectsEmptyName(t *testing.T) {
	_, err := NewRegistry(stubAdapter{""})
	if err == nil {
		t.Fatal("empty name accepted")
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	r, err := NewRegistry(stubAdapter{"zeta"}, stubAdapter{"alpha"}, stubAdapter{"mid"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	all := r.All()
	if len(all) != 3 || all[0].Info().Name != "alpha" {
		t.Errorf("All() not sorted: %v", all)
	}
}

func TestRegistry_Select_IncludeAndSkip(t *testing.T) {
	r, _ := NewRegistry(stubAdapter{"a"}, stubAdapter{"b"}, stubAdapter{"c"})

	sel, err := r.Select([]string{"a", "b"}, []string{"b"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got := sel.Names(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("selection = %v, want [a]", got)
	}
}

func TestRegistry_Select_EmptyIncludeMeansAll(t *testing.T) {
	r, _ := NewRegistry(stubAdapter{"a"}, stubAdapter{"b"})
	sel, err := r.Select(nil, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Len() != 2 {
		t.Errorf("Len() = %d, want 2", sel.Len())
	}
}

func TestRegistry_Select_UnknownNameFails(t *testing.T) {
	r, _ := NewRegistry(stubAdapter{"a"})
	if _, err := r.Select([]string{"nope"}, nil); err == nil {
		t.Error("unknown include accepted")
	}
	if _, err := r.Select(nil, []string{"nope"}); err == nil {
		t.Error("unknown skip accepted")
	}
}

func TestRegistry_Select_EmptyResultFails(t *testing.T) {
	r, _ := NewRegistry(stubAdapter{"a"})
	if _, err := r.Select([]string{"a"}, []string{"a"}); err == nil {
		t.Error("empty selection accepted")
	}
}

func TestSupportsFormat(t *testing.T) {
	a := stubAdapter{"a"}
	if !SupportsFormat(a, "xlsx") {
		t.Error("xlsx should be supported")
	}
	if SupportsFormat(a, "xls") {
		t.Error("xls should not be supported")
	}
}

func TestCaps_ReadOnly(t *testing.T) {
	got := Caps(stubAdapter{"a"})
	if !reflect.DeepEqual(got, []string{CapRead}) {
		t.Errorf("Caps = %v, want [read]", got)
	}
}
