package record

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
)

func iptr(n int) *int { return &n }

func sampleRecord() *Record {
	rec := New(corpus.ProfileXLSX, Tool{Name: "assay", Version: "0.1.0"})
	rec.Libraries["excelize"] = adapter.Info{
		Name:         "excelize",
		Version:      "v2.9.1",
		Language:     "go",
		Capabilities: []string{"read", "write"},
	}
	rec.Libraries["xlsxreader"] = adapter.Info{
		Name:         "xlsxreader",
		Version:      "v1.2.8",
		Language:     "go",
		Capabilities: []string{"read"},
	}
	rec.Results = []FeatureResult{
		{
			Feature: "cell_values",
			Library: "excelize",
			Scores:  Scores{Read: iptr(3), Write: iptr(3)},
			Cases: map[string]CaseResult{
				"string_simple": {
					Read: &ModeResult{
						Passed:   true,
						Expected: map[string]any{"type": "string", "value": "Hello"},
						Actual:   map[string]any{"type": "string", "value": "Hello"},
					},
					Write: &ModeResult{Passed: true},
				},
			},
		},
		{
			Feature: "comments",
			Library: "xlsxreader",
			Scores:  Scores{Read: iptr(0)},
			Cases: map[string]CaseResult{
				"comment_basic": {
					Read: &ModeResult{
						Passed: false,
						Fault: adapter.NewFault(
							adapter.CategoryUnsupported,
							adapter.Location{Feature: "comments", Op: "read", CaseID: "comment_basic"},
							"comments not supported",
						),
					},
				},
			},
			Notes: []string{"values-only reader"},
		},
	}
	rec.Metadata.DurationMS = 1200
	return rec
}

func TestNewRecordDefaults(t *testing.T) {
	rec := New(corpus.ProfileXLSX, Tool{Name: "assay", Version: "0.1.0"})

	if rec.SchemaVersion != SchemaVersion {
		t.Errorf("schema version = %q, want %q", rec.SchemaVersion, SchemaVersion)
	}
	if rec.Metadata.RunID == "" {
		t.Error("run id not minted")
	}
	if other := New(corpus.ProfileXLSX, Tool{}); other.Metadata.RunID == rec.Metadata.RunID {
		t.Error("run ids collide across records")
	}
	if !strings.Contains(rec.Metadata.Platform, "-") {
		t.Errorf("platform = %q, want GOOS-GOARCH", rec.Metadata.Platform)
	}
	if time.Since(rec.Metadata.Generated) > time.Minute {
		t.Errorf("generated = %v, not recent", rec.Metadata.Generated)
	}
	if rec.Metadata.Generated.Nanosecond() != 0 {
		t.Error("generated keeps sub-second precision, wanted whole seconds")
	}
}

func TestSealWriteLoadRoundTrip(t *testing.T) {
	rec := sampleRecord()
	if err := rec.Seal(); err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(rec.Metadata.Digest) != 64 {
		t.Fatalf("digest %q, want 64 hex chars", rec.Metadata.Digest)
	}

	path := filepath.Join(t.TempDir(), "results.json")
	var buf bytes.Buffer
	if err := rec.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate after round trip: %v", err)
	}
	if got.Metadata.Digest != rec.Metadata.Digest {
		t.Errorf("digest = %q, want %q", got.Metadata.Digest, rec.Metadata.Digest)
	}
	if !got.Metadata.Generated.Equal(rec.Metadata.Generated) {
		t.Errorf("generated = %v, want %v", got.Metadata.Generated, rec.Metadata.Generated)
	}
	if len(got.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(got.Results))
	}
	if s := got.Results[0].Scores.Read; s == nil || *s != 3 {
		t.Errorf("read score = %v, want 3", s)
	}
	if got.Results[1].Scores.Write != nil {
		t.Errorf("write score = %v, want not_applicable", *got.Results[1].Scores.Write)
	}
	fault := got.Results[1].Cases["comment_basic"].Read.Fault
	if fault == nil || fault.Category != adapter.CategoryUnsupported {
		t.Errorf("fault = %+v, want unsupported_feature", fault)
	}
}

func TestLoadDetectsTampering(t *testing.T) {
	rec := sampleRecord()
	if err := rec.Seal(); err != nil {
		t.Fatalf("Seal: %v", err)
	}

	var buf bytes.Buffer
	if err := rec.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	tampered := bytes.Replace(buf.Bytes(), []byte(`"passed": true`), []byte(`"passed": false`), 1)
	if bytes.Equal(tampered, buf.Bytes()) {
		t.Fatal("tamper replacement found nothing to change")
	}

	path := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(path, tampered, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrDigestMismatch) {
		t.Errorf("Load = %v, want ErrDigestMismatch", err)
	}
}

func TestDigestCoversPayloadOnly(t *testing.T) {
	rec := sampleRecord()
	before, err := rec.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}

	rec.Metadata.RunID = "another-run"
	rec.Metadata.Partial = true
	rec.Metadata.DurationMS = 99999
	after, err := rec.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if after != before {
		t.Error("metadata change moved the digest")
	}

	rec.Results[0].Scores.Read = iptr(1)
	changed, err := rec.Digest()
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if changed == before {
		t.Error("result change did not move the digest")
	}
}

func TestValidateCleanRecord(t *testing.T) {
	if err := sampleRecord().Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		wantSub string
	}{
		{
			name:    "schema version",
			mutate:  func(r *Record) { r.SchemaVersion = "9.9.9" },
			wantSub: "schema version",
		},
		{
			name:    "missing run id",
			mutate:  func(r *Record) { r.Metadata.RunID = "" },
			wantSub: "run_id",
		},
		{
			name:    "unknown profile",
			mutate:  func(r *Record) { r.Metadata.Profile = "ods" },
			wantSub: "unknown profile",
		},
		{
			name:    "undeclared library",
			mutate:  func(r *Record) { r.Results[0].Library = "ghost" },
			wantSub: "not declared",
		},
		{
			name:    "score out of range",
			mutate:  func(r *Record) { r.Results[0].Scores.Read = iptr(4) },
			wantSub: "out of range",
		},
		{
			name:    "full score with failing case",
			mutate:  func(r *Record) { r.Results[1].Scores.Read = iptr(3) },
			wantSub: "case comment_basic failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := sampleRecord()
			tc.mutate(rec)
			err := rec.Validate()
			if err == nil {
				t.Fatal("Validate passed, want error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestScoresForMode(t *testing.T) {
	s := Scores{Read: iptr(2)}
	if got := s.ForMode(ModeRead); got == nil || *got != 2 {
		t.Errorf("ForMode(read) = %v, want 2", got)
	}
	if got := s.ForMode(ModeWrite); got != nil {
		t.Errorf("ForMode(write) = %v, want nil", *got)
	}
	if got := s.ForMode("execute"); got != nil {
		t.Errorf("ForMode(execute) = %v, want nil", *got)
	}
}

func TestWriteJSON_ValidAgainstSchema(t *testing.T) {
	// Compile the embedded JSON Schema.
	sch, err := jsonschema.UnmarshalJSON(strings.NewReader(Schema))
	if err != nil {
		t.Fatalf("failed to parse schema JSON: %v", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", sch); err != nil {
		t.Fatalf("failed to add schema resource: %v", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		t.Fatalf("failed to compile schema: %v", err)
	}

	rec := sampleRecord()
	if err := rec.Seal(); err != nil {
		t.Fatalf("Seal: %v", err)
	}
	var buf bytes.Buffer
	if err := rec.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	// Parse and validate against schema.
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if err := compiled.Validate(inst); err != nil {
		t.Errorf("JSON output does not conform to schema:\n%v", err)
	}
}

func TestWriteJSONEmptyRecord(t *testing.T) {
	rec := &Record{SchemaVersion: SchemaVersion}
	var buf bytes.Buffer
	if err := rec.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, `"results": null`) {
		t.Error("nil results marshal as null, want []")
	}
	if strings.Contains(out, `"libraries": null`) {
		t.Error("nil libraries marshal as null, want {}")
	}
}
