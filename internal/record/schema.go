package record

// Schema is the JSON Schema (Draft 2020-12) for persisted run
// records. It documents the structure written by WriteJSON and is
// printed by the schema command.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/assay/run-record.schema.json",
  "title": "Assay Run Record",
  "description": "One immutable fidelity benchmark run",
  "type": "object",
  "required": ["schema_version", "metadata", "libraries", "results"],
  "properties": {
    "schema_version": {
      "type": "string",
      "description": "Record format version (semver)"
    },
    "metadata": { "$ref": "#/$defs/Metadata" },
    "libraries": {
      "type": "object",
      "description": "Libraries under test, keyed by adapter name",
      "additionalProperties": { "$ref": "#/$defs/LibraryInfo" }
    },
    "results": {
      "type": "array",
      "items": { "$ref": "#/$defs/FeatureResult" }
    }
  },
  "$defs": {
    "Metadata": {
      "type": "object",
      "required": ["run_id", "generated", "profile", "harness", "platform", "duration_ms"],
      "properties": {
        "run_id": {
          "type": "string",
          "description": "Random identifier minted at run start"
        },
        "generated": {
          "type": "string",
          "format": "date-time",
          "description": "Run start time, UTC"
        },
        "profile": {
          "type": "string",
          "enum": ["xlsx", "xls", "xlsb"]
        },
        "harness": {
          "type": "object",
          "required": ["name", "version"],
          "properties": {
            "name": { "type": "string" },
            "version": { "type": "string" }
          }
        },
        "platform": {
          "type": "string",
          "description": "GOOS-GOARCH of the run host"
        },
        "duration_ms": {
          "type": "integer",
          "description": "Wall-clock run duration in milliseconds"
        },
        "partial": {
          "type": "boolean",
          "description": "True when the run was cancelled mid-grid"
        },
        "digest": {
          "type": "string",
          "pattern": "^[0-9a-f]{64}$",
          "description": "SHA-256 hex of the canonicalized payload"
        }
      }
    },
    "LibraryInfo": {
      "type": "object",
      "required": ["name", "version", "language", "capabilities"],
      "properties": {
        "name": { "type": "string" },
        "version": { "type": "string" },
        "language": { "type": "string" },
        "capabilities": {
          "type": "array",
          "items": { "enum": ["read", "write"] }
        }
      }
    },
    "FeatureResult": {
      "type": "object",
      "required": ["feature", "library", "scores", "test_cases"],
      "properties": {
        "feature": { "type": "string" },
        "library": { "type": "string" },
        "scores": {
          "type": "object",
          "required": ["read", "write"],
          "properties": {
            "read": { "$ref": "#/$defs/Score" },
            "write": { "$ref": "#/$defs/Score" }
          }
        },
        "test_cases": {
          "type": "object",
          "additionalProperties": { "$ref": "#/$defs/CaseResult" }
        },
        "notes": {
          "type": "array",
          "items": { "type": "string" }
        }
      }
    },
    "Score": {
      "oneOf": [
        { "type": "integer", "minimum": 0, "maximum": 3 },
        { "type": "null" }
      ],
      "description": "Fidelity score; null is not_applicable"
    },
    "CaseResult": {
      "type": "object",
      "properties": {
        "read": { "$ref": "#/$defs/ModeResult" },
        "write": { "$ref": "#/$defs/ModeResult" }
      }
    },
    "ModeResult": {
      "type": "object",
      "required": ["passed"],
      "properties": {
        "passed": { "type": "boolean" },
        "expected": {
          "description": "Expected payload, any JSON value"
        },
        "actual": {
          "description": "Observed payload, any JSON value"
        },
        "fault": { "$ref": "#/$defs/Fault" }
      }
    },
    "Fault": {
      "type": "object",
      "required": ["category", "severity", "location", "message"],
      "properties": {
        "category": {
          "enum": [
            "data_mismatch", "invalid_input", "internal",
            "unsupported_feature", "parse", "file_io"
          ]
        },
        "severity": { "enum": ["error", "warning"] },
        "location": {
          "type": "object",
          "properties": {
            "feature": { "type": "string" },
            "op": { "type": "string" },
            "test_case_id": { "type": "string" },
            "sheet": { "type": "string" },
            "cell": { "type": "string" }
          }
        },
        "message": { "type": "string" },
        "probable_cause": { "type": "string" }
      }
    }
  }
}`
