package record

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// Digest computes the SHA-256 hex of the RFC 8785 canonical form of
// the record's libraries and results. Metadata is excluded so that
// sealing never invalidates the digest it writes.
func (r *Record) Digest() (string, error) {
	payload := struct {
		Libraries any `json:"libraries"`
		Results   any `json:"results"`
	}{r.Libraries, r.Results}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal digest payload: %w", err)
	}

	canon, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize digest payload: %w", err)
	}

	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// Seal stamps the content digest into the metadata. Call it once
// the results are final; any later edit makes Load refuse the file.
func (r *Record) Seal() error {
	digest, err := r.Digest()
	if err != nil {
		return err
	}
	r.Metadata.Digest = digest
	return nil
}
