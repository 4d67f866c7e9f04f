package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes a piece of recognized text accepted from the OCR boundary
type Metadata struct {
	Filename  string `json:"filename"`
	FileType  string `json:"file_type"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the clean text
	Bytes     int    `json:"bytes"`
	Lines     int    `json:"lines"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(filename, fileType, text string) *Metadata {
	return &Metadata{
		Filename:  filename,
		FileType:  fileType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ComputeHash(text),
		Bytes:     len(text),
		Lines:     CountLines(text),
	}
}

// ComputeHash computes SHA256 hash of content and returns hex string
func ComputeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
