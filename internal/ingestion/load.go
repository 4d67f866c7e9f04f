package ingestion

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/experience-validator/internal/types"
)

// DefaultMaxTextBytes bounds the recognized text accepted for one document.
const DefaultMaxTextBytes = 10 << 20

// allowedExtensions maps accepted document extensions to their file type.
var allowedExtensions = map[string]string{
	".pdf":  types.FileTypePDF,
	".jpg":  types.FileTypeImage,
	".jpeg": types.FileTypeImage,
	".png":  types.FileTypeImage,
	".txt":  types.FileTypeText,
	".hocr": types.FileTypeHOCR,
	".html": types.FileTypeHOCR,
}

// FileTypeFor returns the file type of filename, or ErrUnsupportedType.
func FileTypeFor(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	ft, ok := allowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q (allowed: .pdf .jpg .jpeg .png .txt .hocr .html)", ErrUnsupportedType, ext)
	}
	return ft, nil
}

// HasRecognizedText reports whether the file type carries text this system can read directly.
// PDFs and images must first pass through the external OCR engine.
func HasRecognizedText(fileType string) bool {
	return fileType == types.FileTypeText || fileType == types.FileTypeHOCR
}

// Normalize turns the payload of a document of the given type into clean text.
func Normalize(fileType, payload string) (string, error) {
	if fileType == types.FileTypeHOCR {
		return ExtractHOCRText(payload)
	}
	return CleanText(payload), nil
}

// Read reads at most maxBytes from r. A limit of zero or less uses DefaultMaxTextBytes.
func Read(r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxTextBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", &LoadError{Message: "failed to read text", Cause: err}
	}
	if int64(len(data)) > maxBytes {
		return "", &LoadError{
			Message: fmt.Sprintf("text is larger than %d bytes", maxBytes),
			Cause:   ErrTooLarge,
		}
	}
	return string(data), nil
}

// LoadFile reads a text or hOCR file and returns clean text with metadata
func LoadFile(path string, maxBytes int64) (string, *Metadata, error) {
	fileType, err := FileTypeFor(path)
	if err != nil {
		return "", nil, &LoadError{Message: path, Cause: err}
	}
	if !HasRecognizedText(fileType) {
		return "", nil, &LoadError{
			Message: fmt.Sprintf("%s is a %s file; run OCR first and supply the recognized text", path, fileType),
			Cause:   ErrUnsupportedType,
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, &LoadError{Message: fmt.Sprintf("file not found: %s", path), Cause: err}
		}
		return "", nil, &LoadError{Message: fmt.Sprintf("failed to open file: %s", path), Cause: err}
	}
	defer func() { _ = f.Close() }()

	raw, err := Read(f, maxBytes)
	if err != nil {
		return "", nil, err
	}
	text, err := Normalize(fileType, raw)
	if err != nil {
		return "", nil, err
	}
	return text, NewMetadata(filepath.Base(path), fileType, text), nil
}
