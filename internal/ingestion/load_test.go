package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/experience-validator/internal/types"
)

func TestFileTypeFor(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{filename: "ctps.pdf", want: types.FileTypePDF},
		{filename: "scan.JPG", want: types.FileTypeImage},
		{filename: "scan.jpeg", want: types.FileTypeImage},
		{filename: "scan.png", want: types.FileTypeImage},
		{filename: "ocr.txt", want: types.FileTypeText},
		{filename: "ocr.hocr", want: types.FileTypeHOCR},
		{filename: "ocr.html", want: types.FileTypeHOCR},
		{filename: "archive.zip", wantErr: true},
		{filename: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := FileTypeFor(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnsupportedType))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_Limit(t *testing.T) {
	got, err := Read(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", got)

	_, err = Read(strings.NewReader("123456"), 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLarge))

	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestLoadFile_Text(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctps.txt")
	require.NoError(t, os.WriteFile(path, []byte("Empresa:   Loja Azul\r\nCargo: Estoquista\r\n"), 0644))

	text, meta, err := LoadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "Empresa: Loja Azul\nCargo: Estoquista", text)
	require.NotNil(t, meta)
	assert.Equal(t, "ctps.txt", meta.Filename)
	assert.Equal(t, types.FileTypeText, meta.FileType)
}

func TestLoadFile_HOCR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctps.hocr")
	require.NoError(t, os.WriteFile(path, []byte(sampleHOCR), 0644))

	text, meta, err := LoadFile(path, 0)
	require.NoError(t, err)
	assert.Contains(t, text, "Cargo: Auxiliar Administrativo")
	assert.Equal(t, types.FileTypeHOCR, meta.FileType)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "ctps.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0644))

	_, _, err := LoadFile(pdf, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedType))

	_, _, err = LoadFile(filepath.Join(dir, "missing.txt"), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	big := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(big, []byte(strings.Repeat("a", 64)), 0644))
	_, _, err = LoadFile(big, 32)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(types.FileTypeText, "a   b")
	require.NoError(t, err)
	assert.Equal(t, "a b", got)

	assert.True(t, HasRecognizedText(types.FileTypeHOCR))
	assert.False(t, HasRecognizedText(types.FileTypeImage))
}
