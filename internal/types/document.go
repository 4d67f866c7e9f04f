package types

import (
	"github.com/go-playground/validator/v10"
)

// File types recorded for registered documents.
const (
	FileTypePDF   = "pdf"
	FileTypeImage = "image"
	FileTypeText  = "text"
	FileTypeHOCR  = "hocr"
)

// CreateDocumentRequest registers a document along with its recognized text.
// Text is either plain OCR output or tesseract hOCR markup when FileType is "hocr".
type CreateDocumentRequest struct {
	Filename string `json:"filename" validate:"required,min=1,max=255"`
	FileType string `json:"file_type,omitempty" validate:"omitempty,oneof=pdf image text hocr"`
	Text     string `json:"text"`
}

// Validate validates the CreateDocumentRequest using the validator.
func (r *CreateDocumentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
