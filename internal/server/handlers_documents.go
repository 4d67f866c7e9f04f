package server

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/db"
	"github.com/jonathan/experience-validator/internal/ingestion"
	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/types"
)

// ---------------------------------------------------------------------
// Document Handlers
// ---------------------------------------------------------------------

// handleCreateDocument registers a document. The body is either a JSON
// CreateDocumentRequest or a multipart form with a "file" part; for PDFs and
// images the recognized text comes in the "text" field.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	req, err := s.readDocumentRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	req.Filename = filepath.Base(strings.TrimSpace(req.Filename))
	fileType, err := ingestion.FileTypeFor(req.Filename)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.FileType == "" {
		req.FileType = fileType
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if int64(len(req.Text)) > s.maxTextBytes {
		s.fail(w, r, &ingestion.LoadError{Message: "recognized text is too large", Cause: ingestion.ErrTooLarge})
		return
	}

	text, err := ingestion.Normalize(req.FileType, req.Text)
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "text", Message: err.Error()})
		return
	}

	doc, err := s.store.CreateDocument(r.Context(), req.Filename, req.FileType, text)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("document registered",
		zap.String(logging.FieldDocumentID, doc.ID.String()),
		zap.String("file_type", doc.FileType),
		zap.Int("lines", ingestion.CountLines(text)))
	s.jsonResponse(w, http.StatusCreated, doc)
}

func (s *Server) readDocumentRequest(w http.ResponseWriter, r *http.Request) (*types.CreateDocumentRequest, error) {
	// Leave headroom for multipart framing and the other fields
	r.Body = http.MaxBytesReader(w, r.Body, s.maxTextBytes+1<<20)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req types.CreateDocumentRequest
		if err := decodeJSON(r, &req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := r.ParseMultipartForm(s.maxTextBytes + 1<<20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ingestion.LoadError{Message: "upload is too large", Cause: ingestion.ErrTooLarge}
		}
		return nil, &ErrValidation{Message: "Invalid multipart form"}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, &ErrValidation{Field: "file", Message: "file is required"}
	}
	defer func() { _ = file.Close() }()

	req := &types.CreateDocumentRequest{
		Filename: header.Filename,
		FileType: r.FormValue("file_type"),
		Text:     r.FormValue("text"),
	}
	if ft, err := ingestion.FileTypeFor(header.Filename); err == nil && ingestion.HasRecognizedText(ft) && req.Text == "" {
		req.Text, err = ingestion.Read(file, s.maxTextBytes)
		if err != nil {
			return nil, err
		}
	}
	return req, nil
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pagination(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	docs, err := s.store.ListDocuments(r.Context(), skip, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if docs == nil {
		docs = []db.Document{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"documents": docs,
		"count":     len(docs),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID, err := pathID(r, "document")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	deleted, err := s.store.DeleteDocument(r.Context(), documentID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !deleted {
		s.fail(w, r, &ErrNotFound{Entity: "Document"})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleExtractDocument segments the stored text and replaces the document's extractions.
func (s *Server) handleExtractDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(doc.OCRText) == "" {
		s.fail(w, r, ErrEmptyText)
		return
	}

	records := s.segmenter.Segment(doc.OCRText)
	s.metrics.ObserveExtraction(len(records))
	if len(records) == 0 {
		s.fail(w, r, ErrNoExperience)
		return
	}

	extractions, err := s.store.ReplaceExtractions(r.Context(), doc.ID, records)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("experience extracted",
		zap.String(logging.FieldDocumentID, doc.ID.String()),
		zap.Int(logging.FieldRecords, len(extractions)))
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"document_id": doc.ID,
		"extractions": extractions,
		"count":       len(extractions),
	})
}

func (s *Server) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}

	extractions, err := s.store.ListExtractions(r.Context(), doc.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if extractions == nil {
		extractions = []db.Extraction{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"extractions": extractions,
		"count":       len(extractions),
	})
}

// loadDocument resolves the {id} document, writing the error response when it cannot.
func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request) (*db.Document, bool) {
	documentID, err := pathID(r, "document")
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}

	doc, err := s.store.GetDocument(r.Context(), documentID)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	if doc == nil {
		s.fail(w, r, &ErrNotFound{Entity: "Document"})
		return nil, false
	}
	return doc, true
}
