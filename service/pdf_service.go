package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/sinantan/document-chat-assistant/types"
)

// TextExtractor pulls plain text and a page count out of raw document bytes.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
	PageCount(data []byte) (int, error)
}

// PDFService extracts text from PDF bytes in process.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

func (s *PDFService) ExtractText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs; a malformed upload
	// must surface as a processing error, not kill the worker.
	defer func() {
		if r := recover(); r != nil {
			err = types.NewFileProcessingError(fmt.Sprintf("failed to extract text from PDF: %v", r), nil)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", types.NewFileProcessingError("failed to extract text from PDF", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, the rest of the document is still usable.
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String()), nil
}

func (s *PDFService) PageCount(data []byte) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewFileProcessingError(fmt.Sprintf("failed to get page count from PDF: %v", r), nil)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, types.NewFileProcessingError("failed to get page count from PDF", err)
	}
	return reader.NumPage(), nil
}
