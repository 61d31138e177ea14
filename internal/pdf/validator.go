package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
)

// pdfHeader opens every PDF file
var pdfHeader = []byte("%PDF-")

// Validator checks templates and report files before they are used
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// MaxFileSize returns the size limit in bytes
func (v *Validator) MaxFileSize() int64 {
	return v.maxFileSize
}

// ValidateTemplate checks fetched template bytes. The name is only used in
// error context.
func (v *Validator) ValidateTemplate(name string, data []byte) error {
	if len(data) == 0 {
		return pdferrors.New(pdferrors.ErrorTypeTemplateParse, "template is empty").WithContext(name)
	}
	if int64(len(data)) > v.maxFileSize {
		return pdferrors.New(pdferrors.ErrorTypeTemplateParse, "template too large").
			WithContext(fmt.Sprintf("%s: %d bytes (max: %d bytes)", name, len(data), v.maxFileSize))
	}
	// Some producers emit a BOM or whitespace before the header.
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if !bytes.Contains(head, pdfHeader) {
		return pdferrors.New(pdferrors.ErrorTypeTemplateParse, "template is not a PDF document").WithContext(name)
	}
	return nil
}

// ValidateFile performs validation on a report file on disk
func (v *Validator) ValidateFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filePath)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return err
	}

	// Try to open the PDF to validate it's a valid PDF file
	f, _, err := pdf.Open(filePath)
	if err != nil {
		return fmt.Errorf("invalid PDF file: %w", err)
	}
	defer f.Close()

	return nil
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !strings.HasSuffix(strings.ToLower(filePath), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	return nil
}
