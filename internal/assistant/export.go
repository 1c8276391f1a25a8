package assistant

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/learnova/internal/export"
)

// ErrNoAnswer is returned when there is nothing to export.
var ErrNoAnswer = errors.New("no answer to export")

// ExportPDF writes the answer, headed by its question, as a printable PDF.
func (s *Service) ExportPDF(ctx context.Context, question, markdown string, w io.Writer) error {
	if strings.TrimSpace(markdown) == "" {
		return ErrNoAnswer
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	doc := export.Document(question, markdown, time.Now())
	if err := export.WritePDF(doc, w, export.PDFOptions{Printable: true}); err != nil {
		s.logger.Error("pdf export failed", zap.Error(err))
		return err
	}
	return nil
}
