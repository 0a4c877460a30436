package validate

import "tarjetajoven/internal/core/domain"

// MaxDocumentBytes is the per-file upload limit.
const MaxDocumentBytes = 2 * 1024 * 1024

// Messages surfaced next to a document slot. The copy matches
// the web client.
const (
	MsgDocumentRequired = "Este archivo es obligatorio."
	MsgDocumentFormat   = "Formato no valido. Usa JPG, PNG o PDF."
	MsgDocumentTooLarge = "El archivo debe pesar maximo 2MB."
)

var allowedDocumentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// Document checks a single attached identity document. It returns an
// empty string when the document is acceptable, otherwise the
// field-scoped error message.
func Document(doc *domain.Document) string {
	if doc == nil || len(doc.Content) == 0 {
		return MsgDocumentRequired
	}
	if !allowedDocumentTypes[doc.MIMEType] {
		return MsgDocumentFormat
	}
	if doc.Size > MaxDocumentBytes || int64(len(doc.Content)) > MaxDocumentBytes {
		return MsgDocumentTooLarge
	}
	return ""
}
