package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// ErrNoVerificationEndpoint means the identity-validation endpoint was
// not configured for this environment.
var ErrNoVerificationEndpoint = errors.New("identity-validation endpoint is not configured")

// identityClient implements ports.IdentityVerifier. The verification
// service lives on its own endpoint, separate from the API base URL.
type identityClient struct {
	client   *Client
	endpoint string
}

var _ ports.IdentityVerifier = (*identityClient)(nil) // Ensure compliance

// NewIdentityVerifier creates the document-verification surface.
func NewIdentityVerifier(client *Client, endpoint string) ports.IdentityVerifier {
	return &identityClient{client: client, endpoint: endpoint}
}

func (i *identityClient) Verify(ctx context.Context, front, back domain.Document, acceptsPrivacy bool) (*domain.IdentityRecord, error) {
	if i.endpoint == "" {
		return nil, ErrNoVerificationEndpoint
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	for _, doc := range []struct {
		slot domain.DocumentSlot
		file domain.Document
	}{
		{domain.DocumentFront, front},
		{domain.DocumentBack, back},
	} {
		part, err := createDocumentPart(form, doc.slot, doc.file)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(doc.file.Content); err != nil {
			return nil, fmt.Errorf("could not write %s: %w", doc.slot, err)
		}
	}

	privacy := "false"
	if acceptsPrivacy {
		privacy = "true"
	}
	if err := form.WriteField("privacy_acceptance", privacy); err != nil {
		return nil, fmt.Errorf("could not write privacy field: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("could not finish form: %w", err)
	}

	var record domain.IdentityRecord
	if err := i.client.do(ctx, http.MethodPost, i.endpoint, &body, form.FormDataContentType(), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// createDocumentPart adds a file part carrying the document's own MIME
// type instead of the multipart default.
func createDocumentPart(form *multipart.Writer, slot domain.DocumentSlot, doc domain.Document) (interface{ Write([]byte) (int, error) }, error) {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, string(slot), doc.FileName))
	header.Set("Content-Type", doc.MIMEType)

	part, err := form.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("could not create %s part: %w", slot, err)
	}
	return part, nil
}
