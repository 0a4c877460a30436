package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
)

// catalogClient implements ports.CatalogAPI over the shared Client.
type catalogClient struct {
	client *Client
}

var _ ports.CatalogAPI = (*catalogClient)(nil) // Ensure compliance

// NewCatalogAPI creates the catalog listing surface.
func NewCatalogAPI(client *Client) ports.CatalogAPI {
	return &catalogClient{client: client}
}

// catalogListDTO is the wire shape of the catalog endpoint.
type catalogListDTO struct {
	Items      []domain.Benefit `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

func (c *catalogClient) List(ctx context.Context, query domain.CatalogQuery) (*domain.CatalogPage, error) {
	params := url.Values{}
	if query.Category != "" {
		params.Set("categoria", query.Category)
	}
	if query.Municipality != "" {
		params.Set("municipio", query.Municipality)
	}
	if query.Search != "" {
		params.Set("q", query.Search)
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))

	var dto catalogListDTO
	if err := c.client.doJSON(ctx, http.MethodGet, "/catalog?"+params.Encode(), nil, &dto); err != nil {
		return nil, err
	}

	result := &domain.CatalogPage{
		Items:      dto.Items,
		Page:       dto.Page,
		PageSize:   dto.PageSize,
		Total:      dto.Total,
		TotalPages: dto.TotalPages,
	}
	if result.Items == nil {
		result.Items = []domain.Benefit{}
	}
	if result.Page < 1 {
		result.Page = page
	}
	return result, nil
}
