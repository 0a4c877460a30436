package domain

// Benefit is one merchant discount in the catalog.
type Benefit struct {
	ID           string   `json:"id"`
	Name         string   `json:"nombre"`
	Category     string   `json:"categoria"`
	Municipality string   `json:"municipio"`
	Discount     string   `json:"descuento"`
	Address      *string  `json:"direccion,omitempty"`
	Schedule     *string  `json:"horario,omitempty"`
	Description  *string  `json:"descripcion,omitempty"`
	Latitude     *float64 `json:"lat,omitempty"`
	Longitude    *float64 `json:"lng,omitempty"`
}

// CatalogQuery filters and pages the catalog listing. Zero values mean
// "no filter"; Page below 1 is treated as page 1.
type CatalogQuery struct {
	Category     string
	Municipality string
	Search       string
	Page         int
}

// CatalogPage is a single page of catalog results with paging metadata.
type CatalogPage struct {
	Items      []Benefit `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	Total      int       `json:"total"`
	TotalPages int       `json:"totalPages"`
}
