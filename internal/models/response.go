package models

type SearchMetadata struct {
	TotalResults       int      `json:"total_results"`
	Page               int      `json:"page"`
	Limit              int      `json:"limit"`
	ProvidersQueried   int      `json:"providers_queried"`
	ProvidersSucceeded int      `json:"providers_succeeded"`
	ProvidersFailed    int      `json:"providers_failed"`
	FailedProviders    []string `json:"failed_providers,omitempty"`
	LocalResults       int      `json:"local_results"`
	Mock               bool     `json:"mock"`
	SearchTimeMs       int64    `json:"search_time_ms"`
}

type SearchResponse struct {
	Data     []Offer        `json:"data"`
	Metadata SearchMetadata `json:"metadata"`
}

type PageMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

type CatalogResponse struct {
	Data []Offer  `json:"data"`
	Meta PageMeta `json:"meta"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
