package rpc

// VintageID identifies one vintage.
type VintageID struct {
	VintageID string `json:"vintage_id"`
}

// VintageIDs is a list of vintage ids, used both for requests and responses.
type VintageIDs struct {
	VintageIDs []string `json:"vintage_ids"`
}

// WineID identifies one wine.
type WineID struct {
	WineID string `json:"wine_id"`
}

// WineIDs is a list of wine ids, used both for requests and responses.
type WineIDs struct {
	WineIDs []string `json:"wine_ids"`
}

// VintageResponse carries one vintage record serialized as JSON.
type VintageResponse struct {
	SerializedVintage string `json:"serialized_vintage"`
}

// VintagesResponse carries vintage records serialized as JSON.
type VintagesResponse struct {
	SerializedVintages []string `json:"serialized_vintages"`
}

// TitleResponse carries one vintage title.
type TitleResponse struct {
	VintageTitle string `json:"vintage_title"`
}

// TitlesResponse carries vintage titles aligned with the requested ids.
type TitlesResponse struct {
	VintageTitles []string `json:"vintage_titles"`
}

// PriceResponse carries one vintage price.
type PriceResponse struct {
	Price float64 `json:"price"`
}

// PricesResponse carries vintage prices aligned with the requested ids.
type PricesResponse struct {
	Prices []float64 `json:"prices"`
}
