package entities

// SearchResult is the aggregated per-test record returned by search, browse
// and popular operations. Price statistics only ever include active
// offerings with a positive price; LabCount counts distinct labs, not
// offerings.
type SearchResult struct {
	CanonicalTestID int64    `json:"canonical_test_id"`
	TestName        string   `json:"test_name"`
	Department      *string  `json:"department"`
	SimilarityScore float64  `json:"similarity_score"`
	LabCount        int      `json:"lab_count"`
	MinPrice        *float64 `json:"min_price"`
	MaxPrice        *float64 `json:"max_price"`
	AvgPrice        *float64 `json:"avg_price"`
}

// PriceHeatmapEntry is one row of the cross-lab price heatmap. LabPrices
// maps lab slug to the rounded per-lab average; PriceSpread is the rounded
// difference between the highest and lowest unrounded lab averages. Entries
// only exist for tests priced by at least two distinct labs.
type PriceHeatmapEntry struct {
	CanonicalTestID int64              `json:"canonical_test_id"`
	TestName        string             `json:"test_name"`
	LabPrices       map[string]float64 `json:"lab_prices"`
	PriceSpread     float64            `json:"price_spread"`
	LabCount        int                `json:"lab_count"`
}

// AvailabilityEntry is one cell of the department-by-lab availability
// matrix: the number of distinct canonical tests a lab offers in a
// department within the requested city.
type AvailabilityEntry struct {
	Department string `json:"department"`
	LabSlug    string `json:"lab_slug"`
	TestCount  int    `json:"test_count"`
}
