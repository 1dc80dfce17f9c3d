package model

// Allocation stores the geography and sector composition of one asset
// as percentage maps (country/sector -> percent of the asset), fetched
// from JustETF and keyed by ticker.
type Allocation struct {
	Ticker    string             `json:"ticker"`
	Geography map[string]float64 `json:"geography"`
	Sectors   map[string]float64 `json:"sectors"`
}

// ExposureReport is the value-weighted aggregate of allocations across
// every currently held asset, expressed in reporting-currency amounts.
type ExposureReport struct {
	TotalValue float64            `json:"totalValue"`
	Geography  map[string]float64 `json:"geography"`
	Sectors    map[string]float64 `json:"sectors"`
}
