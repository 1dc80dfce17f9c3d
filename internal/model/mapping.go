package model

// Mapping links an ISIN to its Yahoo Finance ticker and an asset
// category used for allocation breakdowns. The ISIN is the unique key;
// many transactions reference one mapping row.
type Mapping struct {
	Isin     string `json:"isin"`
	Ticker   string `json:"ticker"`
	Category string `json:"category"`
}
