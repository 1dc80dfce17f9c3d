package model

import "time"

// SettingManualLiquidity is the settings key that overrides the
// automatically computed cash/liquidity figure.
const SettingManualLiquidity = "manual_liquidity"

// Setting is a flat key/value configuration row.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Liquidity describes the current cash figure and how it was obtained.
type Liquidity struct {
	Amount float64 `json:"amount"`
	Manual bool    `json:"manual"`
}
