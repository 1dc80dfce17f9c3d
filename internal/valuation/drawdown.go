package valuation

import "time"

// DrawdownPoint is one day of a drawdown series: the distance of the
// leg's value from its running maximum, in percent. Values lie in
// [-100, 0], 0 meaning a fresh high.
type DrawdownPoint struct {
	Date       time.Time `json:"date"`
	Value      float64   `json:"value"`
	RunningMax float64   `json:"running_max"`
	Pct        float64   `json:"pct"`
}

// Drawdown derives the drawdown series of one valuation leg. The
// output has one point per valuation day: while the running maximum is
// still zero (the leg has not turned positive yet) the drawdown is 0,
// not absent, so both legs stay aligned with the valuation series.
func Drawdown(points []ValuationPoint, leg func(ValuationPoint) float64) []DrawdownPoint {
	var out []DrawdownPoint
	runningMax := 0.0

	for _, p := range points {
		v := leg(p)
		if v > runningMax {
			runningMax = v
		}
		pct := 0.0
		if runningMax > 0 {
			pct = (v - runningMax) / runningMax * 100
		}
		out = append(out, DrawdownPoint{
			Date:       p.Date,
			Value:      v,
			RunningMax: runningMax,
			Pct:        pct,
		})
	}
	return out
}

// MaxDrawdown returns the deepest drawdown of a series in percent, or
// zero for an empty series.
func MaxDrawdown(series []DrawdownPoint) float64 {
	worst := 0.0
	for _, p := range series {
		if p.Pct < worst {
			worst = p.Pct
		}
	}
	return worst
}
