package aggregate

import (
	"math"

	"github.com/towerlens/towerlens/internal/coerce"
	"github.com/towerlens/towerlens/internal/model"
)

// Correlation computes the Pearson correlation coefficient between two
// numeric fields, pairing only rows where both values parse. It returns 0
// for fewer than two valid pairs or when either field has zero variance,
// and never returns NaN.
func Correlation(records []model.Record, fieldA, fieldB string) float64 {
	var xs, ys []float64
	for _, r := range records {
		x, okX := coerce.AsNumber(r[fieldA])
		y, okY := coerce.AsNumber(r[fieldB])
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}

	n := float64(len(xs))
	if len(xs) < 2 {
		return 0
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
