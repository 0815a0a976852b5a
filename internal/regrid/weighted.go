package regrid

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"go.ngs.io/regrid/internal/adapter/spatial"
)

// blendWeighted combines the neighbours of each target point with weights
// proportional to 1/d², normalised to sum to one. The same weights apply to
// every time step.
//
// Neighbours outside the distance bound are skipped; a target with none left
// gets NaN. A neighbour at zero distance (or close enough that 1/d² overflows)
// takes the whole weight.
func blendWeighted(src []float64, g Grid, res spatial.Result, nTarget int) []float64 {
	nSrc := g.Size()
	steps := timeSteps(g)
	out := make([]float64, steps*nTarget)

	w := make([]float64, res.K)
	vals := make([]float64, res.K)

	for i := 0; i < nTarget; i++ {
		row := res.Row(i)

		// Rows are sorted, so missing neighbours trail the found ones.
		n := 0
		for _, nb := range row {
			if nb.Index >= nSrc {
				break
			}
			n++
		}

		switch {
		case n == 0:
			for t := 0; t < steps; t++ {
				out[t*nTarget+i] = math.NaN()
			}
			continue
		case math.IsInf(1/(row[0].Distance*row[0].Distance), 1):
			for t := 0; t < steps; t++ {
				out[t*nTarget+i] = src[t*nSrc+row[0].Index]
			}
			continue
		}

		for j := 0; j < n; j++ {
			d := row[j].Distance
			w[j] = 1 / (d * d)
		}
		floats.Scale(1/floats.Sum(w[:n]), w[:n])

		for t := 0; t < steps; t++ {
			base := t * nSrc
			for j := 0; j < n; j++ {
				vals[j] = src[base+row[j].Index]
			}
			out[t*nTarget+i] = floats.Dot(w[:n], vals[:n])
		}
	}
	return out
}
