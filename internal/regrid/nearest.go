package regrid

import (
	"math"

	"go.ngs.io/regrid/internal/adapter/spatial"
)

// timeSteps returns the number of 2-D slices in a source laid out as
// [t][spatial...].
func timeSteps(g Grid) int {
	if g.TCoord == "" {
		return 1
	}
	return g.TimeLen
}

// gatherNearest copies the nearest source value for each target point.
// Values are laid out as [t*nTarget + i]. Targets without a neighbour get NaN.
func gatherNearest(src []float64, g Grid, res spatial.Result, nTarget int) []float64 {
	nSrc := g.Size()
	steps := timeSteps(g)
	out := make([]float64, steps*nTarget)

	for i := 0; i < nTarget; i++ {
		nb := res.Row(i)[0]
		for t := 0; t < steps; t++ {
			if nb.Index >= nSrc {
				out[t*nTarget+i] = math.NaN()
				continue
			}
			out[t*nTarget+i] = src[t*nSrc+nb.Index]
		}
	}
	return out
}
