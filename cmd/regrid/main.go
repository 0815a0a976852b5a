package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"go.ngs.io/regrid/internal/adapter/spatial"
	"go.ngs.io/regrid/internal/adapter/store"
	csvstore "go.ngs.io/regrid/internal/adapter/store/csv"
	"go.ngs.io/regrid/internal/adapter/store/ncfile"
	"go.ngs.io/regrid/internal/domain"
	"go.ngs.io/regrid/internal/logger"
	"go.ngs.io/regrid/internal/usecase"
)

func main() {
	source := flag.String("source", "", "Source NetCDF or CSV file (required)")
	sourceVar := flag.String("source-var", "", "Source variable (required)")
	target := flag.String("target", "", "Target file providing the output grid or points (required)")
	targetVar := flag.String("target-var", "", "Target variable (required)")
	x := flag.String("x", "lon", "Source x (longitude) coordinate")
	y := flag.String("y", "lat", "Source y (latitude) coordinate")
	t := flag.String("t", "", "Source time dimension, if any")
	targetX := flag.String("target-x", "", "Target x coordinate (default: same as -x)")
	targetY := flag.String("target-y", "", "Target y coordinate (default: same as -y)")
	method := flag.String("method", "nearest", "Method: nearest or distance_weighted")
	k := flag.Int("k", 0, "Neighbours per target point (default: 1 for nearest)")
	eps := flag.Float64("eps", 0, "Approximate search factor")
	p := flag.Float64("p", 2, "Minkowski norm for the neighbour search")
	bound := flag.Float64("bound", math.Inf(1), "Distance upper bound in sphere units")
	radius := flag.Float64("radius", 1, "Sphere radius")
	out := flag.String("out", "", "Output file; .csv writes point lists (required)")
	flag.Parse()

	if *source == "" || *sourceVar == "" || *target == "" || *targetVar == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "Usage: regrid -source FILE -source-var VAR -target FILE -target-var VAR -out FILE [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	logger.Setup()

	st := store.NewMux(ncfile.NewStore("")).Handle(".csv", csvstore.NewStore(""))
	uc := usecase.NewRemapUseCase(st, st, nil, *radius)

	req := usecase.RemapRequest{
		Source: usecase.FieldRef{Path: *source, Variable: *sourceVar, X: *x, Y: *y, T: *t},
		Target: usecase.FieldRef{Path: *target, Variable: *targetVar, X: *targetX, Y: *targetY},
		Method: *method,
		Query:  spatial.QueryOptions{K: *k, Eps: *eps, P: *p, DistanceUpperBound: *bound},
		Output: *out,
	}

	log.Printf("Remapping %s:%s onto the grid of %s:%s (%s)", *source, *sourceVar, *target, *targetVar, *method)
	resp, err := uc.Execute(req)
	if err != nil {
		if errors.Is(err, domain.ErrNotImplemented) {
			log.Fatalf("Method not available: %v", err)
		}
		log.Fatalf("Remap failed: %v", err)
	}

	missing := 0
	for _, v := range resp.Field.Values {
		if math.IsNaN(v) {
			missing++
		}
	}
	log.Printf("Wrote %s: dims %v, shape %v", resp.OutputPath, resp.Field.Dims, resp.Field.Shape)
	log.Printf("Missing values: %d of %d", missing, len(resp.Field.Values))
	log.Printf("Elapsed: %s", resp.Elapsed)
}
