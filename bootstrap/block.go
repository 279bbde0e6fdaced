package bootstrap

import (
	"math"

	"scicore/numerics"
	"scicore/scierr"
)

// BlockBootstrap resamples contiguous blocks of size sqrt(n) with
// replacement to preserve local (e.g. time-series) dependence structure,
// rather than resampling individual points (spec.md §4.8).
func BlockBootstrap(data []float64, statistic Statistic, nSamples int, seed uint64) ([]float64, error) {
	n := len(data)
	if n == 0 {
		return nil, scierr.New(scierr.Validation, "bootstrap.BlockBootstrap", errEmptyData)
	}
	if nSamples <= 0 {
		return nil, scierr.New(scierr.Validation, "bootstrap.BlockBootstrap", errFewSamples)
	}
	blockSize := int(math.Round(math.Sqrt(float64(n))))
	if blockSize < 1 {
		blockSize = 1
	}
	numBlocks := (n + blockSize - 1) / blockSize

	parent := numerics.NewRand(seed)
	seeds := numerics.ChildSeeds(parent, nSamples)
	estimates := make([]float64, nSamples)
	numerics.ParallelFor(nSamples, func(i int) {
		rng := numerics.NewRand(seeds[i])
		sample := make([]float64, 0, numBlocks*blockSize)
		for len(sample) < n {
			start := rng.Intn(n)
			for k := 0; k < blockSize && len(sample) < n; k++ {
				sample = append(sample, data[(start+k)%n])
			}
		}
		estimates[i] = statistic(sample)
	})
	return estimates, nil
}
