package numerics

import (
	"golang.org/x/exp/rand"
)

// PCGSource is a deterministic, 64-bit-seeded counter-based generator
// (PCG-XSH-RR, Source64 flavor) as required by spec.md §4.1. It implements
// rand.Source64 so it plugs directly into x/exp/rand.Rand and into
// gonum.org/v1/gonum/stat/distuv, both of which accept any Source64 rather
// than only their own default generator.
type PCGSource struct {
	state uint64
	inc   uint64
}

const (
	pcgMultiplier = 6364136223846793005
	pcgDefaultInc = 1442695040888963407
)

// NewPCGSource seeds a generator from a single 64-bit seed plus an optional
// stream selector (use 0 for the default stream). Two sources built from the
// same (seed, streamID) produce identical sequences.
func NewPCGSource(seed, streamID uint64) *PCGSource {
	s := &PCGSource{inc: (streamID << 1) | 1}
	s.state = 0
	s.step()
	s.state += seed
	s.step()
	return s
}

func (p *PCGSource) step() {
	p.state = p.state*pcgMultiplier + p.inc
}

// Uint64 returns the next 64-bit output, built from two successive 32-bit
// PCG-XSH-RR outputs.
func (p *PCGSource) Uint64() uint64 {
	hi := uint64(p.uint32())
	lo := uint64(p.uint32())
	return hi<<32 | lo
}

func (p *PCGSource) uint32() uint32 {
	old := p.state
	p.step()
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Seed reseeds the generator from a single 64-bit value, keeping the
// current stream selector.
func (p *PCGSource) Seed(seed uint64) {
	p.state = 0
	p.step()
	p.state += seed
	p.step()
}

// NewRand builds an *rand.Rand backed by a fresh PCGSource seeded from seed,
// on the default stream. This is the entry point every sampling routine in
// scicore uses: ODR never samples, but distfit's Monte-Carlo uncertainty
// pass, the bootstrap package, and Prophet's MCMC chains all take either
// this or an explicit seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(NewPCGSource(seed, 0))
}

// ChildSeeds derives n independent child seeds from a parent generator, for
// fanning a parallel map/reduce out into per-worker RNGs that never share
// state (spec.md §5).
func ChildSeeds(parent *rand.Rand, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = parent.Uint64()
	}
	return seeds
}
