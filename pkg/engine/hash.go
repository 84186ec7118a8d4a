package engine

// Hash and HashToFloat are the engine's only source of randomness
// (spec.md §4.1, §9): a pure, stateless, avalanching integer hash. Every
// stochastic decision in the engine names its own salt so two unrelated
// decisions about the same step never draw the same value; see the salt
// band constants below and SPEC_FULL.md §E.5.

// Hash combines seed and salt into a single well-mixed 32-bit value. It
// XOR-folds seed and salt into one word and runs a single
// xorshift-multiply avalanche pass over it (the shape of Murmur3's 32-bit
// finalizer, with the multipliers 0x7feb352d and 0x846ca68b in place of
// Murmur3's own) — good diffusion, no division, no floating point, fully
// deterministic across platforms.
func Hash(seed, salt uint32) uint32 {
	h := seed ^ salt
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}

// HashToFloat maps Hash(seed, salt) to a uniform value in [0, 1). It uses
// the top 24 bits of the hash so the result has full float32 mantissa
// precision and avoids the weaker low-order bits of the mix.
func HashToFloat(seed, salt uint32) float32 {
	top24 := Hash(seed, salt) >> 8
	return float32(top24) / float32(1<<24)
}

// Disjoint salt bands so that distinct stochastic decisions about the same
// step index never collide. Bands named explicitly in spec.md keep their
// literal values (gumbel noise uses the bare step index; beat-1 uses 501;
// displacement uses step+601); bands spec.md leaves unspecified get their
// own band per SPEC_FULL.md §E.5.
const (
	saltBeat1Skip        uint32 = 501
	saltDisplacementBase uint32 = 601
	saltHumanizeBase     uint32 = 0x1000
	saltWildChaosBase    uint32 = 0x2000
	saltMicroJitterBase  uint32 = 0x3000
	saltPhraseRotate     uint32 = 0x4000
	saltSwingJitterBase  uint32 = 0x5000
	saltAuxDensityBase   uint32 = 0x6000
)

// brokenModeSeedXOR is XORed into the seed (not the salt) for broken-mode
// downbeat rolls and for half-bar-2 sub-seeding of long patterns, per
// spec.md §4.4 and §3 respectively.
const brokenModeSeedXOR uint32 = 0xDEADBEEF
