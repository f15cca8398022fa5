package hyperloglog

import "math"

// Encoding identifies which physical register an Estimator is currently
// backed by. The zero value is Sparse, matching the package default.
type Encoding uint8

const (
	Sparse Encoding = iota
	Dense
)

func (e Encoding) String() string {
	if e == Dense {
		return "dense"
	}
	return "sparse"
}

const (
	// pPrime is the fixed sparse addressing precision (Google's recommended
	// value for the HyperLogLog++ sparse representation).
	pPrime = 25
	// qPrime is the fixed sparse value-field bit width; 6 bits covers every
	// rank a 64-bit hash can produce at any configured p.
	qPrime = 6

	minP = 4
	maxP = 16
)

// config holds the immutable, validated parameters derived once at
// construction time: m, alphaMM and promotionThreshold never change after
// New returns.
type config struct {
	p        int
	m        int
	hashBits int // as configured, capped at 128
	effBits  int // min(hashBits, 64); governs counting behavior

	bitPack bool

	alphaMM            float64
	promotionThreshold int
}

// Option configures a new Estimator. Options are applied in order, so a
// later WithP overrides an earlier one.
type Option func(*buildParams)

type buildParams struct {
	p               int
	hashBits        int
	bitPack         bool
	initialEncoding Encoding
}

// WithP sets the register-index bit width (m = 2^p). Must be in [4, 16].
func WithP(p int) Option {
	return func(b *buildParams) { b.p = p }
}

// WithHashBits sets the effective width of the hash values that will be
// submitted. Values above 128 are capped to 128; values at or above 64 are
// treated as 64 for counting purposes.
func WithHashBits(bits int) Option {
	return func(b *buildParams) { b.hashBits = bits }
}

// WithBitPack controls whether dense registers are stored 6-bits-packed
// (the default, minimal memory) or one byte per slot (branch-free access,
// 4KB extra at p=14).
func WithBitPack(pack bool) Option {
	return func(b *buildParams) { b.bitPack = pack }
}

// WithEncoding selects the initial register representation. Sparse is the
// default and the only sensible choice for a freshly created estimator;
// Dense is exposed mainly for rehydration and benchmarking call sites that
// already know the data won't fit in sparse form.
func WithEncoding(enc Encoding) Option {
	return func(b *buildParams) { b.initialEncoding = enc }
}

func defaultBuildParams() buildParams {
	return buildParams{
		p:               14,
		hashBits:        64,
		bitPack:         true,
		initialEncoding: Sparse,
	}
}

// New builds an Estimator from the given options, validating parameters
// and deriving alphaMM / promotionThreshold once up front.
func New(opts ...Option) (*Estimator, error) {
	b := defaultBuildParams()
	for _, opt := range opts {
		opt(&b)
	}

	if b.p < minP || b.p > maxP {
		return nil, ErrConfiguration
	}

	hashBits := b.hashBits
	if hashBits > 128 {
		hashBits = 128
	}
	effBits := hashBits
	if effBits > 64 {
		effBits = 64
	}

	m := 1 << uint(b.p)
	cfg := config{
		p:        b.p,
		m:        m,
		hashBits: hashBits,
		effBits:  effBits,
		bitPack:  b.bitPack,
	}
	cfg.alphaMM = computeAlphaMM(hashBits, m)
	cfg.promotionThreshold = computePromotionThreshold(m, b.bitPack)

	e := &Estimator{cfg: cfg, encoding: b.initialEncoding}
	switch b.initialEncoding {
	case Dense:
		e.dense = newDenseRegister(m, b.bitPack)
	default:
		e.encoding = Sparse
		e.sparse = newSparseRegister(m)
	}
	return e, nil
}

// computeAlphaMM returns alpha*m^2, where alpha is the bias-correction
// constant from the original HyperLogLog paper, selected by hashBits (the
// configured width capped at 128, not the counting-time min(hashBits,64)
// used for the long-range correction gate).
func computeAlphaMM(hashBits, m int) float64 {
	var alpha float64
	switch {
	case hashBits <= 16:
		alpha = 0.673
	case hashBits <= 32:
		alpha = 0.697
	case hashBits <= 64:
		alpha = 0.709
	default:
		alpha = 0.7213 / (1 + 1.079/float64(m))
	}
	return alpha * float64(m) * float64(m)
}

func computePromotionThreshold(m int, bitPack bool) int {
	if bitPack {
		return (m * 6 / 8) / 5
	}
	return m / 3
}

func standardErrorFor(m int) float64 {
	return 1.04 / math.Sqrt(float64(m))
}
