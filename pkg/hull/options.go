package hull

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

// DefaultSeed seeds the random source when none is configured, so repeated
// runs over the same input produce the same mesh.
const DefaultSeed uint64 = 1

// DefaultMaxSeedAttempts is the number of random quadruples tried before
// the deterministic scan for a starting tetrahedron.
const DefaultMaxSeedAttempts = 64

type options struct {
	seed            uint64
	rng             *rand.Rand
	epsilon         float64
	maxSeedAttempts int
	logger          *zap.Logger
	validate        bool
}

func defaultOptions() options {
	return options{
		seed:            DefaultSeed,
		maxSeedAttempts: DefaultMaxSeedAttempts,
		logger:          zap.NewNop(),
	}
}

// Option configures a Builder.
type Option func(*options)

// WithSeed seeds the builder's random source.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithRand supplies the random source directly. It takes precedence over
// WithSeed.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithEpsilon widens the band of orientation results treated as coplanar.
func WithEpsilon(eps float64) Option {
	return func(o *options) { o.epsilon = eps }
}

// WithMaxSeedAttempts bounds the random search for a starting tetrahedron.
// Zero goes straight to the deterministic scan.
func WithMaxSeedAttempts(n int) Option {
	return func(o *options) { o.maxSeedAttempts = n }
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithValidation checks the mesh after every insertion and panics with an
// *InvariantError on the first failure. It is slow; use it in tests.
func WithValidation(on bool) Option {
	return func(o *options) { o.validate = on }
}
