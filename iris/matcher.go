package iris

import (
	"fmt"
	"sync"

	"github.com/inversed-tech/eyelid/utils"
	"github.com/inversed-tech/eyelid/utils/sampling"
	"github.com/inversed-tech/eyelid/yashe"
)

// RotationResult is the outcome of one alignment offset: the decoded
// Hamming distance, or the error that offset ran into. A failed
// offset does not abort the others.
type RotationResult struct {
	Offset   int
	Distance int
	Err      error
}

// MatchResult is the outcome of a match attempt: the best (minimal)
// distance over the searched offsets, the offset that produced it,
// the threshold decision, and the per-offset results.
type MatchResult struct {
	// Match is true when the best distance is within the profile
	// threshold.
	Match bool

	// Distance is the minimal decoded Hamming distance.
	Distance int

	// Rotation is the offset producing Distance; ties go to the
	// first offset in -window..+window order.
	Rotation int

	Rotations []RotationResult
}

// Matcher runs the encrypted matching protocol. Each Match call is
// one session: key material is generated for the call, used for the
// rotation sweep, and dropped before returning.
type Matcher struct {
	params  Parameters
	encoder *Encoder
	eval    *yashe.Evaluator
	dec     *yashe.Decryptor
	prng    sampling.PRNG
}

// NewMatcher creates a Matcher for the profile, drawing all session
// randomness from prng.
func NewMatcher(params Parameters, prng sampling.PRNG) *Matcher {
	return &Matcher{
		params:  params,
		encoder: NewEncoder(params),
		eval:    yashe.NewEvaluator(params.Scheme()),
		dec:     yashe.NewDecryptor(params.Scheme()),
		prng:    prng,
	}
}

// Match compares a query template against an enrolled template over
// the profile rotation window.
func (m *Matcher) Match(query, enrolled Template) (*MatchResult, error) {
	return m.MatchWindow(query, enrolled, m.params.RotationLimit())
}

// MatchWindow is Match with an explicit rotation window, clamped to
// the profile limit. The offsets are evaluated independently and in
// parallel; each one encrypts the rotated query, multiplies it with
// the encrypted enrolled template, and decrypts the product with the
// derived key.
func (m *Matcher) MatchWindow(query, enrolled Template, window int) (*MatchResult, error) {
	L := m.params.TemplateBits()
	if len(query) != L || len(enrolled) != L {
		return nil, fmt.Errorf("%w: templates have %d and %d bits, profile wants %d",
			ErrInvalidInput, len(query), len(enrolled), L)
	}
	if window < 0 {
		return nil, fmt.Errorf("%w: negative rotation window %d", ErrInvalidInput, window)
	}
	window = utils.Min(window, m.params.RotationLimit())

	scheme := m.params.Scheme()

	// Session key material. It lives for this call only.
	kg := yashe.NewKeyGenerator(scheme, m.prng)
	sk, pk, err := kg.GenKeyPair()
	if err != nil {
		return nil, err
	}
	dk, err := kg.GenDerivedKey(sk)
	if err != nil {
		return nil, err
	}

	encPRNG, err := m.sessionPRNG()
	if err != nil {
		return nil, err
	}
	encryptor := yashe.NewEncryptor(scheme, pk, encPRNG)

	enrolledPt, err := m.encoder.EncodeEnrolled(enrolled)
	if err != nil {
		return nil, err
	}
	enrolledCt, err := encryptor.Encrypt(enrolledPt)
	if err != nil {
		return nil, err
	}

	offsets := make([]int, 0, 2*window+1)
	for off := -window; off <= window; off++ {
		offsets = append(offsets, off)
	}

	// Every offset gets its own encryptor seed: the samplers are
	// stateful, the rest of the pipeline reads immutable values.
	results := make([]RotationResult, len(offsets))
	var wg sync.WaitGroup
	for i, off := range offsets {
		prng, err := m.sessionPRNG()
		if err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i, off int, prng sampling.PRNG) {
			defer wg.Done()
			d, err := m.evalOffset(query, off, enrolledCt, pk, dk, prng)
			results[i] = RotationResult{Offset: off, Distance: d, Err: err}
		}(i, off, prng)
	}
	wg.Wait()

	res := &MatchResult{Distance: -1, Rotations: results}
	var firstErr error
	for _, rr := range results {
		if rr.Err != nil {
			if firstErr == nil {
				firstErr = rr.Err
			}
			continue
		}
		if res.Distance < 0 || rr.Distance < res.Distance {
			res.Distance = rr.Distance
			res.Rotation = rr.Offset
		}
	}

	if res.Distance < 0 {
		return nil, fmt.Errorf("iris: all %d rotation offsets failed: %w", len(offsets), firstErr)
	}

	res.Match = m.params.IsMatchDistance(res.Distance)
	return res, nil
}

// evalOffset runs the encrypted pipeline for one rotation offset.
func (m *Matcher) evalOffset(query Template, off int, enrolledCt *yashe.Ciphertext,
	pk *yashe.PublicKey, dk *yashe.DerivedKey, prng sampling.PRNG) (int, error) {

	pt, err := m.encoder.EncodeQuery(query.Rotate(off))
	if err != nil {
		return 0, err
	}

	encryptor := yashe.NewEncryptor(m.params.Scheme(), pk, prng)
	ct, err := encryptor.Encrypt(pt)
	if err != nil {
		return 0, err
	}

	prod, err := m.eval.Mul(ct, enrolledCt)
	if err != nil {
		return 0, err
	}

	dec, err := m.dec.DecryptDerived(prod, dk)
	if err != nil {
		return 0, err
	}

	return m.encoder.DecodeDistance(dec)
}

// sessionPRNG derives an independent deterministic stream from the
// matcher's randomness, so parallel offsets never share sampler
// state.
func (m *Matcher) sessionPRNG() (sampling.PRNG, error) {
	seed := make([]byte, 32)
	if _, err := m.prng.Read(seed); err != nil {
		return nil, fmt.Errorf("iris: session seeding: %w", err)
	}
	return sampling.NewKeyedPRNG(seed)
}
