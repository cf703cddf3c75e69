// Package la implements the per-vertex learning automaton: stochastic
// action selection over a probability simplex, and the L_R-P
// reward/penalty rule that adapts it from an accumulated signal
// vector. Every automaton is driven by its own *rand.Rand so a caller
// seeding one stream per vertex ID gets deterministic, reproducible
// runs.
package la

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

const bisectionEpsilon = 1e-6

// SelectAction runs bisection selection over p: repeatedly halves the
// event space around separator 1/factor until at most factor
// candidates remain, then samples directly. The result's marginal
// distribution equals p up to floating point tolerance.
func SelectAction(p []float64, rnd Rand) int {
	if len(p) == 0 {
		return -1
	}
	if 1-floats.Max(p) < bisectionEpsilon {
		return argmax(p)
	}

	indices := make([]int, len(p))
	for i := range indices {
		indices[i] = i
	}
	probs := append([]float64(nil), p...)
	return bisect(probs, indices, rnd)
}

const bisectionFactor = 2

func bisect(probs []float64, indices []int, rnd Rand) int {
	if len(probs) == 1 {
		return indices[0]
	}
	if len(probs) <= bisectionFactor {
		u := rnd.Float64()
		cum := 0.0
		for i, p := range probs {
			cum += p
			if u < cum || i == len(probs)-1 {
				return indices[i]
			}
		}
		return indices[len(indices)-1]
	}

	const separator = 1.0 / bisectionFactor
	sum := 0.0
	splitAt := len(probs)
	for i, p := range probs {
		sum += p
		if sum >= separator {
			splitAt = i
			break
		}
	}
	if splitAt == len(probs) {
		splitAt = len(probs) - 1
	}

	left := append([]float64(nil), probs[:splitAt]...)
	right := append([]float64(nil), probs[splitAt+1:]...)
	leftSum := floats.Sum(left)
	boundary := probs[splitAt]

	// The scan overshot the separator inside probs[splitAt]; split
	// that single mass between the two halves so each side sums to
	// exactly 1/2 before renormalizing.
	leftShare := separator - leftSum
	rightShare := boundary - leftShare
	if leftShare < 0 {
		leftShare = 0
	}
	if rightShare < 0 {
		rightShare = 0
	}
	left = append(left, leftShare)
	right = append([]float64{rightShare}, right...)

	leftIdx := append(append([]int(nil), indices[:splitAt]...), indices[splitAt])
	rightIdx := append([]int{indices[splitAt]}, indices[splitAt+1:]...)

	u := rnd.Float64()
	if u < 0.5 {
		floats.Scale(1/separator, left)
		return bisect(left, leftIdx, rnd)
	}
	floats.Scale(1/separator, right)
	return bisect(right, rightIdx, rnd)
}

func argmax(p []float64) int {
	best := 0
	for i, v := range p {
		if v > p[best] {
			best = i
		}
	}
	return best
}

// Rand is the minimal random source an automaton needs; *rand.Rand
// satisfies it directly.
type Rand interface {
	Float64() float64
}

// UpdateRewardPenalty applies the L_R-P update to p in place using the
// accumulated signal vector sigma, then zeroes sigma. superstep and
// maxIterations feed the max-signal boost from step 1; alpha/beta are
// the reward/penalty learning rates.
func UpdateRewardPenalty(p, sigma []float64, superstep, maxIterations int, alpha, beta float64) {
	k := len(p)
	if k == 0 || k != len(sigma) {
		return
	}

	boostSignal(sigma, superstep, maxIterations, k)

	mean := floats.Sum(sigma) / float64(k)
	var positive, negative []int
	for i, s := range sigma {
		if s >= mean {
			positive = append(positive, i)
		} else {
			negative = append(negative, i)
		}
	}

	negWeights := normalizeGroup(sigma, negative, true)
	posWeights := normalizeGroup(sigma, positive, false)

	sort.Slice(negative, func(a, b int) bool { return negWeights[negative[a]] < negWeights[negative[b]] })
	for _, i := range negative {
		penalize(p, i, negWeights[i]*beta)
	}

	sort.Slice(positive, func(a, b int) bool { return posWeights[positive[a]] < posWeights[positive[b]] })
	for _, i := range positive {
		reward(p, i, posWeights[i]*alpha)
	}

	for i := range sigma {
		sigma[i] = 0
	}
}

// boostSignal amplifies the highest-signal action per step 1: w =
// ((w0-w1)*s*sqrt(K))/maxIterations with w0=0.9, w1=0.4.
func boostSignal(sigma []float64, superstep, maxIterations, k int) {
	if maxIterations <= 0 {
		return
	}
	const w0, w1 = 0.9, 0.4
	w := ((w0 - w1) * float64(superstep) * math.Sqrt(float64(k))) / float64(maxIterations)
	best := argmax(sigma)
	sigma[best] *= 1 + w
}

// normalizeGroup sum-normalizes sigma restricted to idx, returning a
// full-length weight vector (zero outside idx). A zero-sum group
// yields all-zero weights, except when uniformFallback is set (the
// negative group only), which instead falls back to a uniform
// 1/len(idx) weight per the arithmetic-degeneracy fallback. The
// positive group must never get that fallback: a zero-sum positive
// group means no reward update should happen at all, and a nonzero
// uniform share would apply one anyway.
func normalizeGroup(sigma []float64, idx []int, uniformFallback bool) []float64 {
	weights := make([]float64, len(sigma))
	if len(idx) == 0 {
		return weights
	}
	sum := 0.0
	for _, i := range idx {
		sum += sigma[i]
	}
	if sum > 0 {
		for _, i := range idx {
			weights[i] = sigma[i] / sum
		}
		return weights
	}
	if !uniformFallback {
		return weights
	}
	uniform := 1.0 / float64(len(idx))
	for _, i := range idx {
		weights[i] = uniform
	}
	return weights
}

// penalize applies the inaction-style L_R-P penalty step to index i
// with rate share = normalizedSignal*beta.
func penalize(p []float64, i int, share float64) {
	k := len(p)
	if k <= 1 {
		return
	}
	old := p[i]
	p[i] = old * (1 - share)
	spread := share / float64(k-1)
	for j := range p {
		if j == i {
			continue
		}
		p[j] = spread + (1-share)*p[j]
	}
}

// reward applies the L_R-P reward step to index i with rate share =
// normalizedSignal*alpha.
func reward(p []float64, i int, share float64) {
	old := p[i]
	p[i] = old + share*(1-old)
	for j := range p {
		if j == i {
			continue
		}
		p[j] *= 1 - share
	}
}
