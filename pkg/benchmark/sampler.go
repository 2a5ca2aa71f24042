/*
 * MIT License
 *
 * Copyright (c) 2023 EASL and the vHive community
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package benchmark

import (
	"math/rand"
	"sort"
)

// sampler turns the caller's input multiset into shuffled measurement
// sequences. Shuffling breaks up runs of one value that would give the
// branch predictor an unrealistically easy time.
type sampler struct {
	// full is the caller's multiset, reordered.
	full []FuncInput

	// subset approximates the same relative frequencies at 1/SubsetRatio of
	// the size, for cheap exploratory rounds.
	subset []FuncInput

	// unique holds the distinct input values in ascending order; results
	// are reported in this order.
	unique []FuncInput
}

func newSampler(inputs []FuncInput, subsetRatio int, rng *rand.Rand) *sampler {
	counts := make(map[FuncInput]int, len(inputs))
	for _, in := range inputs {
		counts[in]++
	}

	unique := make([]FuncInput, 0, len(counts))
	for in := range counts {
		unique = append(unique, in)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	full := append([]FuncInput(nil), inputs...)
	rng.Shuffle(len(full), func(i, j int) { full[i], full[j] = full[j], full[i] })

	subset := subsetOf(inputs, counts, unique, subsetRatio)
	rng.Shuffle(len(subset), func(i, j int) { subset[i], subset[j] = subset[j], subset[i] })

	return &sampler{full: full, subset: subset, unique: unique}
}

// subsetOf draws ⌊len(inputs)/ratio⌋ elements whose per-value counts follow
// the relative frequencies of the distribution, with largest-remainder
// rounding. Rare values can legitimately drop out of the subset; the
// measurement loop covers them with full passes before finishing.
func subsetOf(inputs []FuncInput, counts map[FuncInput]int, unique []FuncInput, ratio int) []FuncInput {
	size := len(inputs) / ratio
	if size == 0 {
		// Distribution smaller than the ratio: there is nothing cheaper
		// than the full sequence.
		return append([]FuncInput(nil), inputs...)
	}

	type share struct {
		value     FuncInput
		quota     int
		remainder float64
	}

	shares := make([]share, len(unique))
	assigned := 0
	for i, v := range unique {
		exact := float64(counts[v]) * float64(size) / float64(len(inputs))
		quota := int(exact)
		shares[i] = share{value: v, quota: quota, remainder: exact - float64(quota)}
		assigned += quota
	}

	sort.SliceStable(shares, func(i, j int) bool { return shares[i].remainder > shares[j].remainder })
	for i := 0; assigned < size; i++ {
		shares[i%len(shares)].quota++
		assigned++
	}

	subset := make([]FuncInput, 0, size)
	for _, s := range shares {
		for k := 0; k < s.quota; k++ {
			subset = append(subset, s.value)
		}
	}

	return subset
}
