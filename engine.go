/*
Copyright 2011-2017 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package msufsort

import "math"

// maxInputLength is the largest input a 32-bit suffix index (with one bit
// reserved for precedingIsTypeA) can address.
const maxInputLength = math.MaxInt32

// engine holds everything the C1-C6 passes share: the input, its suffix
// array buffer (sized 2(n+1) so the back half can double as the ISA overlay,
// per §3), a cached tail window, and the thread count every parallel phase
// splits its work across.
type engine struct {
	t          []byte
	n          int32
	sa         []int32
	tw         tailWindow
	numThreads int
}

func newEngine(t []byte, numThreads int) (*engine, error) {
	n := len(t)
	if n > maxInputLength {
		return nil, ErrInputTooLarge
	}
	if numThreads < 1 {
		numThreads = 1
	}
	e := &engine{
		t:          t,
		n:          int32(n),
		sa:         make([]int32, 2*(n+1)),
		tw:         newTailWindow(t),
		numThreads: clampThreads(numThreads, n),
	}
	return e, nil
}

// isa returns a view over the back half of the SA buffer, used as scratch
// by the tandem-repeat completion pass (§4.4) before stage 2 begins.
func (e *engine) isa() isaView {
	return newISAView(e.sa)
}

// prepareStageOne runs C1 through C4: classify, plan buckets, scatter and
// fully sort every B* partition, and complete every deferred tandem-repeat
// group. What's left afterward is exactly the precondition C5/C6 (or their
// C7 BWT-fused counterpart) need: every B* suffix sorted in place, ready to
// be moved to its final bucket and induced from.
func (e *engine) prepareStageOne() (*bucketLayout, error) {
	cr, err := e.classify()
	if err != nil {
		return nil, err
	}
	layout := planBuckets(e.n, cr)

	if err := e.scatterBStar(cr, layout); err != nil {
		return nil, err
	}

	records, err := e.sortBStarBuckets(layout)
	if err != nil {
		return nil, err
	}

	isa := e.isa()
	for i := range records {
		completeTandemRepeat(e.t, isa, records[i])
	}

	return layout, nil
}

// run drives C1 through C6 to completion, leaving a fully sorted suffix
// array (including the sentinel at sa[0]) in e.sa[:n+1].
func (e *engine) run() ([]int32, error) {
	n := e.n
	if n == 0 {
		return []int32{0}, nil
	}

	layout, err := e.prepareStageOne()
	if err != nil {
		return nil, err
	}

	if err := e.induce(layout); err != nil {
		return nil, err
	}

	sa := e.sa[:n+1]
	sa[0] = n
	for i := int32(1); i <= n; i++ {
		sa[i] = indexOf(sa[i])
	}
	return sa, nil
}

// runAsBWT drives C1-C4 exactly as run does, then runs the fused C7
// induction instead of plain C5/C6, collapsing the suffix array into the
// BWT byte stream in place. It returns the transformed bytes and the
// sentinel index.
func (e *engine) runAsBWT() ([]byte, int32, error) {
	layout, err := e.prepareStageOne()
	if err != nil {
		return nil, 0, err
	}

	sentinelPos, err := e.induceAsBWT(layout)
	if err != nil {
		return nil, 0, err
	}

	n := e.n
	bwt := make([]byte, n)
	for i := int32(0); i < n; i++ {
		pos := i + 1
		if pos == sentinelPos {
			bwt[i] = e.t[n-1]
			continue
		}
		bwt[i] = byte(e.sa[pos])
	}
	return bwt, sentinelPos - 1, nil
}

// MakeSuffixArray builds the suffix array of input using up to numThreads
// goroutines, following the classify/partition/sort/induce pipeline of
// §4. The returned slice has length len(input)+1 and always begins with
// the sentinel position len(input).
func MakeSuffixArray(input []byte, numThreads int) ([]int32, error) {
	e, err := newEngine(input, numThreads)
	if err != nil {
		return nil, err
	}
	return e.run()
}
