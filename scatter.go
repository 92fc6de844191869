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

import "golang.org/x/sync/errgroup"

// scatterBStar runs sweep 2 of C1 (§4.1): every goroutine re-walks the same
// span it classified in sweep 1, this time writing each B* suffix it finds
// into its reserved slot of e.sa, using the per-thread cursor table C2
// already computed in layout.bStarOffsetByThr.
func (e *engine) scatterBStar(cr *classifyResult, layout *bucketLayout) error {
	n := e.n
	numThreads := len(cr.bStarByThread)
	if numThreads == 0 {
		return nil
	}

	spanLens := ComputeJobsPerTask(make([]uint, numThreads), uint(n), uint(numThreads))

	g := new(errgroup.Group)
	lo := int32(0)
	for t := 0; t < numThreads; t++ {
		lo0 := lo
		hi0 := lo + int32(spanLens[t])
		thread := t
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = wrapWorkerPanic("scatter", r)
				}
			}()
			scatterBStarSpan(e.t, e.sa, lo0, hi0, &layout.bStarOffsetByThr[thread])
			return nil
		})
		lo = hi0
	}
	return g.Wait()
}
