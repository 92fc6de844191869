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

package transform

import (
	"errors"
	"fmt"

	msufsort "github.com/maniscalco/msufsort-go"
)

const BWT_MAX_BLOCK_SIZE = 1024 * 1024 * 1024 // 1 GB

// The Burrows-Wheeler Transform is a reversible transform based on
// permutation of the data in the original message to reduce the entropy.

// The initial text can be found here:
// Burrows M and Wheeler D, [A block sorting lossless data compression algorithm]
// Technical Report 124, Digital Equipment Corporation, 1994

// This implementation builds a suffix array (parallel multikey-quicksort
// plus induced sort) rather than sorting rotation strings directly.
//
// E.G.    0123456789A
// Source: mississippi
// Suffix array SA : 10 7 4 1 0 9 8 6 3 5 2
// BWT[i] = input[SA[i]-1] => BWT(input) = pssmipissii (+ sentinel index 4)

// BWT Burrows Wheeler Transform, a ByteFunction-shaped wrapper around the
// package's parallel suffix-array engine.
type BWT struct {
	sentinelIndex int32
	jobs          uint
}

// NewBWT creates a new BWT instance with 1 job.
func NewBWT() (*BWT, error) {
	return &BWT{jobs: 1}, nil
}

// NewBWTWithCtx creates a new BWT instance. The number of jobs is extracted
// from the provided map or arguments.
func NewBWTWithCtx(ctx *map[string]any) (*BWT, error) {
	this := &BWT{jobs: 1}

	if _, containsKey := (*ctx)["jobs"]; containsKey {
		this.jobs = (*ctx)["jobs"].(uint)

		if this.jobs == 0 {
			return nil, errors.New("the number of jobs must be at least 1")
		}
	}

	return this, nil
}

// PrimaryIndex returns the sentinel index recorded by the last Forward call.
func (this *BWT) PrimaryIndex(n int) uint {
	if n != 0 {
		return 0
	}
	return uint(this.sentinelIndex)
}

// SetPrimaryIndex sets the sentinel index to use on the next Inverse call.
func (this *BWT) SetPrimaryIndex(n int, primaryIndex uint) bool {
	if n != 0 {
		return false
	}
	this.sentinelIndex = int32(primaryIndex)
	return true
}

// Forward applies the function to the src and writes the result
// to the destination. Returns number of bytes read, number of bytes
// written and possibly an error.
func (this *BWT) Forward(src, dst []byte) (uint, uint, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}

	if &src[0] == &dst[0] {
		return 0, 0, errors.New("input and output buffers cannot be equal")
	}

	if n := this.MaxEncodedLen(len(src)); len(dst) < n {
		return 0, 0, fmt.Errorf("output buffer is too small - size: %d, required %d", len(dst), n)
	}

	count := len(src)

	if count > BWT_MAX_BLOCK_SIZE {
		return 0, 0, fmt.Errorf("the max BWT block size is %d, got %d", BWT_MAX_BLOCK_SIZE, count)
	}

	bwt, sentinelIndex, err := msufsort.ForwardBWT(src[0:count], int(this.jobs))
	if err != nil {
		return 0, 0, err
	}

	copy(dst, bwt)
	this.sentinelIndex = sentinelIndex
	return uint(count), uint(count), nil
}

// Inverse applies the reverse function to the src and writes the result
// to the destination. Returns number of bytes read, number of bytes
// written and possibly an error.
func (this *BWT) Inverse(src, dst []byte) (uint, uint, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}

	if &src[0] == &dst[0] {
		return 0, 0, errors.New("input and output buffers cannot be equal")
	}

	count := len(src)

	if count > BWT_MAX_BLOCK_SIZE {
		return 0, 0, fmt.Errorf("the max BWT block size is %d, got %d", BWT_MAX_BLOCK_SIZE, count)
	}

	if count > len(dst) {
		return 0, 0, fmt.Errorf("BWT inverse failed: output buffer size is %d, expected %d", count, len(dst))
	}

	copy(dst, src[:count])
	if err := msufsort.ReverseBWT(dst[:count], this.sentinelIndex, int(this.jobs)); err != nil {
		return 0, 0, err
	}

	return uint(count), uint(count), nil
}

// MaxEncodedLen returns the max size required for the encoding output buffer.
func (this *BWT) MaxEncodedLen(srcLen int) int {
	return srcLen
}
