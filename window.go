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

import "encoding/binary"

// windowSize is the width, in bytes, of the big-endian key the quicksort
// compares suffixes on.
const windowSize = 4

// tailWindow serves window loads whose 4-byte span would cross the end of
// the input. It mirrors the last windowSize bytes of input into the front
// half of an 8-byte buffer, with everything past N left zero; a byte past
// the end of input therefore always compares as smaller than any real byte,
// without the inner quicksort loop ever having to branch on bounds.
type tailWindow struct {
	base int32
	buf  [2 * windowSize]byte
}

func newTailWindow(t []byte) tailWindow {
	n := int32(len(t))
	w := tailWindow{base: n - windowSize}
	for k := range w.buf {
		pos := w.base + int32(k)
		if pos >= 0 && pos < n {
			w.buf[k] = t[pos]
		}
	}
	return w
}

// load reads the 4-byte big-endian window starting at t[index:index+4),
// serving the read from the tail buffer whenever it would run past the end
// of t.
func (w tailWindow) load(t []byte, index int32) uint32 {
	n := int32(len(t))
	if index >= 0 && index+windowSize <= n {
		return binary.BigEndian.Uint32(t[index : index+windowSize])
	}

	off := index - w.base
	if off < 0 {
		off = 0
	}
	if off+windowSize > int32(len(w.buf)) {
		off = int32(len(w.buf)) - windowSize
	}
	return binary.BigEndian.Uint32(w.buf[off : off+windowSize])
}
