/*
Copyright 2011-2026 Frederic Langlet
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

	"github.com/golang/snappy"
)

// Snappy wraps github.com/golang/snappy as a byte-transform stage
// (transform-sequence id 4). The original in-house LZ-family codecs are
// out of scope for this implementation (see DESIGN.md); Snappy and LZ4
// are the two dictionary-style transforms this package provides.
type Snappy struct {
}

// NewSnappy creates a new Snappy transform.
func NewSnappy() (*Snappy, error) {
	return &Snappy{}, nil
}

// NewSnappyWithCtx creates a new Snappy transform; the context is
// accepted for symmetry with the other transforms' factories.
func NewSnappyWithCtx(ctx *map[string]interface{}) (*Snappy, error) {
	return &Snappy{}, nil
}

// Forward applies Snappy compression to src and writes the result to dst.
func (this *Snappy) Forward(src, dst []byte) (uint, uint, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}

	if &src[0] == &dst[0] {
		return 0, 0, errors.New("input and output buffers cannot be equal")
	}

	if n := this.MaxEncodedLen(len(src)); len(dst) < n {
		return 0, 0, fmt.Errorf("output buffer is too small - size: %d, required %d", len(dst), n)
	}

	out := snappy.Encode(dst[:cap(dst)], src)

	if len(out) >= len(src) {
		return 0, 0, errors.New("snappy forward transform: input not compressed")
	}

	if len(out) > 0 && &out[0] != &dst[0] {
		copy(dst, out)
	}

	return uint(len(src)), uint(len(out)), nil
}

// Inverse decompresses src into dst.
func (this *Snappy) Inverse(src, dst []byte) (uint, uint, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}

	if &src[0] == &dst[0] {
		return 0, 0, errors.New("input and output buffers cannot be equal")
	}

	out, err := snappy.Decode(dst[:cap(dst)], src)

	if err != nil {
		return 0, 0, err
	}

	if len(out) > len(dst) {
		return 0, 0, errors.New("output buffer is too small")
	}

	if len(out) > 0 && &out[0] != &dst[0] {
		copy(dst, out)
	}

	return uint(len(src)), uint(len(out)), nil
}

// MaxEncodedLen returns Snappy's own worst-case bound for srcLen bytes.
func (this *Snappy) MaxEncodedLen(srcLen int) int {
	return snappy.MaxEncodedLen(srcLen)
}
