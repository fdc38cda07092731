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

import "errors"

// _BWT_MAX_HEADER_SIZE bounds the extra room a transform may need beyond
// its input length (primary indexes, run-length escapes, ...).
const _BWT_MAX_HEADER_SIZE = 4 * 8

// None is the identity byte-transform (transform-sequence id 0).
type None struct {
}

// NewNone creates a new identity transform.
func NewNone() (*None, error) {
	return &None{}, nil
}

// NewNoneWithCtx creates a new identity transform, ignoring the context.
func NewNoneWithCtx(ctx *map[string]interface{}) (*None, error) {
	return &None{}, nil
}

// Forward copies src to dst unchanged.
func (this *None) Forward(src, dst []byte) (uint, uint, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}

	if &src[0] == &dst[0] {
		return 0, 0, errors.New("input and output buffers cannot be equal")
	}

	if len(dst) < len(src) {
		return 0, 0, errors.New("output buffer is too small")
	}

	n := copy(dst, src)
	return uint(n), uint(n), nil
}

// Inverse copies src to dst unchanged.
func (this *None) Inverse(src, dst []byte) (uint, uint, error) {
	return this.Forward(src, dst)
}

// MaxEncodedLen returns srcLen: the identity transform never grows its input.
func (this *None) MaxEncodedLen(srcLen int) int {
	return srcLen
}
