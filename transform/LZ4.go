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

	"github.com/pierrec/lz4/v4"
)

// LZ4 wraps github.com/pierrec/lz4/v4's block-level API as a
// byte-transform stage (transform-sequence id 3).
type LZ4 struct {
	compressor lz4.Compressor
}

// NewLZ4 creates a new LZ4 transform.
func NewLZ4() (*LZ4, error) {
	return &LZ4{}, nil
}

// NewLZ4WithCtx creates a new LZ4 transform; the context is accepted for
// symmetry with the other transforms' factories.
func NewLZ4WithCtx(ctx *map[string]interface{}) (*LZ4, error) {
	return &LZ4{}, nil
}

// Forward compresses src into dst using a single LZ4 block.
func (this *LZ4) Forward(src, dst []byte) (uint, uint, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}

	if &src[0] == &dst[0] {
		return 0, 0, errors.New("input and output buffers cannot be equal")
	}

	if n := this.MaxEncodedLen(len(src)); len(dst) < n {
		return 0, 0, fmt.Errorf("output buffer is too small - size: %d, required %d", len(dst), n)
	}

	n, err := this.compressor.CompressBlock(src, dst)

	if err != nil {
		return 0, 0, err
	}

	if n == 0 || n >= len(src) {
		return 0, 0, errors.New("lz4 forward transform: input not compressed")
	}

	return uint(len(src)), uint(n), nil
}

// Inverse decompresses a single LZ4 block from src into dst.
func (this *LZ4) Inverse(src, dst []byte) (uint, uint, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}

	if &src[0] == &dst[0] {
		return 0, 0, errors.New("input and output buffers cannot be equal")
	}

	n, err := lz4.UncompressBlock(src, dst)

	if err != nil {
		return 0, 0, err
	}

	return uint(len(src)), uint(n), nil
}

// MaxEncodedLen returns LZ4's own worst-case bound for srcLen bytes.
func (this *LZ4) MaxEncodedLen(srcLen int) int {
	return lz4.CompressBlockBound(srcLen)
}
