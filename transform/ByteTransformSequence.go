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

	bcodec "github.com/blockstream-go/bcodec"
)

const _SEQ_MAX_TRANSFORMS = 4

// ByteTransformSequence composes up to 4 byte-transforms and runs them
// left to right on forward, right to left on inverse. If a stage's
// forward fails, the sequence reverts to that stage's input and records a
// skip bit instead of propagating the error; inverse then skips the
// corresponding stage. A destination buffer smaller than the last stage's
// MaxEncodedLen is reported as an error, not as a skip.
type ByteTransformSequence struct {
	transforms [_SEQ_MAX_TRANSFORMS]bcodec.ByteTransform
	nbFuncs    int
	skipFlags  byte
}

// NewByteTransformSequence creates a sequence from an ordered list of up
// to 4 stages (highest-priority stage first).
func NewByteTransformSequence(transforms []bcodec.ByteTransform) (*ByteTransformSequence, error) {
	if len(transforms) == 0 || len(transforms) > _SEQ_MAX_TRANSFORMS {
		return nil, errors.New("invalid number of transforms in sequence")
	}

	this := &ByteTransformSequence{nbFuncs: len(transforms)}
	copy(this.transforms[:], transforms)
	return this, nil
}

// SkipFlags returns the bitmask accumulated by the last Forward call:
// bit 0 is the first stage, bit 1 the second, and so on.
func (this *ByteTransformSequence) SkipFlags() byte {
	return this.skipFlags
}

// SetSkipFlags primes the sequence with the skip bitmask read back from
// a block's frame, so Inverse knows which stages to bypass.
func (this *ByteTransformSequence) SetSkipFlags(flags byte) bool {
	this.skipFlags = flags
	return true
}

// Forward runs every configured stage in order. A stage whose Forward
// fails is skipped: its bit is set in skipFlags and its input bytes pass
// through unchanged. With two or more stages, Forward returns an error when
// dst is shorter than the last stage's MaxEncodedLen for its input.
func (this *ByteTransformSequence) Forward(src, dst []byte) (uint, uint, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}

	if &src[0] == &dst[0] {
		return 0, 0, errors.New("input and output buffers cannot be equal")
	}

	this.skipFlags = 0

	if this.nbFuncs == 1 {
		srcIdx, dstIdx, err := this.transforms[0].Forward(src, dst)

		if err != nil {
			this.skipFlags = 1
			n := copy(dst, src)
			return uint(n), uint(n), nil
		}

		return srcIdx, dstIdx, err
	}

	curIn := src

	for i := 0; i < this.nbFuncs; i++ {
		last := i == this.nbFuncs-1
		out := dst

		if !last {
			out = make([]byte, this.transforms[i].MaxEncodedLen(len(curIn)))
		} else if len(out) < this.transforms[i].MaxEncodedLen(len(curIn)) {
			return 0, 0, errors.New("output buffer is too small")
		}

		_, n, err := this.transforms[i].Forward(curIn, out)

		if err != nil {
			// Stage failed: mark skip, pass the input bytes through unchanged.
			this.skipFlags |= byte(1) << uint(i)
			passthrough := make([]byte, len(curIn))
			copy(passthrough, curIn)

			if last {
				copy(dst, passthrough)
				return uint(len(src)), uint(len(passthrough)), nil
			}

			curIn = passthrough
			continue
		}

		if last {
			return uint(len(src)), n, nil
		}

		curIn = out[:n]
	}

	return uint(len(src)), uint(len(curIn)), nil
}

// Inverse runs the non-skipped stages in reverse order.
func (this *ByteTransformSequence) Inverse(src, dst []byte) (uint, uint, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}

	if &src[0] == &dst[0] {
		return 0, 0, errors.New("input and output buffers cannot be equal")
	}

	if this.nbFuncs == 1 {
		if this.skipFlags&1 != 0 {
			n := copy(dst, src)
			return uint(n), uint(n), nil
		}

		return this.transforms[0].Inverse(src, dst)
	}

	curIn := src

	for i := this.nbFuncs - 1; i >= 0; i-- {
		if this.skipFlags&(byte(1)<<uint(i)) != 0 {
			continue
		}

		var out []byte

		if i == 0 {
			out = dst
		} else {
			// A non-final reverse stage can expand its output well past
			// len(curIn) (run-length decoding undoes compression), so the
			// scratch buffer must be sized off the full destination, not
			// off the current, possibly much smaller, intermediate input.
			out = make([]byte, len(dst))
		}

		_, n, err := this.transforms[i].Inverse(curIn, out)

		if err != nil {
			return 0, 0, err
		}

		curIn = out[:n]
	}

	if &curIn[0] != &dst[0] {
		copy(dst, curIn)
	}

	return uint(len(src)), uint(len(curIn)), nil
}

// MaxEncodedLen returns the maximum output size across all configured
// stages for an input of the given length.
func (this *ByteTransformSequence) MaxEncodedLen(srcLen int) int {
	return this.maxEncodedLenAll(srcLen)
}

func (this *ByteTransformSequence) maxEncodedLenAll(srcLen int) int {
	max := srcLen

	for i := 0; i < this.nbFuncs; i++ {
		if n := this.transforms[i].MaxEncodedLen(srcLen); n > max {
			max = n
		}
	}

	return max
}
