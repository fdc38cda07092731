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
	"bytes"
	"errors"
	"testing"

	bcodec "github.com/blockstream-go/bcodec"
)

// alwaysFailTransform is a stub stage used to exercise the skip-flag
// recovery path: its Forward always errors, so the sequence must fall
// back to passing the stage's input through unchanged.
type alwaysFailTransform struct{}

func (alwaysFailTransform) Forward(src, dst []byte) (uint, uint, error) {
	return 0, 0, errors.New("forced failure")
}

func (alwaysFailTransform) Inverse(src, dst []byte) (uint, uint, error) {
	return 0, 0, errors.New("inverse should never be called on a skipped stage")
}

func (alwaysFailTransform) MaxEncodedLen(srcLen int) int {
	return srcLen
}

func TestByteTransformSequenceRoundTrip(t *testing.T) {
	src := []byte("mississippimississippimississippi")

	bwt, _ := NewBWT()
	mtf, _ := NewSBRT(SBRTModeMTF)
	zrlt, _ := NewZRLT()

	seq, err := NewByteTransformSequence([]bcodec.ByteTransform{bwt, mtf, zrlt})

	if err != nil {
		t.Fatalf("Unexpected error building sequence: %v", err)
	}

	dst := make([]byte, seq.MaxEncodedLen(len(src))+_BWT_MAX_HEADER_SIZE)
	_, n, err := seq.Forward(src, dst)

	if err != nil {
		t.Fatalf("Unexpected forward error: %v", err)
	}

	out := make([]byte, len(src))
	_, _, err = seq.Inverse(dst[:n], out)

	if err != nil {
		t.Fatalf("Unexpected inverse error: %v", err)
	}

	if !bytes.Equal(out, src) {
		t.Errorf("Round trip failed: got %q, expected %q", out, src)
	}
}

func TestByteTransformSequenceSkipFlagRecovery(t *testing.T) {
	src := []byte("mississippimississippimississippi")

	bwt, _ := NewBWT()
	zrlt, _ := NewZRLT()

	seq, err := NewByteTransformSequence([]bcodec.ByteTransform{bwt, alwaysFailTransform{}, zrlt})

	if err != nil {
		t.Fatalf("Unexpected error building sequence: %v", err)
	}

	dst := make([]byte, seq.MaxEncodedLen(len(src))+_BWT_MAX_HEADER_SIZE)
	_, n, err := seq.Forward(src, dst)

	if err != nil {
		t.Fatalf("Unexpected forward error: %v", err)
	}

	if seq.SkipFlags()&(1<<1) == 0 {
		t.Fatalf("Expected the middle stage's skip bit to be set, got flags=%#x", seq.SkipFlags())
	}

	out := make([]byte, len(src))
	_, _, err = seq.Inverse(dst[:n], out)

	if err != nil {
		t.Fatalf("Unexpected inverse error: %v", err)
	}

	if !bytes.Equal(out, src) {
		t.Errorf("Round trip with a failing stage failed: got %q, expected %q", out, src)
	}
}

// TestByteTransformSequenceExpandingInverseStage exercises a sequence
// where a non-final reverse stage (ZRLT) expands its output well past
// the size of its compressed input. The BWT+MTF pass on a long,
// highly-repetitive source drives the post-BWT stream down to a small
// fraction of the original block, so an intermediate inverse buffer
// sized off that shrunken input (instead of the full destination) would
// be far too small to hold ZRLT's expanded output.
func TestByteTransformSequenceExpandingInverseStage(t *testing.T) {
	src := bytes.Repeat([]byte("abcabcabcabcabcabcabcabcabcabcabc"), 512)

	bwt, _ := NewBWT()
	mtf, _ := NewSBRT(SBRTModeMTF)
	zrlt, _ := NewZRLT()

	seq, err := NewByteTransformSequence([]bcodec.ByteTransform{bwt, mtf, zrlt})

	if err != nil {
		t.Fatalf("Unexpected error building sequence: %v", err)
	}

	dst := make([]byte, seq.MaxEncodedLen(len(src))+_BWT_MAX_HEADER_SIZE)
	_, n, err := seq.Forward(src, dst)

	if err != nil {
		t.Fatalf("Unexpected forward error: %v", err)
	}

	if n >= uint(len(src)) {
		t.Fatalf("expected the compressed form to shrink well below %d bytes, got %d", len(src), n)
	}

	out := make([]byte, len(src))
	_, _, err = seq.Inverse(dst[:n], out)

	if err != nil {
		t.Fatalf("Unexpected inverse error on expanding stage: %v", err)
	}

	if !bytes.Equal(out, src) {
		t.Errorf("Round trip with an expanding non-final inverse stage failed")
	}
}

func TestByteTransformSequenceInvalidCount(t *testing.T) {
	if _, err := NewByteTransformSequence(nil); err == nil {
		t.Errorf("Expected an error for an empty transform list")
	}

	bwt, _ := NewBWT()
	five := []bcodec.ByteTransform{bwt, bwt, bwt, bwt, bwt}

	if _, err := NewByteTransformSequence(five); err == nil {
		t.Errorf("Expected an error for more than 4 transforms")
	}
}
