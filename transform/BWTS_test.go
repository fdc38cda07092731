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
	"math/rand"
	"testing"
)

func TestBWTSRoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("mississippi"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		[]byte(""),
		[]byte("a"),
		[]byte("ab"),
		[]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
	}

	for _, src := range inputs {
		bwts, _ := NewBWTS()
		fwd := make([]byte, len(src)+_BWT_MAX_HEADER_SIZE)
		_, n, err := bwts.Forward(src, fwd)

		if err != nil {
			t.Fatalf("Unexpected forward error for %q: %v", src, err)
		}

		dst := make([]byte, len(src))
		_, _, err = bwts.Inverse(fwd[:n], dst)

		if err != nil {
			t.Fatalf("Unexpected inverse error for %q: %v", src, err)
		}

		if !bytes.Equal(dst, src) {
			t.Errorf("Round trip failed for %q: got %q", src, dst)
		}
	}
}

func TestBWTSRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for size := 2; size <= 1024; size += 97 {
		src := make([]byte, size)

		for i := range src {
			src[i] = byte(r.Intn(8))
		}

		bwts, _ := NewBWTS()
		fwd := make([]byte, len(src))
		_, n, err := bwts.Forward(src, fwd)

		if err != nil {
			t.Fatalf("size %d: unexpected forward error: %v", size, err)
		}

		dst := make([]byte, len(src))
		_, _, err = bwts.Inverse(fwd[:n], dst)

		if err != nil {
			t.Fatalf("size %d: unexpected inverse error: %v", size, err)
		}

		if !bytes.Equal(dst, src) {
			t.Errorf("size %d: round trip mismatch", size)
		}
	}
}
