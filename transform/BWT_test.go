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

func TestBWTMississippi(t *testing.T) {
	bwt, _ := NewBWT()
	src := []byte("mississippi")
	dst := make([]byte, len(src))

	if _, _, err := bwt.Forward(src, dst); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []byte{'p', 's', 's', 'm', 'i', 'p', 'i', 's', 's', 'i', 'i'}

	if !bytes.Equal(dst, expected) {
		t.Errorf("Expected %v, got %v", expected, dst)
	}

	if bwt.PrimaryIndex(0) != 4 {
		t.Errorf("Expected primary index 4, got %d", bwt.PrimaryIndex(0))
	}
}

func TestBWTRoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte("mississippi"),
		[]byte("the quick brown fox jumps over the lazy dog"),
		[]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		[]byte(""),
		[]byte("a"),
		[]byte("ab"),
	}

	for _, src := range inputs {
		bwt, _ := NewBWT()
		fwd := make([]byte, len(src)+_BWT_MAX_HEADER_SIZE)
		_, n, err := bwt.Forward(src, fwd)

		if err != nil {
			t.Fatalf("Unexpected forward error for %q: %v", src, err)
		}

		inv, _ := NewBWT()
		inv.SetPrimaryIndex(0, bwt.PrimaryIndex(0))
		dst := make([]byte, len(src))
		_, _, err = inv.Inverse(fwd[:n], dst)

		if err != nil {
			t.Fatalf("Unexpected inverse error for %q: %v", src, err)
		}

		if !bytes.Equal(dst, src) {
			t.Errorf("Round trip failed for %q: got %q", src, dst)
		}
	}
}

func TestBWTRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for size := 2; size <= 2048; size += 137 {
		src := make([]byte, size)

		for i := range src {
			src[i] = byte(r.Intn(6)) // small alphabet, lots of repeats
		}

		bwt, _ := NewBWT()
		fwd := make([]byte, len(src))
		_, n, err := bwt.Forward(src, fwd)

		if err != nil {
			t.Fatalf("size %d: unexpected forward error: %v", size, err)
		}

		inv, _ := NewBWT()
		inv.SetPrimaryIndex(0, bwt.PrimaryIndex(0))
		dst := make([]byte, len(src))
		_, _, err = inv.Inverse(fwd[:n], dst)

		if err != nil {
			t.Fatalf("size %d: unexpected inverse error: %v", size, err)
		}

		if !bytes.Equal(dst, src) {
			t.Errorf("size %d: round trip mismatch", size)
		}
	}
}

func TestBWTInvalidPrimaryIndex(t *testing.T) {
	inv, _ := NewBWT()
	inv.SetPrimaryIndex(0, 999)
	src := []byte("mississippi")
	dst := make([]byte, len(src))

	if _, _, err := inv.Inverse(src, dst); err == nil {
		t.Errorf("Expected an error for an out-of-range primary index")
	}
}
