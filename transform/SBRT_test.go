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

func TestSBRTRoundTrip(t *testing.T) {
	modes := []int{SBRTModeMTF, SBRTModeRank, SBRTModeTimestamp}
	src := []byte("mississippimississippimississippi")

	for _, mode := range modes {
		fwd, _ := NewSBRT(mode)
		dst := make([]byte, fwd.MaxEncodedLen(len(src)))
		_, n, err := fwd.Forward(src, dst)

		if err != nil {
			t.Fatalf("mode %d: unexpected forward error: %v", mode, err)
		}

		inv, _ := NewSBRT(mode)
		out := make([]byte, len(src))
		_, _, err = inv.Inverse(dst[:n], out)

		if err != nil {
			t.Fatalf("mode %d: unexpected inverse error: %v", mode, err)
		}

		if !bytes.Equal(out, src) {
			t.Errorf("mode %d: round trip failed: got %q", mode, out)
		}
	}
}

func TestSBRTRoundTripRandom(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	modes := []int{SBRTModeMTF, SBRTModeRank, SBRTModeTimestamp}

	for _, mode := range modes {
		src := make([]byte, 4096)

		for i := range src {
			src[i] = byte(r.Intn(256))
		}

		fwd, _ := NewSBRT(mode)
		dst := make([]byte, fwd.MaxEncodedLen(len(src)))
		_, n, _ := fwd.Forward(src, dst)

		inv, _ := NewSBRT(mode)
		out := make([]byte, len(src))
		inv.Inverse(dst[:n], out)

		if !bytes.Equal(out, src) {
			t.Errorf("mode %d: round trip mismatch on random data", mode)
		}
	}
}

func TestSBRTInvalidMode(t *testing.T) {
	if _, err := NewSBRT(99); err == nil {
		t.Errorf("Expected an error for an invalid mode")
	}
}
