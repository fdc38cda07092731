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
	"testing"
)

func TestZRLTRoundTrip(t *testing.T) {
	src := []byte{1, 2, 3, 0, 0, 0, 0, 0, 0, 0, 4, 5, 0, 0xFE, 0xFF, 6}
	src = append(src, bytes.Repeat([]byte{0}, 500)...) // long zero run

	zrlt, _ := NewZRLT()
	dst := make([]byte, zrlt.MaxEncodedLen(len(src)))
	_, n, err := zrlt.Forward(src, dst)

	if err != nil {
		t.Fatalf("Unexpected forward error: %v", err)
	}

	out := make([]byte, len(src))
	_, _, err = zrlt.Inverse(dst[:n], out)

	if err != nil {
		t.Fatalf("Unexpected inverse error: %v", err)
	}

	if !bytes.Equal(out, src) {
		t.Errorf("Round trip failed: got %v, expected %v", out, src)
	}
}

func TestZRLTNoZeros(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 0xFE, 0xFF}
	zrlt, _ := NewZRLT()
	dst := make([]byte, zrlt.MaxEncodedLen(len(src)))
	_, n, err := zrlt.Forward(src, dst)

	if err != nil {
		t.Fatalf("Unexpected forward error: %v", err)
	}

	out := make([]byte, len(src))
	zrlt.Inverse(dst[:n], out)

	if !bytes.Equal(out, src) {
		t.Errorf("Round trip failed: got %v, expected %v", out, src)
	}
}
