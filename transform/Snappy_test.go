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

func TestSnappyRoundTrip(t *testing.T) {
	src := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 100)

	sn, _ := NewSnappy()
	dst := make([]byte, sn.MaxEncodedLen(len(src)))
	_, n, err := sn.Forward(src, dst)

	if err != nil {
		t.Fatalf("Unexpected forward error: %v", err)
	}

	if int(n) >= len(src) {
		t.Errorf("Expected compression, got %d bytes from %d", n, len(src))
	}

	out := make([]byte, len(src))
	_, _, err = sn.Inverse(dst[:n], out)

	if err != nil {
		t.Fatalf("Unexpected inverse error: %v", err)
	}

	if !bytes.Equal(out, src) {
		t.Errorf("Round trip failed")
	}
}

func TestSnappyIncompressible(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	src := make([]byte, 2048)

	for i := range src {
		src[i] = byte(r.Intn(256))
	}

	sn, _ := NewSnappy()
	dst := make([]byte, sn.MaxEncodedLen(len(src)))
	_, _, err := sn.Forward(src, dst)

	if err == nil {
		t.Errorf("Expected an error for incompressible random data")
	}
}

func TestSnappyEmpty(t *testing.T) {
	sn, _ := NewSnappy()
	dst := make([]byte, sn.MaxEncodedLen(0))
	_, n, err := sn.Forward(nil, dst)

	if err != nil || n != 0 {
		t.Errorf("Expected a no-op on empty input, got n=%d err=%v", n, err)
	}
}
