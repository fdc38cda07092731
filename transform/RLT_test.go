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

func TestRLTRoundTrip(t *testing.T) {
	src := bytes.Repeat([]byte{'a'}, 40)
	src = append(src, bytes.Repeat([]byte{'b', 'c'}, 20)...)
	src = append(src, bytes.Repeat([]byte{0xFB}, 10)...) // exercise escape-literal path

	rlt, _ := NewRLT()
	dst := make([]byte, rlt.MaxEncodedLen(len(src)))
	_, n, err := rlt.Forward(src, dst)

	if err != nil {
		t.Fatalf("Unexpected forward error: %v", err)
	}

	out := make([]byte, len(src))
	_, _, err = rlt.Inverse(dst[:n], out)

	if err != nil {
		t.Fatalf("Unexpected inverse error: %v", err)
	}

	if !bytes.Equal(out, src) {
		t.Errorf("Round trip failed: got %q, expected %q", out, src)
	}
}

func TestRLTTooSmall(t *testing.T) {
	rlt, _ := NewRLT()
	src := []byte("tiny")
	dst := make([]byte, rlt.MaxEncodedLen(len(src)))

	if _, _, err := rlt.Forward(src, dst); err == nil {
		t.Errorf("Expected an error for a block below the minimum length")
	}
}
