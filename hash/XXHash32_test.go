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

package hash

import "testing"

func TestXXHash32EmptyInput(t *testing.T) {
	h, err := NewXXHash32(0)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := h.Hash(nil); got != 0x02CC5D05 {
		t.Errorf("Expected 0x02CC5D05 for empty input with seed 0, got %x", got)
	}
}

func TestXXHash32Deterministic(t *testing.T) {
	h, _ := NewXXHash32(0x4B414E5A)
	data := []byte("the quick brown fox jumps over the lazy dog")

	a := h.Hash(data)
	b := h.Hash(data)

	if a != b {
		t.Errorf("Hash is not deterministic: %x != %x", a, b)
	}
}

func TestXXHash32SeedSensitivity(t *testing.T) {
	data := []byte("mississippi")
	h1, _ := NewXXHash32(0x4B414E5A)
	h2, _ := NewXXHash32(0)

	if h1.Hash(data) == h2.Hash(data) {
		t.Errorf("Different seeds produced the same hash")
	}
}

func TestXXHash32SetSeed(t *testing.T) {
	data := []byte("block content")
	h, _ := NewXXHash32(0)
	before := h.Hash(data)
	h.SetSeed(0x4B414E5A)
	after := h.Hash(data)

	if before == after {
		t.Errorf("SetSeed had no effect on the hash result")
	}
}

func TestXXHash32SingleBitFlip(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	flipped := make([]byte, len(data))
	copy(flipped, data)
	flipped[3] ^= 0x01

	h, _ := NewXXHash32(0x4B414E5A)

	if h.Hash(data) == h.Hash(flipped) {
		t.Errorf("Single bit flip did not change the checksum")
	}
}
