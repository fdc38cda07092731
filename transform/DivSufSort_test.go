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

func TestComputeSuffixArrayMississippi(t *testing.T) {
	src := []byte("mississippi")
	sa := make([]int32, len(src))
	ComputeSuffixArray(src, sa)

	expected := []int32{10, 7, 4, 1, 0, 9, 8, 6, 3, 5, 2}

	for i, v := range expected {
		if sa[i] != v {
			t.Fatalf("suffix array mismatch at %d: expected %d, got %v", i, v, sa)
		}
	}
}

func TestComputeSuffixArraySorted(t *testing.T) {
	src := []byte("banana")
	sa := make([]int32, len(src))
	ComputeSuffixArray(src, sa)

	// Every suffix must be lexicographically <= the next one.
	for i := 1; i < len(sa); i++ {
		a := src[sa[i-1]:]
		b := src[sa[i]:]

		if bytes.Compare(a, b) > 0 {
			t.Errorf("suffix array not sorted at %d: %q > %q", i, a, b)
		}
	}
}

func TestComputeSuffixArrayEmpty(t *testing.T) {
	sa := make([]int32, 0)
	ComputeSuffixArray(nil, sa)
}
