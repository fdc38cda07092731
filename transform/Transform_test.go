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

func TestGetTypeGetNameSingle(t *testing.T) {
	names := []string{"NONE", "BWT", "BWTS", "LZ4", "SNAPPY", "RLT", "ZRLT", "MTFT", "RANK", "TIMESTAMP"}

	for _, name := range names {
		id, err := GetType(name)

		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}

		back, err := GetName(id)

		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}

		if back != name {
			t.Errorf("round trip mismatch: %s -> %#x -> %s", name, id, back)
		}
	}
}

func TestGetTypeGetNameCombo(t *testing.T) {
	id, err := GetType("BWT+MTFT+ZRLT")

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	name, err := GetName(id)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if name != "BWT+MTFT+ZRLT" {
		t.Errorf("expected 'BWT+MTFT+ZRLT', got %q", name)
	}
}

func TestGetTypeTooManyStages(t *testing.T) {
	if _, err := GetType("BWT+MTFT+ZRLT+RLT+SNAPPY"); err == nil {
		t.Errorf("Expected an error for more than 4 stages")
	}
}

func TestGetTypeUnknownName(t *testing.T) {
	if _, err := GetType("NOT_A_TRANSFORM"); err == nil {
		t.Errorf("Expected an error for an unknown transform name")
	}
}

func TestNewSingleAndComboRoundTrip(t *testing.T) {
	ctx := make(map[string]interface{})
	src := []byte("mississippimississippimississippi")

	ids := []uint64{BWTType, BWTSType, LZ4Type, SnappyType, RLTType, ZRLTType, MTFTType, RankType, TimestampType}

	for _, id := range ids {
		fwd, err := New(&ctx, id)

		if err != nil {
			t.Fatalf("id %d: unexpected error building sequence: %v", id, err)
		}

		dst := make([]byte, fwd.MaxEncodedLen(len(src))+_BWT_MAX_HEADER_SIZE)
		_, n, err := fwd.Forward(src, dst)

		if err != nil {
			t.Fatalf("id %d: unexpected forward error: %v", id, err)
		}

		inv, err := New(&ctx, id)

		if err != nil {
			t.Fatalf("id %d: unexpected error building inverse sequence: %v", id, err)
		}

		inv.SetSkipFlags(fwd.SkipFlags())
		out := make([]byte, len(src))
		_, _, err = inv.Inverse(dst[:n], out)

		if err != nil {
			t.Fatalf("id %d: unexpected inverse error: %v", id, err)
		}

		if !bytes.Equal(out, src) {
			t.Errorf("id %d: round trip failed: got %q", id, out)
		}
	}
}

func TestNewComboSequenceRoundTrip(t *testing.T) {
	ctx := make(map[string]interface{})
	seqID, err := GetType("BWT+MTFT+ZRLT")

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	src := []byte("mississippimississippimississippi")

	fwd, err := New(&ctx, seqID)

	if err != nil {
		t.Fatalf("Unexpected error building sequence: %v", err)
	}

	dst := make([]byte, fwd.MaxEncodedLen(len(src))+_BWT_MAX_HEADER_SIZE)
	_, n, err := fwd.Forward(src, dst)

	if err != nil {
		t.Fatalf("Unexpected forward error: %v", err)
	}

	inv, err := New(&ctx, seqID)

	if err != nil {
		t.Fatalf("Unexpected error building inverse sequence: %v", err)
	}

	inv.SetSkipFlags(fwd.SkipFlags())
	out := make([]byte, len(src))
	_, _, err = inv.Inverse(dst[:n], out)

	if err != nil {
		t.Fatalf("Unexpected inverse error: %v", err)
	}

	if !bytes.Equal(out, src) {
		t.Errorf("Round trip failed: got %q, expected %q", out, src)
	}
}
