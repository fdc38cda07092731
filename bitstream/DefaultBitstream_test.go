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

package bitstream

import (
	"io"
	"math/rand"
	"os"
	"testing"

	bcodec "github.com/blockstream-go/bcodec"
	"github.com/blockstream-go/bcodec/internal"
)

func TestBitStreamAlignedWriteBits(t *testing.T) {
	for n := uint(1); n <= 64; n++ {
		bs := internal.NewBufferStream()
		obs, _ := NewDefaultOutputBitStream(bs, 16384)
		obs.WriteBits(0x0123456789ABCDEF, n)

		if obs.Written() != uint64(n) {
			t.Errorf("Expected %d bits written, got %d", n, obs.Written())
		}

		obs.Close()

		ibs, _ := NewDefaultInputBitStream(bs, 16384)
		ibs.ReadBits(n)

		if ibs.Read() != uint64(n) {
			t.Errorf("Expected %d bits read, got %d", n, ibs.Read())
		}

		ibs.Close()
	}
}

func TestBitStreamRoundTripAligned(t *testing.T) {
	values := make([]int, 100)

	for test := 1; test <= 10; test++ {
		bs := internal.NewBufferStream()
		obs, _ := NewDefaultOutputBitStream(bs, 16384)

		for i := range values {
			values[i] = rand.Intn(1 << 31)
		}

		for i := range values {
			obs.WriteBits(uint64(values[i]), 32)
		}

		obs.Close()

		ibs, _ := NewDefaultInputBitStream(bs, 16384)

		for i := range values {
			x := ibs.ReadBits(32)

			if int(x) != values[i] {
				t.Errorf("test %d: expected %v, got %v at index %d", test, values[i], x, i)
			}
		}

		ibs.Close()
	}
}

func TestBitStreamRoundTripMisaligned(t *testing.T) {
	values := make([]int, 100)

	for test := 1; test <= 10; test++ {
		bs := internal.NewBufferStream()
		obs, _ := NewDefaultOutputBitStream(bs, 16384)

		for i := range values {
			mask := (1 << (1 + uint(i&63))) - 1
			values[i] = rand.Intn(1<<31) & mask
		}

		for i := range values {
			obs.WriteBits(uint64(values[i]), 1+uint(i&63))
		}

		obs.Close()

		ibs, _ := NewDefaultInputBitStream(bs, 16384)

		for i := range values {
			x := ibs.ReadBits(1 + uint(i&63))

			if int(x) != values[i] {
				t.Errorf("test %d: expected %v, got %v at index %d", test, values[i], x, i)
			}
		}

		ibs.Close()
	}
}

func TestBitStreamRoundTripArrayAligned(t *testing.T) {
	input := make([]byte, 100)
	output := make([]byte, 100)

	for test := 1; test <= 10; test++ {
		bs := internal.NewBufferStream()
		obs, _ := NewDefaultOutputBitStream(bs, 16384)

		for i := range input {
			input[i] = byte(rand.Intn(256))
		}

		count := uint(8 + test*(20+(test&1)) + (test & 3))
		obs.WriteArray(input, count)
		obs.Close()

		ibs, _ := NewDefaultInputBitStream(bs, 16384)
		r := ibs.ReadArray(output, count)

		if r != count {
			t.Fatalf("Expected %d bits read, got %d", count, r)
		}

		for i := 0; i < int(r>>3); i++ {
			if output[i] != input[i] {
				t.Errorf("test %d: byte %d mismatch: expected %v, got %v", test, i, input[i], output[i])
			}
		}

		ibs.Close()
	}
}

func TestBitStreamRoundTripArrayMisaligned(t *testing.T) {
	input := make([]byte, 100)
	output := make([]byte, 100)

	for test := 1; test <= 10; test++ {
		bs := internal.NewBufferStream()
		obs, _ := NewDefaultOutputBitStream(bs, 16384)

		for i := range input {
			input[i] = byte(rand.Intn(256))
		}

		count := uint(8 + test*(20+(test&1)) + (test & 3))
		obs.WriteBit(0)
		obs.WriteArray(input[1:], count)
		obs.Close()

		ibs, _ := NewDefaultInputBitStream(bs, 16384)
		ibs.ReadBit()
		r := ibs.ReadArray(output[1:], count)

		if r != count {
			t.Fatalf("Expected %d bits read, got %d", count, r)
		}

		for i := 1; i < 1+int(r>>3); i++ {
			if output[i] != input[i] {
				t.Errorf("test %d: byte %d mismatch: expected %v, got %v", test, i, input[i], output[i])
			}
		}

		ibs.Close()
	}
}

func TestBitStreamWriteAfterClose(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected a panic when writing to a closed stream")
		}
	}()

	bs := internal.NewBufferStream()
	obs, _ := NewDefaultOutputBitStream(bs, 16384)
	obs.WriteBit(1)
	obs.Close()
	obs.WriteBit(1)
}

func TestBitStreamReadAfterClose(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected a panic when reading from a closed stream")
		}
	}()

	bs := internal.NewBufferStream()
	obs, _ := NewDefaultOutputBitStream(bs, 16384)
	obs.WriteBit(1)
	obs.Close()

	ibs, _ := NewDefaultInputBitStream(bs, 16384)
	ibs.ReadBit()
	ibs.Close()
	ibs.ReadBit()
}

func TestDebugBitStreamDelegates(t *testing.T) {
	bs := internal.NewBufferStream()
	obs, _ := NewDefaultOutputBitStream(bs, 16384)
	dbgobs, err := NewDebugOutputBitStream(obs, io.Discard)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	dbgobs.ShowByte(true)
	dbgobs.Mark(true)
	dbgobs.WriteBits(0xABCD, 16)
	dbgobs.Close()

	ibs, _ := NewDefaultInputBitStream(bs, 16384)
	dbgibs, err := NewDebugInputBitStream(ibs, os.Stdout)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if v := dbgibs.ReadBits(16); v != 0xABCD {
		t.Errorf("Expected 0xABCD, got %x", v)
	}

	dbgibs.Close()
}

var _ bcodec.OutputBitStream = (*DefaultOutputBitStream)(nil)
var _ bcodec.InputBitStream = (*DefaultInputBitStream)(nil)
var _ bcodec.OutputBitStream = (*DebugOutputBitStream)(nil)
var _ bcodec.InputBitStream = (*DebugInputBitStream)(nil)
