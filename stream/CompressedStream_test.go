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

package stream

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
)

type closingBuffer struct {
	bytes.Buffer
}

func (closingBuffer) Close() error { return nil }

func roundTrip(t *testing.T, data []byte, codec, transformName string, blockSize, jobs uint, checksum bool) []byte {
	t.Helper()
	dst := &closingBuffer{}

	cos, err := NewCompressedOutputStream(dst, codec, transformName, blockSize, jobs, checksum)

	if err != nil {
		t.Fatalf("NewCompressedOutputStream: %v", err)
	}

	if len(data) > 0 {
		if _, err := cos.Write(data); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if err := cos.Close(); err != nil {
		t.Fatalf("Close (encode): %v", err)
	}

	src := bytes.NewReader(dst.Bytes())
	rc := io.NopCloser(src)
	cis, err := NewCompressedInputStream(rc, jobs)

	if err != nil {
		t.Fatalf("NewCompressedInputStream: %v", err)
	}

	out := bytes.Buffer{}
	buf := make([]byte, 4096)

	for {
		n, rerr := cis.Read(buf)

		if n > 0 {
			out.Write(buf[0:n])
		}

		if rerr == io.EOF {
			break
		}

		if rerr != nil {
			t.Fatalf("Read (decode): %v", rerr)
		}
	}

	if err := cis.Close(); err != nil {
		t.Fatalf("Close (decode): %v", err)
	}

	return out.Bytes()
}

func randomBytes(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	buf := make([]byte, n)
	r.Read(buf)
	return buf
}

func TestRoundTripSmallBlock(t *testing.T) {
	data := []byte("hello")

	got := roundTrip(t, data, "NONE", "NONE", 1024, 1, true)

	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %q, want %q", got, data)
	}
}

func TestRoundTripExactSmallBlockBoundary(t *testing.T) {
	data := randomBytes(_SMALL_BLOCK_SIZE, 1)

	got := roundTrip(t, data, "HUFFMAN", "BWT", 1024, 1, true)

	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch at small-block boundary")
	}
}

func TestRoundTripEmptyInput(t *testing.T) {
	got := roundTrip(t, nil, "NONE", "NONE", 1024, 1, false)

	if len(got) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(got))
	}
}

func TestRoundTripAcrossJobsAndBlockSizes(t *testing.T) {
	blockSizes := []uint{1024, 4096, 64 * 1024}
	jobOptions := []uint{1, 2, 4}

	for _, bs := range blockSizes {
		for _, jobs := range jobOptions {
			data := randomBytes(int(bs)*3+17, int64(bs)+int64(jobs))

			got := roundTrip(t, data, "HUFFMAN", "BWT", bs, jobs, true)

			if !bytes.Equal(got, data) {
				t.Fatalf("round trip mismatch for blockSize=%d jobs=%d", bs, jobs)
			}
		}
	}
}

func TestRoundTripChecksumDisabled(t *testing.T) {
	data := randomBytes(8192, 42)

	got := roundTrip(t, data, "HUFFMAN", "BWT", 2048, 2, false)

	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch with checksum disabled")
	}
}

func TestRoundTripExactlyOneBlock(t *testing.T) {
	bs := uint(4096)
	data := randomBytes(int(bs), 7)

	got := roundTrip(t, data, "HUFFMAN", "BWT", bs, 1, true)

	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch for exact block size input")
	}
}

func TestCorruptedChecksumIsDetected(t *testing.T) {
	data := randomBytes(4096, 99)
	dst := &closingBuffer{}

	cos, err := NewCompressedOutputStream(dst, "HUFFMAN", "BWT", 1024, 1, true)

	if err != nil {
		t.Fatalf("NewCompressedOutputStream: %v", err)
	}

	if _, err := cos.Write(data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := cos.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	corrupted := dst.Bytes()

	// Flip a byte well past the header, inside the first block's payload.
	if len(corrupted) > 20 {
		corrupted[20] ^= 0xFF
	}

	rc := io.NopCloser(bytes.NewReader(corrupted))
	cis, err := NewCompressedInputStream(rc, 1)

	if err != nil {
		t.Fatalf("NewCompressedInputStream: %v", err)
	}

	buf := make([]byte, 4096)
	var readErr error

	for {
		_, rerr := cis.Read(buf)

		if rerr != nil {
			readErr = rerr
			break
		}
	}

	if readErr == nil || readErr == io.EOF {
		t.Fatalf("expected a decode error from corrupted input, got %v", readErr)
	}
}

func TestRequiredDataSize(t *testing.T) {
	cases := []struct {
		postLen  uint
		wantSize uint
	}{
		{1, 1},
		{255, 1},
		{256, 2},
		{65535, 2},
		{65536, 3},
	}

	for _, c := range cases {
		got, err := requiredDataSize(c.postLen)

		if err != nil {
			t.Fatalf("requiredDataSize(%d): unexpected error %v", c.postLen, err)
		}

		if got != c.wantSize {
			t.Fatalf("requiredDataSize(%d) = %d, want %d", c.postLen, got, c.wantSize)
		}
	}
}
