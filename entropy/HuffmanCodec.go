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

package entropy

import (
	"errors"

	"github.com/klauspost/compress/huff0"

	bcodec "github.com/blockstream-go/bcodec"
)

// Entropy coders' internal arithmetic is an out-of-scope external
// collaborator: rather than hand-roll a canonical-code builder, the Huffman
// slot is a thin adapter around github.com/klauspost/compress/huff0's
// single-stream Compress1X/Decompress1X, the same arithmetic zstd itself
// relies on. A block huff0 can't usefully compress (too few distinct
// symbols, single-symbol runs, already dense) is stored raw behind a
// one-byte mode flag so the coder never fails a block outright.
const (
	_HUF_MODE_RAW      = byte(0)
	_HUF_MODE_COMPRESS = byte(1)
)

// HuffmanEncoder entropy-encodes one block at a time through huff0.
type HuffmanEncoder struct {
	bitstream bcodec.OutputBitStream
	scratch   *huff0.Scratch
}

// NewHuffmanEncoder creates an instance of HuffmanEncoder. Accepts variadic
// args for signature symmetry with the other entropy coders' constructors;
// none are used since huff0 manages its own chunking internally.
func NewHuffmanEncoder(bs bcodec.OutputBitStream, args ...uint) (*HuffmanEncoder, error) {
	if bs == nil {
		return nil, errors.New("Huffman codec: Invalid null bitstream parameter")
	}

	return &HuffmanEncoder{bitstream: bs}, nil
}

// NewHuffmanEncoderWithCtx creates an instance of HuffmanEncoder, providing a
// context map for symmetry with the other entropy coders.
func NewHuffmanEncoderWithCtx(bs bcodec.OutputBitStream, ctx *map[string]interface{}) (*HuffmanEncoder, error) {
	return NewHuffmanEncoder(bs)
}

// Dispose this implementation does nothing: huff0 carries no cross-block state.
func (this *HuffmanEncoder) Dispose() {
}

// BitStream returns the underlying bitstream.
func (this *HuffmanEncoder) BitStream() bcodec.OutputBitStream {
	return this.bitstream
}

// Write encodes the block into the bitstream. Returns the number of bytes
// consumed from block (always len(block) on success).
func (this *HuffmanEncoder) Write(block []byte) (int, error) {
	if len(block) == 0 {
		return 0, nil
	}

	if this.scratch == nil {
		this.scratch = &huff0.Scratch{}
	}

	out, _, err := huff0.Compress1X(block, this.scratch)

	if err != nil || len(out) >= len(block) {
		this.bitstream.WriteBits(uint64(_HUF_MODE_RAW), 8)
		this.bitstream.WriteBits(uint64(len(block)), 32)
		this.bitstream.WriteArray(block, uint(len(block))*8)
		return len(block), nil
	}

	this.bitstream.WriteBits(uint64(_HUF_MODE_COMPRESS), 8)
	this.bitstream.WriteBits(uint64(len(block)), 32)
	this.bitstream.WriteBits(uint64(len(out)), 32)
	this.bitstream.WriteArray(out, uint(len(out))*8)
	return len(block), nil
}

// HuffmanDecoder is the counterpart to HuffmanEncoder.
type HuffmanDecoder struct {
	bitstream bcodec.InputBitStream
	scratch   *huff0.Scratch
}

// NewHuffmanDecoder creates an instance of HuffmanDecoder.
func NewHuffmanDecoder(bs bcodec.InputBitStream, args ...uint) (*HuffmanDecoder, error) {
	if bs == nil {
		return nil, errors.New("Huffman codec: Invalid null bitstream parameter")
	}

	return &HuffmanDecoder{bitstream: bs}, nil
}

// NewHuffmanDecoderWithCtx creates an instance of HuffmanDecoder providing a
// context map.
func NewHuffmanDecoderWithCtx(bs bcodec.InputBitStream, ctx *map[string]interface{}) (*HuffmanDecoder, error) {
	return NewHuffmanDecoder(bs)
}

// Dispose this implementation does nothing.
func (this *HuffmanDecoder) Dispose() {
}

// BitStream returns the underlying bitstream.
func (this *HuffmanDecoder) BitStream() bcodec.InputBitStream {
	return this.bitstream
}

// Read decodes data from the bitstream into block. Returns the number of
// bytes written into block (always len(block) on success).
func (this *HuffmanDecoder) Read(block []byte) (int, error) {
	if len(block) == 0 {
		return 0, nil
	}

	mode := byte(this.bitstream.ReadBits(8))
	rawLen := int(this.bitstream.ReadBits(32))

	if rawLen != len(block) {
		return 0, errors.New("Huffman codec: block size mismatch")
	}

	if mode == _HUF_MODE_RAW {
		this.bitstream.ReadArray(block, uint(rawLen)*8)
		return rawLen, nil
	}

	compLen := int(this.bitstream.ReadBits(32))
	comp := make([]byte, compLen)
	this.bitstream.ReadArray(comp, uint(compLen)*8)

	s2, remain, err := huff0.ReadTable(comp, this.scratch)

	if err != nil {
		return 0, err
	}

	this.scratch = s2
	dst, err := s2.Decoder().Decompress1X(block[:0], remain)

	if err != nil {
		return 0, err
	}

	if len(dst) != rawLen {
		return 0, errors.New("Huffman codec: decoded size mismatch")
	}

	if len(dst) > 0 && &dst[0] != &block[0] {
		copy(block, dst)
	}

	return rawLen, nil
}
