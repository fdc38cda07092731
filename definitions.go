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

// Package bcodec defines the top level interfaces used by the block-structured
// lossless compressor/decompressor: bit-stream, entropy coder, byte-transform
// and listener contracts.
//
// Implementations live in sub-packages (bitstream, entropy, transform, stream)
// exactly the way the reference engine splits them; the stream package wires
// them all together into CompressedOutputStream / CompressedInputStream.
package bcodec

// Error kinds (see §7). The values are positive: stream.IOError.ErrorCode
// returns them unchanged, and the command-line tools print the code and exit
// with status 1. No interface negates them.
const (
	ErrMissingParam     = 1
	ErrBlockSize        = 2
	ErrInvalidCodec     = 3
	ErrInvalidFile      = 4
	ErrStreamVersion    = 5
	ErrCreateStream     = 6
	ErrCreateBitstream  = 7
	ErrCreateCodec      = 8
	ErrReadFile         = 9
	ErrWriteFile        = 10
	ErrProcessBlock     = 11
	ErrInvalidParam     = 12
	ErrUnknown          = 127
)

// ByteTransform transforms the input byte slice and writes the result in the
// output byte slice. The result may have a different size. Implementations
// must be stateless across invocations: no information is retained between
// calls to Forward or Inverse, so results are identical regardless of the
// number of concurrent jobs.
type ByteTransform interface {
	// Forward applies the function to src and writes the result to dst.
	// Returns the number of bytes read, the number of bytes written and
	// possibly an error.
	Forward(src, dst []byte) (uint, uint, error)

	// Inverse applies the reverse function to src and writes the result to
	// dst. Returns the number of bytes read, the number of bytes written
	// and possibly an error.
	Inverse(src, dst []byte) (uint, uint, error)

	// MaxEncodedLen returns the max size required for the encoding output
	// buffer. If the max size is not known, returns -1.
	MaxEncodedLen(srcLen int) int
}

// InputBitStream is a bitstream reader.
type InputBitStream interface {
	// ReadBit returns the next bit in the bitstream. Panics if closed or
	// end-of-stream is reached.
	ReadBit() int

	// ReadBits reads 'length' (in [1..64]) bits from the bitstream and
	// returns them as a uint64. Panics if closed or end-of-stream is
	// reached.
	ReadBits(length uint) uint64

	// ReadArray reads 'length' bits from the bitstream into the byte
	// slice. Returns the number of bits read.
	ReadArray(bits []byte, length uint) uint

	// Close makes the bitstream unavailable for further reads.
	Close() error

	// Read returns the number of bits read so far.
	Read() uint64

	// HasMoreToRead returns false once the bitstream is closed or
	// end-of-stream has been reached.
	HasMoreToRead() (bool, error)
}

// OutputBitStream is a bitstream writer.
type OutputBitStream interface {
	// WriteBit writes the least significant bit of the input integer.
	WriteBit(bit int)

	// WriteBits writes the 'length' (in [1..64]) least significant bits
	// of 'bits' to the bitstream. Returns the number of bits written.
	WriteBits(bits uint64, length uint) uint

	// WriteArray writes 'length' bits out of the byte slice. Returns the
	// number of bits written.
	WriteArray(bits []byte, length uint) uint

	// Close makes the bitstream unavailable for further writes.
	Close() error

	// Written returns the number of bits written so far.
	Written() uint64
}

// Predictor predicts the probability of the next bit being 1.
type Predictor interface {
	// Update updates the internal probability model based on the observed bit.
	Update(bit byte)

	// Get returns the probability of the next bit being 1, in [0..4095].
	Get() int
}

// EntropyEncoder entropy-encodes data to a bitstream. A fresh instance is
// constructed per block so that per-block statistics never leak across
// blocks.
type EntropyEncoder interface {
	// Write encodes the data into the bitstream, returning the number of
	// bytes written.
	Write(block []byte) (int, error)

	// BitStream returns the underlying bitstream.
	BitStream() OutputBitStream

	// Dispose must be called before discarding the encoder; it may flush
	// trailing bits to the bitstream. Encoding after Dispose is undefined.
	Dispose()
}

// EntropyDecoder entropy-decodes data from a bitstream. A fresh instance is
// constructed per block.
type EntropyDecoder interface {
	// Read decodes data from the bitstream into the buffer, returning the
	// number of bytes read.
	Read(block []byte) (int, error)

	// BitStream returns the underlying bitstream.
	BitStream() InputBitStream

	// Dispose must be called before discarding the decoder. Decoding
	// after Dispose is undefined.
	Dispose()
}
