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
	"fmt"

	bcodec "github.com/blockstream-go/bcodec"
)

const _EXP_GOLOMB_DEFAULT_ORDER = uint(0)

// ExpGolombEncoder is a generalized (order-k) Exponential Golomb entropy
// encoder, the counterpart to RiceGolombEncoder: the quotient is coded with
// an Elias-gamma prefix instead of a unary one, which gives it a longer
// reach on heavier-tailed distributions for the same parameter k.
type ExpGolombEncoder struct {
	signed    bool
	order     uint
	bitstream bcodec.OutputBitStream
}

// NewExpGolombEncoder creates a new instance of ExpGolombEncoder.
// If sgn is true, values will be encoded as signed (int8) in the bitstream.
func NewExpGolombEncoder(bs bcodec.OutputBitStream, sgn bool, order uint) (*ExpGolombEncoder, error) {
	if bs == nil {
		return nil, errors.New("ExpGolomb codec: Invalid null bitstream parameter")
	}

	if order > 12 {
		return nil, fmt.Errorf("ExpGolomb codec: Invalid order '%v' value (must be in [0..12])", order)
	}

	this := &ExpGolombEncoder{}
	this.signed = sgn
	this.bitstream = bs
	this.order = order
	return this, nil
}

// NewExpGolombEncoderWithCtx creates a new instance of ExpGolombEncoder,
// providing a context map for symmetry with the other entropy coders; the
// order and sign default unless a richer context scheme is needed later.
func NewExpGolombEncoderWithCtx(bs bcodec.OutputBitStream, ctx *map[string]interface{}) (*ExpGolombEncoder, error) {
	return NewExpGolombEncoder(bs, false, _EXP_GOLOMB_DEFAULT_ORDER)
}

// Signed returns true if this encoder is sign aware.
func (this *ExpGolombEncoder) Signed() bool {
	return this.signed
}

// Dispose this implementation does nothing.
func (this *ExpGolombEncoder) Dispose() {
}

// EncodeByte encodes the given value into the bitstream.
func (this *ExpGolombEncoder) EncodeByte(val byte) {
	var v uint64
	sign := uint64(0)

	if this.signed == true && val&0x80 != 0 {
		v = uint64(-val)
		sign = 1
	} else {
		v = uint64(val)
	}

	q := v >> this.order
	r := v & ((uint64(1) << this.order) - 1)

	// Elias-gamma code the quotient: n leading zeros, then the (n+1)-bit
	// binary representation of (q+1).
	codeNum := q + 1
	n := uint(0)

	for (codeNum >> (n + 1)) != 0 {
		n++
	}

	if n > 0 {
		this.bitstream.WriteBits(0, n)
	}

	this.bitstream.WriteBits(codeNum, n+1)

	if this.order > 0 {
		this.bitstream.WriteBits(r, this.order)
	}

	if this.signed == true {
		this.bitstream.WriteBits(sign, 1)
	}
}

// BitStream returns the underlying bitstream.
func (this *ExpGolombEncoder) BitStream() bcodec.OutputBitStream {
	return this.bitstream
}

// Write encodes the data provided into the bitstream. Returns the number of
// bytes written to the bitstream.
func (this *ExpGolombEncoder) Write(block []byte) (int, error) {
	for i := range block {
		this.EncodeByte(block[i])
	}

	return len(block), nil
}

// ExpGolombDecoder is the counterpart to ExpGolombEncoder.
type ExpGolombDecoder struct {
	signed    bool
	order     uint
	bitstream bcodec.InputBitStream
}

// NewExpGolombDecoder creates a new instance of ExpGolombDecoder.
func NewExpGolombDecoder(bs bcodec.InputBitStream, sgn bool, order uint) (*ExpGolombDecoder, error) {
	if bs == nil {
		return nil, errors.New("ExpGolomb codec: Invalid null bitstream parameter")
	}

	if order > 12 {
		return nil, fmt.Errorf("ExpGolomb codec: Invalid order '%v' value (must be in [0..12])", order)
	}

	this := &ExpGolombDecoder{}
	this.signed = sgn
	this.bitstream = bs
	this.order = order
	return this, nil
}

// NewExpGolombDecoderWithCtx creates a new instance of ExpGolombDecoder.
func NewExpGolombDecoderWithCtx(bs bcodec.InputBitStream, ctx *map[string]interface{}) (*ExpGolombDecoder, error) {
	return NewExpGolombDecoder(bs, false, _EXP_GOLOMB_DEFAULT_ORDER)
}

// Signed returns true if this decoder is sign aware.
func (this *ExpGolombDecoder) Signed() bool {
	return this.signed
}

// Dispose this implementation does nothing.
func (this *ExpGolombDecoder) Dispose() {
}

// DecodeByte decodes one byte from the bitstream.
func (this *ExpGolombDecoder) DecodeByte() byte {
	n := uint(0)

	for this.bitstream.ReadBit() == 0 {
		n++
	}

	codeNum := uint64(1) << n

	if n > 0 {
		codeNum |= this.bitstream.ReadBits(n)
	}

	q := codeNum - 1
	r := uint64(0)

	if this.order > 0 {
		r = this.bitstream.ReadBits(this.order)
	}

	v := (q << this.order) | r
	res := byte(v)

	if this.signed == true && this.bitstream.ReadBit() == 1 {
		return -res
	}

	return res
}

// BitStream returns the underlying bitstream.
func (this *ExpGolombDecoder) BitStream() bcodec.InputBitStream {
	return this.bitstream
}

// Read decodes data from the bitstream into the provided buffer. Returns the
// number of bytes read from the bitstream.
func (this *ExpGolombDecoder) Read(block []byte) (int, error) {
	for i := range block {
		block[i] = this.DecodeByte()
	}

	return len(block), nil
}
