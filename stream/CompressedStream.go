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

// Package stream provides the implementations of a Writer and a Reader used
// to respectively losslessly compress and decompress data: the block
// pipeline that ties the bit-stream, entropy coder and byte-transform
// packages together into a single self-describing container format.
package stream

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	bcodec "github.com/blockstream-go/bcodec"
	"github.com/blockstream-go/bcodec/bitstream"
	"github.com/blockstream-go/bcodec/entropy"
	"github.com/blockstream-go/bcodec/hash"
	"github.com/blockstream-go/bcodec/transform"
)

// Write to/read from bitstream using a 2 step process:
// Encoding:
// - step 1: a ByteTransform is used to reduce the size of the input data (bytes input & output)
// - step 2: an EntropyEncoder is used to entropy code the results of step 1 (bytes input, bits output)
// Decoding is the exact reverse process.

const (
	_BITSTREAM_TYPE             = 0x4B414E5A // "KANZ"
	_BITSTREAM_FORMAT_VERSION   = 4
	_STREAM_DEFAULT_BUFFER_SIZE = 256 * 1024
	_EXTRA_BUFFER_SIZE          = 512
	_SMALL_BLOCK_MASK           = 0x80
	_MIN_BITSTREAM_BLOCK_SIZE   = 1024
	_MAX_BITSTREAM_BLOCK_SIZE   = 1024 * 1024 * 1024
	// SMALL_BLOCK_SIZE is the length threshold under which a block skips the
	// transform sequence entirely. Kept distinct from _SMALL_BLOCK_MASK (the
	// mode byte's bit-7 flag) even though the reference conflates the two.
	_SMALL_BLOCK_SIZE = 15
	_MAX_JOBS         = 16
	_CANCEL_TASKS_ID  = -1
)

// IOError an extended error containing a message and a code value
type IOError struct {
	msg  string
	code int
}

// Error returns the underlying error
func (this IOError) Error() string {
	return fmt.Sprintf("%v (code %v)", this.msg, this.code)
}

// Message returns the message string associated with the error
func (this IOError) Message() string {
	return this.msg
}

// ErrorCode returns the code value associated with the error
func (this IOError) ErrorCode() int {
	return this.code
}

type blockBuffer struct {
	// Enclose a slice in a struct to share it between stream and tasks
	// and reduce memory allocation. Tasks may re-allocate the slice as needed.
	Buf []byte
}

// requiredDataSize returns the number of bytes (1..4) needed to hold postLen,
// i.e. the smallest k such that 256^k >= postLen+1. This is the tie-breaker
// given for the "bytes needed to encode postLen" boundary ambiguity: the
// frame stores postLen-1 in that many bytes, which always fits since
// postLen-1 < postLen <= 256^k - 1.
func requiredDataSize(postLen uint) (uint, error) {
	dataSize := uint(1)

	for (uint64(1)<<(8*dataSize)) <= uint64(postLen) && dataSize < 4 {
		dataSize++
	}

	if (uint64(1) << (8 * dataSize)) <= uint64(postLen) {
		return 0, fmt.Errorf("invalid block data length: %d", postLen)
	}

	return dataSize, nil
}

// CompressedOutputStream a Writer that writes compressed data
// to an OutputBitStream.
type CompressedOutputStream struct {
	blockSize     int
	hasher        *hash.XXHash32
	buffers       []blockBuffer
	entropyType   uint32
	transformType uint64
	obs           bcodec.OutputBitStream
	initialized   int32
	closed        int32
	blockID       int32
	jobs          int
	available     int
	listeners     []bcodec.Listener
	ctx           map[string]interface{}
}

type encodingTask struct {
	iBuffer            *blockBuffer
	oBuffer            *blockBuffer
	hasher             *hash.XXHash32
	blockLength        uint
	blockTransformType uint64
	blockEntropyType   uint32
	currentBlockID     int32
	processedBlockID   *int32
	wg                 *sync.WaitGroup
	listeners          []bcodec.Listener
	obs                bcodec.OutputBitStream
	ctx                map[string]interface{}
}

type encodingTaskResult struct {
	err *IOError
}

// NewCompressedOutputStream creates a new instance of CompressedOutputStream
func NewCompressedOutputStream(os io.WriteCloser, codec, transformName string, blockSize, jobs uint, checksum bool) (*CompressedOutputStream, error) {
	ctx := make(map[string]interface{})
	ctx["codec"] = codec
	ctx["transform"] = transformName
	ctx["blockSize"] = blockSize
	ctx["jobs"] = jobs
	ctx["checksum"] = checksum
	return NewCompressedOutputStreamWithCtx(os, ctx)
}

// NewCompressedOutputStreamWithCtx creates a new instance of CompressedOutputStream using a
// map of parameters and a writer
func NewCompressedOutputStreamWithCtx(os io.WriteCloser, ctx map[string]interface{}) (*CompressedOutputStream, error) {
	var err error
	var obs bcodec.OutputBitStream

	if obs, err = bitstream.NewDefaultOutputBitStream(os, _STREAM_DEFAULT_BUFFER_SIZE); err != nil {
		errMsg := fmt.Sprintf("Cannot create output bit stream: %v", err)
		return nil, &IOError{msg: errMsg, code: bcodec.ErrCreateBitstream}
	}

	return createCompressedOutputStreamWithCtx(obs, ctx)
}

// NewCompressedOutputStreamWithCtx2 creates a new instance of CompressedOutputStream using a
// map of parameters and a custom output bitstream
func NewCompressedOutputStreamWithCtx2(obs bcodec.OutputBitStream, ctx map[string]interface{}) (*CompressedOutputStream, error) {
	return createCompressedOutputStreamWithCtx(obs, ctx)
}

func createCompressedOutputStreamWithCtx(obs bcodec.OutputBitStream, ctx map[string]interface{}) (*CompressedOutputStream, error) {
	if obs == nil {
		return nil, &IOError{msg: "Invalid null output bitstream parameter", code: bcodec.ErrCreateStream}
	}

	if ctx == nil {
		return nil, &IOError{msg: "Invalid null context parameter", code: bcodec.ErrCreateStream}
	}

	entropyCodec, _ := ctx["codec"].(string)
	t, _ := ctx["transform"].(string)
	tasks := ctx["jobs"].(uint)

	if tasks == 0 || tasks > _MAX_JOBS {
		errMsg := fmt.Sprintf("The number of jobs must be in [1..%d], got %d", _MAX_JOBS, tasks)
		return nil, &IOError{msg: errMsg, code: bcodec.ErrCreateStream}
	}

	bSize := ctx["blockSize"].(uint)

	if bSize > _MAX_BITSTREAM_BLOCK_SIZE {
		errMsg := fmt.Sprintf("The block size must be at most %d MB", _MAX_BITSTREAM_BLOCK_SIZE>>20)
		return nil, &IOError{msg: errMsg, code: bcodec.ErrCreateStream}
	}

	if bSize < _MIN_BITSTREAM_BLOCK_SIZE {
		errMsg := fmt.Sprintf("The block size must be at least %d", _MIN_BITSTREAM_BLOCK_SIZE)
		return nil, &IOError{msg: errMsg, code: bcodec.ErrCreateStream}
	}

	if int(bSize)&-16 != int(bSize) {
		return nil, &IOError{msg: "The block size must be a multiple of 16", code: bcodec.ErrCreateStream}
	}

	this := &CompressedOutputStream{}
	this.obs = obs

	var eType uint32
	var err error

	if eType, err = entropy.GetType(entropyCodec); err != nil {
		return nil, &IOError{msg: err.Error(), code: bcodec.ErrCreateStream}
	}

	this.entropyType = eType

	if this.transformType, err = transform.GetType(t); err != nil {
		return nil, &IOError{msg: err.Error(), code: bcodec.ErrCreateStream}
	}

	this.blockSize = int(bSize)
	this.available = 0

	if checksum, _ := ctx["checksum"].(bool); checksum {
		var err error
		this.hasher, err = hash.NewXXHash32(_BITSTREAM_TYPE)

		if err != nil {
			return nil, err
		}
	}

	this.jobs = int(tasks)
	this.buffers = make([]blockBuffer, 2*this.jobs)

	// Allocate first buffer and add padding for incompressible blocks
	bufSize := this.blockSize + this.blockSize>>6

	if bufSize < 65536 {
		bufSize = 65536
	}

	this.buffers[0] = blockBuffer{Buf: make([]byte, bufSize)}
	this.buffers[this.jobs] = blockBuffer{Buf: make([]byte, 0)}

	for i := 1; i < this.jobs; i++ {
		this.buffers[i] = blockBuffer{Buf: make([]byte, 0)}
		this.buffers[i+this.jobs] = blockBuffer{Buf: make([]byte, 0)}
	}

	this.blockID = 0
	this.listeners = make([]bcodec.Listener, 0)
	this.ctx = ctx
	return this, nil
}

// AddListener adds an event listener to this output stream.
// Returns true if the listener has been added.
func (this *CompressedOutputStream) AddListener(bl bcodec.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// RemoveListener removes an event listener from this output stream.
// Returns true if the listener has been removed.
func (this *CompressedOutputStream) RemoveListener(bl bcodec.Listener) bool {
	if bl == nil {
		return false
	}

	for i, e := range this.listeners {
		if e == bl {
			this.listeners = append(this.listeners[:i], this.listeners[i+1:]...)
			return true
		}
	}

	return false
}

func (this *CompressedOutputStream) writeHeader() *IOError {
	cksum := uint64(0)

	if this.hasher != nil {
		cksum = 1
	}

	if this.obs.WriteBits(_BITSTREAM_TYPE, 32) != 32 {
		return &IOError{msg: "Cannot write bitstream type to header", code: bcodec.ErrWriteFile}
	}

	if this.obs.WriteBits(_BITSTREAM_FORMAT_VERSION, 7) != 7 {
		return &IOError{msg: "Cannot write bitstream version to header", code: bcodec.ErrWriteFile}
	}

	if this.obs.WriteBits(cksum, 1) != 1 {
		return &IOError{msg: "Cannot write checksum flag to header", code: bcodec.ErrWriteFile}
	}

	if this.obs.WriteBits(uint64(this.entropyType), 5) != 5 {
		return &IOError{msg: "Cannot write entropy type to header", code: bcodec.ErrWriteFile}
	}

	if this.obs.WriteBits(this.transformType, 16) != 16 {
		return &IOError{msg: "Cannot write transform types to header", code: bcodec.ErrWriteFile}
	}

	if this.obs.WriteBits(uint64(this.blockSize>>4), 26) != 26 {
		return &IOError{msg: "Cannot write block size to header", code: bcodec.ErrWriteFile}
	}

	if this.obs.WriteBits(0, 9) != 9 {
		return &IOError{msg: "Cannot write reserved header bits", code: bcodec.ErrWriteFile}
	}

	return nil
}

// Write writes len(block) bytes from block to the underlying data stream.
// It returns the number of bytes written from block (0 <= n <= len(block)) and
// any error encountered that caused the write to stop early.
func (this *CompressedOutputStream) Write(block []byte) (int, error) {
	if atomic.LoadInt32(&this.closed) == 1 {
		return 0, &IOError{msg: "Stream closed", code: bcodec.ErrWriteFile}
	}

	off := 0
	remaining := len(block)

	for remaining > 0 {
		lenChunk := remaining
		bufOff := this.available % this.blockSize

		if lenChunk > this.blockSize-bufOff {
			lenChunk = this.blockSize - bufOff
		}

		if lenChunk > 0 {
			// Process a chunk of in-buffer data. No access to bitstream required
			bufID := this.available / this.blockSize
			copy(this.buffers[bufID].Buf[bufOff:], block[off:off+lenChunk])
			bufOff += lenChunk
			off += lenChunk
			remaining -= lenChunk
			this.available += lenChunk

			if bufOff >= this.blockSize {
				if bufID+1 < this.jobs {
					if len(this.buffers[bufID+1].Buf) == 0 {
						bufSize := this.blockSize + this.blockSize>>6

						if bufSize < 65536 {
							bufSize = 65536
						}

						this.buffers[bufID+1].Buf = make([]byte, bufSize)
					}
				} else {
					// If all buffers are full, time to encode
					if err := this.processBlock(); err != nil {
						return len(block) - remaining, err
					}
				}
			}

			if remaining == 0 {
				break
			}
		}
	}

	return len(block) - remaining, nil
}

// Close writes the buffered data to the output stream then writes
// a final terminator block and releases resources.
// Close makes the bitstream unavailable for further writes. Idempotent.
func (this *CompressedOutputStream) Close() error {
	if atomic.SwapInt32(&this.closed, 1) == 1 {
		return nil
	}

	if err := this.processBlock(); err != nil {
		return err
	}

	// Terminator frame: mode = 0x80, no payload
	this.obs.WriteBits(_SMALL_BLOCK_MASK, 8)

	if err := this.obs.Close(); err != nil {
		return err
	}

	for i := range this.buffers {
		this.buffers[i] = blockBuffer{Buf: make([]byte, 0)}
	}

	return nil
}

func (this *CompressedOutputStream) processBlock() error {
	if atomic.SwapInt32(&this.initialized, 1) == 0 {
		if err := this.writeHeader(); err != nil {
			return err
		}
	}

	if this.available == 0 {
		return nil
	}

	// Protect against future concurrent modification of the list of block listeners
	listeners := make([]bcodec.Listener, len(this.listeners))
	copy(listeners, this.listeners)

	nbTasks := this.jobs
	wg := sync.WaitGroup{}
	results := make([]encodingTaskResult, nbTasks)
	firstID := this.blockID

	for taskID := 0; taskID < nbTasks; taskID++ {
		dataLength := this.available

		if dataLength > this.blockSize {
			dataLength = this.blockSize
		}

		if dataLength == 0 {
			break
		}

		copyCtx := make(map[string]interface{})

		for k, v := range this.ctx {
			copyCtx[k] = v
		}

		wg.Add(1)
		this.available -= dataLength

		task := encodingTask{
			iBuffer:            &this.buffers[taskID],
			oBuffer:            &this.buffers[this.jobs+taskID],
			hasher:             this.hasher,
			blockLength:        uint(dataLength),
			blockTransformType: this.transformType,
			blockEntropyType:   this.entropyType,
			currentBlockID:     firstID + int32(taskID) + 1,
			processedBlockID:   &this.blockID,
			wg:                 &wg,
			obs:                this.obs,
			listeners:          listeners,
			ctx:                copyCtx}

		go task.encode(&results[taskID])
	}

	wg.Wait()

	for _, r := range results {
		if r.err != nil {
			return r.err
		}
	}

	return nil
}

// GetWritten returns the number of bytes written so far
func (this *CompressedOutputStream) GetWritten() uint64 {
	return (this.obs.Written() + 7) >> 3
}

// encode computes mode = (skipFlags << 2) | (dataSize-1), with bit 7 set for
// a small block (length <= _SMALL_BLOCK_SIZE, transform skipped outright).
func (this *encodingTask) encode(res *encodingTaskResult) {
	data := this.iBuffer.Buf
	buffer := this.oBuffer.Buf
	mode := byte(0)
	checksum := uint32(0)

	defer func() {
		if r := recover(); r != nil {
			res.err = &IOError{msg: fmt.Sprintf("%v", r), code: bcodec.ErrProcessBlock}
		}

		// Unblock other tasks
		if res.err != nil {
			atomic.StoreInt32(this.processedBlockID, _CANCEL_TASKS_ID)
		}

		this.wg.Done()
	}()

	if this.hasher != nil {
		checksum = this.hasher.Hash(data[0:this.blockLength])
	}

	if len(this.listeners) > 0 {
		evt := bcodec.NewEvent(bcodec.EvtBeforeTransform, int(this.currentBlockID),
			int64(this.blockLength), checksum, hashType(this.hasher), time.Now())
		bcodec.NotifyListeners(this.listeners, evt)
	}

	if len(buffer) < int(this.blockLength) {
		extraBuf := make([]byte, int(this.blockLength)-len(buffer))
		buffer = append(buffer, extraBuf...)
		this.oBuffer.Buf = buffer
	}

	var postTransformLength uint
	var skipFlags byte

	if this.blockLength <= _SMALL_BLOCK_SIZE {
		copy(buffer, data[0:this.blockLength])
		postTransformLength = this.blockLength
		mode = byte(_SMALL_BLOCK_MASK) | byte(this.blockLength)
	} else {
		this.ctx["size"] = this.blockLength
		t, err := transform.New(&this.ctx, this.blockTransformType)

		if err != nil {
			res.err = &IOError{msg: err.Error(), code: bcodec.ErrCreateCodec}
			return
		}

		requiredSize := t.MaxEncodedLen(int(this.blockLength))

		if len(this.iBuffer.Buf) < requiredSize {
			extraBuf := make([]byte, requiredSize-len(this.iBuffer.Buf))
			data = append(data, extraBuf...)
			this.iBuffer.Buf = data
		}

		if len(this.oBuffer.Buf) < requiredSize {
			extraBuf := make([]byte, requiredSize-len(this.oBuffer.Buf))
			buffer = append(buffer, extraBuf...)
			this.oBuffer.Buf = buffer
		}

		// Forward transform (ignore top-level error: per-stage failures are
		// already recorded in skipFlags by the sequence itself)
		_, postTransformLength, _ = t.Forward(data[0:this.blockLength], buffer)
		skipFlags = t.SkipFlags()

		dataSize, err := requiredDataSize(postTransformLength)

		if err != nil {
			res.err = &IOError{msg: err.Error(), code: bcodec.ErrWriteFile}
			return
		}

		mode = ((skipFlags & 0x0F) << 2) | byte(dataSize-1)
	}

	if len(this.listeners) > 0 {
		evt := bcodec.NewEvent(bcodec.EvtAfterTransform, int(this.currentBlockID),
			int64(postTransformLength), checksum, hashType(this.hasher), time.Now())
		bcodec.NotifyListeners(this.listeners, evt)
	}

	// Serial barrier: wait until the previous block has fully written itself
	for {
		taskID := atomic.LoadInt32(this.processedBlockID)

		if taskID == _CANCEL_TASKS_ID {
			return
		}

		if taskID == this.currentBlockID-1 {
			break
		}

		runtime.Gosched()
	}

	this.obs.WriteBits(uint64(mode), 8)

	if mode&_SMALL_BLOCK_MASK == 0 {
		dataSize := uint(mode&0x03) + 1
		this.obs.WriteBits(uint64(postTransformLength-1), 8*dataSize)
	}

	if this.hasher != nil {
		this.obs.WriteBits(uint64(checksum), 32)
	}

	if len(this.listeners) > 0 {
		evt := bcodec.NewEvent(bcodec.EvtBeforeEntropy, int(this.currentBlockID),
			int64(postTransformLength), checksum, hashType(this.hasher), time.Now())
		bcodec.NotifyListeners(this.listeners, evt)
	}

	// Each block is encoded separately: rebuild the entropy encoder to reset
	// per-block statistics, writing directly onto the shared bitstream.
	ee, err := entropy.NewEntropyEncoder(this.obs, this.ctx, this.blockEntropyType)

	if err != nil {
		res.err = &IOError{msg: err.Error(), code: bcodec.ErrCreateCodec}
		atomic.StoreInt32(this.processedBlockID, _CANCEL_TASKS_ID)
		return
	}

	if _, err = ee.Write(buffer[0:postTransformLength]); err != nil {
		res.err = &IOError{msg: err.Error(), code: bcodec.ErrProcessBlock}
		ee.Dispose()
		atomic.StoreInt32(this.processedBlockID, _CANCEL_TASKS_ID)
		return
	}

	ee.Dispose()

	// Release the next task
	atomic.StoreInt32(this.processedBlockID, this.currentBlockID)

	if len(this.listeners) > 0 {
		evt := bcodec.NewEvent(bcodec.EvtAfterEntropy, int(this.currentBlockID),
			int64(postTransformLength), checksum, hashType(this.hasher), time.Now())
		bcodec.NotifyListeners(this.listeners, evt)
	}
}

func hashType(h *hash.XXHash32) int {
	if h != nil {
		return bcodec.EvtHash32Bits
	}

	return bcodec.EvtHashNone
}

type decodingTaskResult struct {
	err     *IOError
	data    []byte
	decoded int
	blockID int
}

// CompressedInputStream a Reader that reads compressed data
// from an InputBitStream.
type CompressedInputStream struct {
	blockSize       int
	hasher          *hash.XXHash32
	buffers         []blockBuffer
	entropyType     uint32
	transformType   uint64
	ibs             bcodec.InputBitStream
	initialized     int32
	closed          int32
	blockID         int32
	jobs            int
	bufferThreshold int
	available       int // decoded not consumed bytes
	consumed        int // decoded consumed bytes
	listeners       []bcodec.Listener
	ctx             map[string]interface{}
}

type decodingTask struct {
	iBuffer            *blockBuffer
	oBuffer            *blockBuffer
	hasher             *hash.XXHash32
	blockLength        uint
	blockTransformType uint64
	blockEntropyType   uint32
	currentBlockID     int32
	listeners          []bcodec.Listener
	ibs                bcodec.InputBitStream
	ctx                map[string]interface{}
	inCh               chan struct{}
	outCh              chan struct{}
	cancelled          *int32
}

// NewCompressedInputStream creates a new instance of CompressedInputStream
func NewCompressedInputStream(is io.ReadCloser, jobs uint) (*CompressedInputStream, error) {
	ctx := make(map[string]interface{})
	ctx["jobs"] = jobs
	return NewCompressedInputStreamWithCtx(is, ctx)
}

// NewCompressedInputStreamWithCtx creates a new instance of CompressedInputStream
// using a map of parameters
func NewCompressedInputStreamWithCtx(is io.ReadCloser, ctx map[string]interface{}) (*CompressedInputStream, error) {
	var err error
	var ibs bcodec.InputBitStream

	if ibs, err = bitstream.NewDefaultInputBitStream(is, _STREAM_DEFAULT_BUFFER_SIZE); err != nil {
		errMsg := fmt.Sprintf("Cannot create input bit stream: %v", err)
		return nil, &IOError{msg: errMsg, code: bcodec.ErrCreateBitstream}
	}

	return createCompressedInputStreamWithCtx(ibs, ctx)
}

// NewCompressedInputStreamWithCtx2 creates a new instance of CompressedInputStream
// using a map of parameters and a custom input bitstream
func NewCompressedInputStreamWithCtx2(ibs bcodec.InputBitStream, ctx map[string]interface{}) (*CompressedInputStream, error) {
	return createCompressedInputStreamWithCtx(ibs, ctx)
}

func createCompressedInputStreamWithCtx(ibs bcodec.InputBitStream, ctx map[string]interface{}) (*CompressedInputStream, error) {
	if ibs == nil {
		return nil, &IOError{msg: "Invalid null input bitstream parameter", code: bcodec.ErrCreateStream}
	}

	if ctx == nil {
		return nil, &IOError{msg: "Invalid null context parameter", code: bcodec.ErrCreateStream}
	}

	tasks := ctx["jobs"].(uint)

	if tasks == 0 || tasks > _MAX_JOBS {
		errMsg := fmt.Sprintf("The number of jobs must be in [1..%d], got %d", _MAX_JOBS, tasks)
		return nil, &IOError{msg: errMsg, code: bcodec.ErrCreateStream}
	}

	this := &CompressedInputStream{}
	this.ibs = ibs
	this.jobs = int(tasks)
	this.blockID = 0
	this.consumed = 0
	this.available = 0
	this.bufferThreshold = 0
	this.buffers = make([]blockBuffer, 2*this.jobs)

	for i := range this.buffers {
		this.buffers[i] = blockBuffer{Buf: make([]byte, 0)}
	}

	this.listeners = make([]bcodec.Listener, 0)
	this.ctx = ctx
	this.blockSize = 0
	this.entropyType = entropy.NONE_TYPE
	this.transformType = transform.NoneType
	return this, nil
}

// AddListener adds an event listener to this input stream.
// Returns true if the listener has been added.
func (this *CompressedInputStream) AddListener(bl bcodec.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// RemoveListener removes an event listener from this input stream.
// Returns true if the listener has been removed.
func (this *CompressedInputStream) RemoveListener(bl bcodec.Listener) bool {
	if bl == nil {
		return false
	}

	for i, e := range this.listeners {
		if e == bl {
			this.listeners = append(this.listeners[:i], this.listeners[i+1:]...)
			return true
		}
	}

	return false
}

func (this *CompressedInputStream) readHeader() error {
	fileType := this.ibs.ReadBits(32)

	if fileType != _BITSTREAM_TYPE {
		return &IOError{msg: "Invalid stream type", code: bcodec.ErrInvalidFile}
	}

	bsVersion := uint(this.ibs.ReadBits(7))

	if bsVersion != _BITSTREAM_FORMAT_VERSION {
		errMsg := fmt.Sprintf("Invalid bitstream, cannot read this version of the stream: %d", bsVersion)
		return &IOError{msg: errMsg, code: bcodec.ErrStreamVersion}
	}

	this.ctx["bsVersion"] = bsVersion
	var err error

	if this.ibs.ReadBit() == 1 {
		this.hasher, err = hash.NewXXHash32(_BITSTREAM_TYPE)

		if err != nil {
			return err
		}
	}

	this.entropyType = uint32(this.ibs.ReadBits(5))
	var eType string

	if eType, err = entropy.GetName(this.entropyType); err != nil {
		errMsg := fmt.Sprintf("Invalid bitstream, invalid entropy type: %d", this.entropyType)
		return &IOError{msg: errMsg, code: bcodec.ErrInvalidCodec}
	}

	this.ctx["codec"] = eType

	this.transformType = this.ibs.ReadBits(16)
	var tType string

	if tType, err = transform.GetName(this.transformType); err != nil {
		errMsg := fmt.Sprintf("Invalid bitstream, invalid transform type: %d", this.transformType)
		return &IOError{msg: errMsg, code: bcodec.ErrInvalidCodec}
	}

	this.ctx["transform"] = tType

	this.blockSize = int(this.ibs.ReadBits(26)) << 4

	if this.blockSize < _MIN_BITSTREAM_BLOCK_SIZE || this.blockSize > _MAX_BITSTREAM_BLOCK_SIZE {
		errMsg := fmt.Sprintf("Invalid bitstream, incorrect block size: %d", this.blockSize)
		return &IOError{msg: errMsg, code: bcodec.ErrBlockSize}
	}

	this.ctx["blockSize"] = uint(this.blockSize)
	this.bufferThreshold = this.blockSize

	// Reserved bits: written zero, ignored on read
	this.ibs.ReadBits(9)

	if len(this.listeners) > 0 {
		msg := fmt.Sprintf("Checksum set to %v\nBlock size set to %d bytes\nUsing %v entropy codec (stage 1)\nUsing %v transform (stage 2)\n",
			this.hasher != nil, this.blockSize, eType, tType)
		evt := bcodec.NewEventFromString(bcodec.EvtAfterHeaderDecoding, 0, msg, time.Now())
		bcodec.NotifyListeners(this.listeners, evt)
	}

	return nil
}

// Close reads the buffered data from the input stream and releases resources.
// Close makes the bitstream unavailable for further reads. Idempotent
func (this *CompressedInputStream) Close() error {
	if atomic.SwapInt32(&this.closed, 1) == 1 {
		return nil
	}

	if err := this.ibs.Close(); err != nil {
		return err
	}

	this.available = 0

	for i := range this.buffers {
		this.buffers[i] = blockBuffer{Buf: make([]byte, 0)}
	}

	return nil
}

// Read reads up to len(block) bytes and copies them into block.
// It returns the number of bytes read (0 <= n <= len(block)) and any error encountered.
func (this *CompressedInputStream) Read(block []byte) (int, error) {
	if atomic.LoadInt32(&this.closed) == 1 {
		return 0, &IOError{msg: "Stream closed", code: bcodec.ErrReadFile}
	}

	if atomic.SwapInt32(&this.initialized, 1) == 0 {
		if err := this.readHeader(); err != nil {
			return 0, err
		}
	}

	off := 0
	remaining := len(block)

	for remaining > 0 {
		avail := this.available
		bufOff := this.consumed % this.blockSize

		if avail > this.bufferThreshold-bufOff {
			avail = this.bufferThreshold - bufOff
		}

		lenChunk := remaining

		if lenChunk > avail {
			lenChunk = avail
		}

		if lenChunk > 0 {
			bufID := this.consumed / this.blockSize
			copy(block[off:], this.buffers[bufID].Buf[bufOff:bufOff+lenChunk])
			off += lenChunk
			remaining -= lenChunk
			this.available -= lenChunk
			this.consumed += lenChunk

			if this.available > 0 && bufOff+lenChunk >= this.bufferThreshold {
				continue
			}

			if remaining == 0 {
				break
			}
		}

		if this.available == 0 {
			var err error

			if this.available, err = this.processBlock(); err != nil {
				return len(block) - remaining, err
			}

			if this.available == 0 {
				if len(block) == remaining {
					return 0, io.EOF
				}

				break
			}
		}
	}

	return len(block) - remaining, nil
}

func (this *CompressedInputStream) processBlock() (int, error) {
	if atomic.LoadInt32(&this.blockID) == _CANCEL_TASKS_ID {
		return 0, nil
	}

	blkSize := this.blockSize

	if _EXTRA_BUFFER_SIZE >= (blkSize >> 4) {
		blkSize += _EXTRA_BUFFER_SIZE
	} else {
		blkSize += blkSize >> 4
	}

	listeners := make([]bcodec.Listener, len(this.listeners))
	copy(listeners, this.listeners)
	decoded := 0

	nbTasks := this.jobs
	results := make([]decodingTaskResult, nbTasks)
	wg := sync.WaitGroup{}
	firstID := this.blockID
	var cancelled int32

	channels := make([]chan struct{}, nbTasks)

	for i := range channels {
		channels[i] = make(chan struct{}, 1)
	}

	// Pre-arm the first task's input channel
	channels[0] <- struct{}{}

	for taskID := 0; taskID < nbTasks; taskID++ {
		if len(this.buffers[taskID].Buf) < blkSize {
			this.buffers[taskID].Buf = make([]byte, blkSize)
		}

		copyCtx := make(map[string]interface{})

		for k, v := range this.ctx {
			copyCtx[k] = v
		}

		wg.Add(1)

		task := decodingTask{
			iBuffer:            &this.buffers[taskID],
			oBuffer:            &this.buffers[this.jobs+taskID],
			hasher:             this.hasher,
			blockLength:        uint(blkSize),
			blockTransformType: this.transformType,
			blockEntropyType:   this.entropyType,
			currentBlockID:     firstID + int32(taskID) + 1,
			listeners:          listeners,
			ibs:                this.ibs,
			ctx:                copyCtx,
			inCh:               channels[taskID],
			outCh:              channels[(taskID+1)%nbTasks],
			cancelled:          &cancelled}

		go func(t decodingTask, res *decodingTaskResult) {
			defer wg.Done()
			t.decode(res)
		}(task, &results[taskID])
	}

	wg.Wait()
	this.blockID += int32(nbTasks)

	if atomic.LoadInt32(&cancelled) != 0 {
		this.blockID = _CANCEL_TASKS_ID
	}

	terminated := false

	for _, r := range results {
		if r.err != nil {
			return decoded, r.err
		}

		if r.blockID == 0 {
			// Terminator observed: nothing decoded by this or later tasks
			terminated = true
			break
		}

		decoded += r.decoded
	}

	for n, r := range results {
		if r.blockID == 0 {
			break
		}

		copy(this.buffers[n].Buf, r.data[0:r.decoded])

		if len(listeners) > 0 {
			evt := bcodec.NewEvent(bcodec.EvtAfterTransform, r.blockID,
				int64(r.decoded), 0, bcodec.EvtHashNone, time.Now())
			bcodec.NotifyListeners(listeners, evt)
		}
	}

	if terminated {
		this.blockID = _CANCEL_TASKS_ID
	}

	this.consumed = 0
	return decoded, nil
}

// decode mirrors encode: read framing+entropy serially via the daisy chain,
// then run the inverse transform (unordered, reconciled by the caller).
func (this *decodingTask) decode(res *decodingTaskResult) {
	data := this.iBuffer.Buf
	buffer := this.oBuffer.Buf
	decoded := 0
	res.blockID = int(this.currentBlockID)

	defer func() {
		res.data = this.iBuffer.Buf
		res.decoded = decoded

		if r := recover(); r != nil {
			res.err = &IOError{msg: fmt.Sprintf("%v", r), code: bcodec.ErrProcessBlock}
			atomic.StoreInt32(this.cancelled, 1)
		}
	}()

	// Wait for the daisy-chain signal before touching the shared bitstream
	<-this.inCh

	if atomic.LoadInt32(this.cancelled) != 0 {
		this.outCh <- struct{}{}
		return
	}

	mode := byte(this.ibs.ReadBits(8))

	if mode == byte(_SMALL_BLOCK_MASK) {
		// Terminator: signal cancellation and stop
		atomic.StoreInt32(this.cancelled, 1)
		res.blockID = 0
		this.outCh <- struct{}{}
		return
	}

	var preLen uint
	var skipFlags byte
	small := mode&_SMALL_BLOCK_MASK != 0

	if small {
		preLen = uint(mode & 0x0F)
	} else {
		dataSize := uint(mode&0x03) + 1
		length := dataSize * 8
		raw := this.ibs.ReadBits(length) & ((uint64(1) << length) - 1)
		preLen = uint(raw) + 1
		skipFlags = (mode >> 2) & 0x0F
	}

	if preLen > _MAX_BITSTREAM_BLOCK_SIZE {
		errMsg := fmt.Sprintf("Invalid compressed block length: %d", preLen)
		res.err = &IOError{msg: errMsg, code: bcodec.ErrBlockSize}
		atomic.StoreInt32(this.cancelled, 1)
		this.outCh <- struct{}{}
		return
	}

	checksum1 := uint32(0)

	if this.hasher != nil {
		checksum1 = uint32(this.ibs.ReadBits(32))
	}

	if len(this.listeners) > 0 {
		evt := bcodec.NewEvent(bcodec.EvtBeforeEntropy, int(this.currentBlockID),
			int64(preLen), checksum1, hashType(this.hasher), time.Now())
		bcodec.NotifyListeners(this.listeners, evt)
	}

	bufferSize := this.blockLength

	if bufferSize < preLen+_EXTRA_BUFFER_SIZE {
		bufferSize = preLen + _EXTRA_BUFFER_SIZE
	}

	if len(buffer) < int(bufferSize) {
		extraBuf := make([]byte, int(bufferSize)-len(buffer))
		buffer = append(buffer, extraBuf...)
		this.oBuffer.Buf = buffer
	}

	this.ctx["size"] = preLen
	ed, err := entropy.NewEntropyDecoder(this.ibs, this.ctx, this.blockEntropyType)

	if err != nil {
		res.err = &IOError{msg: err.Error(), code: bcodec.ErrInvalidCodec}
		atomic.StoreInt32(this.cancelled, 1)
		this.outCh <- struct{}{}
		return
	}

	if _, err = ed.Read(buffer[0:preLen]); err != nil {
		res.err = &IOError{msg: err.Error(), code: bcodec.ErrProcessBlock}
		ed.Dispose()
		atomic.StoreInt32(this.cancelled, 1)
		this.outCh <- struct{}{}
		return
	}

	ed.Dispose()

	if len(this.listeners) > 0 {
		evt := bcodec.NewEvent(bcodec.EvtAfterEntropy, int(this.currentBlockID),
			int64(preLen), checksum1, hashType(this.hasher), time.Now())
		bcodec.NotifyListeners(this.listeners, evt)
	}

	// Release the next task's framing/entropy read
	this.outCh <- struct{}{}

	if len(this.listeners) > 0 {
		evt := bcodec.NewEvent(bcodec.EvtBeforeTransform, int(this.currentBlockID),
			int64(preLen), checksum1, hashType(this.hasher), time.Now())
		bcodec.NotifyListeners(this.listeners, evt)
	}

	if small {
		copy(data, buffer[0:preLen])
		decoded = int(preLen)
	} else {
		this.ctx["size"] = preLen
		t, err := transform.New(&this.ctx, this.blockTransformType)

		if err != nil {
			res.err = &IOError{msg: err.Error(), code: bcodec.ErrInvalidCodec}
			atomic.StoreInt32(this.cancelled, 1)
			return
		}

		t.SetSkipFlags(skipFlags)
		var oIdx uint

		if len(data) < int(this.blockLength) {
			extraBuf := make([]byte, int(this.blockLength)-len(data))
			data = append(data, extraBuf...)
			this.iBuffer.Buf = data
		}

		if _, oIdx, err = t.Inverse(buffer[0:preLen], data); err != nil {
			res.err = &IOError{msg: err.Error(), code: bcodec.ErrProcessBlock}
			atomic.StoreInt32(this.cancelled, 1)
			return
		}

		decoded = int(oIdx)
	}

	if this.hasher != nil {
		checksum2 := this.hasher.Hash(data[0:decoded])

		if checksum2 != checksum1 {
			errMsg := fmt.Sprintf("Corrupted bitstream: expected checksum %x, found %x", checksum1, checksum2)
			res.err = &IOError{msg: errMsg, code: bcodec.ErrProcessBlock}
			atomic.StoreInt32(this.cancelled, 1)
			return
		}
	}
}

// GetRead returns the number of bytes read so far
func (this *CompressedInputStream) GetRead() uint64 {
	return (this.ibs.Read() + 7) >> 3
}
