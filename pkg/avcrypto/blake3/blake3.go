// Package blake3 implements the BLAKE3 tree hash.
//
// Input is split into 1024-byte chunks; each chunk is compressed
// independently into a chaining value, and chaining values are combined
// pairwise up a binary Merkle tree. Because chunks are independent until
// the combine step, this is the only hash in the kernel whose work can be
// parallelized; this implementation stays sequential but preserves the tree
// structure bit-exactly.
//
// Output length is variable: Finalize returns the conventional 32-byte
// digest, FinalizeXOF returns an io.Reader that extends the output by
// re-entering the final compression with an incrementing block counter.
package blake3

import (
	"encoding/binary"
	"math/bits"

	"github.com/avilaops/avila-crypto-go/pkg/avcrypto"
)

const (
	// Size is the default digest length in bytes.
	Size = 32

	blockLen = 64
	chunkLen = 1024

	flagChunkStart = 1 << 0
	flagChunkEnd   = 1 << 1
	flagParent     = 1 << 2
	flagRoot       = 1 << 3
)

var iv = [8]uint32{
	0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
	0x510E527F, 0x9B05688C, 0x1F83D9AB, 0x5BE0CD19,
}

// Message word permutation applied between rounds.
var permutation = [16]int{2, 6, 3, 10, 7, 0, 4, 13, 1, 11, 12, 5, 9, 14, 15, 8}

func g(s *[16]uint32, a, b, c, d int, mx, my uint32) {
	s[a] += s[b] + mx
	s[d] = bits.RotateLeft32(s[d]^s[a], -16)
	s[c] += s[d]
	s[b] = bits.RotateLeft32(s[b]^s[c], -12)
	s[a] += s[b] + my
	s[d] = bits.RotateLeft32(s[d]^s[a], -8)
	s[c] += s[d]
	s[b] = bits.RotateLeft32(s[b]^s[c], -7)
}

// compress is the BLAKE3 compression function: 7 rounds over columns then
// diagonals, returning all 16 output words (the first 8 are the chaining
// value, all 16 feed extended output).
func compress(cv *[8]uint32, block *[16]uint32, counter uint64, length uint32, flags uint32) [16]uint32 {
	s := [16]uint32{
		cv[0], cv[1], cv[2], cv[3], cv[4], cv[5], cv[6], cv[7],
		iv[0], iv[1], iv[2], iv[3],
		uint32(counter), uint32(counter >> 32), length, flags,
	}
	m := *block
	for round := 0; round < 7; round++ {
		g(&s, 0, 4, 8, 12, m[0], m[1])
		g(&s, 1, 5, 9, 13, m[2], m[3])
		g(&s, 2, 6, 10, 14, m[4], m[5])
		g(&s, 3, 7, 11, 15, m[6], m[7])
		g(&s, 0, 5, 10, 15, m[8], m[9])
		g(&s, 1, 6, 11, 12, m[10], m[11])
		g(&s, 2, 7, 8, 13, m[12], m[13])
		g(&s, 3, 4, 9, 14, m[14], m[15])

		if round < 6 {
			var p [16]uint32
			for i := 0; i < 16; i++ {
				p[i] = m[permutation[i]]
			}
			m = p
		}
	}
	for i := 0; i < 8; i++ {
		s[i] ^= s[i+8]
		s[i+8] ^= cv[i]
	}
	return s
}

func wordsFromBlock(block []byte) [16]uint32 {
	var w [16]uint32
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(block[i*4:])
	}
	return w
}

// nodeOutput is a deferred final compression: enough state to produce either
// a chaining value (interior of the tree) or root output blocks (XOF).
type nodeOutput struct {
	inputCV  [8]uint32
	block    [16]uint32
	counter  uint64
	blockLen uint32
	flags    uint32
}

func (o *nodeOutput) chainingValue() [8]uint32 {
	s := compress(&o.inputCV, &o.block, o.counter, o.blockLen, o.flags)
	var cv [8]uint32
	copy(cv[:], s[:8])
	return cv
}

func (o *nodeOutput) rootBlock(outCounter uint64, out *[blockLen]byte) {
	s := compress(&o.inputCV, &o.block, outCounter, o.blockLen, o.flags|flagRoot)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
}

// chunkState accumulates one 1024-byte chunk.
type chunkState struct {
	cv               [8]uint32
	chunkCounter     uint64
	block            [blockLen]byte
	blockLen         int
	blocksCompressed int
}

func newChunkState(counter uint64) chunkState {
	return chunkState{cv: iv, chunkCounter: counter}
}

func (c *chunkState) length() int {
	return c.blocksCompressed*blockLen + c.blockLen
}

func (c *chunkState) startFlag() uint32 {
	if c.blocksCompressed == 0 {
		return flagChunkStart
	}
	return 0
}

func (c *chunkState) update(input []byte) {
	for len(input) > 0 {
		if c.blockLen == blockLen {
			w := wordsFromBlock(c.block[:])
			s := compress(&c.cv, &w, c.chunkCounter, blockLen, c.startFlag())
			copy(c.cv[:], s[:8])
			c.blocksCompressed++
			c.blockLen = 0
		}
		n := copy(c.block[c.blockLen:], input)
		c.blockLen += n
		input = input[n:]
	}
}

func (c *chunkState) output() nodeOutput {
	var padded [blockLen]byte
	copy(padded[:], c.block[:c.blockLen])
	return nodeOutput{
		inputCV:  c.cv,
		block:    wordsFromBlock(padded[:]),
		counter:  c.chunkCounter,
		blockLen: uint32(c.blockLen),
		flags:    c.startFlag() | flagChunkEnd,
	}
}

func parentOutput(left, right [8]uint32) nodeOutput {
	var block [16]uint32
	copy(block[:8], left[:])
	copy(block[8:], right[:])
	return nodeOutput{
		inputCV:  iv,
		block:    block,
		counter:  0,
		blockLen: blockLen,
		flags:    flagParent,
	}
}

// Hasher is a streaming BLAKE3 computation. Like the rest of the hash
// family it is consumed by Finalize or FinalizeXOF.
type Hasher struct {
	chunk     chunkState
	stack     [][8]uint32 // chaining values of completed subtrees
	finalized bool
}

// New returns a fresh BLAKE3 hasher.
func New() *Hasher {
	return &Hasher{chunk: newChunkState(0)}
}

// Update absorbs p. Returns ErrMisuse once the hasher has been finalized.
func (h *Hasher) Update(p []byte) error {
	if h.finalized {
		return avcrypto.E("blake3.Update", avcrypto.ErrMisuse, "hasher already finalized")
	}
	for len(p) > 0 {
		if h.chunk.length() == chunkLen {
			cv := h.chunk.output()
			h.addChunkCV(cv.chainingValue(), h.chunk.chunkCounter+1)
			h.chunk = newChunkState(h.chunk.chunkCounter + 1)
		}
		want := chunkLen - h.chunk.length()
		if want > len(p) {
			want = len(p)
		}
		h.chunk.update(p[:want])
		p = p[want:]
	}
	return nil
}

// addChunkCV merges a completed chunk's chaining value into the subtree
// stack. totalChunks is the number of chunks absorbed so far; each trailing
// zero bit means two equal-sized subtrees are complete and must be merged
// into a parent node.
func (h *Hasher) addChunkCV(cv [8]uint32, totalChunks uint64) {
	for totalChunks&1 == 0 {
		top := h.stack[len(h.stack)-1]
		h.stack = h.stack[:len(h.stack)-1]
		parent := parentOutput(top, cv)
		cv = parent.chainingValue()
		totalChunks >>= 1
	}
	h.stack = append(h.stack, cv)
}

func (h *Hasher) rootOutput() nodeOutput {
	output := h.chunk.output()
	for i := len(h.stack) - 1; i >= 0; i-- {
		output = parentOutput(h.stack[i], output.chainingValue())
	}
	return output
}

// Finalize returns the 32-byte digest and consumes the hasher.
func (h *Hasher) Finalize() ([Size]byte, error) {
	if h.finalized {
		return [Size]byte{}, avcrypto.E("blake3.Finalize", avcrypto.ErrMisuse, "hasher already finalized")
	}
	h.finalized = true

	var first [blockLen]byte
	root := h.rootOutput()
	root.rootBlock(0, &first)
	var out [Size]byte
	copy(out[:], first[:Size])
	return out, nil
}

// FinalizeXOF consumes the hasher and returns a reader over the extendable
// output. The reader re-enters the root compression with an incrementing
// output-block counter, so any prefix of the stream matches Finalize.
func (h *Hasher) FinalizeXOF() (*OutputReader, error) {
	if h.finalized {
		return nil, avcrypto.E("blake3.FinalizeXOF", avcrypto.ErrMisuse, "hasher already finalized")
	}
	h.finalized = true
	return &OutputReader{output: h.rootOutput()}, nil
}

// Sum256 returns the 32-byte BLAKE3 digest of data.
func Sum256(data []byte) [Size]byte {
	h := New()
	_ = h.Update(data)
	out, _ := h.Finalize()
	return out
}

// OutputReader streams extendable output. It implements io.Reader and never
// returns an error: the output stream is unbounded.
type OutputReader struct {
	output  nodeOutput
	buf     [blockLen]byte
	bufUsed int
	counter uint64
}

func (r *OutputReader) Read(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if r.bufUsed == 0 {
			r.output.rootBlock(r.counter, &r.buf)
			r.counter++
			r.bufUsed = blockLen
		}
		n := copy(p, r.buf[blockLen-r.bufUsed:])
		r.bufUsed -= n
		p = p[n:]
		total += n
	}
	return total, nil
}
