package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"hash"
	"io"
	"strconv"
)

// blockSize is the number of bytes one HMAC round yields.
const blockSize = sha256.Size

// Stream is the provably fair random source behind every opening board.
// Bytes come from HMAC-SHA256 keyed by the server seed over the message
// "client:nonce:round", and each float consumes four of them. A Stream is
// not safe for concurrent use.
type Stream struct {
	mac    hash.Hash
	prefix string
	round  uint64
	block  []byte
	pos    int
}

// NewStream starts a stream at cursor 0 for the given seeds and nonce.
func NewStream(seeds Seeds, nonce uint64) *Stream {
	return NewStreamAt(seeds, nonce, 0)
}

// NewStreamAt starts a stream at byte offset cursor.
func NewStreamAt(seeds Seeds, nonce, cursor uint64) *Stream {
	s := &Stream{
		mac:    hmac.New(sha256.New, []byte(seeds.Server)),
		prefix: seeds.Client + ":" + strconv.FormatUint(nonce, 10) + ":",
		round:  cursor / blockSize,
		pos:    int(cursor % blockSize),
	}
	s.fill()
	return s
}

func (s *Stream) fill() {
	s.mac.Reset()
	io.WriteString(s.mac, s.prefix+strconv.FormatUint(s.round, 10))
	s.block = s.mac.Sum(s.block[:0])
}

func (s *Stream) next() byte {
	if s.pos == blockSize {
		s.round++
		s.pos = 0
		s.fill()
	}
	b := s.block[s.pos]
	s.pos++
	return b
}

// Float64 consumes four bytes and returns a float in [0, 1).
func (s *Stream) Float64() float64 {
	var b [4]byte
	for i := range b {
		b[i] = s.next()
	}
	return bytesToFloat(b)
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with n <= 0")
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// bytesToFloat computes b0/256 + b1/256^2 + b2/256^3 + b3/256^4.
func bytesToFloat(b [4]byte) float64 {
	f, scale := 0.0, 1.0/256
	for _, v := range b {
		f += float64(v) * scale
		scale /= 256
	}
	return f
}

// Floats returns count floats of the stream starting at cursor.
func Floats(serverSeed, clientSeed string, nonce, cursor uint64, count int) []float64 {
	s := NewStreamAt(Seeds{Server: serverSeed, Client: clientSeed}, nonce, cursor)
	out := make([]float64, count)
	for i := range out {
		out[i] = s.Float64()
	}
	return out
}
