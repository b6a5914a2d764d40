// Package resultspool buffers finished (q, fqt) results between the
// orchestrator and the external writer.Client, compressed with zstd so
// a writer slower than the compute pipeline cannot force unbounded
// uncompressed result buffering (§5's RAM policy extended to the write
// side). Grounded on file_writer_service.hpp's client-side data_queue
// (HDF5WriterClient), generalized from an uncompressed in-memory queue
// to a byte-budgeted compressed one since the original always wrote to
// a live TCP connection and never needed to bound queued memory itself.
package resultspool

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/klauspost/compress/zstd"

	goscatter "github.com/rmera/goscatter"
	"github.com/rmera/goscatter/writer"
)

// Spool is a bounded, zstd-compressed FIFO of writer.Record. Push
// blocks while the pool is at capacity; Drain hands every buffered
// record, in order, to a writer.Client.
type Spool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	capacity int64
	used     int64
	entries  [][]byte

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New builds a Spool with the given byte budget for its compressed
// entries.
func New(capacityBytes int64) (*Spool, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, goscatter.Decorated(err, "resultspool.New")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, goscatter.Decorated(err, "resultspool.New")
	}
	s := &Spool{capacity: capacityBytes, enc: enc, dec: dec}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

// Push encodes and compresses r, then blocks until there is room in
// the pool's byte budget. A single record larger than the whole budget
// fails immediately with ResourceExhausted rather than blocking
// forever.
func (s *Spool) Push(r writer.Record) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&r); err != nil {
		return goscatter.Decorated(err, "resultspool.Push")
	}
	compressed := s.enc.EncodeAll(buf.Bytes(), nil)
	size := int64(len(compressed))

	s.mu.Lock()
	defer s.mu.Unlock()
	if size > s.capacity {
		return goscatter.NewError(goscatter.ResourceExhausted, "result record exceeds spool capacity")
	}
	for s.used+size > s.capacity {
		s.cond.Wait()
	}
	s.entries = append(s.entries, compressed)
	s.used += size
	return nil
}

// Len reports the number of buffered, undrained records.
func (s *Spool) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Used reports the current compressed byte usage.
func (s *Spool) Used() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used
}

// Drain decompresses and decodes every buffered record, in FIFO order,
// handing each to client.Write, then calls client.Flush once. The pool
// is empty and its budget fully reclaimed when Drain returns (even on
// error, the entries already consumed are discarded).
func (s *Spool) Drain(client writer.Client) error {
	s.mu.Lock()
	entries := s.entries
	s.entries = nil
	s.used = 0
	s.cond.Broadcast()
	s.mu.Unlock()

	for _, compressed := range entries {
		raw, err := s.dec.DecodeAll(compressed, nil)
		if err != nil {
			return goscatter.Decorated(err, "resultspool.Drain")
		}
		var r writer.Record
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&r); err != nil {
			return goscatter.Decorated(err, "resultspool.Drain")
		}
		if err := client.Write(r); err != nil {
			return goscatter.Decorated(err, "resultspool.Drain")
		}
	}
	return client.Flush()
}
