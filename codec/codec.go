// Package codec externalizes and rehydrates hyperloglog estimators. It
// implements the raw dense and sparse wire formats the core package
// documents, plus a self-describing, snappy-compressed envelope suited to
// transport between processes.
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/golang/snappy"

	"github.com/IngvarBSD/hyperloglog"
)

// EncodeDense returns e's dense register array in the canonical wire
// format, promoting e to Dense first if it is still Sparse.
func EncodeDense(e *hyperloglog.Estimator) []byte {
	return e.DenseBytes()
}

// DecodeDense rejects an empty payload and otherwise returns data
// unchanged; the caller applies it via Estimator.SetDenseRegister, which
// validates its length against the estimator's own m.
func DecodeDense(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("codec: empty dense payload")
	}
	return data, nil
}

// EncodeSparse returns e's sparse entries as little-endian uint32s,
// prefixed with a 4-byte count. e must still be Sparse; EncodeSparse
// returns nil if it has already promoted to Dense. A Sparse estimator
// with no entries yet still encodes, as a zero count, rather than being
// mistaken for the promoted case — SparseEntries returning nil is
// ambiguous between the two, so the encoding check goes by Encoding()
// directly.
func EncodeSparse(e *hyperloglog.Estimator) []byte {
	if e.Encoding() != hyperloglog.Sparse {
		return nil
	}
	entries := e.SparseEntries()
	buf := make([]byte, 4+4*len(entries))
	binary.LittleEndian.PutUint32(buf, uint32(len(entries)))
	for i, v := range entries {
		binary.LittleEndian.PutUint32(buf[4+4*i:], v)
	}
	return buf
}

// DecodeSparse parses the format produced by EncodeSparse.
func DecodeSparse(data []byte) ([]uint32, error) {
	if len(data) < 4 {
		return nil, errors.New("codec: sparse payload too short")
	}
	n := binary.LittleEndian.Uint32(data)
	want := 4 + 4*int(n)
	if len(data) != want {
		return nil, fmt.Errorf("codec: sparse payload length %d, want %d", len(data), want)
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[4+4*i:])
	}
	return out, nil
}

const (
	magic         uint32 = 0x484c4c31 // "HLL1"
	formatVersion uint8  = 1
)

// Marshal produces a self-describing, snappy-compressed envelope: magic,
// version, encoding, config (p, hashBits), then the raw dense-or-sparse
// payload. The bitPack setting is not recorded. This mirrors the teacher's own
// MarshalJSON-plus-snappy pattern, but as a dedicated binary codec —
// JSON-over-snappy-over-base64 triples the indirection for no benefit on
// a binary-only transport path.
func Marshal(e *hyperloglog.Estimator) ([]byte, error) {
	var header bytes.Buffer
	binary.Write(&header, binary.LittleEndian, magic)
	header.WriteByte(formatVersion)
	header.WriteByte(byte(e.Encoding()))
	binary.Write(&header, binary.LittleEndian, uint16(e.P()))
	binary.Write(&header, binary.LittleEndian, uint16(e.HashBits()))

	var payload []byte
	if e.Encoding() == hyperloglog.Dense {
		payload = EncodeDense(e)
	} else {
		payload = EncodeSparse(e)
	}

	raw := append(header.Bytes(), payload...)
	return snappy.Encode(nil, raw), nil
}

// Unmarshal decodes an envelope produced by Marshal into a freshly built
// Estimator with matching p/hashBits. The result always uses the default
// bit packing, whichever setting the encoded estimator had.
func Unmarshal(data []byte) (*hyperloglog.Estimator, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("codec: snappy decode: %w", err)
	}
	if len(raw) < 10 {
		return nil, errors.New("codec: envelope too short")
	}

	r := bytes.NewReader(raw)
	var gotMagic uint32
	binary.Read(r, binary.LittleEndian, &gotMagic)
	if gotMagic != magic {
		return nil, fmt.Errorf("codec: bad magic %#x", gotMagic)
	}

	var version, encByte uint8
	binary.Read(r, binary.LittleEndian, &version)
	if version != formatVersion {
		return nil, fmt.Errorf("codec: unsupported version %d", version)
	}
	binary.Read(r, binary.LittleEndian, &encByte)

	var p, hashBits uint16
	binary.Read(r, binary.LittleEndian, &p)
	binary.Read(r, binary.LittleEndian, &hashBits)

	payload := raw[10:]

	enc := hyperloglog.Encoding(encByte)
	e, err := hyperloglog.New(
		hyperloglog.WithP(int(p)),
		hyperloglog.WithHashBits(int(hashBits)),
	)
	if err != nil {
		return nil, err
	}

	if enc == hyperloglog.Dense {
		data, err := DecodeDense(payload)
		if err != nil {
			return nil, err
		}
		if err := e.SetDenseRegister(data); err != nil {
			return nil, err
		}
		return e, nil
	}

	entries, err := DecodeSparse(payload)
	if err != nil {
		return nil, err
	}
	if err := e.SetSparseRegister(entries); err != nil {
		return nil, err
	}
	return e, nil
}
