package tfidf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Binary matrix layout (little-endian):
//
//	magic "JMVX" | version uint16 | rows uint32 | cols uint32 | nnz uint64
//	indptr [rows+1]uint64 | indices [nnz]uint32 | values [nnz]float64
const (
	matrixMagic   = "JMVX"
	MatrixVersion = 1

	maxMatrixNNZ = 1 << 31

	// Slices grow from at most this many elements; header counts are not
	// trusted for allocation until the payload backs them.
	readChunk = 1 << 16
)

// ErrUnsupportedFormat signals an unknown magic or version.
var ErrUnsupportedFormat = errors.New("unsupported matrix format")

type matrixHeader struct {
	Magic   [4]byte
	Version uint16
	Rows    uint32
	Cols    uint32
	NNZ     uint64
}

// WriteMatrix encodes m in the binary CSR layout.
func WriteMatrix(w io.Writer, m *Matrix) error {
	bw := bufio.NewWriter(w)

	h := matrixHeader{Version: MatrixVersion, Rows: uint32(m.rows), Cols: uint32(m.cols), NNZ: uint64(len(m.data))}
	copy(h.Magic[:], matrixMagic)
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	buf := make([]byte, 8)
	for _, p := range m.indptr {
		binary.LittleEndian.PutUint64(buf, uint64(p))
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write indptr: %w", err)
		}
	}
	for _, c := range m.indices {
		binary.LittleEndian.PutUint32(buf[:4], uint32(c))
		if _, err := bw.Write(buf[:4]); err != nil {
			return fmt.Errorf("write indices: %w", err)
		}
	}
	for _, v := range m.data {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write values: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// ReadMatrix decodes a matrix written by WriteMatrix and validates it.
func ReadMatrix(r io.Reader) (*Matrix, error) {
	br := bufio.NewReader(r)

	var h matrixHeader
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(h.Magic[:]) != matrixMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrUnsupportedFormat, h.Magic[:])
	}
	if h.Version != MatrixVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedFormat, h.Version)
	}
	if h.NNZ > maxMatrixNNZ {
		return nil, fmt.Errorf("nnz %d exceeds limit %d", h.NNZ, maxMatrixNNZ)
	}

	rows, nnz := int(h.Rows), int(h.NNZ)
	buf := make([]byte, 8)

	indptr := make([]int, 0, min(rows+1, readChunk))
	for i := 0; i <= rows; i++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("read indptr: %w", err)
		}
		p := binary.LittleEndian.Uint64(buf)
		if p > uint64(nnz) {
			return nil, fmt.Errorf("indptr[%d]=%d exceeds nnz %d", i, p, nnz)
		}
		indptr = append(indptr, int(p))
	}

	indices := make([]int32, 0, min(nnz, readChunk))
	for range nnz {
		if _, err := io.ReadFull(br, buf[:4]); err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		c := binary.LittleEndian.Uint32(buf[:4])
		if c > math.MaxInt32 {
			return nil, fmt.Errorf("column %d out of range", c)
		}
		indices = append(indices, int32(c))
	}

	data := make([]float64, 0, min(nnz, readChunk))
	for range nnz {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("read values: %w", err)
		}
		data = append(data, math.Float64frombits(binary.LittleEndian.Uint64(buf)))
	}

	if _, err := br.ReadByte(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after matrix")
	}

	return NewMatrix(rows, int(h.Cols), indptr, indices, data)
}
