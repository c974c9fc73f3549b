// Package codec encodes conversion requests and responses as msgpack.
package codec

import (
	"bytes"
	"errors"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"unitconv/internal/models"
)

const ContentType = "application/msgpack"

func Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

// EncodeRequests writes requests back to back, the framing RequestBuffer reads.
func EncodeRequests(w io.Writer, reqs []models.ConversionRequest) error {
	enc := msgpack.NewEncoder(w)
	for i := range reqs {
		if err := enc.Encode(&reqs[i]); err != nil {
			return err
		}
	}
	return nil
}

// RequestBuffer accumulates bytes from a stream and yields every complete
// request decoded so far. A trailing partial request stays buffered until the
// next Feed.
type RequestBuffer struct {
	buf bytes.Buffer
}

func (rb *RequestBuffer) Feed(data []byte) ([]models.ConversionRequest, error) {
	rb.buf.Write(data)

	var results []models.ConversionRequest
	for rb.buf.Len() > 0 {
		// decode from a view so a short read leaves the buffer untouched
		pending := rb.buf.Bytes()
		r := bytes.NewReader(pending)
		dec := msgpack.NewDecoder(r)

		var req models.ConversionRequest
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				// not enough data yet, stop
				break
			}
			return results, err
		}
		rb.buf.Next(len(pending) - r.Len())
		results = append(results, req)
	}
	return results, nil
}

// Pending reports how many undecoded bytes are buffered.
func (rb *RequestBuffer) Pending() int {
	return rb.buf.Len()
}

// DecodeRequests reads a complete stream of requests.
func DecodeRequests(r io.Reader) ([]models.ConversionRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var rb RequestBuffer
	reqs, err := rb.Feed(data)
	if err != nil {
		return nil, err
	}
	if rb.Pending() > 0 {
		return reqs, io.ErrUnexpectedEOF
	}
	return reqs, nil
}
