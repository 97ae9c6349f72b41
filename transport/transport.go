// Package transport exchanges tables with a structured backend.
//
// A table crosses this layer purely as a serializable payload: requests
// carry a serialized DataWrapper under a service command, responses decode
// back into rows or a DataModel. The client adds per-request correlation
// IDs, optional rate limiting, and an LRU response cache with singleflight
// collapse of concurrent identical requests.
package transport

import (
	"encoding/json"

	"github.com/hupe1980/datatable"
	"github.com/hupe1980/datatable/codec"
)

// Envelope is the wire shape of one request: a service command plus the
// serialized DataWrapper payload.
type Envelope struct {
	Cmd  string          `json:"cmd"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Response is one backend reply.
type Response struct {
	StatusCode int
	RequestID  string
	Body       []byte
}

// Rows decodes the response body as a row array.
func (r *Response) Rows(c codec.Codec) ([]datatable.Row, error) {
	if c == nil {
		c = codec.Default
	}
	var rows []datatable.Row
	if err := c.Unmarshal(r.Body, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Model decodes the response body as a row array using c (nil falls back
// to codec.Default) and builds a table from it, with columns inferred the
// way the table constructors infer them.
func (r *Response) Model(c codec.Codec, opts ...datatable.Option) (*datatable.DataModel, error) {
	rows, err := r.Rows(c)
	if err != nil {
		return nil, err
	}
	return datatable.NewFromRows(rows, opts...)
}
