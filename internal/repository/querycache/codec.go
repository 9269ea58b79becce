package querycache

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

// Frame layout: 1 byte encoding flag, 4 bytes big-endian raw length, payload.
const (
	frameRaw   byte = 0
	frameLZ4   byte = 1
	headerSize      = 5
	// maxRawSize bounds the decompression buffer against corrupt headers.
	maxRawSize = 64 << 20
)

type cachedHit struct {
	ID        string            `msgpack:"id"`
	Score     float64           `msgpack:"score"`
	Source    map[string]any    `msgpack:"source"`
	Highlight map[string]string `msgpack:"highlight,omitempty"`
}

type cachedFacetValue struct {
	Value string `msgpack:"value"`
	Count int    `msgpack:"count"`
}

type cachedFacet struct {
	Field   string             `msgpack:"field"`
	Values  []cachedFacetValue `msgpack:"values"`
	Missing int                `msgpack:"missing"`
}

type cachedResponse struct {
	Hits        []cachedHit         `msgpack:"hits"`
	TotalHits   int                 `msgpack:"total_hits"`
	MaxScore    float64             `msgpack:"max_score"`
	Facets      []cachedFacet       `msgpack:"facets"`
	TookMs      float64             `msgpack:"took_ms"`
	TimedOut    bool                `msgpack:"timed_out"`
	From        int                 `msgpack:"from"`
	Size        int                 `msgpack:"size"`
	Suggestions map[string][]string `msgpack:"suggestions,omitempty"`
}

// encodeResponse serializes resp with MessagePack and compresses it with LZ4
// when that makes it smaller.
func encodeResponse(resp result.Response) ([]byte, error) {
	raw, err := msgpack.Marshal(toCached(resp))
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(raw, compressed, hashTable[:])
	if err != nil {
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}

	flag, payload := frameLZ4, compressed[:n]
	// n == 0 means the block is incompressible
	if n == 0 || n >= len(raw) {
		flag, payload = frameRaw, raw
	}

	out := make([]byte, headerSize+len(payload))
	out[0] = flag
	binary.BigEndian.PutUint32(out[1:headerSize], uint32(len(raw)))
	copy(out[headerSize:], payload)
	return out, nil
}

// decodeResponse reverses encodeResponse.
func decodeResponse(data []byte) (result.Response, error) {
	if len(data) < headerSize {
		return result.Response{}, fmt.Errorf("cache frame too short: %d bytes", len(data))
	}
	rawLen := int(binary.BigEndian.Uint32(data[1:headerSize]))
	if rawLen > maxRawSize {
		return result.Response{}, fmt.Errorf("cache frame too large: %d bytes", rawLen)
	}
	payload := data[headerSize:]

	var raw []byte
	switch data[0] {
	case frameRaw:
		raw = payload
	case frameLZ4:
		raw = make([]byte, rawLen)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return result.Response{}, fmt.Errorf("failed to decompress data: %w", err)
		}
		raw = raw[:n]
	default:
		return result.Response{}, fmt.Errorf("unknown cache frame encoding %d", data[0])
	}

	var c cachedResponse
	if err := msgpack.Unmarshal(raw, &c); err != nil {
		return result.Response{}, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return fromCached(c)
}

func toCached(resp result.Response) cachedResponse {
	c := cachedResponse{
		Hits:        make([]cachedHit, len(resp.Hits)),
		TotalHits:   resp.TotalHits,
		MaxScore:    resp.MaxScore,
		Facets:      make([]cachedFacet, len(resp.Facets)),
		TookMs:      resp.TookMs,
		TimedOut:    resp.TimedOut,
		From:        resp.From,
		Size:        resp.Size,
		Suggestions: resp.Suggestions,
	}
	for i, h := range resp.Hits {
		c.Hits[i] = cachedHit{ID: h.ID, Score: h.Score, Source: value.ToMap(h.Source), Highlight: h.Highlight}
	}
	for i, f := range resp.Facets {
		vals := make([]cachedFacetValue, len(f.Values))
		for j, v := range f.Values {
			vals[j] = cachedFacetValue{Value: v.Value, Count: v.Count}
		}
		c.Facets[i] = cachedFacet{Field: f.Field, Values: vals, Missing: f.Missing}
	}
	return c
}

func fromCached(c cachedResponse) (result.Response, error) {
	resp := result.Response{
		Hits:        make([]result.Hit, len(c.Hits)),
		TotalHits:   c.TotalHits,
		MaxScore:    c.MaxScore,
		Facets:      make([]result.Facet, len(c.Facets)),
		TookMs:      c.TookMs,
		TimedOut:    c.TimedOut,
		From:        c.From,
		Size:        c.Size,
		Suggestions: c.Suggestions,
	}
	for i, h := range c.Hits {
		src, err := value.FromMap(h.Source)
		if err != nil {
			return result.Response{}, fmt.Errorf("hit %q source: %w", h.ID, err)
		}
		resp.Hits[i] = result.Hit{ID: h.ID, Score: h.Score, Source: src, Highlight: h.Highlight}
	}
	for i, f := range c.Facets {
		vals := make([]result.FacetValue, len(f.Values))
		for j, v := range f.Values {
			vals[j] = result.FacetValue{Value: v.Value, Count: v.Count}
		}
		resp.Facets[i] = result.Facet{Field: f.Field, Values: vals, Missing: f.Missing}
	}
	return resp, nil
}
