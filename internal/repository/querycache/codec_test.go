package querycache

import (
	"encoding/binary"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kailas-cloud/searchkit/internal/domain/search/result"
	"github.com/kailas-cloud/searchkit/internal/domain/value"
)

func assertSameResponse(t *testing.T, want, got result.Response) {
	t.Helper()
	assert.Equal(t, want.TotalHits, got.TotalHits)
	assert.Equal(t, want.MaxScore, got.MaxScore)
	assert.Equal(t, want.TookMs, got.TookMs)
	assert.Equal(t, want.From, got.From)
	assert.Equal(t, want.Size, got.Size)
	require.Len(t, got.Hits, len(want.Hits))
	for i := range want.Hits {
		assert.Equal(t, want.Hits[i].ID, got.Hits[i].ID)
		assert.Equal(t, want.Hits[i].Score, got.Hits[i].Score)
		assert.Equal(t, value.MapText(want.Hits[i].Source), value.MapText(got.Hits[i].Source))
		assert.Len(t, got.Hits[i].Highlight, len(want.Hits[i].Highlight))
	}
	require.Len(t, got.Facets, len(want.Facets))
	for i := range want.Facets {
		assert.Equal(t, want.Facets[i], got.Facets[i])
	}
}

func TestCodec_EmptyResponse(t *testing.T) {
	resp := result.Response{Size: 10}
	data, err := encodeResponse(resp)
	require.NoError(t, err)

	got, err := decodeResponse(data)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Size)
	assert.Empty(t, got.Hits)
}

func TestCodec_CompressesRepetitivePayload(t *testing.T) {
	resp := sampleResponse()
	for i := range 200 {
		resp.Hits = append(resp.Hits, result.Hit{
			ID:     fmt.Sprintf("doc-%d", i),
			Score:  1,
			Source: map[string]value.Value{"title": value.String(strings.Repeat("red shoe ", 20))},
		})
	}
	resp.TotalHits = len(resp.Hits)

	data, err := encodeResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, frameLZ4, data[0])

	got, err := decodeResponse(data)
	require.NoError(t, err)
	assertSameResponse(t, resp, got)
}

func TestCodec_PreservesValueKinds(t *testing.T) {
	resp := sampleResponse()
	data, err := encodeResponse(resp)
	require.NoError(t, err)

	got, err := decodeResponse(data)
	require.NoError(t, err)
	assertSameResponse(t, resp, got)

	price := got.Hits[0].Source["price"]
	n, ok := price.AsNumber()
	require.True(t, ok, "price must decode as a number, got %s", price.Kind())
	assert.Equal(t, 49.5, n)
	assert.Equal(t, value.KindList, got.Hits[0].Source["tags"].Kind())
}

func TestCodec_DecodesRawFrame(t *testing.T) {
	resp := sampleResponse()
	raw, err := msgpack.Marshal(toCached(resp))
	require.NoError(t, err)

	frame := make([]byte, headerSize+len(raw))
	frame[0] = frameRaw
	binary.BigEndian.PutUint32(frame[1:headerSize], uint32(len(raw)))
	copy(frame[headerSize:], raw)

	got, err := decodeResponse(frame)
	require.NoError(t, err)
	assertSameResponse(t, resp, got)
}

func TestCodec_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{0, 1}},
		{"unknown flag", []byte{9, 0, 0, 0, 1, 0}},
		{"oversized header", []byte{1, 0xff, 0xff, 0xff, 0xff}},
		{"bad lz4", []byte{1, 0, 0, 0, 10, 0xff, 0xff, 0xff}},
		{"bad msgpack", []byte{0, 0, 0, 0, 1, 0xc1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeResponse(tc.data)
			assert.Error(t, err)
		})
	}
}
