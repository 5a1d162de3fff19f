package jsonlutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID string `json:"id"`
	N  int    `json:"n"`
}

func encodeRow(enc *json.Encoder, r row) error { return enc.Encode(r) }

func TestStart_WritesLines(t *testing.T) {
	var buf bytes.Buffer
	in, done := Start[row](&buf, 2, encodeRow, nil)
	in <- row{"a", 1}
	in <- row{"b", 2}
	close(in)
	require.NoError(t, <-done)
	assert.Equal(t, "{\"id\":\"a\",\"n\":1}\n{\"id\":\"b\",\"n\":2}\n", buf.String())
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestStart_BrokenPipeSuppressed(t *testing.T) {
	in, done := Start[row](failWriter{io.ErrClosedPipe}, 1, encodeRow,
		func(err error) bool { return errors.Is(err, io.ErrClosedPipe) })
	in <- row{"a", 1}
	close(in)
	assert.NoError(t, <-done)
}

func TestStart_EncodeErrorDrainsInput(t *testing.T) {
	boom := errors.New("boom")
	in, done := Start[row](io.Discard, 1, func(*json.Encoder, row) error { return boom }, nil)
	for i := 0; i < 10; i++ {
		in <- row{"x", i}
	}
	close(in)
	assert.ErrorIs(t, <-done, boom)
}

func TestDecode(t *testing.T) {
	var got []row
	err := Decode(strings.NewReader("{\"id\":\"a\",\"n\":1}\n\n{\"id\":\"b\",\"n\":2}"), func(r row) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []row{{"a", 1}, {"b", 2}}, got)

	err = Decode(strings.NewReader("{\"id\":\"a\"}\nnot json\n"), func(row) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
