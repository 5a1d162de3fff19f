// internal/writers/mapping.go
package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"

	"fastadiff/internal/engine"
	"fastadiff/internal/jsonlutil"
	"fastadiff/pkg/api"
)

func init() {
	RegisterMapping("tsv", StartTSVWriter)
	RegisterMapping("jsonl", StartJSONLWriter)
}

// ToAPI converts a segment to its wire form.
func ToAPI(s engine.Segment) api.SegmentV1 {
	return api.SegmentV1{
		OldID: s.OldID, OldStart: s.OldStart, OldEnd: s.OldEnd,
		NewID: s.NewID, NewStart: s.NewStart, NewEnd: s.NewEnd,
	}
}

// StartTSVWriter streams segments as headerless six-column TSV:
// old_id, old_start, old_end, new_id, new_start, new_end.
func StartTSVWriter(out io.Writer, bufSize int) (chan<- engine.Segment, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan engine.Segment, bufSize)
	done := make(chan error, 1)
	go func() {
		bw := bufio.NewWriterSize(out, 64<<10)
		var line []byte
		var err error
		for s := range in {
			if err != nil {
				continue
			}
			line = appendTSV(line[:0], s)
			_, err = bw.Write(line)
		}
		if err == nil {
			err = bw.Flush()
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		done <- err
	}()
	return in, done
}

func appendTSV(b []byte, s engine.Segment) []byte {
	b = append(b, s.OldID...)
	b = append(b, '\t')
	b = strconv.AppendInt(b, int64(s.OldStart), 10)
	b = append(b, '\t')
	b = strconv.AppendInt(b, int64(s.OldEnd), 10)
	b = append(b, '\t')
	b = append(b, s.NewID...)
	b = append(b, '\t')
	b = strconv.AppendInt(b, int64(s.NewStart), 10)
	b = append(b, '\t')
	b = strconv.AppendInt(b, int64(s.NewEnd), 10)
	return append(b, '\n')
}

// StartJSONLWriter streams each segment as one api.SegmentV1 line.
func StartJSONLWriter(out io.Writer, bufSize int) (chan<- engine.Segment, <-chan error) {
	return jsonlutil.Start[engine.Segment](out, bufSize,
		func(enc *json.Encoder, s engine.Segment) error {
			return enc.Encode(ToAPI(s))
		},
		IsBrokenPipe,
	)
}
