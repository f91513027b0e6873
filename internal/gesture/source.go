package gesture

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// frameRecord is the JSON-lines wire form emitted by the external landmark
// engine: one object per processed camera frame, landmarks as [x, y, z]
// triples in normalized image coordinates.
type frameRecord struct {
	Landmarks [][3]float64 `json:"landmarks"`
	LeftHand  bool         `json:"left_hand"`
	Score     float64      `json:"score"`
	TSMillis  int64        `json:"ts_ms"`
}

// StreamSource reads hand frames from a JSONL stream over a unix socket.
type StreamSource struct {
	conn   net.Conn
	reader *bufio.Reader
}

// DialStreamSource connects to the landmark engine socket at path.
func DialStreamSource(ctx context.Context, path string) (*StreamSource, error) {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial hand-pose socket %q: %w", path, err)
	}
	return NewStreamSource(conn), nil
}

// NewStreamSource wraps an established connection.
func NewStreamSource(conn net.Conn) *StreamSource {
	return &StreamSource{conn: conn, reader: bufio.NewReader(conn)}
}

// NextFrame reads one frame line within timeout. A read deadline expiring, or
// a line describing no detected hand, returns ok=false with no error.
func (s *StreamSource) NextFrame(ctx context.Context, timeout time.Duration) (Frame, bool, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, false, err
	}
	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return Frame{}, false, fmt.Errorf("set frame read deadline: %w", err)
	}

	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if isTimeout(err) {
			return Frame{}, false, nil
		}
		return Frame{}, false, fmt.Errorf("read frame: %w", err)
	}

	var record frameRecord
	if err := json.Unmarshal(line, &record); err != nil {
		return Frame{}, false, fmt.Errorf("decode frame: %w", err)
	}
	if len(record.Landmarks) == 0 {
		return Frame{}, false, nil
	}
	if len(record.Landmarks) != LandmarkCount {
		return Frame{}, false, fmt.Errorf("frame has %d landmarks, want %d", len(record.Landmarks), LandmarkCount)
	}

	frame := Frame{
		LeftHand: record.LeftHand,
		Score:    record.Score,
		At:       time.UnixMilli(record.TSMillis),
	}
	for i, lm := range record.Landmarks {
		frame.Landmarks[i] = Point{X: lm[0], Y: lm[1], Z: lm[2]}
	}
	return frame, true, nil
}

// Close closes the underlying connection.
func (s *StreamSource) Close() error {
	return s.conn.Close()
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}
