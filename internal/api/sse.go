package api

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// maxFrameSize bounds a single frame
const maxFrameSize = 1 << 20

// Event is one parsed server-sent event
type Event struct {
	Name string
	Data string
	ID   string
}

// ParseEvent parses a frame of "field: value" lines.
// Multiple data lines are joined with newlines; the event name defaults to "message".
func ParseEvent(frame string) Event {
	ev := Event{Name: "message"}
	var data []string

	for _, line := range strings.Split(frame, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			data = append(data, value)
		case "event":
			if value != "" {
				ev.Name = value
			}
		case "id":
			ev.ID = value
		}
	}

	ev.Data = strings.Join(data, "\n")
	return ev
}

// splitFrames is a bufio.SplitFunc yielding blank-line delimited frames.
// A trailing frame without a delimiter is returned at EOF.
func splitFrames(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i, n := frameBoundary(data); i >= 0 {
		return i + n, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// frameBoundary returns the index and length of the first blank line in data
func frameBoundary(data []byte) (int, int) {
	lf := bytes.Index(data, []byte("\n\n"))
	crlf := bytes.Index(data, []byte("\r\n\r\n"))

	switch {
	case lf < 0 && crlf < 0:
		return -1, 0
	case crlf < 0 || (lf >= 0 && lf < crlf):
		return lf, 2
	default:
		return crlf, 4
	}
}

func newFrameScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	scanner.Split(splitFrames)
	return scanner
}

// errStopFrames ends readFrames early without reporting an error
var errStopFrames = errors.New("stop reading frames")

// readFrames hands every frame of body to fn, in order, until EOF,
// cancellation, a read error, or fn returning an error. The body is always
// closed and the reader goroutine has exited when readFrames returns.
// It returns the number of frames handled.
func readFrames(ctx context.Context, body io.ReadCloser, fn func(frame string) error) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	closeBody := sync.OnceFunc(func() { _ = body.Close() })
	defer closeBody()

	frames := make(chan string)
	done := make(chan error, 1)

	go func() {
		scanner := newFrameScanner(body)
		for scanner.Scan() {
			select {
			case frames <- scanner.Text():
			case <-ctx.Done():
				done <- ctx.Err()
				return
			}
		}
		done <- scanner.Err()
	}()

	handled := 0
	for {
		select {
		case frame := <-frames:
			if err := fn(frame); err != nil {
				cancel()
				closeBody()
				<-done
				if errors.Is(err, errStopFrames) {
					return handled, nil
				}
				return handled, err
			}
			handled++

		case err := <-done:
			return handled, err

		case <-ctx.Done():
			closeBody()
			<-done
			return handled, ctx.Err()
		}
	}
}
