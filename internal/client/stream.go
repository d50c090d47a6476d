package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StreamEvent is one server-sent event from the attendance stream.
type StreamEvent struct {
	Name string
	Data string
}

// Watch connects to the attendance event stream and calls fn for every event until ctx
// is cancelled or the server closes the stream. It returns nil on cancellation.
func (c *Client) Watch(ctx context.Context, fn func(StreamEvent)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/attendance/stream", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// The request timeout of c.httpClient would cut a long-lived stream.
	streamClient := &http.Client{Transport: c.httpClient.Transport}

	resp, err := streamClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("open attendance stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	err = readEvents(resp, fn)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func readEvents(resp *http.Response, fn func(StreamEvent)) error {
	scanner := bufio.NewScanner(resp.Body)

	var (
		current StreamEvent
		data    []string
	)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			if current.Name != "" || len(data) > 0 {
				current.Data = strings.Join(data, "\n")
				if current.Name == "" {
					current.Name = "message"
				}
				fn(current)
			}
			current, data = StreamEvent{}, nil
		case strings.HasPrefix(line, ":"):
			// comment
		case strings.HasPrefix(line, "event:"):
			current.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("read attendance stream: %w", err)
	}
	return nil
}
