package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	http "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"

	apierrors "github.com/diogo/webchat/internal/errors"
	"github.com/diogo/webchat/internal/models"
)

// doneMarker ends a stream early, as some servers send it
const doneMarker = "[DONE]"

type sendRequest struct {
	Message string `json:"message"`
}

func (c *Client) newSendRequest(ctx context.Context, message string) (*http.Request, error) {
	payload, err := json.Marshal(sendRequest{Message: message})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(models.EndpointSend), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// SendJSON posts message and decodes the single JSON reply.
// An error status whose body still decodes as a server error is returned as
// a ReplyError rather than a Go error.
func (c *Client) SendJSON(ctx context.Context, message string) (models.Reply, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newSendRequest(ctx, message)
	if err != nil {
		return models.Reply{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, req, "send message", models.EndpointSend)
	if err != nil {
		return models.Reply{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, replyBodyLimit))
	if err != nil {
		return models.Reply{}, c.transportError(ctx, "read reply", models.EndpointSend, err)
	}

	if !isSuccess(resp.StatusCode) {
		if reply, decodeErr := DecodeReply(body); decodeErr == nil && reply.Kind == models.ReplyError {
			c.log.Warn("server reported error",
				zap.Int("status", resp.StatusCode),
				zap.String("detail", reply.Detail))
			return reply, nil
		}
		if len(body) > errorBodyLimit {
			body = body[:errorBodyLimit]
		}
		return models.Reply{}, apierrors.NewAPIErrorWithBody(resp.StatusCode, models.EndpointSend, "send message failed", string(body))
	}

	reply, err := DecodeReply(body)
	if err != nil {
		return models.Reply{}, err
	}
	c.log.Debug("reply decoded", zap.Stringer("kind", reply.Kind))
	return reply, nil
}

// SendStream posts message and reads the chunked reply.
// Each blank-line delimited frame with data is decoded and handed to onReply
// until the stream ends. Frames that do not decode are skipped.
func (c *Client) SendStream(ctx context.Context, message string, onReply func(models.Reply)) error {
	req, err := c.newSendRequest(ctx, message)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.do(ctx, req, "send message", models.EndpointSend)
	if err != nil {
		return err
	}

	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		return apierrors.NewAPIErrorWithBody(resp.StatusCode, models.EndpointSend, "send message failed", readErrorBody(resp.Body))
	}

	handled, err := readFrames(ctx, resp.Body, func(frame string) error {
		ev := ParseEvent(frame)
		if ev.Data == "" {
			return nil
		}
		if ev.Data == doneMarker {
			return errStopFrames
		}
		reply, ok := DecodeFrame(ev.Data)
		if !ok {
			c.log.Debug("skipping undecodable frame", zap.String("data", ev.Data))
			return nil
		}
		onReply(reply)
		return nil
	})
	return c.streamError(ctx, handled, err)
}

// Subscribe opens the event stream for message and calls onEvent with the raw
// data of every "message" event until the server closes the stream.
func (c *Client) Subscribe(ctx context.Context, message string, onEvent func(string)) error {
	u := c.url(models.EndpointSend) + "?" + url.Values{"message": {message}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.do(ctx, req, "subscribe", models.EndpointSend)
	if err != nil {
		return err
	}

	if !isSuccess(resp.StatusCode) {
		defer resp.Body.Close()
		return apierrors.NewAPIErrorWithBody(resp.StatusCode, models.EndpointSend, "subscribe failed", readErrorBody(resp.Body))
	}

	handled, err := readFrames(ctx, resp.Body, func(frame string) error {
		ev := ParseEvent(frame)
		if ev.Name != "message" || ev.Data == "" {
			return nil
		}
		onEvent(ev.Data)
		return nil
	})
	return c.streamError(ctx, handled, err)
}

func (c *Client) streamError(ctx context.Context, handled int, err error) error {
	if err == nil {
		c.log.Debug("stream finished", zap.Int("frames", handled))
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if ctx.Err() != nil {
			return fmt.Errorf("stream: %w", ctx.Err())
		}
	}
	return apierrors.NewStreamError(models.EndpointSend, handled, err)
}
