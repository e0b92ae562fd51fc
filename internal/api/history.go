package api

import (
	"context"
	"fmt"
	"io"

	http "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"

	apierrors "github.com/diogo/webchat/internal/errors"
	"github.com/diogo/webchat/internal/models"
)

// GetHistory fetches the prior conversation turns, oldest first
func (c *Client) GetHistory(ctx context.Context) ([]models.Message, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(models.EndpointHistory), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, req, "load history", models.EndpointHistory)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, models.EndpointHistory, "load history failed", readErrorBody(resp.Body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, replyBodyLimit))
	if err != nil {
		return nil, c.transportError(ctx, "read history", models.EndpointHistory, err)
	}

	msgs, err := DecodeHistory(body)
	if err != nil {
		return nil, err
	}

	c.log.Debug("history fetched", zap.Int("turns", len(msgs)))
	return msgs, nil
}
