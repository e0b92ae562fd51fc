package api

import (
	"bytes"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/webchat/internal/errors"
	"github.com/diogo/webchat/internal/models"
)

// DecodeReply resolves a single-response body into a Reply.
//
// Accepted shapes: [*, {"refresh": true}], a reset acknowledgement string,
// {"error": ...}, {"message": ...}, {"content": ..., "role": ...}, any other
// string, or anything else (rendered as its raw JSON text).
func DecodeReply(body []byte) (models.Reply, error) {
	body = bytes.TrimSpace(body)
	if !gjson.ValidBytes(body) {
		return models.Reply{}, apierrors.NewParseError("reply is not valid JSON", models.EndpointSend)
	}

	r := gjson.ParseBytes(body)
	switch {
	case r.IsArray():
		items := r.Array()
		if len(items) >= 2 && items[1].Get("refresh").Bool() {
			return models.Reply{Kind: models.ReplyRefresh}, nil
		}
		return models.MessageReply(models.RoleAI, r.Raw), nil

	case r.Type == gjson.String:
		s := r.String()
		if models.IsResetAck(s) {
			return models.Reply{Kind: models.ReplyReset}, nil
		}
		return models.MessageReply(models.RoleAI, s), nil

	case r.IsObject():
		if e := r.Get("error"); e.Exists() && e.String() != "" {
			return models.ErrorReply(e.String()), nil
		}
		if m := r.Get("message"); m.Exists() {
			if m.IsObject() && m.Get("content").Exists() {
				return models.MessageReply(models.ParseRole(m.Get("role").String()), m.Get("content").String()), nil
			}
			return models.MessageReply(models.RoleAI, m.String()), nil
		}
		if c := r.Get("content"); c.Exists() {
			return models.MessageReply(models.ParseRole(r.Get("role").String()), c.String()), nil
		}
		return models.MessageReply(models.RoleAI, r.Raw), nil

	default:
		return models.MessageReply(models.RoleAI, r.Raw), nil
	}
}

// DecodeFrame resolves the data of one streamed frame.
// It reports false for frames that carry nothing to render.
func DecodeFrame(data string) (models.Reply, bool) {
	if !gjson.Valid(data) {
		return models.Reply{}, false
	}

	r := gjson.Parse(data)
	switch {
	case r.IsObject():
		if e := r.Get("error"); e.Exists() && e.String() != "" {
			return models.ErrorReply(e.String()), true
		}
		if c := r.Get("content"); c.Exists() {
			return models.MessageReply(models.ParseRole(r.Get("role").String()), c.String()), true
		}
		return models.Reply{}, false
	case r.Type == gjson.String:
		return models.MessageReply(models.RoleAI, r.String()), true
	default:
		return models.Reply{}, false
	}
}

// DecodeHistory parses a [{content, role}] array.
// Roles other than user and system become ai.
func DecodeHistory(body []byte) ([]models.Message, error) {
	body = bytes.TrimSpace(body)
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("history is not valid JSON", models.EndpointHistory)
	}

	r := gjson.ParseBytes(body)
	if !r.IsArray() {
		return nil, apierrors.NewParseError("history is not an array", models.EndpointHistory)
	}

	items := r.Array()
	msgs := make([]models.Message, 0, len(items))
	for _, item := range items {
		if item.Type == gjson.String {
			msgs = append(msgs, models.Message{Content: item.String(), Role: models.RoleAI})
			continue
		}
		msgs = append(msgs, models.Message{
			Content: item.Get("content").String(),
			Role:    models.ParseRole(item.Get("role").String()),
		})
	}
	return msgs, nil
}
