package api

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/webchat/internal/errors"
	"github.com/diogo/webchat/internal/models"
)

func TestNewClient(t *testing.T) {
	t.Run("empty url", func(t *testing.T) {
		if _, err := NewClient("  ", WithHTTPClient(respondWith(200, ""))); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		client := newTestClient(t, respondWith(200, ""))
		if client.BaseURL() != "http://localhost:5000" {
			t.Errorf("BaseURL() = %q", client.BaseURL())
		}
	})

	t.Run("nil logger keeps nop", func(t *testing.T) {
		client, err := NewClient("http://x", WithHTTPClient(respondWith(200, "")), WithLogger(nil))
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		if client.log == nil {
			t.Error("logger should not be nil")
		}
	})
}

func TestClient_Close(t *testing.T) {
	client := newTestClient(t, respondWith(200, "[]"))
	client.Close()
	client.Close()

	if !client.IsClosed() {
		t.Fatal("IsClosed() = false after Close")
	}
	if _, err := client.GetHistory(context.Background()); !errors.Is(err, apierrors.ErrClientClosed) {
		t.Errorf("GetHistory() error = %v, want ErrClientClosed", err)
	}
}

func TestGetHistory(t *testing.T) {
	doer := respondWith(200, `[{"content":"Welcome","role":"system"},{"content":"hey","role":"bot"}]`)
	client := newTestClient(t, doer)

	msgs, err := client.GetHistory(context.Background())
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != models.RoleSystem || msgs[1].Role != models.RoleAI {
		t.Errorf("roles = %s, %s", msgs[0].Role, msgs[1].Role)
	}

	req, _ := doer.lastRequest(t)
	if req.Method != fhttp.MethodGet {
		t.Errorf("method = %s, want GET", req.Method)
	}
	if req.URL.String() != "http://localhost:5000/get_history" {
		t.Errorf("url = %s", req.URL)
	}
	if req.Header.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", req.Header.Get("Accept"))
	}
}

func TestGetHistory_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doer  *mockDoer
		check func(error) bool
	}{
		{"status", respondWith(500, "internal"), func(err error) bool {
			return apierrors.GetHTTPStatus(err) == 500 && apierrors.GetResponseBody(err) == "internal"
		}},
		{"network", respondErr(errors.New("connection refused")), apierrors.IsNetworkError},
		{"not json", respondWith(200, "<html></html>"), apierrors.IsParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestClient(t, tt.doer).GetHistory(context.Background())
			if err == nil || !tt.check(err) {
				t.Errorf("GetHistory() error = %v", err)
			}
		})
	}
}

func TestSendJSON(t *testing.T) {
	doer := respondWith(200, `{"message": "hello back"}`)
	client := newTestClient(t, doer)

	reply, err := client.SendJSON(context.Background(), "hi \"there\"")
	if err != nil {
		t.Fatalf("SendJSON() error = %v", err)
	}
	if reply != models.MessageReply(models.RoleAI, "hello back") {
		t.Errorf("reply = %+v", reply)
	}

	req, body := doer.lastRequest(t)
	if req.Method != fhttp.MethodPost {
		t.Errorf("method = %s, want POST", req.Method)
	}
	if req.URL.Path != "/send_message" {
		t.Errorf("path = %s", req.URL.Path)
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
	if body != `{"message":"hi \"there\""}` {
		t.Errorf("body = %s", body)
	}
}

func TestSendJSON_Replies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   models.Reply
	}{
		{"refresh", 200, `["x", {"refresh": true}]`, models.Reply{Kind: models.ReplyRefresh}},
		{"reset", 200, `"Chat history has been reset, system prompt retained."`, models.Reply{Kind: models.ReplyReset}},
		{"server error", 200, `{"error": "quota"}`, models.ErrorReply("quota")},
		{"error status with error body", 500, `{"error": "crashed"}`, models.ErrorReply("crashed")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := newTestClient(t, respondWith(tt.status, tt.body)).SendJSON(context.Background(), "x")
			if err != nil {
				t.Fatalf("SendJSON() error = %v", err)
			}
			if reply != tt.want {
				t.Errorf("reply = %+v, want %+v", reply, tt.want)
			}
		})
	}
}

func TestSendJSON_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		_, err := newTestClient(t, respondWith(502, "bad gateway")).SendJSON(context.Background(), "x")
		if apierrors.GetHTTPStatus(err) != 502 {
			t.Errorf("SendJSON() error = %v, want 502", err)
		}
		if apierrors.GetEndpoint(err) != models.EndpointSend {
			t.Errorf("endpoint = %q", apierrors.GetEndpoint(err))
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		_, err := newTestClient(t, respondWith(200, "{")).SendJSON(context.Background(), "x")
		if !apierrors.IsParseError(err) {
			t.Errorf("SendJSON() error = %v, want parse error", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		doer := &mockDoer{respond: func(req *fhttp.Request) (*fhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}}
		client, err := NewClient("http://x", WithHTTPClient(doer), WithTimeout(10*time.Millisecond))
		if err != nil {
			t.Fatal(err)
		}
		_, err = client.SendJSON(context.Background(), "x")
		if !apierrors.IsTimeoutError(err) {
			t.Errorf("SendJSON() error = %v, want timeout", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		doer := &mockDoer{respond: func(req *fhttp.Request) (*fhttp.Response, error) {
			return nil, req.Context().Err()
		}}
		_, err := newTestClient(t, doer).SendJSON(ctx, "x")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("SendJSON() error = %v, want context.Canceled", err)
		}
	})
}

func TestSendStream(t *testing.T) {
	stream := strings.Join([]string{
		`data: {"content": "Hi there"}`,
		`: keepalive`,
		`data: not json`,
		`data: {"content": "second"}`,
		`data: [DONE]`,
		`data: {"content": "after done"}`,
	}, "\n\n") + "\n\n"

	body := &closeTracker{Reader: strings.NewReader(stream)}
	doer := &mockDoer{respond: func(req *fhttp.Request) (*fhttp.Response, error) {
		return newResponse(200, body), nil
	}}
	client := newTestClient(t, doer)

	var got []string
	err := client.SendStream(context.Background(), "hello", func(r models.Reply) {
		got = append(got, r.Content)
	})
	if err != nil {
		t.Fatalf("SendStream() error = %v", err)
	}
	if strings.Join(got, "|") != "Hi there|second" {
		t.Errorf("replies = %q", got)
	}
	if !body.isClosed() {
		t.Error("stream body was not closed")
	}

	req, sent := doer.lastRequest(t)
	if req.Method != fhttp.MethodPost || sent != `{"message":"hello"}` {
		t.Errorf("request = %s %s", req.Method, sent)
	}
}

func TestSendStream_SingleFrame(t *testing.T) {
	client := newTestClient(t, respondWith(200, "data: {\"content\":\"Hi there\"}\n\n"))

	var got []models.Reply
	if err := client.SendStream(context.Background(), "Hello", func(r models.Reply) {
		got = append(got, r)
	}); err != nil {
		t.Fatalf("SendStream() error = %v", err)
	}
	if len(got) != 1 || got[0] != models.MessageReply(models.RoleAI, "Hi there") {
		t.Errorf("replies = %+v", got)
	}
}

func TestSendStream_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		err := newTestClient(t, respondWith(503, "down")).SendStream(context.Background(), "x", func(models.Reply) {})
		if apierrors.GetHTTPStatus(err) != 503 {
			t.Errorf("SendStream() error = %v, want 503", err)
		}
	})

	t.Run("read error", func(t *testing.T) {
		body := io.MultiReader(strings.NewReader("data: {\"content\":\"a\"}\n\n"), iotest.ErrReader(errors.New("reset")))
		doer := &mockDoer{respond: func(req *fhttp.Request) (*fhttp.Response, error) {
			return newResponse(200, io.NopCloser(body)), nil
		}}

		err := newTestClient(t, doer).SendStream(context.Background(), "x", func(models.Reply) {})
		if !apierrors.IsStreamError(err) {
			t.Fatalf("SendStream() error = %v, want stream error", err)
		}
		var streamErr *apierrors.StreamError
		if errors.As(err, &streamErr) && streamErr.Frames != 1 {
			t.Errorf("Frames = %d, want 1", streamErr.Frames)
		}
	})

	t.Run("cancel", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()
		go func() {
			_, _ = pw.Write([]byte("data: {\"content\":\"partial\"}\n\n"))
		}()

		doer := &mockDoer{respond: func(req *fhttp.Request) (*fhttp.Response, error) {
			return newResponse(200, pr), nil
		}}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := newTestClient(t, doer).SendStream(ctx, "x", func(models.Reply) { cancel() })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("SendStream() error = %v, want context.Canceled", err)
		}
	})
}

func TestSubscribe(t *testing.T) {
	stream := "event: ping\ndata: ignored\n\ndata: Hello\n\ndata: line one\ndata: line two\n\n"
	doer := respondWith(200, stream)
	client := newTestClient(t, doer)

	var events []string
	if err := client.Subscribe(context.Background(), "hello world", func(data string) {
		events = append(events, data)
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if len(events) != 2 || events[0] != "Hello" || events[1] != "line one\nline two" {
		t.Errorf("events = %q", events)
	}

	req, _ := doer.lastRequest(t)
	if req.Method != fhttp.MethodGet {
		t.Errorf("method = %s, want GET", req.Method)
	}
	if req.URL.Query().Get("message") != "hello world" {
		t.Errorf("message param = %q", req.URL.Query().Get("message"))
	}
	if req.Header.Get("Accept") != "text/event-stream" {
		t.Errorf("Accept = %q", req.Header.Get("Accept"))
	}
}

func TestSubscribe_NetworkError(t *testing.T) {
	err := newTestClient(t, respondErr(errors.New("dial tcp: refused"))).Subscribe(context.Background(), "x", func(string) {})
	if !apierrors.IsNetworkError(err) {
		t.Errorf("Subscribe() error = %v, want network error", err)
	}
}

func TestMockChatClient(t *testing.T) {
	mock := &MockChatClient{
		History:       []models.Message{{Content: "Welcome", Role: models.RoleSystem}},
		StreamReplies: []models.Reply{models.MessageReply(models.RoleAI, "a")},
		Events:        []string{"e1", "e2"},
	}

	if _, err := mock.GetHistory(context.Background()); err != nil {
		t.Fatal(err)
	}
	var n int
	_ = mock.SendStream(context.Background(), "one", func(models.Reply) { n++ })
	_ = mock.Subscribe(context.Background(), "two", func(string) { n++ })

	if n != 3 {
		t.Errorf("callbacks = %d, want 3", n)
	}
	if mock.HistoryCallCount() != 1 {
		t.Errorf("HistoryCallCount() = %d", mock.HistoryCallCount())
	}
	if sent := mock.SentMessages(); len(sent) != 2 || sent[0] != "one" {
		t.Errorf("SentMessages() = %v", sent)
	}
}
