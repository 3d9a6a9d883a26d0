package groq

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	lumen "github.com/lumenlabs/lumen-llm-go"
)

func chunkFrame(content string) string {
	return fmt.Sprintf(`data: {"id":"c","model":"test-model","choices":[{"index":0,"delta":{"content":%q}}]}`+"\n\n", content)
}

func sseServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprint(w, line)
			flusher.Flush()
		}
	}))
}

func newStreamProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	p, err := New("test-key", WithCatalog(testCatalog()), WithBaseURL(baseURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestStream(t *testing.T) {
	server := sseServer(t,
		`data: {"id":"c","choices":[{"index":0,"delta":{"role":"assistant"}}]}`+"\n\n",
		chunkFrame("The"),
		": keep-alive\n\n",
		chunkFrame(" answer"),
		"this line is not a frame at all\n\n",
		chunkFrame(" is 42"),
		"data: [DONE]\n\n",
	)
	defer server.Close()

	p := newStreamProvider(t, server.URL)
	conv := userConversation("question?")

	events, err := p.Stream(context.Background(), conv, nil)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	var deltas []string
	var metadata *lumen.StreamMetadata
	for event := range events {
		if event.Error != nil {
			t.Fatalf("unexpected stream error: %v", event.Error)
		}
		if event.Delta != nil {
			deltas = append(deltas, *event.Delta)
		}
		if event.Metadata != nil {
			metadata = event.Metadata
		}
	}

	want := []string{"The", " answer", " is 42"}
	if len(deltas) != len(want) {
		t.Fatalf("deltas = %q, want %q", deltas, want)
	}
	for i := range want {
		if deltas[i] != want[i] {
			t.Errorf("delta[%d] = %q, want %q", i, deltas[i], want[i])
		}
	}

	if metadata == nil {
		t.Fatal("no metadata event on clean stream end")
	}
	if metadata.Model != "test-model" {
		t.Errorf("metadata model = %q", metadata.Model)
	}

	// Exactly one assistant message holding the reassembled text
	if conv.Len() != 2 {
		t.Fatalf("conversation has %d messages, want 2", conv.Len())
	}
	last, _ := conv.LastMessage()
	if last.Role != lumen.RoleAssistant || last.Text() != "The answer is 42" {
		t.Errorf("appended message = %+v", last)
	}
}

func TestStream_EmptyStream(t *testing.T) {
	server := sseServer(t, "data: [DONE]\n\n")
	defer server.Close()

	p := newStreamProvider(t, server.URL)
	conv := userConversation("hi")

	events, err := p.Stream(context.Background(), conv, nil)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	for event := range events {
		if event.Error != nil {
			t.Fatalf("unexpected stream error: %v", event.Error)
		}
	}

	// Clean end with zero deltas still commits one (empty) message
	if conv.Len() != 2 {
		t.Fatalf("conversation has %d messages, want 2", conv.Len())
	}
	last, _ := conv.LastMessage()
	if last.Text() != "" {
		t.Errorf("expected empty assistant message, got %q", last.Text())
	}
}

func TestStream_ErrorStatusBeforeStreaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer server.Close()

	p := newStreamProvider(t, server.URL)
	conv := userConversation("hi")

	events, err := p.Stream(context.Background(), conv, nil)
	if !errors.Is(err, lumen.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if events != nil {
		t.Error("expected nil channel on pre-stream error")
	}
	if conv.Len() != 1 {
		t.Errorf("conversation modified on pre-stream error")
	}
}

func TestStream_CancelMidStreamNoCommit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for i := 0; ; i++ {
			select {
			case <-r.Context().Done():
				return
			default:
			}
			fmt.Fprint(w, chunkFrame(fmt.Sprintf("word%d ", i)))
			flusher.Flush()
			time.Sleep(5 * time.Millisecond)
		}
	}))
	defer server.Close()

	p := newStreamProvider(t, server.URL)
	conv := userConversation("hi")

	ctx, cancel := context.WithCancel(context.Background())
	events, err := p.Stream(ctx, conv, nil)
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	// Consume a couple of deltas, then walk away
	received := 0
	for event := range events {
		if event.Delta != nil {
			received++
			if received == 2 {
				cancel()
			}
		}
	}
	cancel()

	if received < 2 {
		t.Fatalf("received only %d deltas before cancellation", received)
	}
	if conv.Len() != 1 {
		t.Errorf("cancelled stream committed a message: %d messages", conv.Len())
	}
}

func TestStream_InvalidOptions(t *testing.T) {
	p, err := New("test-key", WithCatalog(testCatalog()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts := &lumen.GenerateOptions{TopP: float64Ptr(2.0)}
	events, err := p.Stream(context.Background(), userConversation("hi"), opts)
	if !errors.Is(err, lumen.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
	if events != nil {
		t.Error("expected nil channel for invalid options")
	}
}
