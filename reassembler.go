package lumen

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// sseDataPrefix is the event-prefix token on payload lines of a server-sent
// -event style stream.
const sseDataPrefix = "data:"

// sseTerminator is the conventional end-of-stream payload.
const sseTerminator = "[DONE]"

// DeltaDecoder extracts the incremental text fragment from one event payload
// (the line with its event prefix already stripped). Returning ok=false drops
// the frame: malformed or partial chunks and control events without a text
// field are discarded without failing the stream.
type DeltaDecoder func(payload []byte) (delta string, ok bool)

// StreamSession accumulates the text fragments of one streaming call and
// commits the reassembled result to the conversation exactly once. A session
// is ephemeral: it exists for the duration of a single call and must not be
// reused after Commit.
type StreamSession struct {
	conv      *Conversation
	buf       strings.Builder
	committed bool
}

// NewStreamSession creates a session that will commit into conv.
func NewStreamSession(conv *Conversation) *StreamSession {
	return &StreamSession{conv: conv}
}

// Append adds a successfully decoded fragment to the accumulator.
func (s *StreamSession) Append(delta string) {
	s.buf.WriteString(delta)
}

// Content returns the text accumulated so far.
func (s *StreamSession) Content() string {
	return s.buf.String()
}

// Committed reports whether the final message has been appended.
func (s *StreamSession) Committed() bool {
	return s.committed
}

// Commit appends one assistant message holding the accumulated text, which
// may be empty if no fragments were ever received. Repeated calls are no-ops:
// a session commits at most once per streaming call.
func (s *StreamSession) Commit(usage *UsageData) {
	if s.committed {
		return
	}
	s.committed = true
	s.conv.AddMessage(Message{
		Role:    RoleAssistant,
		Content: s.buf.String(),
		Usage:   usage,
	})
}

// Reassemble consumes a line-oriented event stream, extracting incremental
// text fragments with decode, accumulating them in session, and emitting each
// fragment on events as it arrives. When the stream ends cleanly (EOF or the
// [DONE] terminator) the session is committed: exactly one assistant message
// whose content equals the concatenation of all emitted fragments, in
// emission order.
//
// Per-frame behavior: the event prefix is stripped when present, empty and
// comment lines are keep-alive noise and are skipped, and frames decode
// rejects are dropped silently. Frame drops never fail the stream.
//
// Failure behavior is deliberately hard: a transport read error, or ctx
// cancellation while emitting, aborts reassembly and returns without
// committing, so an abandoned or broken stream never appends a partial
// result. The caller owns the events channel and closes it after Reassemble
// returns.
func Reassemble(ctx context.Context, session *StreamSession, r io.Reader, decode DeltaDecoder, events chan<- StreamEvent) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip keep-alives and SSE comments
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, sseDataPrefix))
		if payload == "" {
			continue
		}
		if payload == sseTerminator {
			break
		}

		delta, ok := decode([]byte(payload))
		if !ok {
			// Malformed or delta-less frame, tolerated transport noise
			continue
		}

		session.Append(delta)

		fragment := delta
		select {
		case <-ctx.Done():
			return ctx.Err()
		case events <- StreamEvent{Delta: &fragment}:
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("lumen: error reading stream: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	session.Commit(nil)
	return nil
}
