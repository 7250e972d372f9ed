package assistant

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// EventKind tells recognizer events apart.
type EventKind int

const (
	EventTranscript EventKind = iota
	EventError
	EventEnd
)

// Event is one notification from a speech recognizer.
type Event struct {
	Kind       EventKind
	Transcript string
	Code       string
}

// Recognizer produces transcripts. Start returns a channel of events;
// cancelling ctx ends the session.
type Recognizer interface {
	Start(ctx context.Context) (<-chan Event, error)
}

type captureSession struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Listening reports whether a capture session is active.
func (a *Assistant) Listening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.capture != nil
}

// ToggleListening starts a capture session, or stops the active one. It
// returns whether capture is active afterwards.
func (a *Assistant) ToggleListening(ctx context.Context) (bool, error) {
	if a.stopCapture() {
		return false, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.capture != nil {
		return true, nil
	}
	if a.recognizer == nil {
		a.errMsg = a.text.CaptureUnsupported
		return false, ErrCaptureUnsupported
	}

	sessCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	events, err := a.recognizer.Start(sessCtx)
	if err != nil {
		cancel()
		a.errMsg = fmt.Sprintf("%s: %v", a.text.CaptureError, err)
		return false, fmt.Errorf("failed to start capture: %w", err)
	}
	sess := &captureSession{cancel: cancel, done: make(chan struct{})}
	a.capture = sess
	a.errMsg = ""
	go a.listen(sessCtx, sess, events)
	a.logger.Info("voice capture started")
	return true, nil
}

// CaptureDone returns a channel closed when the active capture session
// ends. With no active session the channel is already closed.
func (a *Assistant) CaptureDone() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.capture == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return a.capture.done
}

// stopCapture ends the active session and waits for its goroutine. It
// reports whether a session was active.
func (a *Assistant) stopCapture() bool {
	a.mu.Lock()
	sess := a.capture
	a.capture = nil
	a.mu.Unlock()
	if sess == nil {
		return false
	}
	sess.cancel()
	<-sess.done
	a.logger.Info("voice capture stopped")
	return true
}

func (a *Assistant) listen(ctx context.Context, sess *captureSession, events <-chan Event) {
	defer close(sess.done)
	defer sess.cancel()
	defer a.captureEnded(sess, "")

	for {
		var ev Event
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			ev = e
		}
		switch ev.Kind {
		case EventTranscript:
			outcome, err := a.HandleTranscript(ctx, ev.Transcript)
			if err != nil {
				a.logger.Error("voice command failed", "outcome", outcome, "error", err)
				continue
			}
			a.logger.Debug("voice command handled", "outcome", outcome)
		case EventError:
			a.logger.Error("speech recognition error", "code", ev.Code)
			a.captureEnded(sess, ev.Code)
			return
		case EventEnd:
			return
		}
	}
}

// captureEnded marks sess idle if it is still the active session. A
// non-empty code is reported as a capture error.
func (a *Assistant) captureEnded(sess *captureSession, code string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.capture != sess {
		return
	}
	a.capture = nil
	if code != "" {
		a.errMsg = fmt.Sprintf("%s: %s", a.text.CaptureError, code)
	}
}

// LineRecognizer treats every non-blank line of a reader as one final
// transcript. It ends the session at EOF.
type LineRecognizer struct {
	r io.Reader
}

// NewLineRecognizer returns a recognizer reading from r.
func NewLineRecognizer(r io.Reader) *LineRecognizer {
	return &LineRecognizer{r: r}
}

// Start implements Recognizer.
func (l *LineRecognizer) Start(ctx context.Context) (<-chan Event, error) {
	events := make(chan Event)
	go func() {
		defer close(events)
		send := func(ev Event) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		scanner := bufio.NewScanner(l.r)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !send(Event{Kind: EventTranscript, Transcript: line}) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			send(Event{Kind: EventError, Code: err.Error()})
			return
		}
		send(Event{Kind: EventEnd})
	}()
	return events, nil
}
