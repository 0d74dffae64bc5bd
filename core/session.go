package live

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/koscakluka/live-core/core/events"
	"github.com/koscakluka/live-core/core/liveapi"
	"github.com/koscakluka/live-core/core/liveapi/gemini"
	"go.opentelemetry.io/otel/codes"
)

const defaultToolResponseDelay = 200 * time.Millisecond

// Session orchestrates one bidirectional live conversation: it owns the
// connection state, bridges protocol events to application state without
// losing or reordering turn and tool-call semantics, and feeds model audio
// into the playback pipeline.
//
// All session state is mutated only by the session itself; consumers read it
// through the accessor methods.
type Session struct {
	client LiveClient

	audioOutput *audioOutput
	pipeline    *audioPipeline

	tools             map[string]Tool
	toolResponseDelay time.Duration

	playbackBufferDepth int
	meterInterval       time.Duration
	onVolume            func(volume float64)

	configMu sync.Mutex
	config   *liveapi.SessionConfig

	mu            sync.Mutex
	connected     bool
	subscriptions []liveapi.Subscription
	responses     []string
	userMessages  []string
	volume        float64
	ctx           context.Context

	pending *turnBuffer

	closeOnce sync.Once
}

func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		audioOutput:       newAudioOutput(nil),
		tools:             map[string]Tool{},
		toolResponseDelay: defaultToolResponseDelay,
		pending:           newTurnBuffer(),
		ctx:               context.Background(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = gemini.NewClient()
	}
	s.pipeline = newAudioPipeline(s.audioOutput, s.playbackBufferDepth, s.meterInterval, s.setVolume)

	return s
}

// SetConfig replaces the session configuration. The value is captured at
// Connect time, so changing it has no effect on an already-open connection;
// it applies to the next Connect.
func (s *Session) SetConfig(config liveapi.SessionConfig) {
	s.configMu.Lock()
	defer s.configMu.Unlock()

	s.config = &config
}

// Connect opens the live connection using the configuration captured at call
// time. An already-open connection is torn down first so at most one
// connection is ever live. Fails with ErrConfigurationMissing when no
// configuration was set.
func (s *Session) Connect(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "connect live session")
	defer span.End()

	config, err := s.snapshotConfig()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.Disconnect(); err != nil {
		span.RecordError(err)
	}

	config.Tools = append(slices.Clone(config.Tools), s.toolDeclarations()...)

	if err := s.client.Connect(ctx, config); err != nil {
		err = fmt.Errorf("%w: %w", ErrConnectionFailed, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.armSubscriptions(); err != nil {
		_ = s.client.Disconnect()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.pipeline.Start()

	s.mu.Lock()
	s.connected = true
	s.ctx = context.WithoutCancel(ctx)
	s.mu.Unlock()

	return nil
}

// Disconnect tears down the live connection and surrenders every armed event
// subscription. Idempotent; safe to call from any state. Accumulated turn
// history is kept.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	subscriptions := s.subscriptions
	s.subscriptions = nil
	s.connected = false
	s.mu.Unlock()

	for _, subscription := range subscriptions {
		subscription.Cancel()
	}

	s.pipeline.Interrupt()

	if err := s.client.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect live client: %w", err)
	}
	return nil
}

// Close disposes the session: it disconnects and tears down the playback
// pipeline. The session must not be used afterwards.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if err := s.Disconnect(); err != nil {
			logger.Warn("failed to disconnect during close", "error", err)
		}
		s.pipeline.Close()
	})
}

// Send submits one user-authored text turn to the model. The submitted text
// becomes visible in UserMessages through the client content echo.
func (s *Session) Send(text string) error {
	if !s.Connected() {
		return ErrNotConnected
	}

	return s.client.Send([]liveapi.Turn{{
		Role:  "user",
		Parts: []liveapi.Part{{Text: text}},
	}}, true)
}

// Connected reports whether the session currently holds a live connection.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.connected
}

// Volume is the instantaneous playback loudness, 0.0 for silence.
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.volume
}

// TextResponses returns the finalized model turns in completion order.
func (s *Session) TextResponses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.responses)
}

// UserMessages returns the finalized user turns in submission order.
func (s *Session) UserMessages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.userMessages)
}

func (s *Session) snapshotConfig() (liveapi.SessionConfig, error) {
	s.configMu.Lock()
	defer s.configMu.Unlock()

	if s.config == nil {
		return liveapi.SessionConfig{}, ErrConfigurationMissing
	}

	var snapshot liveapi.SessionConfig
	if err := copier.CopyWithOption(&snapshot, s.config, copier.Option{DeepCopy: true}); err != nil {
		return liveapi.SessionConfig{}, fmt.Errorf("failed to snapshot session config: %w", err)
	}
	// Declarations hold reflected schema pointers that deep copying cannot
	// reproduce faithfully; they are treated as immutable and shared.
	snapshot.Tools = slices.Clone(s.config.Tools)

	return snapshot, nil
}

func (s *Session) toolDeclarations() []liveapi.ToolDeclaration {
	names := make([]string, 0, len(s.tools))
	for name := range s.tools {
		names = append(names, name)
	}
	slices.Sort(names)

	declarations := make([]liveapi.ToolDeclaration, 0, len(names))
	for _, name := range names {
		declarations = append(declarations, s.tools[name].declaration)
	}
	return declarations
}

// armSubscriptions registers every event handler on the protocol client and
// retains the returned tokens so Disconnect can surrender all of them. A
// partial failure unwinds the handlers armed so far: either every handler is
// registered exactly once or none is.
func (s *Session) armSubscriptions() error {
	registrations := []struct {
		kind    events.Kind
		handler func(events.Event)
	}{
		{events.KindConnectionClosed, s.handleConnectionClosed},
		{events.KindInterrupted, s.handleInterrupted},
		{events.KindAudioFrame, s.handleAudioFrame},
		{events.KindModelTurn, s.handleModelTurn},
		{events.KindTurnComplete, s.handleTurnComplete},
		{events.KindClientContent, s.handleClientContent},
		{events.KindToolCall, s.handleToolCall},
		{events.KindToolCallCancellation, s.handleToolCallCancellation},
	}

	subscriptions := make([]liveapi.Subscription, 0, len(registrations))
	for _, registration := range registrations {
		subscription, err := s.client.Subscribe(registration.kind, registration.handler)
		if err != nil {
			for _, armed := range subscriptions {
				armed.Cancel()
			}
			return fmt.Errorf("failed to subscribe to %q events: %w", registration.kind, err)
		}
		subscriptions = append(subscriptions, subscription)
	}

	s.mu.Lock()
	s.subscriptions = subscriptions
	s.mu.Unlock()

	return nil
}

func (s *Session) handleConnectionClosed(events.Event) {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()
}

func (s *Session) handleInterrupted(events.Event) {
	s.pipeline.Interrupt()
}

func (s *Session) handleAudioFrame(event events.Event) {
	frame, ok := event.(events.AudioFrame)
	if !ok {
		return
	}

	s.pipeline.Enqueue(frame.Audio)
}

func (s *Session) handleModelTurn(event events.Event) {
	content, ok := event.(events.ModelTurn)
	if !ok {
		return
	}

	for _, segment := range content.Segments {
		s.pending.AddSegment(segment)
	}
}

func (s *Session) handleTurnComplete(events.Event) {
	text, ok := s.pending.Finalize()
	if !ok {
		// A turn that produced no text (e.g. audio-only) is noise, not an
		// error; nothing is appended.
		return
	}

	s.mu.Lock()
	s.responses = append(s.responses, text)
	s.mu.Unlock()
}

func (s *Session) handleClientContent(event events.Event) {
	content, ok := event.(events.ClientContent)
	if !ok {
		return
	}

	var parts []string
	for _, turn := range content.Turns {
		for _, part := range turn.Parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
	}

	text := strings.Join(parts, " ")
	if text == "" {
		return
	}

	s.mu.Lock()
	s.userMessages = append(s.userMessages, text)
	s.mu.Unlock()
}

func (s *Session) handleToolCall(event events.Event) {
	toolCall, ok := event.(events.ToolCall)
	if !ok {
		return
	}

	s.respondToToolCall(toolCall)
}

func (s *Session) handleToolCallCancellation(event events.Event) {
	cancellation, ok := event.(events.ToolCallCancellation)
	if !ok {
		return
	}

	// Responses already owed are still sent: an invocation the session has
	// observed must settle exactly once regardless of later cancellation.
	logger.Debug("tool call cancellation received", "ids", cancellation.IDs)
}

func (s *Session) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctx
}

func (s *Session) setVolume(volume float64) {
	s.mu.Lock()
	s.volume = volume
	callback := s.onVolume
	s.mu.Unlock()

	if callback != nil {
		callback(volume)
	}
}
