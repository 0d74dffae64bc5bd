package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/live-core/core/events"
	"github.com/koscakluka/live-core/core/liveapi"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
	metadataBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	handshakeTimeout = 15 * time.Second
)

// Client is a streaming protocol client for the bidirectional live endpoint.
//
// It guarantees at most one live websocket per instance: Connect fully tears
// down any prior connection before dialing a new one. Decoded server events
// are dispatched to subscribers in arrival order on a single goroutine.
type Client struct {
	options liveapi.ClientOptions

	mu       sync.Mutex
	ws       *websocket.Conn
	readDone chan struct{}

	// writeMu serializes websocket writes; the transport allows one
	// concurrent writer.
	writeMu sync.Mutex

	subscribersMu sync.Mutex
	subscribers   map[events.Kind][]*subscription
}

func NewClient(opts ...liveapi.ClientOption) *Client {
	client := &Client{
		subscribers: map[events.Kind][]*subscription{},
	}
	for _, opt := range opts {
		opt(&client.options)
	}

	if client.options.Endpoint == "" {
		client.options.Endpoint = defaultEndpoint
	}
	if client.options.HTTPClient == nil {
		client.options.HTTPClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		}
	}

	return client
}

// Connect establishes the websocket connection and submits the session setup
// message. A previously open connection is torn down first so the client is
// never observably connected twice.
func (c *Client) Connect(ctx context.Context, config liveapi.SessionConfig) error {
	ctx, span := tracer.Start(ctx, "connect live session")
	defer span.End()
	span.SetAttributes(attribute.String("session.model", config.Model))

	if err := c.Disconnect(); err != nil {
		span.RecordError(err)
	}

	apiKey := c.options.APIKey
	if apiKey == "" {
		var ok bool
		if apiKey, ok = os.LookupEnv("GEMINI_API_KEY"); !ok {
			err := fmt.Errorf("gemini api key not found")
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
	}

	c.preflightModel(ctx, apiKey, config.Model)

	urlValues := url.Values{}
	urlValues.Set("key", apiKey)

	endpoint, err := url.Parse(c.options.Endpoint)
	if err != nil {
		err = fmt.Errorf("invalid endpoint: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	endpoint.RawQuery = urlValues.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		err = fmt.Errorf("failed to open socket connection to live endpoint: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := c.writeJSON(conn, setupMessageFromConfig(config)); err != nil {
		_ = conn.Close()
		err = fmt.Errorf("failed to send setup message: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	readDone := make(chan struct{})
	c.mu.Lock()
	c.ws = conn
	c.readDone = readDone
	c.mu.Unlock()

	go c.processIncomingMessages(conn, readDone)

	return nil
}

// Disconnect closes the live connection if one is open. It is safe to call in
// any state and returns once the read loop has exited.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	conn := c.ws
	readDone := c.readDone
	c.ws = nil
	c.readDone = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()

	if err := conn.Close(); err != nil {
		if readDone != nil {
			<-readDone
		}
		return fmt.Errorf("failed to close websocket: %w", err)
	}

	if readDone != nil {
		<-readDone
	}
	return nil
}

// Connected reports whether a live websocket is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ws != nil
}

// Send submits user-authored turns over the connection. The turns are also
// echoed to client_content subscribers so session state observes submitted
// turns in stream order.
func (c *Client) Send(turns []liveapi.Turn, turnComplete bool) error {
	message := clientContentMessage{
		ClientContent: clientContentPayload{TurnComplete: turnComplete},
	}
	for _, turn := range turns {
		role := turn.Role
		if role == "" {
			role = "user"
		}
		payload := contentPayload{Role: role}
		for _, part := range turn.Parts {
			payload.Parts = append(payload.Parts, partPayload{Text: part.Text})
		}
		message.ClientContent.Turns = append(message.ClientContent.Turns, payload)
	}

	if err := c.send(message); err != nil {
		return fmt.Errorf("failed to send client content: %w", err)
	}

	echoed := make([]events.ClientTurn, 0, len(turns))
	for _, turn := range turns {
		echo := events.ClientTurn{Role: turn.Role}
		for _, part := range turn.Parts {
			echo.Parts = append(echo.Parts, part.Text)
		}
		echoed = append(echoed, echo)
	}
	c.dispatch(events.NewClientContent(echoed))

	return nil
}

// SendToolResponse replies to previously received function invocations. Each
// response carries the id of the invocation it settles.
func (c *Client) SendToolResponse(response liveapi.ToolResponse) error {
	message := toolResponseMessage{}
	for _, functionResponse := range response.FunctionResponses {
		message.ToolResponse.FunctionResponses = append(
			message.ToolResponse.FunctionResponses,
			functionResponsePayload{ID: functionResponse.ID, Response: functionResponse.Response},
		)
	}

	if err := c.send(message); err != nil {
		return fmt.Errorf("failed to send tool response: %w", err)
	}
	return nil
}

// Subscribe registers handler for events of the given kind and returns the
// capability token that unregisters it. Handlers run on the dispatch
// goroutine in event arrival order.
func (c *Client) Subscribe(kind events.Kind, handler func(events.Event)) (liveapi.Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler must not be nil")
	}

	sub := &subscription{client: c, kind: kind, id: uuid.NewString(), handler: handler}

	c.subscribersMu.Lock()
	c.subscribers[kind] = append(c.subscribers[kind], sub)
	c.subscribersMu.Unlock()

	return sub, nil
}

type subscription struct {
	client  *Client
	kind    events.Kind
	id      string
	handler func(events.Event)

	cancelOnce sync.Once
}

func (s *subscription) Cancel() {
	s.cancelOnce.Do(func() {
		s.client.subscribersMu.Lock()
		defer s.client.subscribersMu.Unlock()

		kept := s.client.subscribers[s.kind][:0]
		for _, sub := range s.client.subscribers[s.kind] {
			if sub.id != s.id {
				kept = append(kept, sub)
			}
		}
		s.client.subscribers[s.kind] = kept
	})
}

func (c *Client) dispatch(event events.Event) {
	c.subscribersMu.Lock()
	subscribers := append([]*subscription{}, c.subscribers[event.Kind()]...)
	c.subscribersMu.Unlock()

	for _, sub := range subscribers {
		sub.handler(event)
	}
}

func (c *Client) send(message any) error {
	c.mu.Lock()
	conn := c.ws
	c.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	return c.writeJSON(conn, message)
}

func (c *Client) writeJSON(conn *websocket.Conn, message any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return conn.WriteJSON(message)
}

// preflightModel checks that the configured model exists before dialing. The
// check is advisory: any failure degrades to a log line because the live
// endpoint remains the authority on whether the session is accepted.
func (c *Client) preflightModel(ctx context.Context, apiKey string, model string) {
	if model == "" {
		return
	}

	requestURL := fmt.Sprintf("%s/%s?key=%s", metadataBaseURL, url.PathEscape(model), url.QueryEscape(apiKey))
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return
	}

	response, err := c.options.HTTPClient.Do(request)
	if err != nil {
		logger.WarnContext(ctx, "model metadata preflight failed", "model", model, "error", err)
		return
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		logger.WarnContext(ctx, "model metadata preflight rejected", "model", model, "status", response.StatusCode)
	}
}

func setupMessageFromConfig(config liveapi.SessionConfig) setupMessage {
	payload := setupPayload{Model: config.Model, Extra: config.Extra}

	generationConfig := generationConfigPayload{
		Temperature:     config.GenerationConfig.Temperature,
		MaxOutputTokens: config.GenerationConfig.MaxOutputTokens,
	}
	for _, modality := range config.GenerationConfig.ResponseModalities {
		generationConfig.ResponseModalities = append(generationConfig.ResponseModalities, string(modality))
	}
	if len(generationConfig.ResponseModalities) > 0 ||
		generationConfig.Temperature != nil ||
		generationConfig.MaxOutputTokens != nil {
		payload.GenerationConfig = &generationConfig
	}

	if len(config.SystemInstruction) > 0 {
		instruction := contentPayload{}
		for _, text := range config.SystemInstruction {
			instruction.Parts = append(instruction.Parts, partPayload{Text: text})
		}
		payload.SystemInstruction = &instruction
	}

	if len(config.Tools) > 0 {
		tool := toolPayload{}
		for _, declaration := range config.Tools {
			tool.FunctionDeclarations = append(tool.FunctionDeclarations, functionDeclarationPayload{
				Name:        declaration.Name,
				Description: declaration.Description,
				Parameters:  declaration.Parameters,
			})
		}
		payload.Tools = append(payload.Tools, tool)
	}
	if config.EnableSearch {
		payload.Tools = append(payload.Tools, toolPayload{GoogleSearch: &struct{}{}})
	}

	return setupMessage{Setup: payload}
}
