package liveapi

import "net/http"

// Subscription is the capability token returned by a protocol client when an
// event handler is registered. Surrendering it (Cancel) is the only way to
// unregister the handler.
type Subscription interface {
	Cancel()
}

type ClientOptions struct {
	// APIKey authenticates the connection. When empty, clients fall back to
	// their provider-specific environment variable.
	APIKey string
	// Endpoint overrides the provider's default websocket endpoint.
	Endpoint string
	// HTTPClient is used for non-websocket preflight requests.
	HTTPClient *http.Client
}

type ClientOption func(*ClientOptions)

func WithAPIKey(apiKey string) ClientOption {
	return func(o *ClientOptions) { o.APIKey = apiKey }
}

func WithEndpoint(endpoint string) ClientOption {
	return func(o *ClientOptions) { o.Endpoint = endpoint }
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *ClientOptions) { o.HTTPClient = client }
}
