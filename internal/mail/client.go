package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrRejected is returned when the relay refuses a message permanently,
// typically for an invalid recipient address.
var ErrRejected = errors.New("mail: message rejected by relay")

// Message is one outbound email.
type Message struct {
	From     string `json:"from"`
	FromName string `json:"fromName,omitempty"`
	ReplyTo  string `json:"replyTo,omitempty"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// Sender defines the contract for delivering outbound email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// RelayClient implements Sender against an HTTP mail relay.
type RelayClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewRelayClient constructs a new HTTP-backed mail relay client.
func NewRelayClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) (*RelayClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse mail relay url: %w", err)
	}
	return &RelayClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Send posts the message to the relay's /messages endpoint.
func (c *RelayClient) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode mail message: %w", err)
	}

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: "/messages"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return nil
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return ErrRejected
	default:
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("to", msg.To).
			Msg("mail: unexpected relay status")
		return fmt.Errorf("mail: relay returned %d", resp.StatusCode)
	}
}
