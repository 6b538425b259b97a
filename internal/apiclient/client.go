// Package apiclient es el unico emisor de requests hacia el backend del asistente.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// TokenSource se consulta antes de cada request.
type TokenSource interface {
	AccessToken() (string, bool)
}

// Client envia requests contra una base URL fija. No intercepta respuestas:
// sin reintentos, sin refresh y sin redireccion ante 401.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// Request describe una llamada. JSON y Form son excluyentes; Anonymous omite el bearer.
type Request struct {
	Method    string
	Path      string
	JSON      any
	Form      *Form
	Anonymous bool
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewClient construye el cliente. timeout 0 deja la duracion en manos del contexto.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// WithHTTPClient reemplaza el transporte; pensado para tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.client = hc
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Do envia el request y devuelve la respuesta cruda. Un status >= 400 se
// devuelve como *APIError junto a la respuesta.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	body, contentType, err := encodeBody(r)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+r.Path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("X-Request-ID", requestID)

	authenticated := false
	if !r.Anonymous && c.tokens != nil {
		if token, ok := c.tokens.AccessToken(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
			authenticated = true
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.Path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, r.Method, r.Path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	c.logger.Debug("request",
		zap.String("request_id", requestID),
		zap.String("method", r.Method),
		zap.String("path", r.Path),
		zap.Bool("authenticated", authenticated),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}
	if resp.StatusCode >= 400 {
		return out, newAPIError(resp.StatusCode, respBody)
	}
	return out, nil
}

// DoJSON envia el request y decodifica el cuerpo en out (si no es nil).
func (c *Client) DoJSON(ctx context.Context, r Request, out any) error {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return fmt.Errorf("%w: empty body for %s %s", ErrUnexpectedResponse, r.Method, r.Path)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrUnexpectedResponse, r.Method, r.Path, err)
	}
	return nil
}

func encodeBody(r Request) (io.Reader, string, error) {
	switch {
	case r.Form != nil && r.JSON != nil:
		return nil, "", fmt.Errorf("request %s %s: JSON and Form are exclusive", r.Method, r.Path)
	case r.Form != nil:
		return strings.NewReader(r.Form.Encode()), contentTypeForm, nil
	case r.JSON != nil:
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("marshal request: %w", err)
		}
		return bytes.NewReader(data), contentTypeJSON, nil
	default:
		return nil, "", nil
	}
}
