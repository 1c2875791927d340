package apiclient

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/Kariqs/amexan-storefront/errs"
	"github.com/Kariqs/amexan-storefront/identity"
)

const (
	DefaultBaseURL    = "http://localhost:5000/api/v1"
	DefaultAuthHeader = "auth"
	DefaultTimeout    = 10 * time.Second

	msgNoResponse  = "No response from the server"
	msgBadResponse = "Invalid response from the server"
)

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	AuthHeader string
}

// Client talks to the storefront REST backend. It performs no retries: a
// failed request is reported once and the caller decides what to do.
type Client struct {
	http       *resty.Client
	authHeader string
	log        *zap.Logger
}

// apiError is the error body the backend answers with.
type apiError struct {
	Message         string `json:"message"`
	SpecificMessage string `json:"specificMessage"`
	Name            string `json:"name"`
}

func New(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.AuthHeader == "" {
		cfg.AuthHeader = DefaultAuthHeader
	}
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetLogger(log.Sugar())

	return &Client{
		http:       httpClient,
		authHeader: cfg.AuthHeader,
		log:        log,
	}
}

// request prepares an authenticated request. It fails before any network
// traffic when the identity carries no credential.
func (c *Client) request(ctx context.Context, id identity.Identity) (*resty.Request, error) {
	if err := id.Require(); err != nil {
		return nil, err
	}
	return c.http.R().
		SetContext(ctx).
		SetHeader(c.authHeader, "Bearer "+id.Token).
		SetError(&apiError{}), nil
}

func (c *Client) execute(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		if resp != nil && resp.RawResponse != nil {
			// a response arrived but its body could not be decoded
			c.log.Warn("backend response unreadable", zap.String("method", method), zap.String("path", path), zap.Error(err))
			return &errs.Error{Kind: errs.KindServer, Status: http.StatusBadGateway, Message: msgBadResponse, Err: err}
		}
		c.log.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return errs.Network(msgNoResponse, err)
	}
	if resp.IsError() {
		mapped := mapResponseError(resp)
		c.log.Debug("backend returned error",
			zap.String("method", method),
			zap.String("url", resp.Request.URL),
			zap.Int("status", resp.StatusCode()),
			zap.Error(mapped))
		return mapped
	}
	return nil
}

func mapResponseError(resp *resty.Response) error {
	status := resp.StatusCode()
	message := ""
	if body, ok := resp.Error().(*apiError); ok && body != nil {
		message = body.SpecificMessage
		if message == "" {
			message = body.Message
		}
	}

	switch status {
	case http.StatusBadRequest:
		return &errs.Error{Kind: errs.KindValidation, Status: status, Message: orDefault(message, "Bad Request")}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &errs.Error{Kind: errs.KindAuthentication, Status: status, Message: orDefault(message, "Unauthorized Access")}
	case http.StatusNotFound:
		return &errs.Error{Kind: errs.KindNotFound, Status: status, Message: orDefault(message, "Resource Not Found")}
	default:
		return errs.Server(status, orDefault(message, "An unexpected error occurred"))
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
