// Package sms is the outbound provider client. The provider contract is a
// single templated GET request; the response body is only inspected for a
// non-2xx status.
package sms

import (
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const defaultTimeout = 10 * time.Second

var passwordParam = regexp.MustCompile(`password=[^&]+`)

// Client sends SMS requests to the HTTP gateway configured in settings.
type Client struct {
	http    *fasthttp.Client
	timeout time.Duration
	log     zerolog.Logger
}

func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		timeout: timeout,
		log:     log,
	}
}

// Send issues the provider GET. The URL is fully rendered by the caller;
// credentials embedded in it are masked before logging.
func (c *Client) Send(url string) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("sms request: %w", err)
	}

	status := resp.StatusCode()
	c.log.Debug().
		Int("status", status).
		Str("url", MaskCredentials(url)).
		Msg("sms provider response")

	if status < 200 || status > 299 {
		return fmt.Errorf("sms provider returned status %d", status)
	}
	return nil
}

// MaskCredentials hides the password query parameter for log output.
func MaskCredentials(url string) string {
	return passwordParam.ReplaceAllString(url, "password=***")
}
