// Package captcha verifies reCAPTCHA tokens submitted with signups.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultVerifyURL is Google's reCAPTCHA verification endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

var (
	// ErrMissingToken is returned when no token was submitted.
	ErrMissingToken = errors.New("captcha token is missing")
	// ErrRejected is returned when the provider rejects the token.
	ErrRejected = errors.New("captcha verification failed")
)

// Verifier checks a CAPTCHA token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Disabled accepts every token. It is used when no secret is configured.
type Disabled struct{}

// Verify implements Verifier.
func (Disabled) Verify(context.Context, string, string) error { return nil }

// ReCaptcha verifies tokens against the siteverify API.
type ReCaptcha struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// NewReCaptcha creates a verifier. An empty verifyURL uses DefaultVerifyURL.
func NewReCaptcha(secret, verifyURL string) *ReCaptcha {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &ReCaptcha{
		secret:    secret,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token to the provider and reports whether it passed.
func (r *ReCaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	if strings.TrimSpace(token) == "" {
		return ErrMissingToken
	}

	form := url.Values{}
	form.Set("secret", r.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("call captcha provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("captcha provider returned status code: %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode captcha response: %w", err)
	}
	if !body.Success {
		return ErrRejected
	}
	return nil
}
