package phoenixd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// isAddressResolutionError reports whether phoenixd failed to reach the
// Lightning Address domain, as opposed to a payment failure.
func isAddressResolutionError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return strings.Contains(apiErr.Body, "could not connect") || strings.Contains(apiErr.Body, "cannot resolve")
	}
	var payErr *PaymentError
	if errors.As(err, &payErr) {
		return strings.Contains(payErr.Reason, "could not connect") || strings.Contains(payErr.Reason, "cannot resolve")
	}
	return false
}

type lnurlPayMetadata struct {
	Status         string `json:"status"`
	Tag            string `json:"tag"`
	Callback       string `json:"callback"`
	MinSendable    int64  `json:"minSendable"`
	MaxSendable    int64  `json:"maxSendable"`
	CommentAllowed int64  `json:"commentAllowed"`
}

type lnurlPayInvoice struct {
	Status string `json:"status"`
	Pr     string `json:"pr"`
}

// PayLnAddressWithFallback pays a Lightning Address through phoenixd and, when
// phoenixd cannot resolve the address domain itself, falls back to resolving
// the LNURL-pay endpoint directly and paying the returned invoice.
func (c *Client) PayLnAddressWithFallback(ctx context.Context, address string, amountSat int64, message string) (*PayResult, error) {
	result, err := c.PayLnAddress(ctx, address, amountSat, message)
	if err == nil {
		return result, nil
	}
	if !isAddressResolutionError(err) {
		return nil, err
	}

	invoice, err := c.resolveLnAddressInvoice(ctx, address, amountSat, message)
	if err != nil {
		return nil, err
	}
	return c.PayInvoice(ctx, invoice, 0)
}

func (c *Client) resolveLnAddressInvoice(ctx context.Context, address string, amountSat int64, message string) (string, error) {
	user, domain, ok := strings.Cut(strings.TrimSpace(address), "@")
	if !ok || user == "" || domain == "" {
		return "", errors.New("invalid lightning address format")
	}

	meta := &lnurlPayMetadata{}
	if err := c.fetchExternalJSON(ctx, "https://"+domain+"/.well-known/lnurlp/"+url.PathEscape(user), meta); err != nil {
		return "", fmt.Errorf("fetch lnurl metadata: %w", err)
	}
	if meta.Status == "ERROR" {
		return "", errors.New("lnurl endpoint returned an error")
	}
	if meta.Tag != "payRequest" {
		return "", errors.New("not a valid lnurl-pay endpoint")
	}

	amountMsat := amountSat * 1000
	if meta.MinSendable > 0 && amountMsat < meta.MinSendable {
		return "", fmt.Errorf("amount too low, minimum: %d sats", meta.MinSendable/1000)
	}
	if meta.MaxSendable > 0 && amountMsat > meta.MaxSendable {
		return "", fmt.Errorf("amount too high, maximum: %d sats", meta.MaxSendable/1000)
	}

	callback, err := url.Parse(meta.Callback)
	if err != nil {
		return "", fmt.Errorf("invalid lnurl callback: %w", err)
	}
	query := callback.Query()
	query.Set("amount", strconv.FormatInt(amountMsat, 10))
	if message != "" && meta.CommentAllowed > 0 && int64(len(message)) <= meta.CommentAllowed {
		query.Set("comment", message)
	}
	callback.RawQuery = query.Encode()

	invoice := &lnurlPayInvoice{}
	if err := c.fetchExternalJSON(ctx, callback.String(), invoice); err != nil {
		return "", fmt.Errorf("fetch lnurl invoice: %w", err)
	}
	if invoice.Status == "ERROR" || invoice.Pr == "" {
		return "", errors.New("lnurl callback did not return an invoice")
	}

	return invoice.Pr, nil
}

// fetchExternalJSON performs an unauthenticated GET against a third-party
// LNURL endpoint.
func (c *Client) fetchExternalJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("lnurl request failed: status=%d", resp.StatusCode)
	}

	return json.Unmarshal(payload, out)
}
