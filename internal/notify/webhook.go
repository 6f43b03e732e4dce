package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// WebhookNotifier posts reminders as JSON to a configured receiver, for
// bridging to push services that accept a title/body payload.
type WebhookNotifier struct {
	url     string
	client  *fasthttp.Client
	timeout time.Duration
}

type webhookPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		url:     url,
		client:  &fasthttp.Client{},
		timeout: timeout,
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(webhookPayload{Title: title, Body: body})
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(n.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	if err := n.client.DoTimeout(req, resp, n.timeout); err != nil {
		return err
	}
	if code := resp.StatusCode(); code >= 300 {
		return fmt.Errorf("webhook returned status %d", code)
	}
	return nil
}
