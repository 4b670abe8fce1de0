package clients

import (
	"context"
	"fmt"
	"net/url"
)

// Message is an outbound notification. At least one of Text and HTML must be
// set.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// SendMessage submits a message through the Mailgun messages endpoint. The
// client is expected to be rooted at the sending domain, e.g.
// https://api.mailgun.net/v3/mg.example.com.
func SendMessage(ctx context.Context, c *Client, from string, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("a recipient for the message must be supplied")
	}
	if msg.Subject == "" {
		return fmt.Errorf("a subject for the message must be supplied")
	}
	if msg.Text == "" && msg.HTML == "" {
		return fmt.Errorf("a body for the message must be supplied")
	}

	form := url.Values{}
	form.Set("from", from)
	form.Set("to", msg.To)
	form.Set("subject", msg.Subject)
	if msg.Text != "" {
		form.Set("text", msg.Text)
	}
	if msg.HTML != "" {
		form.Set("html", msg.HTML)
	}

	if err := c.PostForm(ctx, "/messages", form, nil); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// MailgunNotifier adapts the message API to the notifier capability the
// checkout service depends on.
type MailgunNotifier struct {
	Client *Client
	From   string
}

func (n *MailgunNotifier) SendMessage(ctx context.Context, msg Message) error {
	return SendMessage(ctx, n.Client, n.From, msg)
}
