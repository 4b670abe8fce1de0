// Package receipt renders purchase receipts for completed orders. Templates
// are parsed once at construction; rendering is a pure data-in, strings-out
// step so a malformed template is caught at startup rather than mid-checkout.
package receipt

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// AppInfo identifies the application on every receipt.
type AppInfo struct {
	Name       string
	DomainURL  string
	SupportURL string
}

// LineItem is one purchased line on a receipt.
type LineItem struct {
	Description string
	Amount      string
}

// Data carries the per-order fields of a receipt.
type Data struct {
	Name          string
	PurchaseID    string
	PurchaseDate  string
	Total         string
	PaymentMethod string
	Items         []LineItem
}

type templateData struct {
	App AppInfo
	Data
}

// Renderer renders the HTML and plain-text receipt bodies.
type Renderer struct {
	app  AppInfo
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewRenderer parses the embedded receipt templates.
func NewRenderer(app AppInfo) (*Renderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/receipt.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html receipt template: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/receipt.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text receipt template: %w", err)
	}
	return &Renderer{app: app, html: html, text: text}, nil
}

// AppName returns the application name stamped on receipts.
func (r *Renderer) AppName() string {
	return r.app.Name
}

// Render produces the HTML and text bodies for one receipt.
func (r *Renderer) Render(data Data) (html, text string, err error) {
	td := templateData{App: r.app, Data: data}

	var htmlBuf bytes.Buffer
	if err := r.html.Execute(&htmlBuf, td); err != nil {
		return "", "", fmt.Errorf("render html receipt: %w", err)
	}
	var textBuf bytes.Buffer
	if err := r.text.Execute(&textBuf, td); err != nil {
		return "", "", fmt.Errorf("render text receipt: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// FormatMoney renders integer cents as a dollar amount. Whole dollar amounts
// leave off the cents, matching how totals appear in the store UI.
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	if cents%100 == 0 {
		return fmt.Sprintf("%s$%d", sign, cents/100)
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
