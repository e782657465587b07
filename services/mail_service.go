package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"payper-storefront/internal/status"
	"payper-storefront/monitoring"
)

// Supported transactional mail types.
const (
	MailTypeSignUp   = "sign_up"
	MailTypeNewOrder = "new_order"
	MailTypeReminder = "reminder"
)

type MailRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`

	Name          string  `json:"name,omitempty"`
	OrderNumber   string  `json:"orderNumber,omitempty"`
	EventTitle    string  `json:"eventTitle,omitempty"`
	EventDate     string  `json:"eventDate,omitempty"`
	EventLocation string  `json:"eventLocation,omitempty"`
	TotalAmount   float64 `json:"totalAmount,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	QRCode        string  `json:"qrCode,omitempty"`
}

func (r *MailRequest) validate() error {
	if r.Email == "" {
		return status.Invalid("email", "required")
	}
	switch r.Type {
	case MailTypeSignUp, MailTypeNewOrder, MailTypeReminder:
	default:
		return status.Invalid("type", fmt.Sprintf("unknown mail type %q", r.Type))
	}
	return nil
}

// resendSendRequest is the wire body of POST /emails.
type resendSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendSendReply struct {
	ID string `json:"id"`
}

// MailService renders and sends transactional mail through the Resend
// REST API.
type MailService struct {
	baseURL string
	apiKey  string
	from    string

	hc *http.Client
}

func NewMailService(baseURL, apiKey, from string, timeout time.Duration) *MailService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MailService{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		hc: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send renders the template for the request type and posts it to the
// mail provider.
func (s *MailService) Send(ctx context.Context, req *MailRequest) error {
	if err := req.validate(); err != nil {
		return err
	}

	subject, html, err := render(req)
	if err != nil {
		monitoring.TrackMail(req.Type, "error")
		return fmt.Errorf("send: render: %w", err)
	}

	if err := s.post(ctx, &resendSendRequest{
		From:    s.from,
		To:      []string{req.Email},
		Subject: subject,
		HTML:    html,
	}); err != nil {
		monitoring.TrackMail(req.Type, "error")
		return status.Upstream("resend", err)
	}

	monitoring.TrackMail(req.Type, "sent")
	return nil
}

func (s *MailService) post(ctx context.Context, body *resendSendRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("sendMail: json.Marshal: %w", err)
	}

	_baseURL, _ := url.Parse(s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s%s", _baseURL.String(), "/emails"), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sendMail: http.NewReq: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("sendMail: http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("sendMail: resp.StatusCode: %d: %s", resp.StatusCode, msg)
	}

	var reply resendSendReply
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&reply); err != nil {
		return fmt.Errorf("sendMail: json.Decode: %w", err)
	}

	return nil
}

var (
	signUpTmpl = template.Must(template.New("sign_up").Parse(`<div style="font-family:sans-serif">
<h2>Welcome{{if .Name}}, {{.Name}}{{end}}!</h2>
<p>Your account is ready. Browse upcoming events and grab your tickets.</p>
</div>`))

	newOrderTmpl = template.Must(template.New("new_order").Parse(`<div style="font-family:sans-serif">
<h2>Thanks for your order{{if .Name}}, {{.Name}}{{end}}!</h2>
<p>Order <strong>{{.OrderNumber}}</strong> for <strong>{{.EventTitle}}</strong> is confirmed.</p>
<p>{{.EventDate}}{{if .EventLocation}} · {{.EventLocation}}{{end}}</p>
<p>Total: {{printf "%.2f" .TotalAmount}} {{.Currency}}</p>
{{if .QRPNG}}<p>Show this code at the entrance:</p>
<img src="data:image/png;base64,{{.QRPNG}}" alt="ticket code" width="220" height="220"/>{{end}}
</div>`))

	reminderTmpl = template.Must(template.New("reminder").Parse(`<div style="font-family:sans-serif">
<h2>See you soon{{if .Name}}, {{.Name}}{{end}}!</h2>
<p><strong>{{.EventTitle}}</strong> is coming up on {{.EventDate}}{{if .EventLocation}} at {{.EventLocation}}{{end}}.</p>
<p>Have your ticket ready.</p>
</div>`))
)

type mailVars struct {
	*MailRequest
	QRPNG string
}

func render(req *MailRequest) (subject string, html string, err error) {
	vars := mailVars{MailRequest: req}

	var tmpl *template.Template
	switch req.Type {
	case MailTypeSignUp:
		subject = "Welcome aboard"
		tmpl = signUpTmpl
	case MailTypeNewOrder:
		subject = fmt.Sprintf("Your order %s is confirmed", req.OrderNumber)
		tmpl = newOrderTmpl
		if req.QRCode != "" {
			png, err := qrcode.Encode(req.QRCode, qrcode.Medium, 220)
			if err != nil {
				return "", "", fmt.Errorf("qr encode: %w", err)
			}
			vars.QRPNG = base64.StdEncoding.EncodeToString(png)
		}
	case MailTypeReminder:
		subject = fmt.Sprintf("Reminder: %s", req.EventTitle)
		tmpl = reminderTmpl
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
