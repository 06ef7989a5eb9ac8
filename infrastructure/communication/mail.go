package communication

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"gopkg.in/gomail.v2"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	From        string
	To          []string
	Cc          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

type SESMailer struct {
	client *ses.Client
}

func NewSESMailer(ctx context.Context) (*SESMailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg)}, nil
}

func (m *SESMailer) Send(ctx context.Context, msg *Message) error {
	raw, err := BuildRawMessage(msg)
	if err != nil {
		return err
	}

	res, err := m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage: &types.RawMessage{Data: raw.Bytes()},
	})
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	if res.MessageId != nil {
		fmt.Printf("[INFO] SES message %s sent to %s\n", *res.MessageId, strings.Join(msg.To, ", "))
	}
	return nil
}

// BuildRawMessage renders msg as multipart/mixed with a text/html alternative part.
func BuildRawMessage(msg *Message) (*bytes.Buffer, error) {
	var emailRaw bytes.Buffer
	writer := multipart.NewWriter(&emailRaw)

	headers := fmt.Sprintf("From: %s\r\n", msg.From)
	if len(msg.To) > 0 {
		headers += fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", "))
	}
	if len(msg.Cc) > 0 {
		headers += fmt.Sprintf("Cc: %s\r\n", strings.Join(msg.Cc, ", "))
	}
	headers += fmt.Sprintf("Subject: %s\r\n", msg.Subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", writer.Boundary())
	headers += "\r\n"
	emailRaw.WriteString(headers)

	altBuf := &bytes.Buffer{}
	altWriter := multipart.NewWriter(altBuf)

	altPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + altWriter.Boundary()},
	})
	if err != nil {
		return nil, err
	}

	bodies := []struct{ contentType, body string }{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	}
	for _, b := range bodies {
		if b.body == "" {
			continue
		}
		part, err := altWriter.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {b.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(part)
		if _, err := qp.Write([]byte(b.body)); err != nil {
			return nil, err
		}
		qp.Close()
	}
	altWriter.Close()
	if _, err := altPart.Write(altBuf.Bytes()); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", fmt.Sprintf("%s; name=\"%s\"", att.ContentType, att.Filename))
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", att.Filename))
		h.Set("Content-Transfer-Encoding", "base64")

		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, err
		}
		b := make([]byte, base64.StdEncoding.EncodedLen(len(att.Content)))
		base64.StdEncoding.Encode(b, att.Content)

		// wrap lines at 76 chars
		for i := 0; i < len(b); i += 76 {
			end := i + 76
			if end > len(b) {
				end = len(b)
			}
			part.Write(b[i:end])
			part.Write([]byte("\r\n"))
		}
	}

	writer.Close()
	return &emailRaw, nil
}

type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(host string, port int, username string, password string, insecure bool) *SMTPMailer {
	d := gomail.NewDialer(host, port, username, password)
	if insecure {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &SMTPMailer{dialer: d}
}

func newGomailMessage(msg *Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", msg.Cc...)
	}
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}

	for _, att := range msg.Attachments {
		content := att.Content
		m.Attach(att.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}),
		)
	}
	return m
}

func (m *SMTPMailer) Send(_ context.Context, msg *Message) error {
	if err := m.dialer.DialAndSend(newGomailMessage(msg)); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	return nil
}
