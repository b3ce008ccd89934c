package mailer

import (
	"bytes"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/joseph-ayodele/poster-outreach/internal/entity"
)

const messageIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newMessageID returns an RFC 5322 Message-ID in the sender's domain.
func newMessageID(from string) (string, error) {
	id, err := nanoid.Generate(messageIDAlphabet, 21)
	if err != nil {
		return "", fmt.Errorf("message id: %w", err)
	}
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return "<" + id + "@" + domain + ">", nil
}

// buildMessage renders msg as a single-part plain-text message.
func buildMessage(from string, msg entity.RenderedEmail, at time.Time) ([]byte, error) {
	id, err := newMessageID(from)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	header := func(k, v string) {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(v)
		buf.WriteString("\r\n")
	}
	header("From", (&mail.Address{Address: from}).String())
	header("To", (&mail.Address{Address: msg.To}).String())
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", at.Format(time.RFC1123Z))
	header("Message-ID", id)
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="utf-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(strings.ReplaceAll(msg.Body, "\r\n", "\n"))); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
