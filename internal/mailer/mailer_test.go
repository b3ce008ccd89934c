package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/poster-outreach/internal/entity"
	"github.com/joseph-ayodele/poster-outreach/internal/events"
)

type fakeClient struct {
	failAt string
	calls  []string
	from   string
	rcpt   []string
	data   bytes.Buffer
	closed bool
}

func (f *fakeClient) step(stage, call string) error {
	f.calls = append(f.calls, call)
	if f.failAt == call || f.failAt == stage {
		return errors.New(call + " refused")
	}
	return nil
}

func (f *fakeClient) StartTLS(*tls.Config) error { return f.step(StageStartTLS, "starttls") }
func (f *fakeClient) Auth(smtp.Auth) error { return f.step(StageAuth, "auth") }
func (f *fakeClient) Mail(from string) error {
	f.from = from
	return f.step(StageEnvelope, "mail")
}
func (f *fakeClient) Rcpt(to string) error {
	f.rcpt = append(f.rcpt, to)
	return f.step(StageEnvelope, "rcpt")
}
func (f *fakeClient) Data() (io.WriteCloser, error) {
	if err := f.step(StageData, "data"); err != nil {
		return nil, err
	}
	return nopCloser{&f.data}, nil
}
func (f *fakeClient) Quit() error { return f.step(StageQuit, "quit") }
func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

type recordingPublisher struct {
	subjects []string
	events   []events.EmailSent
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, event any) error {
	p.subjects = append(p.subjects, subject)
	p.events = append(p.events, event.(events.EmailSent))
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var fixedNow = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }

func newTestSender(fc *fakeClient, dialErr error) *Sender {
	cfg := Config{Host: "smtp.example.com", Port: 587, Username: "events@example.com", Password: "pw", Timeout: time.Second}
	return NewSender(cfg, nil).WithClock(fixedNow).WithDialer(func(_ context.Context, _ string, _ int, _ time.Duration) (Client, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return fc, nil
	})
}

func TestSendOK(t *testing.T) {
	fc := &fakeClient{}
	s := newTestSender(fc, nil)

	ok := s.Send(context.Background(), entity.RenderedEmail{To: "a@b.com", Subject: "Booking Inquiry: Jazz Night", Body: "Hi Ana,\nThanks"})
	require.True(t, ok)

	assert.Equal(t, []string{"starttls", "auth", "mail", "rcpt", "data", "quit"}, fc.calls)
	assert.Equal(t, "events@example.com", fc.from, "from falls back to username")
	assert.Equal(t, []string{"a@b.com"}, fc.rcpt)
	assert.True(t, fc.closed)

	msg := fc.data.String()
	assert.Contains(t, msg, "To: <a@b.com>\r\n")
	assert.Contains(t, msg, "Subject: Booking Inquiry: Jazz Night\r\n")
	assert.Contains(t, msg, "Date: Tue, 05 Mar 2024 12:00:00 +0000\r\n")
	assert.Contains(t, msg, "@example.com>\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=\"utf-8\"\r\n")
	assert.True(t, strings.HasSuffix(msg, "Hi Ana,\r\nThanks"), msg)
}

func TestSendStageFailures(t *testing.T) {
	tests := []struct {
		failAt string
		calls  []string
	}{
		{"starttls", []string{"starttls"}},
		{"auth", []string{"starttls", "auth"}},
		{"mail", []string{"starttls", "auth", "mail"}},
		{"rcpt", []string{"starttls", "auth", "mail", "rcpt"}},
		{"data", []string{"starttls", "auth", "mail", "rcpt", "data"}},
	}
	for _, tt := range tests {
		t.Run(tt.failAt, func(t *testing.T) {
			fc := &fakeClient{failAt: tt.failAt}
			s := newTestSender(fc, nil)

			assert.False(t, s.Send(context.Background(), entity.RenderedEmail{To: "a@b.com", Subject: "s", Body: "b"}))
			assert.Equal(t, tt.calls, fc.calls)
			assert.True(t, fc.closed)
		})
	}
}

func TestSendConnectFailure(t *testing.T) {
	s := newTestSender(nil, errors.New("connection refused"))
	assert.False(t, s.Send(context.Background(), entity.RenderedEmail{To: "a@b.com", Subject: "s", Body: "b"}))
}

func TestSendQuitFailureStillSent(t *testing.T) {
	fc := &fakeClient{failAt: "quit"}
	s := newTestSender(fc, nil)
	assert.True(t, s.Send(context.Background(), entity.RenderedEmail{To: "a@b.com", Subject: "s", Body: "b"}))
}

func TestSendPublishesOutcome(t *testing.T) {
	pub := &recordingPublisher{}
	fc := &fakeClient{failAt: "auth"}
	s := newTestSender(fc, nil).WithPublisher(pub)

	s.Send(context.Background(), entity.RenderedEmail{To: "a@b.com", Subject: "Hello", Body: "b"})

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.SubjectEmailSent, pub.subjects[0])
	assert.Equal(t, "a@b.com", pub.events[0].To)
	assert.False(t, pub.events[0].OK)
	assert.Equal(t, StageAuth, pub.events[0].Stage)
}

func TestSendBatchContinuesPastFailure(t *testing.T) {
	cfg := Config{Host: "smtp.example.com", Port: 587, From: "events@example.com"}
	// The dialer hands out a fresh client per message; only bad@b.com is refused.
	s := NewSender(cfg, nil).WithDialer(func(_ context.Context, _ string, _ int, _ time.Duration) (Client, error) {
		return &rejectingClient{reject: "bad@b.com"}, nil
	})

	res := s.SendBatch(context.Background(), []entity.RenderedEmail{
		{To: "one@b.com", Subject: "s", Body: "b"},
		{To: "bad@b.com", Subject: "s", Body: "b"},
		{To: "three@b.com", Subject: "s", Body: "b"},
	})

	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"bad@b.com"}, res.Errors)
}

func TestSendBatchEmpty(t *testing.T) {
	s := newTestSender(&fakeClient{}, nil)
	res := s.SendBatch(context.Background(), nil)
	assert.Equal(t, BatchResult{Errors: []string{}}, res)
}

func TestDeliveryErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &DeliveryError{Stage: StageAuth, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "smtp auth: boom", err.Error())
}

func TestBuildMessageEncodesSubject(t *testing.T) {
	b, err := buildMessage("x@example.com", entity.RenderedEmail{To: "a@b.com", Subject: "Théâtre night", Body: "b"}, fixedNow())
	require.NoError(t, err)
	assert.Contains(t, string(b), "Subject: =?utf-8?q?Th=C3=A9=C3=A2tre_night?=\r\n")
}

type rejectingClient struct {
	fakeClient
	reject string
}

func (r *rejectingClient) Rcpt(to string) error {
	if to == r.reject {
		return errors.New("550 mailbox unavailable")
	}
	return nil
}
