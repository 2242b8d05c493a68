package notify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

var settings = domain.EmailSettings{
	Enabled:  true,
	SMTPHost: "smtp.example.com",
	From:     "flows@example.com",
	To:       []string{"ops@example.com", "lead@example.com"},
}

func render(t *testing.T, msg *mail.Msg) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSMTPNotifier_SendHTML(t *testing.T) {
	var sent []*mail.Msg
	n := NewSMTPNotifier(settings, func(_ context.Context, msg *mail.Msg) error {
		sent = append(sent, msg)
		return nil
	}, nil)

	err := n.Send(context.Background(), domain.Notification{
		Subject: "[GNC.orders] Processed Split File ORD1.txt",
		Body:    "<table><tr><td>1001</td></tr></table>",
		HTML:    true,
	})
	require.NoError(t, err)
	require.Len(t, sent, 1)

	raw := render(t, sent[0])
	assert.Contains(t, raw, "Subject: [GNC.orders] Processed Split File ORD1.txt")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "ops@example.com")
	assert.Contains(t, raw, "lead@example.com")
	assert.Contains(t, raw, "<td>1001</td>")
}

func TestSMTPNotifier_Attachments(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "order_20240610.txt")
	require.NoError(t, os.WriteFile(present, []byte("000"), 0o644))

	n := NewSMTPNotifier(settings, func(context.Context, *mail.Msg) error { return nil }, nil)
	msg, err := n.Build(domain.Notification{
		Subject:     "Outbound Flow Completed: GNC.shipments",
		Body:        "done",
		Attachments: []string{present, filepath.Join(dir, "gone.txt")},
	})
	require.NoError(t, err)

	raw := render(t, msg)
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, `filename="order_20240610.txt"`)
	assert.NotContains(t, raw, "gone.txt")
}

func TestSMTPNotifier_InvalidAddress(t *testing.T) {
	bad := settings
	bad.From = "not an address"
	n := NewSMTPNotifier(bad, func(context.Context, *mail.Msg) error { return nil }, nil)

	err := n.Send(context.Background(), domain.Notification{Subject: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSMTPNotifier_SendError(t *testing.T) {
	n := NewSMTPNotifier(settings, func(context.Context, *mail.Msg) error { return errors.New("refused") }, nil)

	err := n.Send(context.Background(), domain.Notification{Subject: "x"})
	assert.ErrorContains(t, err, "refused")
}

func TestNew(t *testing.T) {
	assert.IsType(t, &NullNotifier{}, New(domain.EmailSettings{}, nil))
	assert.IsType(t, &SMTPNotifier{}, New(settings, nil))
	assert.NoError(t, NewNullNotifier(nil).Send(context.Background(), domain.Notification{Subject: "x"}))
}
