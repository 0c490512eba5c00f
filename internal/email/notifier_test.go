package email_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dropDatabas3/socialgate/internal/email"
	"github.com/dropDatabas3/socialgate/internal/store/core"
)

type fakeSender struct {
	err      error
	to       string
	subject  string
	htmlBody string
	textBody string
	hits     int
}

func (f *fakeSender) Send(to, subject, htmlBody, textBody string) error {
	f.hits++
	f.to = to
	f.subject = subject
	f.htmlBody = htmlBody
	f.textBody = textBody
	return f.err
}

func acct() *core.Account {
	return &core.Account{
		ID:        "acct-1",
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Lopez",
	}
}

func TestSendWelcomeRegistered(t *testing.T) {
	s := &fakeSender{}
	n := email.NewNotifier(s, "https://shop.example/")

	if err := n.SendWelcome(context.Background(), acct(), core.NotifyRegistered, ""); err != nil {
		t.Fatalf("SendWelcome: %v", err)
	}
	if s.to != "ana@example.com" {
		t.Fatalf("to = %q", s.to)
	}
	if !strings.Contains(s.htmlBody, "Ana Lopez") {
		t.Fatalf("html sin nombre: %q", s.htmlBody)
	}
	if strings.Contains(s.htmlBody, "/password/reset") {
		t.Fatal("la variante con password no lleva link de reset")
	}
}

func TestSendWelcomeNoPasswordIncludesResetLink(t *testing.T) {
	s := &fakeSender{}
	n := email.NewNotifier(s, "https://shop.example")

	if err := n.SendWelcome(context.Background(), acct(), core.NotifyRegisteredNoPassword, "tok-abc"); err != nil {
		t.Fatalf("SendWelcome: %v", err)
	}
	want := "https://shop.example/password/reset?token=tok-abc"
	if !strings.Contains(s.htmlBody, want) {
		t.Fatalf("html sin link de reset: %q", s.htmlBody)
	}
	if !strings.Contains(s.textBody, want) {
		t.Fatalf("texto sin link de reset: %q", s.textBody)
	}
}

func TestSendWelcomePropagatesSenderError(t *testing.T) {
	s := &fakeSender{err: errors.New("smtp rechazado")}
	n := email.NewNotifier(s, "https://shop.example")

	if err := n.SendWelcome(context.Background(), acct(), core.NotifyRegistered, ""); err == nil {
		t.Fatal("SendWelcome tragó el error del sender")
	}
}
