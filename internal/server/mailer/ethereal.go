package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/loveletters/internal/netx"
	"github.com/wneessen/go-mail"
)

// TestAccount is a disposable Ethereal mailbox. Mail sent through it is
// captured and never delivered.
type TestAccount struct {
	Status string `json:"status"`
	User   string `json:"user"`
	Pass   string `json:"pass"`
	SMTP   struct {
		Host   string `json:"host"`
		Port   int    `json:"port"`
		Secure bool   `json:"secure"`
	} `json:"smtp"`
	Web string `json:"web"`
}

type testAccountRequest struct {
	Requestor string `json:"requestor"`
	Version   string `json:"version"`
}

// CreateTestAccount provisions a fresh Ethereal mailbox at url.
func CreateTestAccount(ctx context.Context, client *http.Client, url string) (*TestAccount, error) {
	var acc TestAccount
	req := testAccountRequest{Requestor: "loveletters", Version: "1.0.0"}

	if err := netx.DoJSON(ctx, client, http.MethodPost, url, nil, req, &acc); err != nil {
		return nil, fmt.Errorf("create test account: %w", err)
	}
	if acc.Status != "success" || acc.User == "" {
		return nil, fmt.Errorf("create test account: unexpected status %q", acc.Status)
	}
	if acc.SMTP.Host == "" {
		acc.SMTP.Host = "smtp.ethereal.email"
	}
	if acc.SMTP.Port == 0 {
		acc.SMTP.Port = 587
	}
	if acc.Web == "" {
		acc.Web = "https://ethereal.email"
	}

	return &acc, nil
}

// Transport binds an SMTP transport to the account.
func (a *TestAccount) Transport() (*SMTPTransport, error) {
	return NewSMTPTransport(SMTPConfig{
		Name:       "ethereal",
		Host:       a.SMTP.Host,
		Port:       a.SMTP.Port,
		Username:   a.User,
		Password:   a.Pass,
		SSL:        a.SMTP.Secure,
		TLSPolicy:  mail.TLSOpportunistic,
		PreviewURL: a.Web + "/messages",
	})
}
