package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/outreach/internal/model"
)

type postmarkClient interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkTransport sends through the Postmark API. The batch credential is
// used as the server token, so each sender brings their own Postmark server.
type PostmarkTransport struct {
	accountToken string
	newClient    func(serverToken, accountToken string) postmarkClient
}

func NewPostmarkTransport(accountToken string) *PostmarkTransport {
	return &PostmarkTransport{
		accountToken: accountToken,
		newClient: func(serverToken, accountToken string) postmarkClient {
			return postmark.NewClient(serverToken, accountToken)
		},
	}
}

func (t *PostmarkTransport) Send(ctx context.Context, sender, credential string, msg model.Message) error {
	email := postmark.Email{
		From:     sender,
		To:       msg.To,
		Subject:  stripLineBreaks(msg.Subject),
		TextBody: msg.Body,
		Tag:      "outreach",
	}
	if a := msg.Attachment; a != nil {
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		email.Attachments = []postmark.Attachment{{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Data),
			ContentType: contentType,
		}}
	}

	resp, err := t.newClient(credential, t.accountToken).SendEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrSendFailed, resp.ErrorCode, resp.Message)
	}
	return nil
}
