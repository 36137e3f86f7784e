// internal/app/store/services/mail.go
package services

import (
	"context"

	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/remote"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
)

// sanitizingMail strips unsafe markup from template bodies before they are
// stored by the notification service.
type sanitizingMail struct {
	remote.Service[models.MailTemplate]
	policy *bluemonday.Policy
}

// SanitizeMail wraps svc so that Save sanitizes the HTML body.
func SanitizeMail(svc remote.Service[models.MailTemplate]) remote.Service[models.MailTemplate] {
	return &sanitizingMail{Service: svc, policy: bluemonday.UGCPolicy()}
}

func (s *sanitizingMail) Save(ctx context.Context, t models.MailTemplate) paging.Result[models.MailTemplate] {
	t.Body = s.policy.Sanitize(t.Body)
	return s.Service.Save(ctx, t)
}
