// internal/domain/models/templates.go
package models

// MailTemplate is a notification e-mail template. Body is HTML and is
// sanitized before it is sent to the notification service.
type MailTemplate struct {
	ID      *int64 `json:"id,omitempty"`
	Name    string `json:"name" validate:"required,max=100" label:"Name"`
	Locale  string `json:"locale" validate:"required,locale" label:"Locale"`
	Subject string `json:"subject" validate:"required,max=200" label:"Subject"`
	Body    string `json:"body" validate:"required" label:"Body"`
	Active  bool   `json:"active"`
}

func (m MailTemplate) EntityID() *int64 { return m.ID }
func (m MailTemplate) Label() string    { return m.Name + "/" + m.Locale }

// SmsTemplate is a plain-text notification template.
type SmsTemplate struct {
	ID     *int64 `json:"id,omitempty"`
	Name   string `json:"name" validate:"required,max=100" label:"Name"`
	Locale string `json:"locale" validate:"required,locale" label:"Locale"`
	Text   string `json:"text" validate:"required,max=640" label:"Text"`
	Active bool   `json:"active"`
}

func (s SmsTemplate) EntityID() *int64 { return s.ID }
func (s SmsTemplate) Label() string    { return s.Name + "/" + s.Locale }
