// internal/domain/models/message.go
package models

// Message is an i18n message key with its per-locale translations.
type Message struct {
	ID           *int64         `json:"id,omitempty"`
	Key          string         `json:"key" validate:"required,max=200" label:"Key"`
	Description  string         `json:"description,omitempty"`
	Active       bool           `json:"active"`
	Translations []*Translation `json:"translations" validate:"dive"`
}

func (m Message) EntityID() *int64 { return m.ID }
func (m Message) Label() string    { return m.Key }

// Translation is one locale's text for a Message. Its id is assigned by the
// in-memory editor until the parent message is saved.
type Translation struct {
	ID     *int64 `json:"id,omitempty"`
	Locale string `json:"locale" validate:"required,locale" label:"Locale"`
	Text   string `json:"text" validate:"required" label:"Text"`
}

func (t *Translation) GetID() *int64  { return t.ID }
func (t *Translation) SetID(id int64) { t.ID = &id }

// CloneTranslations deep-copies ts so that edits do not reach the source.
func CloneTranslations(ts []*Translation) []*Translation {
	out := make([]*Translation, 0, len(ts))
	for _, t := range ts {
		if t == nil {
			continue
		}
		c := *t
		if t.ID != nil {
			id := *t.ID
			c.ID = &id
		}
		out = append(out, &c)
	}
	return out
}
