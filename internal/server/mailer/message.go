// Package mailer renders letters into HTML email and delivers them through
// SMTP, either with configured credentials or a disposable Ethereal mailbox.
package mailer

// Attachment is a file carried by a Message. A non-empty ContentID embeds it
// inline so the HTML body can reference it as cid:<ContentID>.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Data        []byte
}

// Message is a rendered email ready for a Transport.
type Message struct {
	FromName    string
	FromAddress string
	To          string
	ToName      string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// SendInfo is what a Transport reports back for an accepted message.
type SendInfo struct {
	MessageID  string
	PreviewURL string
}

// Result is the outcome of a dispatch as reported to API clients.
type Result struct {
	Success    bool   `json:"success"`
	MessageID  string `json:"messageId,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	Error      string `json:"error,omitempty"`
}
