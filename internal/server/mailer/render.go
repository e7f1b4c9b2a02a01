package mailer

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/loveletters/internal/common"
	"github.com/dmitrijs2005/loveletters/internal/server/models"
)

// DefaultSubject is used for letters without a title.
const DefaultSubject = "You've received a love letter"

var (
	imageDataURIRe = regexp.MustCompile(`^data:image/(png|jpe?g|gif|webp);base64,`)

	ErrNotImage = errors.New("content is not an image data URI")
)

var letterTemplate = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:24px;background:#fdf6f8;">
<div style="max-width:600px;margin:0 auto;font-family:Arial, sans-serif;color:#333;">
<h2 style="color:#d6336c;font-weight:normal;">{{.Heading}}</h2>
{{if .RecipientName}}<p>Dear {{.RecipientName}},</p>
{{end}}{{if .ImageSrc}}<img src="{{.ImageSrc}}" alt="Love letter" style="max-width:100%;border-radius:8px;">
{{else}}<div style="background-color:{{.Background}};font-family:{{.Font}};padding:24px;border-radius:8px;white-space:pre-wrap;line-height:1.6;">{{.Content}}</div>
{{end}}<p style="color:#999;font-size:12px;">Sent with LoveLetters</p>
</div>
</body>
</html>
`))

type letterView struct {
	Heading       string
	RecipientName string
	ImageSrc      template.URL
	Background    template.CSS
	Font          template.CSS
	Content       string
}

// IsImageDataURI reports whether content is a base64 image data URI of a
// supported type.
func IsImageDataURI(content string) bool {
	return imageDataURIRe.MatchString(content)
}

// ParseImageDataURI decodes a base64 image data URI into an inline
// attachment. The content id is random.
func ParseImageDataURI(content string) (*Attachment, error) {
	m := imageDataURIRe.FindStringSubmatch(content)
	if m == nil {
		return nil, ErrNotImage
	}

	subtype := m[1]
	if subtype == "jpg" {
		subtype = "jpeg"
	}

	payload := strings.TrimSpace(content[len(m[0]):])
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	id, err := common.MakeRandHexString(8)
	if err != nil {
		return nil, err
	}

	return &Attachment{
		Filename:    "letter." + subtype,
		ContentType: "image/" + subtype,
		ContentID:   "letter-image-" + id + "@loveletters",
		Data:        data,
	}, nil
}

// Subject returns the letter title, or DefaultSubject when it has none.
func Subject(letter *models.Letter) string {
	if letter.Title != nil {
		if t := strings.TrimSpace(*letter.Title); t != "" {
			return t
		}
	}
	return DefaultSubject
}

// ComposeLetter renders letter as an HTML email to recipientEmail. Image
// letters are embedded inline; text letters are escaped and laid out with
// the colour and font of their paper type and style.
func ComposeLetter(letter *models.Letter, recipientEmail, recipientName string) (*Message, error) {
	msg := &Message{
		To:      recipientEmail,
		ToName:  recipientName,
		Subject: Subject(letter),
	}

	view := letterView{
		Heading:       DefaultSubject,
		RecipientName: recipientName,
	}

	if IsImageDataURI(letter.Content) {
		att, err := ParseImageDataURI(letter.Content)
		if err != nil {
			return nil, err
		}
		msg.Attachments = append(msg.Attachments, *att)
		view.ImageSrc = template.URL("cid:" + att.ContentID)
	} else {
		view.Background = template.CSS(ParsePaperType(letter.PaperType).Color())
		view.Font = template.CSS(ParseStyle(letter.Style).Font())
		view.Content = letter.Content
	}

	var buf bytes.Buffer
	if err := letterTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render letter: %w", err)
	}
	msg.HTML = buf.String()

	return msg, nil
}
