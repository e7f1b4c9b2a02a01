package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/loveletters/internal/client/api"
)

// maxImageBytes keeps the base64 body under the server's 10 MiB limit.
const maxImageBytes = 7 << 20

var (
	ErrNotImage     = errors.New("file is not a png, jpeg, gif or webp image")
	ErrTooLarge     = errors.New("file is too large")
	ErrEmptyContent = errors.New("letter is empty")
)

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// getID is an indirection used to facilitate testing.
var getID = GetID

// readImage loads path and reports its sniffed content type.
func readImage(path string) ([]byte, string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if fi.Size() > maxImageBytes {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrTooLarge, fi.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	ct := http.DetectContentType(data)
	if !imageTypes[ct] {
		return nil, "", fmt.Errorf("%w (%s)", ErrNotImage, ct)
	}
	return data, ct, nil
}

func imageDataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Compose creates a letter from typed text or from an image file.
func (a *App) Compose(ctx context.Context) error {
	kind, err := getSimpleText(a.reader, "Letter kind: (t)ext or (i)mage", a.out)
	if err != nil {
		return err
	}

	var content string
	switch strings.ToLower(kind) {
	case "i", "image":
		path, err := getSimpleText(a.reader, "Path to image file", a.out)
		if err != nil {
			return err
		}
		data, ct, err := readImage(path)
		if err != nil {
			return err
		}
		content = imageDataURI(ct, data)
	default:
		content, err = GetMultiline(a.reader, "Write your letter", a.out)
		if err != nil {
			return err
		}
	}
	if content == "" {
		return ErrEmptyContent
	}

	style, err := getSimpleText(a.reader, "Style: 1 romantic, 2 classic, 3 modern, 4 vintage, 5 handwritten (Enter for default)", a.out)
	if err != nil {
		return err
	}
	paper, err := getSimpleText(a.reader, "Paper: 1 parchment, 2 rose, 3 lavender, 4 mint, 5 sky (Enter for default)", a.out)
	if err != nil {
		return err
	}

	l, err := a.api.CreateLetter(ctx, a.session.UserID, content, style, paper)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Letter #%d created\n", l.ID)
	return nil
}

func describe(l *api.Letter) string {
	title := "(untitled)"
	if l.Title != nil && *l.Title != "" {
		title = *l.Title
	}

	s := fmt.Sprintf("#%d  %s  %s", l.ID, l.CreatedAt.Local().Format("2006-01-02 15:04"), title)
	if l.RecipientEmail != nil && *l.RecipientEmail != "" {
		s += "  sent to " + *l.RecipientEmail
	}
	return s
}

func preview(content string) string {
	if strings.HasPrefix(content, "data:image/") {
		return fmt.Sprintf("[image, %d bytes encoded]", len(content))
	}
	return content
}

// List prints the current user's letters, newest first.
func (a *App) List(ctx context.Context) error {
	letters, err := a.api.ListLetters(ctx, a.session.UserID)
	if err != nil {
		return err
	}

	if len(letters) == 0 {
		fmt.Fprintln(a.out, "No letters yet")
		return nil
	}
	for i := range letters {
		fmt.Fprintln(a.out, describe(&letters[i]))
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {
	id, err := getID(a.reader, "Letter id", a.out)
	if err != nil {
		return err
	}

	l, err := a.api.GetLetter(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, describe(l))
	fmt.Fprintf(a.out, "style: %s  paper: %s\n\n%s\n", l.Style, l.PaperType, preview(l.Content))
	return nil
}

func (a *App) Title(ctx context.Context) error {
	id, err := getID(a.reader, "Letter id", a.out)
	if err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, "New title", a.out)
	if err != nil {
		return err
	}

	l, err := a.api.UpdateTitle(ctx, id, title)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, describe(l))
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := getID(a.reader, "Letter id", a.out)
	if err != nil {
		return err
	}

	if err := a.api.DeleteLetter(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Letter #%d deleted\n", id)
	return nil
}

// Send emails a letter and prints the message id and, for test mailboxes,
// the preview link.
func (a *App) Send(ctx context.Context) error {
	id, err := getID(a.reader, "Letter id", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Recipient email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Recipient name (optional)", a.out)
	if err != nil {
		return err
	}

	res, err := a.api.SendLetter(ctx, id, email, name)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, res.Message)
	if res.EmailInfo.MessageID != "" {
		fmt.Fprintln(a.out, "Message id:", res.EmailInfo.MessageID)
	}
	if res.EmailInfo.PreviewURL != "" {
		fmt.Fprintln(a.out, "Preview:", res.EmailInfo.PreviewURL)
	}
	return nil
}

// Upload stores an image in object storage through a presigned URL and
// prints its key.
func (a *App) Upload(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Path to image file", a.out)
	if err != nil {
		return err
	}
	data, ct, err := readImage(path)
	if err != nil {
		return err
	}

	u, err := a.api.CreateUpload(ctx, filepath.Base(path))
	if err != nil {
		return err
	}
	if err := a.api.UploadFile(ctx, u, ct, data); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Uploaded:", u.Key)
	return nil
}
