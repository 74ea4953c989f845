package notifications

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements EmailSender for local development by writing emails
// to disk instead of sending them through a provider.
type DevSender struct {
	dir string
}

// NewDevSender creates a development email sender that saves emails to dir.
func NewDevSender(dir string) EmailSender {
	return &DevSender{dir: dir}
}

// SendEmail writes the email body as an HTML file to the configured directory.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSend, err)
	}

	name := params.Tag
	if name == "" {
		name = params.Subject
	}
	filename := fmt.Sprintf("%s_%s.html", time.Now().Format("2006_01_02_150405"), sanitizeFilename(name))

	path := filepath.Join(d.dir, filename)
	if err := os.WriteFile(path, []byte(params.BodyHTML), 0644); err != nil {
		return fmt.Errorf("%w: failed to write file: %v", ErrFailedToSend, err)
	}

	return nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
