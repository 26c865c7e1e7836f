package testutil

import (
	"errors"
	"sync"
	"testing"

	"github.com/dalemusser/strataclub/internal/app/system/mailer"
	"github.com/dalemusser/strataclub/internal/app/system/uploads"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// ErrFake is returned by fakes configured to fail.
var ErrFake = errors.New("testutil: fake failure")

// Mailer records outgoing email instead of sending it.
type Mailer struct {
	mu   sync.Mutex
	Sent []mailer.Email
	Fail bool // Send returns ErrFake when set
}

// Send records email.
func (m *Mailer) Send(email mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrFake
	}
	m.Sent = append(m.Sent, email)
	return nil
}

// FromName returns a fixed sender name.
func (m *Mailer) FromName() string { return "StrataClub" }

// Last returns the most recently sent email, or false when none was sent.
func (m *Mailer) Last() (mailer.Email, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return mailer.Email{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// NewUploader returns an Uploader writing to a temporary directory, along
// with that directory.
func NewUploader(t *testing.T) (*uploads.Uploader, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocal(storage.LocalConfig{BasePath: dir, BaseURL: "/uploads"})
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	return uploads.New(store, zap.NewNop()), dir
}
