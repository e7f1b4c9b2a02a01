package mailer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/loveletters/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu   sync.Mutex
	sent []*Message
	info *SendInfo
	err  error
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) Send(_ context.Context, m *Message) (*SendInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, m)
	return f.info, nil
}

func TestSettings_HasRealCredentials(t *testing.T) {
	tests := []struct {
		name string
		s    Settings
		want bool
	}{
		{"empty", Settings{}, false},
		{"placeholder user", Settings{User: PlaceholderUser, Password: "x"}, false},
		{"placeholder password", Settings{User: "me@gmail.com", Password: PlaceholderPassword}, false},
		{"missing password", Settings{User: "me@gmail.com"}, false},
		{"real", Settings{User: "me@gmail.com", Password: "app-pass"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.HasRealCredentials())
		})
	}
}

func TestSettings_Sender(t *testing.T) {
	s := Settings{FromAddress: "noreply@loveletters.com"}
	assert.Equal(t, "noreply@loveletters.com", s.Sender())

	s.User, s.Password = "me@gmail.com", "app-pass"
	assert.Equal(t, "me@gmail.com", s.Sender())
}

func TestDispatcher_SendSuccess(t *testing.T) {
	d := NewDispatcher(Settings{FromName: "LoveLetters", FromAddress: "noreply@loveletters.com"}, logging.NewNopLogger())
	ft := &fakeTransport{info: &SendInfo{MessageID: "<1@loveletters>", PreviewURL: "https://ethereal.email/messages"}}
	d.SetTransport(ft)

	res := d.Send(context.Background(), &Message{To: "to@x.com"})

	assert.Equal(t, Result{Success: true, MessageID: "<1@loveletters>", PreviewURL: "https://ethereal.email/messages"}, res)
	require.Len(t, ft.sent, 1)
	assert.Equal(t, "LoveLetters", ft.sent[0].FromName)
	assert.Equal(t, "noreply@loveletters.com", ft.sent[0].FromAddress)
}

func TestDispatcher_SendFailureIsResult(t *testing.T) {
	d := NewDispatcher(Settings{}, logging.NewNopLogger())
	d.SetTransport(&fakeTransport{err: errors.New("535 authentication failed")})

	res := d.Send(context.Background(), &Message{To: "to@x.com"})

	assert.False(t, res.Success)
	assert.Equal(t, "535 authentication failed", res.Error)
	assert.Empty(t, res.MessageID)
}

func TestDispatcher_ResolveEtherealCachedOnce(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(etherealOK))
	}))
	defer ts.Close()

	d := NewDispatcher(Settings{TestAccountURL: ts.URL}, logging.NewNopLogger())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr, err := d.ResolveTransport(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "ethereal", tr.Name())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestDispatcher_ResolveFailureNotCached(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(etherealOK))
	}))
	defer ts.Close()

	d := NewDispatcher(Settings{TestAccountURL: ts.URL}, logging.NewNopLogger())

	res := d.Send(context.Background(), &Message{To: "to@x.com"})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)

	tr, err := d.ResolveTransport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ethereal", tr.Name())
	assert.Equal(t, int32(2), calls.Load())
}

func TestDispatcher_SetTransportDoesNotWaitForProvisioning(t *testing.T) {
	hit := make(chan struct{})
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(hit)
		<-release
		_, _ = w.Write([]byte(etherealOK))
	}))
	defer ts.Close()
	defer func() {
		select {
		case <-release:
		default:
			close(release)
		}
	}()

	d := NewDispatcher(Settings{TestAccountURL: ts.URL}, logging.NewNopLogger())

	slow := make(chan Transport, 1)
	go func() {
		tr, err := d.ResolveTransport(context.Background())
		assert.NoError(t, err)
		slow <- tr
	}()
	<-hit

	ft := &fakeTransport{}
	done := make(chan struct{})
	go func() {
		d.SetTransport(ft)
		tr, err := d.ResolveTransport(context.Background())
		assert.NoError(t, err)
		assert.Same(t, ft, tr)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SetTransport blocked behind test account provisioning")
	}

	close(release)
	assert.Same(t, ft, <-slow, "an explicitly set transport wins over the late build")
	assert.Same(t, ft, d.cached())
}

func TestDispatcher_ResolveRealCredentials(t *testing.T) {
	d := NewDispatcher(Settings{
		User:     "me@gmail.com",
		Password: "app-pass",
		SMTPHost: "smtp.gmail.com",
		SMTPPort: 587,
	}, logging.NewNopLogger())

	tr, err := d.ResolveTransport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "smtp", tr.Name())

	d.SetTransport(nil)
	tr2, err := d.ResolveTransport(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, tr, tr2)
}
