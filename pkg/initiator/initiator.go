package initiator

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"github.com/dmitrymomot/trialkit/pkg/logger"
	"github.com/dmitrymomot/trialkit/pkg/statemachine"
	"github.com/dmitrymomot/trialkit/pkg/subscription"
)

// State is the initiator's position in the submit flow.
type State string

const (
	StateIdle        State = "idle"
	StateRequesting  State = "requesting"
	StateRedirecting State = "redirecting"
)

type event string

const (
	eventSubmit    event = "submit"
	eventSucceeded event = "succeeded"
	eventFailed    event = "failed"
)

var (
	ErrInFlight           = errors.New("a session request is already in flight")
	ErrAlreadyRedirecting = errors.New("session already created, redirect pending")
	ErrInvalidRedirect    = errors.New("server returned an invalid redirect URL")
)

// SessionCreator asks the backend for a trial checkout session.
type SessionCreator interface {
	CreateSession(ctx context.Context, provider subscription.ProviderChoice, req subscription.Request) (*subscription.SessionResult, error)
}

// Navigation tells the caller where to send the customer. The initiator
// never navigates on its own.
type Navigation struct {
	URL       string
	SessionID string
}

// Initiator drives one customer's submit flow: it allows a single request at a
// time, re-enables submission after a failure and stops once a session exists.
type Initiator struct {
	creator  SessionCreator
	provider subscription.ProviderChoice
	request  subscription.Request
	machine  *statemachine.Machine[State, event]
	log      *slog.Logger

	mu      sync.Mutex
	lastErr string
}

// Option configures an Initiator.
type Option func(*Initiator)

func WithLogger(l *slog.Logger) Option {
	return func(i *Initiator) {
		if l != nil {
			i.log = l
		}
	}
}

// New creates an idle initiator for req. Panics if creator is nil.
func New(creator SessionCreator, provider subscription.ProviderChoice, req subscription.Request, opts ...Option) *Initiator {
	if creator == nil {
		panic("initiator: session creator is required")
	}
	i := &Initiator{
		creator:  creator,
		provider: provider,
		request:  req,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.machine = statemachine.MustNew(StateIdle,
		statemachine.WithTransition[State, event](StateIdle, eventSubmit, StateRequesting),
		statemachine.WithTransition[State, event](StateRequesting, eventSucceeded, StateRedirecting),
		statemachine.WithTransition[State, event](StateRequesting, eventFailed, StateIdle),
		statemachine.WithHook(func(from, to State, ev event) {
			i.log.Debug("initiator transition",
				slog.String("from", string(from)), slog.String("to", string(to)), slog.String("event", string(ev)))
		}),
	)
	return i
}

// Submit requests a session. Calls made while a request is in flight return
// ErrInFlight without reaching the creator. On failure the error is returned,
// its message is kept for LastError and the initiator becomes idle again.
func (i *Initiator) Submit(ctx context.Context) (*Navigation, error) {
	if err := i.machine.Fire(ctx, eventSubmit); err != nil {
		if i.machine.Current() == StateRedirecting {
			return nil, ErrAlreadyRedirecting
		}
		return nil, ErrInFlight
	}
	i.setLastError("")

	res, err := i.creator.CreateSession(ctx, i.provider, i.request)
	if err == nil && !isAbsoluteURL(res) {
		err = ErrInvalidRedirect
	}
	if err != nil {
		i.setLastError(ErrorMessage(err))
		if ferr := i.machine.Fire(ctx, eventFailed); ferr != nil {
			i.log.ErrorContext(ctx, "initiator failed to reset", logger.Error(ferr))
		}
		return nil, err
	}

	if ferr := i.machine.Fire(ctx, eventSucceeded); ferr != nil {
		i.log.ErrorContext(ctx, "initiator failed to enter redirecting", logger.Error(ferr))
	}
	return &Navigation{URL: res.RedirectURL, SessionID: res.ID}, nil
}

func (i *Initiator) State() State {
	return i.machine.Current()
}

// CanSubmit reports whether Submit would reach the creator.
func (i *Initiator) CanSubmit() bool {
	return i.machine.CanFire(context.Background(), eventSubmit)
}

// LastError is the message of the most recent failure, or "" after a new submit.
func (i *Initiator) LastError() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastErr
}

func (i *Initiator) setLastError(msg string) {
	i.mu.Lock()
	i.lastErr = msg
	i.mu.Unlock()
}

// ErrorMessage extracts the message shown to the customer: the server's own
// message for a *RemoteError, err.Error() otherwise.
func ErrorMessage(err error) string {
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return err.Error()
}

func isAbsoluteURL(res *subscription.SessionResult) bool {
	if res == nil {
		return false
	}
	u, err := url.Parse(res.RedirectURL)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
