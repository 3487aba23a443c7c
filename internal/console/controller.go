package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/eion/userconsole/internal/config"
	"github.com/eion/userconsole/internal/users"
)

// Submit control labels
const (
	LabelIdle = "Add User"
	LabelBusy = "Adding..."
)

// Notice texts shown by the confirmed profile
const (
	MessageAdded       = "User added successfully!"
	messageErrorPrefix = "Error adding user: "
)

// ErrSubmitInProgress is returned by a confirmed submit while another one holds the control.
var ErrSubmitInProgress = errors.New("a submission is already in progress")

// UsersAPI is the part of the users service the controller depends on
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]users.User, error)
	CreateUser(ctx context.Context, draft users.DraftUser) (*users.User, error)
}

// Profile selects how a submission reports back to the user
type Profile string

const (
	// ProfileConfirmed disables the control while busy and leaves a notice.
	ProfileConfirmed Profile = config.ProfileConfirmed
	// ProfileSilent only logs.
	ProfileSilent Profile = config.ProfileSilent
)

// ParseProfile validates a profile name from configuration
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case ProfileConfirmed, ProfileSilent:
		return Profile(s), nil
	}
	return "", fmt.Errorf("unknown submit profile %q", s)
}

// SubmitControl is the state the form's submit button is rendered from
type SubmitControl struct {
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

// Busy reports whether a submission currently holds the control.
func (s SubmitControl) Busy() bool {
	return !s.Enabled
}

var (
	idleControl = SubmitControl{Enabled: true, Label: LabelIdle}
	busyControl = SubmitControl{Enabled: false, Label: LabelBusy}
)

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-shot acknowledgment for the user
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// State is a copy of the controller's view state
type State struct {
	Users   []users.User    `json:"users"`
	Loading bool            `json:"loading"`
	Draft   users.DraftUser `json:"draft"`
	Control SubmitControl   `json:"control"`
}

// Controller keeps the local user list in step with the remote service.
//
// All state lives behind mu; network calls are made without holding it. The
// collection only grows: it is replaced once by the initial read and otherwise
// changed only by appending records the service returned.
type Controller struct {
	api     UsersAPI
	profile Profile
	logger  *zap.Logger

	initOnce sync.Once

	mu      sync.Mutex
	users   []users.User
	loading bool
	draft   users.DraftUser
	control SubmitControl
	notice  *Notice
	// records appended while the initial read was outstanding
	pending []users.User
}

// NewController creates a controller. The collection reads as loading until
// Initialize has finished.
func NewController(api UsersAPI, profile Profile, logger *zap.Logger) *Controller {
	return &Controller{
		api:     api,
		profile: profile,
		logger:  logger,
		users:   []users.User{},
		loading: true,
		control: idleControl,
	}
}

// Profile returns the submission profile the controller was built with
func (c *Controller) Profile() Profile {
	return c.profile
}

// Initialize fetches the collection. Only the first call does any work; read
// failures are logged and leave the list as it was.
func (c *Controller) Initialize(ctx context.Context) {
	c.initOnce.Do(func() {
		c.load(ctx)
	})
}

func (c *Controller) load(ctx context.Context) {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	list, err := c.api.ListUsers(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	pending := c.pending
	c.pending = nil
	c.loading = false

	if err != nil {
		c.logger.Error("Error fetching users", zap.Error(err))
		return
	}

	c.users = mergeLoaded(list, pending)
	c.logger.Info("Users loaded",
		zap.Int("count", len(list)),
		zap.Int("kept_appended", len(c.users)-len(list)))
}

// mergeLoaded puts records appended during the read after the read result,
// skipping those the read already contains.
func mergeLoaded(loaded, pending []users.User) []users.User {
	merged := make([]users.User, 0, len(loaded)+len(pending))
	merged = append(merged, loaded...)
	if len(pending) == 0 {
		return merged
	}

	seen := make(map[users.ID]struct{}, len(loaded))
	for _, u := range loaded {
		if !u.ID.IsZero() {
			seen[u.ID] = struct{}{}
		}
	}
	for _, u := range pending {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		merged = append(merged, u)
	}
	return merged
}

// Submit sends draft to the service and appends the created record. Failures
// are reported according to the controller's profile and returned.
func (c *Controller) Submit(ctx context.Context, draft users.DraftUser) (*users.User, error) {
	if c.profile == ProfileSilent {
		return c.submitSilent(ctx, draft)
	}
	return c.submitConfirmed(ctx, draft)
}

func (c *Controller) submitSilent(ctx context.Context, draft users.DraftUser) (*users.User, error) {
	c.setDraft(draft)

	user, err := c.api.CreateUser(ctx, draft)
	if err != nil {
		c.logger.Error("Error creating user", zap.Error(err))
		return nil, err
	}

	c.appendUser(*user)
	return user, nil
}

func (c *Controller) submitConfirmed(ctx context.Context, draft users.DraftUser) (*users.User, error) {
	release, err := c.acquireControl()
	if err != nil {
		c.logger.Warn("Submission rejected", zap.Error(err))
		c.setNotice(NoticeError, messageErrorPrefix+err.Error())
		return nil, err
	}
	defer release()

	c.setDraft(draft)

	user, err := c.api.CreateUser(ctx, draft)
	if err != nil {
		c.logger.Error("Error creating user", zap.Error(err))
		c.setNotice(NoticeError, messageErrorPrefix+err.Error())
		return nil, err
	}

	c.appendUser(*user)
	c.setNotice(NoticeSuccess, MessageAdded)
	return user, nil
}

// acquireControl moves the submit control to busy and returns the function
// that puts back exactly what was there before.
func (c *Controller) acquireControl() (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.control.Busy() {
		return nil, ErrSubmitInProgress
	}
	prev := c.control
	c.control = busyControl

	return func() {
		c.mu.Lock()
		c.control = prev
		c.mu.Unlock()
	}, nil
}

func (c *Controller) appendUser(u users.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.users = append(c.users, u)
	if c.loading {
		c.pending = append(c.pending, u)
	}
	c.draft = users.DraftUser{}

	c.logger.Info("User added", zap.Stringer("id", u.ID), zap.Int("count", len(c.users)))
}

func (c *Controller) setDraft(d users.DraftUser) {
	c.mu.Lock()
	c.draft = d
	c.mu.Unlock()
}

func (c *Controller) setNotice(kind NoticeKind, msg string) {
	c.mu.Lock()
	c.notice = &Notice{Kind: kind, Message: msg}
	c.mu.Unlock()
}

// Snapshot returns a copy of the current view state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := make([]users.User, len(c.users))
	copy(list, c.users)

	return State{
		Users:   list,
		Loading: c.loading,
		Draft:   c.draft,
		Control: c.control,
	}
}

// TakeNotice returns the pending notice, if any, and clears it
func (c *Controller) TakeNotice() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.notice
	c.notice = nil
	return n
}
