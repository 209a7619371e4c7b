// Package host describes the CI host that notifications originate from.
package host

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ilindan-dev/webhook-notifier/internal/config"
)

// UnknownUser is reported when the host has no current user.
const UnknownUser = "unknown"

// ConfigHistoryPlugin is the collaborator that serves job configuration diffs.
const ConfigHistoryPlugin = "jobConfigHistory"

// Collaborator is a plugin installed on the CI host.
type Collaborator struct {
	Name string
}

// Context is the read-only view of the CI host.
type Context interface {
	CurrentUser() string
	RootURL() string
	LookupCollaboratorPlugin(name string) (Collaborator, bool)
}

// Static is a Context backed by fixed values.
type Static struct {
	User          string
	Root          string
	Collaborators map[string]Collaborator
}

var _ Context = (*Static)(nil)

// NewStatic builds a Static context from the application config.
func NewStatic(cfg *config.Config) *Static {
	s := &Static{
		User:          cfg.Host.User,
		Root:          cfg.Host.RootURL,
		Collaborators: make(map[string]Collaborator, len(cfg.Host.Collaborators)),
	}
	for _, name := range cfg.Host.Collaborators {
		s.Collaborators[name] = Collaborator{Name: name}
	}
	return s
}

// CurrentUser returns the configured user or UnknownUser.
func (s *Static) CurrentUser() string {
	if s.User == "" {
		return UnknownUser
	}
	return s.User
}

func (s *Static) RootURL() string { return s.Root }

func (s *Static) LookupCollaboratorPlugin(name string) (Collaborator, bool) {
	c, ok := s.Collaborators[name]
	return c, ok
}

// AbsoluteURL resolves path against the host root URL.
func AbsoluteURL(h Context, path string) (*url.URL, error) {
	root := h.RootURL()
	if root == "" {
		return nil, fmt.Errorf("host: root url is not configured")
	}
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	u, err := url.Parse(root + strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("host: malformed url for %q: %w", path, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("host: root url %q is not absolute", h.RootURL())
	}
	return u, nil
}
