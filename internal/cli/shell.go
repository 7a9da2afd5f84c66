package cli

import (
	"fmt"
	"os"

	"github.com/pulseboard/pulseboard/internal/common/httpclient"
	"github.com/pulseboard/pulseboard/internal/session"
	"github.com/pulseboard/pulseboard/pkg/api"
)

// shell adapts the session manager's UI effects to the terminal. The
// "views" of the web console become hints about which command to run next.
type shell struct {
	view session.View
}

func newShell() *shell {
	return &shell{view: session.ViewLogin}
}

// Notify implements session.Notifier.
func (s *shell) Notify(n session.Notification) {
	if jsonOutput {
		return
	}
	label := okLabel
	if n.Variant == session.VariantDestructive {
		label = errorLabel
	}
	label.Fprintf(os.Stderr, "%s\n", n.Title)
	if n.Description != "" {
		fmt.Fprintf(os.Stderr, "%s\n", n.Description)
	}
}

// CurrentView implements session.Navigator.
func (s *shell) CurrentView() session.View {
	return s.view
}

// NavigateTo implements session.Navigator.
func (s *shell) NavigateTo(v session.View) {
	s.view = v
	if jsonOutput {
		return
	}
	if v == session.ViewLogin {
		fmt.Fprintln(os.Stderr, "Run \"pulseboard login\" to sign in.")
	}
}

// newAPI builds the typed service surface on the loaded configuration.
func newAPI() (*api.API, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}
	return api.New(httpclient.NewClient(cfg)), nil
}

// newSession builds a session manager bound to the loaded configuration
// and a terminal shell. Commands that begin signed in pass atLogin=false so
// an expiry hint is printed.
func newSession(atLogin bool) (*session.Manager, *api.API, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, nil, fmt.Errorf("no configuration loaded")
	}
	svc := api.New(httpclient.NewClient(cfg))
	sh := newShell()
	if !atLogin {
		sh.view = session.ViewDashboard
	}
	return session.NewManager(svc.Auth, cfg, sh, sh), svc, nil
}

// checkExpiry routes an envelope through the session expiry handler so a
// stale token is cleared and the sign-in hint printed exactly once.
func checkExpiry(env *httpclient.Envelope) error {
	if env == nil || env.Success {
		return nil
	}
	if !env.SessionExpired {
		return nil
	}
	mgr, _, err := newSession(false)
	if err != nil {
		return err
	}
	mgr.HandleExpiry(env)
	return fmt.Errorf("%s", env.Message)
}

// envelopeError turns a failed envelope into a command error, giving the
// session expiry path the first say.
func envelopeError(env *httpclient.Envelope) error {
	if env == nil || env.Success {
		return nil
	}
	if err := checkExpiry(env); err != nil {
		return err
	}
	return fmt.Errorf("%s", env.ErrorMessage())
}
