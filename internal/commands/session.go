package commands

import (
	"errors"
	"fmt"
	"io"

	"taskdeck/internal/api"
	"taskdeck/internal/auth"
	"taskdeck/internal/config"
	"taskdeck/internal/credstore"
	"taskdeck/internal/device"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

// openSession builds the credential stack from config: store, device
// identity, session client, and the session itself. Bootstrap is left
// to the caller; login does not want it, the service factory does.
func openSession(cfg *config.Config) (*auth.Session, *api.Client, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, nil, err
	}

	creds, err := credstore.Open(cfg.CredentialPath(), cfg.KeyPath())
	if err != nil {
		return nil, nil, err
	}

	deviceID, err := device.Identity(cfg.DevicePath())
	if err != nil {
		return nil, nil, err
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, creds, deviceID)
	return auth.NewSession(client, creds), client, nil
}

// fail prints err and maps it to an exit code by kind: blocked
// preconditions are user errors, expired or rejected sessions are auth
// errors, everything else is a backend error.
func fail(errOut io.Writer, err error) int {
	var pre *service.PreconditionError
	if errors.As(err, &pre) {
		fmt.Fprintf(errOut, "error: %s\n", pre.Rule)
		return exitcode.UserError
	}
	if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrSessionExpired) {
		fmt.Fprintf(errOut, "error: session expired (run: taskdeck login)\n")
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.BackendError
}
