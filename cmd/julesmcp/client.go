package main

import (
	"errors"

	"github.com/julesmcp/julesmcp/internal/config"
	"github.com/julesmcp/julesmcp/internal/jules"
)

// newAPIClient builds a Jules client from startup configuration. Missing
// configuration is reported as an invalid-args exit, not a generic failure.
func newAPIClient() (*jules.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "%v", err)
	}

	var opts []jules.Option
	if cfg.BaseURL != "" {
		opts = append(opts, jules.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout() > 0 {
		opts = append(opts, jules.WithTimeout(cfg.Timeout()))
	}

	client, err := jules.New(cfg.APIKey, opts...)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "%v", err)
	}
	return client, nil
}

// apiExitError maps a client error onto the CLI exit-code taxonomy.
func apiExitError(err error) error {
	var ae *jules.Error
	if !errors.As(err, &ae) {
		return exitError(ExitAPIError, "%v", err)
	}
	switch ae.Kind {
	case jules.KindInvalidArgument:
		return exitError(ExitInvalidArgs, "%v", err)
	case jules.KindTransport:
		return exitError(ExitTransport, "%v", err)
	default:
		return exitError(ExitAPIError, "%v", err)
	}
}
