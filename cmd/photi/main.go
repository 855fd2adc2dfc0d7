package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alloon/photi-go/client"
	"github.com/alloon/photi-go/credentials"
	"github.com/alloon/photi-go/defaults"
	"github.com/alloon/photi-go/session"
	"github.com/jessevdk/go-flags"
)

type globalOptions struct {
	BaseURL         string        `long:"base-url" env:"PHOTI_BASE_URL" description:"Photi API base url"`
	CredentialsFile string        `long:"credentials-file" env:"PHOTI_CREDENTIALS_FILE" description:"where the signed-in credential is kept"`
	LogLevel        string        `long:"log-level" env:"PHOTI_LOG_LEVEL" description:"trace, debug, info, warn or error"`
	RetryMax        int           `long:"retry-max" description:"network retries per request, -1 disables"`
	DialTimeout     time.Duration `long:"dial-timeout" default:"10s" description:"timeout for establishing a connection"`
}

var (
	options globalOptions
	stdout  io.Writer = os.Stdout
)

func main() {
	parser := flags.NewParser(&options, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "photi"
	registerCommands(parser)

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

// errorMessage shows the status and request id of Photi API errors.
func errorMessage(err error) string {
	var errorInfo *client.ErrorInfo
	if errors.As(err, &errorInfo) {
		return "photi: " + errorInfo.ErrorDetail()
	}
	return "photi: " + err.Error()
}

// newSession opens the session persisted in the credentials file.
func newSession(ctx context.Context) (*session.Session, error) {
	path := options.CredentialsFile
	if path == "" {
		var err error
		if path, err = defaults.CredentialsFile(); err != nil {
			return nil, err
		}
	}
	store, err := credentials.NewFileStore(path)
	if err != nil {
		return nil, err
	}
	return session.New(ctx, &session.Config{
		BaseURL:  options.BaseURL,
		Store:    store,
		LogLevel: options.LogLevel,
		RetryMax: options.RetryMax,
		AppName:  "photi-cli",
		OnSessionExpired: func(err error) {
			fmt.Fprintln(os.Stderr, "session expired, run `photi login` again:", err)
		},
	})
}

func commandContext() (context.Context, context.CancelFunc) {
	ctx := context.Background()
	if options.DialTimeout > 0 {
		ctx = client.WithDialTimeout(ctx, options.DialTimeout)
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
