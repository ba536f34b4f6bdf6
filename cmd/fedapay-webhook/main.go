// Command fedapay-webhook signs and verifies FedaPay webhook payloads.
//
// The payload is read from stdin unless --payload names a file. The secret
// defaults to $FEDAPAY_WEBHOOK_SECRET.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	fedapay "github.com/fedapay/fedapay-go"
)

const secretEnv = "FEDAPAY_WEBHOOK_SECRET"

// Config holds the process environment of a run.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
	Getenv func(string) string
}

// DefaultConfig returns a Config bound to the real process.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Now:    time.Now,
		Getenv: os.Getenv,
	}
}

func run(args []string, cfg Config) error {
	root := rootCmd(cfg)
	root.SetArgs(args[1:])
	return root.Execute()
}

func rootCmd(cfg Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "fedapay-webhook",
		Short:         "Sign and verify FedaPay webhook payloads",
		Version:       fedapay.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	root.AddCommand(signCmd(cfg))
	root.AddCommand(verifyCmd(cfg))
	return root
}

type signOutput struct {
	Header    string `json:"header"`
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
}

func signCmd(cfg Config) *cobra.Command {
	var (
		secret      string
		timestamp   int64
		scheme      string
		payloadPath string
	)

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the signature header for a payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("a secret is required: pass --secret or set %s", secretEnv)
			}
			payload, err := readPayload(payloadPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ts := cfg.Now()
			if timestamp != 0 {
				ts = time.Unix(timestamp, 0)
			}

			signature := fedapay.ComputeSignature(ts, payload, secret)
			return json.NewEncoder(cmd.OutOrStdout()).Encode(signOutput{
				Header:    fedapay.GenerateHeader(ts, signature, scheme),
				Signature: signature,
				Timestamp: ts.Unix(),
			})
		},
	}

	cmd.Flags().StringVarP(&secret, "secret", "s", cfg.Getenv(secretEnv), "Webhook secret")
	cmd.Flags().Int64VarP(&timestamp, "timestamp", "t", 0, "Unix timestamp (default now)")
	cmd.Flags().StringVar(&scheme, "scheme", fedapay.DefaultSignatureScheme, "Signature scheme")
	cmd.Flags().StringVarP(&payloadPath, "payload", "p", "-", "Payload file, - for stdin")

	return cmd
}

type verifyOutput struct {
	Valid bool           `json:"valid"`
	Error string         `json:"error,omitempty"`
	Event *fedapay.Event `json:"event,omitempty"`
}

func verifyCmd(cfg Config) *cobra.Command {
	var (
		secret      string
		header      string
		tolerance   time.Duration
		scheme      string
		payloadPath string
		decode      bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the signature header of a payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return fmt.Errorf("a secret is required: pass --secret or set %s", secretEnv)
			}
			payload, err := readPayload(payloadPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			opts := []fedapay.WebhookOption{
				fedapay.WithWebhookTolerance(tolerance),
				fedapay.WithWebhookScheme(scheme),
				fedapay.WithWebhookClock(cfg.Now),
			}

			out := verifyOutput{Valid: true}
			if decode {
				out.Event, err = fedapay.ConstructEvent(payload, header, secret, opts...)
			} else {
				err = fedapay.VerifyHeader(payload, header, secret, opts...)
			}
			if err != nil {
				out = verifyOutput{Error: err.Error()}
			}

			if encErr := json.NewEncoder(cmd.OutOrStdout()).Encode(out); encErr != nil {
				return encErr
			}
			if err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&secret, "secret", "s", cfg.Getenv(secretEnv), "Webhook secret")
	cmd.Flags().StringVarP(&header, "header", "H", "", "X-FEDAPAY-SIGNATURE header value")
	cmd.Flags().DurationVar(&tolerance, "tolerance", fedapay.DefaultWebhookTolerance, "Maximum age, 0 to disable")
	cmd.Flags().StringVar(&scheme, "scheme", fedapay.DefaultSignatureScheme, "Signature scheme")
	cmd.Flags().StringVarP(&payloadPath, "payload", "p", "-", "Payload file, - for stdin")
	cmd.Flags().BoolVarP(&decode, "event", "e", false, "Decode and print the event")
	_ = cmd.MarkFlagRequired("header")

	return cmd
}

func readPayload(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
