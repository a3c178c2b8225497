package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"chargesol/backend/services/registry-service/internal/clients"
	"chargesol/backend/services/registry-service/internal/station"
	"chargesol/backend/services/registry-service/internal/wizard"
)

type registerOptions struct {
	server    string
	token     string
	dryRun    bool
	unguarded bool
	timeout   time.Duration
}

// Register returns the command running the interactive registration wizard.
//
// Flags:
//
//	--server: registry-service base URL
//	--token: bearer token for the registry-service (or CHARGESOL_TOKEN)
//	--dry-run: print the validated station as YAML instead of submitting
//	--unguarded: allow Continue with invalid fields; errors surface on Submit
func Register(newLogger func() *zap.Logger) *cobra.Command {
	var opts registerOptions

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a charging station interactively",
		Long: `Register a charging station step by step:

  1. Station Details   name, address, city, state, zip, description
  2. Technical Specs   charger type, power, price, connectors
  3. Verification      review the summary and submit

Use --dry-run to validate locally and print the station as YAML.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.token == "" {
				opts.token = os.Getenv("CHARGESOL_TOKEN")
			}
			logger := newLogger()
			defer func() { _ = logger.Sync() }()

			out := cmd.OutOrStdout()
			prompter := &formPrompter{guarded: !opts.unguarded, out: out}
			err := runRegister(cmd.Context(), opts, prompter, out, logger)
			if errors.Is(err, ErrCancelled) {
				fmt.Fprintln(out, "Registration cancelled.")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.server, "server", "http://localhost:8085", "Registry service URL")
	cmd.Flags().StringVar(&opts.token, "token", "", "Bearer token for the registry service")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the station as YAML instead of submitting")
	cmd.Flags().BoolVar(&opts.unguarded, "unguarded", false, "Allow continuing past invalid steps")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "Registry request timeout")

	return cmd
}

func runRegister(ctx context.Context, opts registerOptions, prompter Prompter, out io.Writer, logger *zap.Logger) error {
	submitter, err := opts.submitter(out)
	if err != nil {
		return err
	}

	policy := wizard.GuardedProgression
	if opts.unguarded {
		policy = wizard.UnguardedProgression
	}
	var route string
	w := wizard.New(wizard.Options{
		Policy:    policy,
		Submitter: submitter,
		Navigator: wizard.NavigatorFunc(func(path string) { route = path }),
	})

	s := &session{w: w, prompt: prompter, out: out, logger: logger}
	st, err := s.run(ctx)
	if err != nil {
		return err
	}
	if !opts.dryRun {
		fmt.Fprintln(out, RenderRegistered(st, route))
	}
	return nil
}

func (o registerOptions) submitter(out io.Writer) (wizard.Submitter, error) {
	if o.dryRun {
		return yamlSubmitter{out: out}, nil
	}
	if o.token == "" {
		return nil, errors.New("a registry token is required (--token or CHARGESOL_TOKEN); use --dry-run to validate locally")
	}
	return clients.NewRegistryClient(o.server, o.token, clients.NewDefaultHTTPClient(o.timeout)), nil
}

// yamlSubmitter writes the station instead of sending it anywhere.
type yamlSubmitter struct {
	out io.Writer
}

func (y yamlSubmitter) Submit(_ context.Context, st *station.Station) error {
	enc := yaml.NewEncoder(y.out)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return err
	}
	return enc.Close()
}
