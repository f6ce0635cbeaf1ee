package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/soyeahso/lingochat/internal/config"
	"github.com/soyeahso/lingochat/internal/domain"
	"github.com/soyeahso/lingochat/internal/session"
	"github.com/soyeahso/lingochat/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show lingochat configuration and optionally probe the chat service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "lingochat %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Fprintf(out, "Config:   %s\n", paths.Config)
			fmt.Fprintf(out, "Env:      %s\n", paths.Env)
			if _, err := os.Stat(paths.Config); os.IsNotExist(err) {
				fmt.Fprintln(out, "          not found (using defaults)")
			}
			if cfgErr != nil {
				fmt.Fprintf(out, "          error loading: %v\n", cfgErr)
				return nil
			}
			fmt.Fprintln(out)

			fmt.Fprintf(out, "Server:   %s (handshake %ds, read limit %d bytes)\n",
				cfg.Server.URL, cfg.Server.HandshakeTimeoutSeconds, cfg.Server.ReadLimitBytes)

			identity := domain.NewIdentity(cfg.Identity.Name, cfg.Identity.Language)
			fmt.Fprintf(out, "Identity: %s, %s\n", identity.DisplayName, domain.LanguageName(identity.PreferredLanguage))
			fmt.Fprintf(out, "Logging:  level=%s style=%s\n", cfg.Logging.Level, cfg.Logging.ConsoleStyle)
			if cfg.Metrics.Addr != "" {
				fmt.Fprintf(out, "Metrics:  %s\n", cfg.Metrics.Addr)
			} else {
				fmt.Fprintln(out, "Metrics:  (disabled)")
			}
			var counts []string
			for _, list := range cfg.Hooks.Lists() {
				if len(list.Entries) > 0 {
					counts = append(counts, fmt.Sprintf("%s=%d", list.Key, len(list.Entries)))
				}
			}
			if len(counts) > 0 {
				fmt.Fprintf(out, "Hooks:    %s\n", strings.Join(counts, " "))
			} else {
				fmt.Fprintln(out, "Hooks:    (none)")
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s: %s\n", issue.Path, issue.Message)
				}
				return nil
			}

			if probe {
				state, err := probeServer(cmd.Context(), identity)
				if err != nil {
					fmt.Fprintf(out, "\nProbe:    %s (%v)\n", state, err)
				} else {
					fmt.Fprintf(out, "\nProbe:    %s\n", state)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "connect to the chat service and report the result (joins the room and sends the greeting)")
	return cmd
}

// probeServer opens one session, waits for it to settle and closes it.
func probeServer(ctx context.Context, identity domain.SessionIdentity) (domain.ConnectionState, error) {
	timeout := time.Duration(cfg.Server.HandshakeTimeoutSeconds) * time.Second
	dialer := &session.WebSocketDialer{HandshakeTimeout: timeout, ReadLimit: cfg.Server.ReadLimitBytes}

	m := session.New(cfg.Server.URL, dialer, log)
	defer m.Close()

	if err := m.Begin(ctx, identity); err != nil {
		return m.State(), err
	}
	select {
	case <-m.Settled():
	case <-ctx.Done():
		return m.State(), ctx.Err()
	}
	return m.State(), m.Err()
}
