package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/soyeahso/lingochat/internal/chat"
	"github.com/soyeahso/lingochat/internal/config"
	"github.com/soyeahso/lingochat/internal/domain"
	"github.com/soyeahso/lingochat/internal/hooks"
	"github.com/soyeahso/lingochat/internal/logging"
	"github.com/soyeahso/lingochat/internal/metrics"
	"github.com/soyeahso/lingochat/internal/render"
	"github.com/soyeahso/lingochat/internal/session"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	var (
		name        string
		language    string
		url         string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Join the chat service and start chatting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}

			c := cfg
			if url != "" {
				c.Server.URL = url
			}
			if metricsAddr != "" {
				c.Metrics.Addr = metricsAddr
			}
			if name == "" {
				name = c.Identity.Name
			}
			if language == "" {
				language = c.Identity.Language
			}

			issues := config.Validate(&c)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			bus := hooks.NewManager(log)
			registerCommandHooks(bus, c.Hooks, log)

			mt := metrics.New()
			if c.Metrics.Addr != "" {
				go func() {
					if err := mt.Serve(ctx, c.Metrics.Addr, log); err != nil {
						log.Error().Err(err).Msg("metrics endpoint failed")
					}
				}()
			}

			dialer := &session.WebSocketDialer{
				HandshakeTimeout: time.Duration(c.Server.HandshakeTimeoutSeconds) * time.Second,
				ReadLimit:        c.Server.ReadLimitBytes,
			}
			view := session.NewView(func() *session.Manager {
				return session.New(c.Server.URL, dialer, log, session.WithHooks(bus), session.WithMetrics(mt))
			})
			defer view.Close()

			term := newTerminal(cmd.OutOrStdout())
			term.attach(bus)

			loop := &chatLoop{view: view, term: term, name: name, language: language}
			return loop.run(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (default Anonymous)")
	cmd.Flags().StringVar(&language, "language", "", "preferred language: zh-Hans, vi, th or id")
	cmd.Flags().StringVar(&url, "url", "", "chat service WebSocket URL (default from config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on host:port")

	return cmd
}

// hookEvents maps config hook keys to bus events.
var hookEvents = map[string]string{
	"sessionStart":    hooks.EventSessionStart,
	"stateChanged":    hooks.EventStateChanged,
	"messageReceived": hooks.EventMessageReceived,
	"messageSent":     hooks.EventMessageSent,
	"frameDropped":    hooks.EventFrameDropped,
	"sessionEnd":      hooks.EventSessionEnd,
}

// registerCommandHooks subscribes the configured shell commands.
func registerCommandHooks(bus *hooks.Manager, cfg config.HooksConfig, log *logging.Logger) {
	for _, list := range cfg.Lists() {
		event := hookEvents[list.Key]
		for i, e := range list.Entries {
			timeout := time.Duration(e.Timeout) * time.Millisecond
			bus.On(event, fmt.Sprintf("command-%d", i), hooks.CommandHandler(e.Command, timeout, log))
		}
	}
}

// terminal serializes output from the input loop and the session goroutine.
type terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func newTerminal(out io.Writer) *terminal {
	return &terminal{out: out}
}

func (t *terminal) attach(bus *hooks.Manager) {
	bus.On(hooks.EventMessageReceived, "terminal", func(_ context.Context, p hooks.Payload) error {
		t.mu.Lock()
		defer t.mu.Unlock()
		return render.Message(t.out, *p.Message, p.SessionID)
	})
	bus.On(hooks.EventStateChanged, "terminal", func(_ context.Context, p hooks.Payload) error {
		if p.Error != "" {
			t.printf("* %s: %s\n", p.State, p.Error)
			return nil
		}
		t.printf("* %s\n", p.State)
		return nil
	})
}

func (t *terminal) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *terminal) do(fn func(w io.Writer) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.out)
}

const chatHelp = `Commands:
  /name <name>      change display name and reconnect
  /lang <language>  change preferred language and reconnect
  /history          show received messages
  /state            show connection state
  /quit             leave the chat
Anything else is sent as a message.
`

// chatLoop reads user input and drives the view.
type chatLoop struct {
	view     *session.View
	term     *terminal
	name     string
	language string
}

func (l *chatLoop) run(ctx context.Context, in io.Reader) error {
	if err := l.reactivate(ctx); err != nil {
		return err
	}

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			quit, err := l.handle(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

// handle processes one input line and reports whether the user asked to quit.
func (l *chatLoop) handle(ctx context.Context, line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		l.send(line)
		return false, nil
	}

	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch command {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		l.term.printf("%s", chatHelp)
	case "/state":
		m := l.view.Current()
		return false, l.term.do(func(w io.Writer) error {
			return render.State(w, m.State(), m.Identity())
		})
	case "/history":
		m := l.view.Current()
		return false, l.term.do(func(w io.Writer) error {
			return render.History(w, m.History(), m.LocalID())
		})
	case "/name":
		if arg == "" {
			l.term.printf("usage: /name <name>\n")
			return false, nil
		}
		l.name = arg
		return false, l.reactivate(ctx)
	case "/lang":
		if arg == "" {
			l.term.printf("usage: /lang <%s>\n", strings.Join(domain.Languages, "|"))
			return false, nil
		}
		if !domain.IsRecognizedLanguage(arg) {
			l.term.printf("note: %q is not one of %s\n", arg, strings.Join(domain.Languages, ", "))
		}
		l.language = arg
		return false, l.reactivate(ctx)
	default:
		l.term.printf("unknown command %s (try /help)\n", command)
	}
	return false, nil
}

// reactivate replaces the session and waits for the connection attempt to
// resolve, so input is not sent into a connecting session.
func (l *chatLoop) reactivate(ctx context.Context) error {
	m, err := l.view.Activate(ctx, l.name, l.language)
	if err != nil {
		return err
	}
	select {
	case <-m.Settled():
	case <-ctx.Done():
	}
	return nil
}

func (l *chatLoop) send(line string) {
	text := chat.TruncateInput(line)
	if text != line {
		l.term.printf("message cut to %d characters\n", chat.MaxMessageUnits)
	}

	err := l.view.Current().Send(text)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotConnected):
		l.term.printf("not sent: %s (state %s)\n", err, l.view.Current().State())
	default:
		l.term.printf("not sent: %s\n", err)
	}
}
