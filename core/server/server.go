// Package server exposes the interactive shell over SSH. Every accepted
// connection gets its own session OS, so concurrent logins can't observe
// each other's environment or working directory.
package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/gliderlabs/ssh"
	"github.com/juju/ratelimit"
	gossh "golang.org/x/crypto/ssh"

	"github.com/keelsh/keelsh/commands"
	"github.com/keelsh/keelsh/core/config"
	"github.com/keelsh/keelsh/core/logger"
	"github.com/keelsh/keelsh/core/shell"
	"github.com/keelsh/keelsh/core/sys"
)

// Password attempts are paced globally so the server can't be used as a
// fast guessing oracle.
const (
	authAttemptsPerSecond = 5
	authBurst             = 5
)

type sshContextKey struct {
	name string
}

// contextAuthPassword holds the password the client authenticated with so
// the session handler can record it alongside the session events.
var contextAuthPassword = sshContextKey{"auth-password"}

// Server serves the shell to SSH clients.
type Server struct {
	configuration *config.Configuration
	events        *logger.Logger
	diag          *slog.Logger
	kernel        sys.Kernel
	sshServer     *ssh.Server
	authBucket    *ratelimit.Bucket
}

// New builds a Server from a loaded configuration. Session events are
// recorded through events, operational diagnostics go to diag.
func New(configuration *config.Configuration, events *logger.Logger, diag *slog.Logger) (*Server, error) {
	keyPem, err := configuration.PrivateKeyPem()
	if err != nil {
		return nil, fmt.Errorf("reading host key: %w", err)
	}
	signer, err := gossh.ParsePrivateKey(keyPem)
	if err != nil {
		return nil, fmt.Errorf("parsing host key: %w", err)
	}

	srv := &Server{
		configuration: configuration,
		events:        events,
		diag:          diag,
		kernel:        sys.NewHostKernel(configuration.Uname.Utsname()),
		authBucket:    ratelimit.NewBucketWithRate(authAttemptsPerSecond, authBurst),
	}

	srv.sshServer = &ssh.Server{
		Addr:            fmt.Sprintf(":%d", configuration.SSHPort),
		Handler:         srv.handleSession,
		PasswordHandler: srv.handlePassword,
		ServerConfigCallback: func(ctx ssh.Context) *gossh.ServerConfig {
			conf := &gossh.ServerConfig{}
			if banner := configuration.SSHBanner; banner != "" {
				conf.BannerCallback = func(gossh.ConnMetadata) string {
					return banner
				}
			}
			return conf
		},
	}
	srv.sshServer.AddHostKey(signer)

	return srv, nil
}

// Addr returns the address the server listens on.
func (srv *Server) Addr() string {
	return srv.sshServer.Addr
}

// ListenAndServe blocks serving connections until Shutdown is called or the
// listener fails.
func (srv *Server) ListenAndServe() error {
	srv.diag.Info("listening", "addr", srv.sshServer.Addr)
	return srv.sshServer.ListenAndServe()
}

// Shutdown stops the server, waiting for active sessions up to the context
// deadline.
func (srv *Server) Shutdown(ctx context.Context) error {
	return srv.sshServer.Shutdown(ctx)
}

// handlePassword decides whether a password login is accepted and records
// the attempt. Denied attempts are logged here since no session will exist
// for them; accepted ones are logged by the session handler under their
// session ID.
func (srv *Server) handlePassword(ctx ssh.Context, password string) bool {
	srv.authBucket.Wait(1)

	ok := srv.configuration.AllowAnyPassword ||
		anyPasswordMatches(srv.configuration.GetPasswords(ctx.User()), password)

	ctx.SetValue(contextAuthPassword, password)
	if !ok {
		srv.events.Sessionless().Record(&logger.LoginAttempt{
			Username:   ctx.User(),
			Password:   password,
			RemoteAddr: ctx.RemoteAddr().String(),
		})
		srv.diag.Info("login denied", "user", ctx.User(), "remote", ctx.RemoteAddr().String())
	}
	return ok
}

// anyPasswordMatches reports whether candidate equals one of allowed. Every
// entry is compared so the timing doesn't leak the matching position.
func anyPasswordMatches(allowed []string, candidate string) bool {
	matched := false
	for _, p := range allowed {
		if subtle.ConstantTimeCompare([]byte(p), []byte(candidate)) == 1 {
			matched = true
		}
	}
	return matched
}

// handleSession runs one interactive shell over the SSH channel.
func (srv *Server) handleSession(s ssh.Session) {
	sessionLogger := srv.events.NewSession()
	remoteAddr := s.RemoteAddr().String()

	password, _ := s.Context().Value(contextAuthPassword).(string)
	sessionLogger.Record(&logger.LoginAttempt{
		Username:   s.User(),
		Password:   password,
		RemoteAddr: remoteAddr,
		Success:    true,
	})
	sessionLogger.Record(&logger.SessionStart{User: s.User(), RemoteAddr: remoteAddr})
	srv.diag.Info("session started",
		"session_id", sessionLogger.SessionID(), "user", s.User(), "remote", remoteAddr)

	system, home := srv.newSessionOS(s, sessionLogger)

	ptyInfo, winch, isPTY := s.Pty()
	system.SetPTY(sys.PTY{
		Width:  ptyInfo.Window.Width,
		Height: ptyInfo.Window.Height,
		Term:   ptyInfo.Term,
		IsPTY:  isPTY,
	})
	go func() {
		for window := range winch {
			system.SetPTY(sys.PTY{
				Width:  window.Width,
				Height: window.Height,
				Term:   ptyInfo.Term,
				IsPTY:  isPTY,
			})
		}
	}()

	sh := shell.NewShell(system, commands.Builtins())
	sh.MOTD = srv.configuration.Motd
	sh.DefaultHome = home
	sh.DefaultWorkdir = home

	code := sh.Run()

	sessionLogger.Record(&logger.SessionEnd{ExitCode: code})
	srv.diag.Info("session ended",
		"session_id", sessionLogger.SessionID(), "user", s.User(), "exit_code", code)
	s.Exit(code)
}

// newSessionOS builds the per-session OS: the client's environment topped
// up with the account's identity variables, starting in the account's home
// directory. Returns the OS and the home it settled on.
func (srv *Server) newSessionOS(s ssh.Session, events *logger.SessionLogger) (*sys.SessionOS, string) {
	account, known := srv.configuration.LookupUser(s.User())
	if !known {
		account = config.User{
			Username: s.User(),
			Home:     srv.configuration.OS.DefaultHome,
			Shell:    srv.configuration.OS.DefaultShell,
		}
	}
	if account.Home == "" {
		account.Home = "/"
	}

	env := sys.NewMapEnvFromList(s.Environ())
	sys.SetenvDefault(env, "USER", account.Username)
	sys.SetenvDefault(env, "LOGNAME", account.Username)
	sys.SetenvDefault(env, "SHELL", account.Shell)
	sys.SetenvDefault(env, "PATH", srv.configuration.OS.DefaultPath)

	system := sys.NewSessionOS(srv.kernel, srv.configuration.Dir(), events, sys.SessionAttr{
		Files: sys.NewIOAdapter(s, s, s.Stderr()),
		Env:   env,
		Dir:   account.Home,
	})
	return system, account.Home
}
