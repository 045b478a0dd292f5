package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/dghubble/oauth1"
	"golang.org/x/sync/errgroup"
)

// LoginOptions tune the interactive login flow.
type LoginOptions struct {
	// Port for the local callback server; 0 lets the kernel pick one.
	Port int

	// PrintURL prints the authorization URL instead of opening a browser.
	PrintURL bool

	// Timeout bounds the wait for the user to authorize; defaults to 5m.
	Timeout time.Duration

	// Output receives user-facing progress lines; defaults to a no-op.
	Output func(format string, args ...any)
}

type callbackResult struct {
	token    string
	verifier string
}

// Login runs the full three-legged flow: fetch a request token, open the
// authorization page, catch the redirect on a local HTTP server, exchange
// the verifier for an access token, and persist it.
func (m *Manager) Login(ctx context.Context, opts LoginOptions) (StoredToken, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Minute
	}
	say := opts.Output
	if say == nil {
		say = func(string, ...any) {}
	}

	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(opts.Port)))
	if err != nil {
		return StoredToken{}, fmt.Errorf("listen for callback: %w", err)
	}
	callbackURL := "http://" + ln.Addr().String() + "/callback"
	say("Callback URL: %s", callbackURL)

	cfg := m.oauthConfig(callbackURL)

	requestToken, requestSecret, err := cfg.RequestToken()
	if err != nil {
		ln.Close()
		return StoredToken{}, fmt.Errorf("fetch request token: %w", err)
	}

	authURL, err := cfg.AuthorizationURL(requestToken)
	if err != nil {
		ln.Close()
		return StoredToken{}, fmt.Errorf("build authorization url: %w", err)
	}

	if opts.PrintURL {
		say("Open this URL to authorize:\n%s", authURL.String())
	} else if err := openBrowser(authURL.String()); err != nil {
		slog.WarnContext(ctx, "Could not open browser", "error", err)
		say("Open this URL to authorize:\n%s", authURL.String())
	} else {
		say("Browser opened; complete the authorization there.")
	}

	resultCh := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		token, verifier, err := oauth1.ParseAuthorizationCallback(r)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, callbackFailurePage)
			return
		}
		fmt.Fprint(w, callbackSuccessPage)
		select {
		case resultCh <- callbackResult{token: token, verifier: verifier}:
		default:
		}
	})

	srv := &http.Server{Handler: mux}
	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var result callbackResult
	g, gctx := errgroup.WithContext(waitCtx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("callback server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		select {
		case result = <-resultCh:
			return nil
		case <-gctx.Done():
			return fmt.Errorf("authorization timed out: %w", gctx.Err())
		}
	})

	say("Waiting for authorization (timeout %s)...", opts.Timeout)
	if err := g.Wait(); err != nil {
		return StoredToken{}, err
	}

	if result.token != requestToken {
		return StoredToken{}, errors.New("oauth token mismatch in callback")
	}

	accessToken, accessSecret, err := cfg.AccessToken(requestToken, requestSecret, result.verifier)
	if err != nil {
		return StoredToken{}, fmt.Errorf("fetch access token: %w", err)
	}

	tok := StoredToken{
		AccessToken:       accessToken,
		AccessTokenSecret: accessSecret,
		Timestamp:         time.Now().Unix(),
	}
	if err := m.SaveTokens(tok); err != nil {
		return StoredToken{}, err
	}

	say("Login complete; tokens saved.")
	return tok, nil
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

const callbackSuccessPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Authorized</title></head>
<body><h1>Authorization complete</h1>
<p>You may close this tab and return to the terminal.</p></body></html>`

const callbackFailurePage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Authorization failed</title></head>
<body><h1>Authorization failed</h1>
<p>The callback was missing the expected parameters.</p></body></html>`
