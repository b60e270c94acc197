package optisport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/favstats/zwemsterdam/internal/logger"
)

const (
	// DefaultChallengeWait bounds how long the bot challenge may take to
	// clear before the whole adapter run is abandoned.
	DefaultChallengeWait = 90 * time.Second

	// challengePollInterval is how often the page title is re-checked
	// while waiting for the challenge to clear.
	challengePollInterval = 2 * time.Second

	tokenPath = "/api/v1/csrf-token"
)

// challengeMarkers are title fragments shown while the bot challenge is
// still active.
var challengeMarkers = []string{"just a moment", "even geduld", "checking your browser"}

// ChallengeTimeoutError means the bot challenge never cleared within the wait
// budget. All locations are skipped for this run; there is no per-location
// recovery from a failed bootstrap.
type ChallengeTimeoutError struct {
	Wait time.Duration
}

func (e *ChallengeTimeoutError) Error() string {
	return fmt.Sprintf("optisport: bot challenge did not clear within %s", e.Wait)
}

// BrowserSession is one bootstrapped headless-browser session: challenge
// cleared, token extracted, cookies live in the browser context. It must be
// released with Close. Calls serialize on an internal mutex; the session
// holds shared cookie state and does not support concurrent users.
type BrowserSession struct {
	mu      sync.Mutex
	ctx     context.Context
	cancels []context.CancelFunc
	baseURL string
	token   string
}

// SessionOptions configures the bootstrap.
type SessionOptions struct {
	// BaseURL of the Optisport site.
	BaseURL string
	// ChallengeWait overrides DefaultChallengeWait when positive.
	ChallengeWait time.Duration
	// Headful disables headless mode for local debugging.
	Headful bool
}

// NewBrowserSession launches a Chromium instance, navigates to the site,
// waits for the bot challenge to clear and extracts the API token. The
// returned session is ready for API calls.
func NewBrowserSession(parent context.Context, opts SessionOptions) (*BrowserSession, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("optisport: BaseURL is required")
	}
	wait := opts.ChallengeWait
	if wait <= 0 {
		wait = DefaultChallengeWait
	}

	allocOpts := chromedp.DefaultExecAllocatorOptions[:]
	if opts.Headful {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &BrowserSession{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}

	if err := s.bootstrap(wait); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the browser and its contexts.
func (s *BrowserSession) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// bootstrap drives the session through the challenge page and then reads the
// token endpoint from inside the cleared session.
func (s *BrowserSession) bootstrap(wait time.Duration) error {
	navCtx, cancel := context.WithTimeout(s.ctx, wait)
	defer cancel()

	if err := chromedp.Run(navCtx, chromedp.Navigate(s.baseURL)); err != nil {
		return fmt.Errorf("optisport: initial navigation: %w", err)
	}

	if err := s.awaitChallengeCleared(navCtx, wait); err != nil {
		return err
	}

	var tokenResp struct {
		Token string `json:"token"`
	}
	if err := s.evalJSON(navCtx, fetchExpr("GET", s.baseURL+tokenPath, "", ""), &tokenResp); err != nil {
		return fmt.Errorf("optisport: token endpoint: %w", err)
	}
	if tokenResp.Token == "" {
		return fmt.Errorf("optisport: token endpoint returned no token")
	}
	s.token = tokenResp.Token

	logger.Info("optisport session bootstrapped", nil)
	return nil
}

// awaitChallengeCleared polls the page title until no challenge marker
// remains or the wait budget runs out.
func (s *BrowserSession) awaitChallengeCleared(ctx context.Context, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		var title string
		if err := chromedp.Run(ctx, chromedp.Title(&title)); err != nil {
			return fmt.Errorf("optisport: reading page title: %w", err)
		}
		if !isChallengeTitle(title) {
			return nil
		}
		if time.Now().After(deadline) {
			return &ChallengeTimeoutError{Wait: wait}
		}
		logger.Debug("optisport challenge still active", logger.Fields{"title": title})

		select {
		case <-ctx.Done():
			return &ChallengeTimeoutError{Wait: wait}
		case <-time.After(challengePollInterval):
		}
	}
}

func isChallengeTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// apiCallTimeout bounds a single in-page API call.
const apiCallTimeout = 30 * time.Second

// evalJSON runs a fetch expression inside the page, awaits the promise and
// decodes the resulting body text as JSON into out. Serialized: the browser
// session has one cookie jar and one token, so concurrent calls would race.
// The call runs on the session's own browser context; the caller's ctx only
// cancels it.
func (s *BrowserSession) evalJSON(ctx context.Context, expr string, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(s.ctx, apiCallTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var body string
	err := chromedp.Run(runCtx, chromedp.Evaluate(expr, &body,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}))
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(body), out)
}

// fetchExpr builds a same-origin fetch expression resolving to the response
// body text. Cookies ride along via the browser; the token travels in a
// header.
func fetchExpr(method, url, token, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "fetch(%q, {method: %q, credentials: \"same-origin\"", url, method)
	if token != "" || body != "" {
		b.WriteString(", headers: {")
		if body != "" {
			b.WriteString(`"Content-Type": "application/json"`)
			if token != "" {
				b.WriteString(", ")
			}
		}
		if token != "" {
			fmt.Fprintf(&b, `"X-CSRF-Token": %q`, token)
		}
		b.WriteString("}")
	}
	if body != "" {
		fmt.Fprintf(&b, ", body: %q", body)
	}
	b.WriteString("}).then(r => r.text())")
	return b.String()
}
