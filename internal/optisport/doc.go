// Package optisport fetches schedules from the Cloudflare-protected
// Optisport API.
//
// The source cannot be fetched with a plain HTTP client: a bot challenge must
// first be cleared in a real rendered browser, after which a CSRF-style token
// and the session cookies unlock a paginated JSON API. The whole adapter runs
// against one long-lived chromedp session shared by all locations; the
// bootstrap is expensive and rate-limited, so per-location fetches serialize
// on it instead of bootstrapping per pool. API calls are issued from inside
// the page via fetch so the session cookies ride along automatically.
//
// Because the browser step is slow, its output is persisted to a JSON cache
// file that the pipeline reads in a separate, cheap run.
package optisport
