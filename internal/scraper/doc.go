// Package scraper provides the per-source adapters that fetch raw schedule
// data and map it into canonical sessions.
//
// Each source family has its own adapter: the municipal date-indexed JSON API,
// the Het Marnix admin-ajax endpoint, the Sportfondsen pages with an embedded
// JSON payload, and the Duranbad plain-HTML schedule text. Adapters are
// independent; one failing never blocks the others. Failures inside an
// adapter (one date, one record) are logged and skipped at the narrowest
// possible scope.
//
// The Cloudflare-protected Optisport source needs a persistent browser
// session and lives in the optisport package instead.
package scraper
