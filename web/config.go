package web

import "time"

// Duration is a time.Duration that reads and writes as text, such as "10s", in
// TOML files.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() (text []byte, err error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	p, err := time.ParseDuration(string(text))
	*d = Duration(p)
	return err
}

// Config holds the settings of the preview server, read from the [serve]
// section of the site configuration.
type Config struct {
	CacheBytes    int64             `toml:"cache_bytes"`    // size of the groupcache group
	CacheDuration Duration          `toml:"cache_duration"` // how long a cached file may be served
	Headers       map[string]string `toml:"headers"`        // added to every response
	NotFound      string            `toml:"not_found"`      // page served with 404 responses
}

// DefaultConfig returns a 10MB cache that expires after two seconds, so
// rebuilt pages show up quickly, disables browser caching and answers missing
// pages (such as links to skipped files) with the landing page.
func DefaultConfig() Config {
	return Config{
		CacheBytes:    10 * 1024 * 1024,
		CacheDuration: Duration(2 * time.Second),
		Headers: map[string]string{
			"Cache-Control": "no-cache",
		},
		NotFound: "index.html",
	}
}
