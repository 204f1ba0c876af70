package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var hashRegex = regexp.MustCompile("^[a-fA-F0-9]{40}$")

func ValidateHash(hashes []string) error {
	var invalid []string

	for _, hash := range hashes {
		if !hashRegex.MatchString(hash) {
			invalid = append(invalid, hash)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid hashes: %s", strings.Join(invalid, ","))
	}

	return nil
}

var downloadSchemes = map[string]struct{}{
	"http":  {},
	"https": {},
	"ftp":   {},
	"ftps":  {},
}

// ValidateURL checks that raw is an absolute url the engine can fetch
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}

	if _, ok := downloadSchemes[strings.ToLower(u.Scheme)]; !ok {
		return fmt.Errorf("unsupported url scheme %q: %s", u.Scheme, raw)
	}

	if u.Host == "" {
		return fmt.Errorf("url has no host: %s", raw)
	}

	return nil
}

// FileNameFromURL returns the last path element of raw, or "" if there is none
func FileNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	name := u.Path[strings.LastIndex(u.Path, "/")+1:]
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name
}
