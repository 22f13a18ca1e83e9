// Package validation holds the input checks shared by the configuration
// layer and the demo host: hostnames, data file paths, browser URLs and
// WebSocket origins.
package validation

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var (
	dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
	hostnameRegex  = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
)

// ValidateHostname accepts IP addresses, "localhost" and RFC 1123 host names.
func ValidateHostname(host string) error {
	for _, char := range dangerousChars {
		if strings.Contains(host, char) {
			return fmt.Errorf("contains dangerous character: %s", char)
		}
	}
	if net.ParseIP(host) != nil || host == "localhost" {
		return nil
	}
	if !hostnameRegex.MatchString(host) {
		return fmt.Errorf("invalid hostname format")
	}
	return nil
}

// ValidatePath rejects control and shell metacharacters in a file path.
// Backslashes are allowed for Windows paths.
func ValidatePath(p string) error {
	if strings.ContainsAny(p, "\x00\n\r") {
		return fmt.Errorf("path contains control characters")
	}
	for _, char := range dangerousChars {
		if char == "\\" {
			continue
		}
		if strings.Contains(p, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}
	return nil
}

// ValidateURL checks a URL before it is handed to the system browser
// launcher.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (only http/https allowed)", parsed.Scheme)
	}
	if strings.ContainsAny(rawURL, " \n\r") {
		return fmt.Errorf("URL contains whitespace")
	}
	for _, char := range dangerousChars {
		if strings.Contains(rawURL, char) {
			return fmt.Errorf("URL contains dangerous character: %s", char)
		}
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}
	return nil
}

// ValidateOrigin checks a browser Origin header against host patterns such
// as "localhost:*", matched with path.Match.
func ValidateOrigin(origin string, patterns []string) error {
	if origin == "" {
		return fmt.Errorf("origin header is required")
	}
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid origin scheme %q: only http and https are allowed", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("origin %q has no host", origin)
	}
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, u.Host); err == nil && ok {
			return nil
		}
	}
	return fmt.Errorf("origin %q is not in allowed origins", origin)
}
