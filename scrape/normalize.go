package scrape

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

const canonicalMenuURLFormat = "https://m.place.naver.com/restaurant/%s/menu/list?entry=plt"

var (
	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)https?://[^\s]+`),
		regexp.MustCompile(`(?i)https://naver\.me/[A-Za-z0-9]+`),
		regexp.MustCompile(`(?i)https://map\.naver\.com/[^\s]+`),
		regexp.MustCompile(`(?i)https://m\.place\.naver\.com/[^\s]+`),
		regexp.MustCompile(`(?i)http://[^\s]+naver[^\s]+`),
	}

	naverKeywords = []string{
		"naver.me",
		"map.naver.com",
		"place.naver.com",
		"m.place.naver.com",
		"m.map.naver.com",
		"pcmap.place.naver.com",
	}

	placeIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`place/(\d+)`),
		regexp.MustCompile(`restaurant/(\d+)`),
		regexp.MustCompile(`entry/place/(\d+)`),
		regexp.MustCompile(`/(\d+)/?(?:\?|$)`),
	}

	trailingJunkRegex = regexp.MustCompile(`[^\w\-./:=?&%#]+$`)
	bareShortLinkRegex = regexp.MustCompile(`(?i)naver\.me/[A-Za-z0-9]+`)
)

// Normalizer turns free-form pasted text into a canonical mobile menu
// URL. Short links are resolved through their redirect chain; resolution
// failures are tolerated and the unresolved URL is used as-is.
type Normalizer struct {
	client     *http.Client
	dnsServers []string
	log        *logrus.Entry
}

func NewNormalizer(redirectTimeout time.Duration, log *logrus.Entry) *Normalizer {
	return &Normalizer{
		client:     &http.Client{Timeout: redirectTimeout},
		dnsServers: []string{"8.8.8.8:53", "1.1.1.1:53"},
		log:        log,
	}
}

// ExtractURL scans text for a Naver place URL. Returns "" when nothing
// in the text looks like one.
func (n *Normalizer) ExtractURL(text string) string {
	var found []string
	for _, pattern := range urlPatterns {
		found = append(found, pattern.FindAllString(text, -1)...)
	}

	for _, candidate := range found {
		lower := strings.ToLower(candidate)
		for _, keyword := range naverKeywords {
			if strings.Contains(lower, keyword) {
				return trailingJunkRegex.ReplaceAllString(candidate, "")
			}
		}
	}

	// Scheme may be missing when the link was retyped by hand.
	if m := bareShortLinkRegex.FindString(text); m != "" {
		return "https://" + m
	}
	return ""
}

// Normalize extracts a place URL from text and converts it to the
// canonical mobile menu URL. ok is false when no URL or no place ID
// could be found.
func (n *Normalizer) Normalize(text string) (canonical, placeID string, ok bool) {
	raw := n.ExtractURL(text)
	if raw == "" {
		n.log.WithField("text_len", len(text)).Debug("no naver url in text")
		return "", "", false
	}

	resolved := raw
	if strings.Contains(strings.ToLower(raw), "naver.me") {
		resolved = n.resolveShortLink(raw)
	}

	for _, pattern := range placeIDPatterns {
		if m := pattern.FindStringSubmatch(resolved); m != nil {
			placeID = m[1]
			break
		}
	}
	if placeID == "" {
		n.log.WithField("url", resolved).Debug("no place id in url")
		return "", "", false
	}

	if strings.Contains(resolved, "m.place.naver.com") && strings.Contains(resolved, "/menu/") {
		return resolved, placeID, true
	}
	return fmt.Sprintf(canonicalMenuURLFormat, placeID), placeID, true
}

// resolveShortLink follows the redirect chain of a naver.me link with a
// HEAD request. Any failure, including an unresolvable host, returns the
// original URL so the caller can keep going.
func (n *Normalizer) resolveShortLink(shortURL string) string {
	if parsed, err := url.Parse(shortURL); err == nil {
		if host := parsed.Hostname(); host != "" && !n.hostResolvable(host) {
			n.log.WithField("host", host).Warn("short link host did not resolve, skipping redirect")
			return shortURL
		}
	}

	resp, err := n.client.Head(shortURL)
	if err != nil {
		n.log.WithError(err).Warn("short link redirect failed, using unresolved url")
		return shortURL
	}
	defer resp.Body.Close()
	return resp.Request.URL.String()
}

// hostResolvable asks public resolvers for an A record before the HEAD
// request goes out. An empty resolver list skips the probe.
func (n *Normalizer) hostResolvable(host string) bool {
	if len(n.dnsServers) == 0 {
		return true
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	client := new(dns.Client)
	for _, server := range n.dnsServers {
		if resp, _, err := client.Exchange(msg, server); err == nil {
			if resp != nil && resp.Rcode == dns.RcodeSuccess && len(resp.Answer) > 0 {
				return true
			}
		}
	}
	return false
}
