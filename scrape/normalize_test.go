package scrape

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// redirectTransport serves a 302 from the short-link host to finalURL
// and a plain 200 everywhere else, so the client's redirect machinery
// runs for real.
type redirectTransport struct {
	finalURL string
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}
	if strings.Contains(req.URL.Host, "naver.me") {
		resp.StatusCode = http.StatusFound
		resp.Header.Set("Location", rt.finalURL)
	}
	return resp, nil
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, io.ErrUnexpectedEOF
}

func newTestNormalizer(transport http.RoundTripper) *Normalizer {
	return &Normalizer{
		client:     &http.Client{Transport: transport, Timeout: time.Second},
		dnsServers: nil, // skip the resolver probe
		log:        testLog(),
	}
}

func TestExtractURL(t *testing.T) {
	n := newTestNormalizer(nil)
	tests := []struct {
		name string
		text string
		want string
	}{
		{"short link with korean text", "맛집 https://naver.me/abcd123 가봐요", "https://naver.me/abcd123"},
		{"mobile place url", "https://m.place.naver.com/restaurant/12345/menu/list", "https://m.place.naver.com/restaurant/12345/menu/list"},
		{"map url", "위치: https://map.naver.com/p/entry/place/98765", "https://map.naver.com/p/entry/place/98765"},
		{"schemeless short link", "여기 naver.me/xYz987 어때", "https://naver.me/xYz987"},
		{"non naver url ignored", "https://example.com/menu", ""},
		{"no url at all", "그냥 점심 뭐 먹지", ""},
		{"trailing punctuation stripped", "https://naver.me/abcd123,", "https://naver.me/abcd123"},
	}
	for _, tt := range tests {
		if got := n.ExtractURL(tt.text); got != tt.want {
			t.Errorf("%s: ExtractURL(%q) = %q, want %q", tt.name, tt.text, got, tt.want)
		}
	}
}

func TestNormalizeShortLink(t *testing.T) {
	n := newTestNormalizer(redirectTransport{finalURL: "https://m.place.naver.com/restaurant/55555/home"})

	canonical, placeID, ok := n.Normalize("맛집 https://naver.me/abcd123")
	if !ok {
		t.Fatal("expected short link to normalize")
	}
	if placeID != "55555" {
		t.Errorf("placeID = %q, want 55555", placeID)
	}
	want := "https://m.place.naver.com/restaurant/55555/menu/list?entry=plt"
	if canonical != want {
		t.Errorf("canonical = %q, want %q", canonical, want)
	}
}

func TestNormalizeIdempotentOnCanonical(t *testing.T) {
	n := newTestNormalizer(nil)
	input := "https://m.place.naver.com/restaurant/55555/menu/list?entry=plt"

	canonical, placeID, ok := n.Normalize(input)
	if !ok || canonical != input || placeID != "55555" {
		t.Errorf("Normalize(canonical) = (%q, %q, %v), want unchanged", canonical, placeID, ok)
	}
}

func TestNormalizeRedirectFailureNonFatal(t *testing.T) {
	n := newTestNormalizer(failingTransport{})

	// The unresolved short link has no place id, so normalization fails
	// cleanly rather than panicking or erroring.
	if _, _, ok := n.Normalize("https://naver.me/abcd123"); ok {
		t.Error("expected normalization to fail when redirect cannot resolve a place id")
	}
}

func TestNormalizeNoURL(t *testing.T) {
	n := newTestNormalizer(nil)
	if _, _, ok := n.Normalize("점심 추천 좀"); ok {
		t.Error("expected ok=false for text without a url")
	}
}

func TestNormalizePlaceIDPatterns(t *testing.T) {
	n := newTestNormalizer(nil)
	tests := []struct {
		text   string
		wantID string
	}{
		{"https://map.naver.com/p/entry/place/11111", "11111"},
		{"https://m.place.naver.com/restaurant/22222/home", "22222"},
		{"https://pcmap.place.naver.com/restaurant/33333/menu/list?from=map", "33333"},
	}
	for _, tt := range tests {
		_, placeID, ok := n.Normalize(tt.text)
		if !ok || placeID != tt.wantID {
			t.Errorf("Normalize(%q) placeID = %q ok=%v, want %q", tt.text, placeID, ok, tt.wantID)
		}
	}
}
