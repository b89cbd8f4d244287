package scrape

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const scraperMenuFixture = `
<div class="place_section_content">
  <ul>
    <li class="E2jtL"><span class="lPzHi">제육볶음</span><div class="GXS1X"><em>10,000</em>원</div></li>
  </ul>
</div>`

func newTestScraper(t *testing.T, session Session) *Scraper {
	t.Helper()
	s := NewScraper(BrowserConfig{}, 5, 2, time.Hour, testLog())
	s.newSession = func(context.Context) (Session, error) { return session, nil }
	return s
}

func TestScrapeSuccess(t *testing.T) {
	session := &fakeSession{frameOK: true, html: scraperMenuFixture}
	s := newTestScraper(t, session)

	result := s.Scrape(context.Background(), "https://m.place.naver.com/restaurant/7/menu/list?entry=plt", "7")
	if !result.OK() {
		t.Fatalf("expected success, got error %q", result.Err)
	}
	if result.Info.PlaceID != "7" {
		t.Errorf("PlaceID = %q, want 7", result.Info.PlaceID)
	}
	if len(result.Info.Menu) != 1 || result.Info.Menu[0].Name != "제육볶음" {
		t.Errorf("menu = %+v", result.Info.Menu)
	}
	if !session.closed {
		t.Error("session must be closed after a scrape")
	}
}

func TestScrapeSentinelsWhenHomeMissing(t *testing.T) {
	// The fixture has menu markup but nothing the home extractor
	// recognizes, so identity fields fall back to their sentinels.
	session := &fakeSession{frameOK: true, html: scraperMenuFixture}
	s := newTestScraper(t, session)

	result := s.Scrape(context.Background(), "https://m.place.naver.com/restaurant/7/menu/list?entry=plt", "7")
	if !result.OK() {
		t.Fatalf("expected success, got error %q", result.Err)
	}
	if result.Info.Name != UnknownName {
		t.Errorf("Name = %q, want sentinel", result.Info.Name)
	}
	if result.Info.Address != UnknownAddress || result.Info.Phone != UnknownPhone {
		t.Errorf("Address/Phone = %q/%q, want sentinels", result.Info.Address, result.Info.Phone)
	}
}

func TestScrapeCache(t *testing.T) {
	session := &fakeSession{frameOK: true, html: scraperMenuFixture}
	s := newTestScraper(t, session)

	sessions := 0
	inner := s.newSession
	s.newSession = func(ctx context.Context) (Session, error) {
		sessions++
		return inner(ctx)
	}

	base := time.Now()
	s.now = func() time.Time { return base }

	url := "https://m.place.naver.com/restaurant/7/menu/list?entry=plt"
	if result := s.Scrape(context.Background(), url, "7"); !result.OK() {
		t.Fatalf("first scrape failed: %q", result.Err)
	}
	if result := s.Scrape(context.Background(), url, "7"); !result.OK() {
		t.Fatalf("cached scrape failed: %q", result.Err)
	}
	if sessions != 1 {
		t.Errorf("sessions created = %d, want 1 (second hit served from cache)", sessions)
	}

	// Past the TTL the entry is stale and the browser runs again.
	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	if result := s.Scrape(context.Background(), url, "7"); !result.OK() {
		t.Fatalf("post-expiry scrape failed: %q", result.Err)
	}
	if sessions != 2 {
		t.Errorf("sessions created = %d, want 2 after cache expiry", sessions)
	}
}

func TestScrapeProvisionFailure(t *testing.T) {
	s := NewScraper(BrowserConfig{}, 5, 2, time.Hour, testLog())
	s.newSession = func(context.Context) (Session, error) {
		return nil, errors.New("chrome not found")
	}

	result := s.Scrape(context.Background(), "https://m.place.naver.com/restaurant/7/menu/list?entry=plt", "7")
	if result.OK() {
		t.Fatal("expected failure when the browser cannot start")
	}
	if !strings.Contains(result.Err, "브라우저") {
		t.Errorf("error message = %q, want the browser setup message", result.Err)
	}
}

func TestScrapeEmptyMenu(t *testing.T) {
	session := &fakeSession{frameOK: true, html: "<html><body></body></html>"}
	s := newTestScraper(t, session)

	result := s.Scrape(context.Background(), "https://m.place.naver.com/restaurant/7/menu/list?entry=plt", "7")
	if result.OK() {
		t.Fatal("expected failure on an empty menu")
	}
	if !strings.Contains(result.Err, "메뉴 정보") {
		t.Errorf("error message = %q, want the empty-menu message", result.Err)
	}
	if !session.closed {
		t.Error("session must be closed even when extraction fails")
	}
}

func TestScrapeNavigateTimeout(t *testing.T) {
	session := &fakeSession{navigateErr: context.DeadlineExceeded}
	s := newTestScraper(t, session)

	result := s.Scrape(context.Background(), "https://m.place.naver.com/restaurant/7/menu/list?entry=plt", "7")
	if result.OK() {
		t.Fatal("expected failure on navigation timeout")
	}
	if !strings.Contains(result.Err, "시간이 초과") {
		t.Errorf("error message = %q, want the timeout message", result.Err)
	}
}
