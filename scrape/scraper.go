package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JohnBaeGH/smio-app/models"
)

// Result is the outcome of one scrape attempt. Failures are carried as
// a user-facing message, never as a propagated error: the handler
// serializes Err straight into the {"error": ...} response.
type Result struct {
	Info *models.RestaurantInfo
	Err  string
}

func (r Result) OK() bool { return r.Err == "" && r.Info != nil }

type cacheEntry struct {
	info    models.RestaurantInfo
	scraped time.Time
}

// Scraper runs the full pipeline: provision a browser, walk the page,
// extract fields. Successful results are cached per canonical URL so
// repeated room creations within the TTL skip the browser entirely.
type Scraper struct {
	browserCfg BrowserConfig
	log        *logrus.Entry

	// newSession is swappable in tests.
	newSession func(ctx context.Context) (Session, error)

	maxLoadMore int
	retryBudget int

	mu    sync.Mutex
	cache map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewScraper(browserCfg BrowserConfig, maxLoadMore, retryBudget int, cacheTTL time.Duration, log *logrus.Entry) *Scraper {
	s := &Scraper{
		browserCfg:  browserCfg,
		log:         log,
		maxLoadMore: maxLoadMore,
		retryBudget: retryBudget,
		cache:       make(map[string]cacheEntry),
		ttl:         cacheTTL,
		now:         time.Now,
	}
	s.newSession = func(ctx context.Context) (Session, error) {
		return Provision(ctx, s.browserCfg, s.log)
	}
	return s
}

// Scrape fetches the restaurant behind a canonical menu URL. It never
// returns a Go error; every failure mode collapses into Result.Err.
func (s *Scraper) Scrape(ctx context.Context, canonicalURL, placeID string) Result {
	if cached, ok := s.cached(canonicalURL); ok {
		s.log.WithField("url", canonicalURL).Info("scrape served from cache")
		return Result{Info: &cached}
	}

	session, err := s.newSession(ctx)
	if err != nil || session == nil {
		return Result{Err: "브라우저 드라이버 설정에 실패했습니다. 잠시 후 다시 시도해주세요."}
	}
	// The session is released no matter how the scrape ends.
	defer session.Close()

	nav := NewNavigator(session, s.maxLoadMore, s.retryBudget, s.log)
	navResult, err := nav.Run(canonicalURL)
	if err != nil {
		return Result{Err: scrapeErrorMessage(err)}
	}

	info := s.assemble(navResult, placeID)
	if len(info.Menu) == 0 {
		return Result{Err: "메뉴 정보를 가져오는 데 실패했습니다. URL을 확인하시거나 다른 가게를 시도해주세요."}
	}

	s.store(canonicalURL, info)
	return Result{Info: &info}
}

func (s *Scraper) assemble(nav NavResult, placeID string) models.RestaurantInfo {
	info := models.RestaurantInfo{
		Name:    UnknownName,
		Address: UnknownAddress,
		Phone:   UnknownPhone,
		Parking: UnknownParking,
		PlaceID: placeID,
	}

	if nav.MenuHTML != "" {
		info.Menu = ExtractMenu(nav.MenuHTML)
	}
	if nav.MenuTruncated {
		s.log.WithField("items", len(info.Menu)).Warn("menu list may be incomplete")
	}

	if nav.HomeHTML != "" {
		home := ExtractHome(nav.HomeHTML)
		if home.Name != "" {
			info.Name = home.Name
		}
		if home.Address != "" {
			info.Address = home.Address
		}
		if home.Phone != "" {
			info.Phone = home.Phone
		}
		info.Type = home.Type
		info.Rating = home.Rating
		info.ShortDesc = home.ShortDesc
	}

	if nav.InfoHTML != "" {
		info.Parking = ExtractParking(nav.InfoHTML)
	}

	return info
}

func (s *Scraper) cached(url string) (models.RestaurantInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[url]
	if !ok || s.now().Sub(entry.scraped) > s.ttl {
		delete(s.cache, url)
		return models.RestaurantInfo{}, false
	}
	return entry.info, true
}

func (s *Scraper) store(url string, info models.RestaurantInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[url] = cacheEntry{info: info, scraped: s.now()}
}

func scrapeErrorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "페이지 로딩 시간이 초과되었습니다. 네트워크 상태를 확인하고 다시 시도해주세요."
	}
	return fmt.Sprintf("스크래핑 중 오류가 발생했습니다: %v", err)
}
