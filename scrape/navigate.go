package scrape

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	menuItemSelector  = "div.place_section_content ul > li.E2jtL"
	entryFrameWait    = 20 * time.Second
	framePollInterval = 500 * time.Millisecond
	pageSettleWait    = 3 * time.Second
	tabSettleWait     = 2 * time.Second
	loadMoreWait      = time.Second
)

var (
	tabSelectors = []string{
		"a[role='tab']",
		"a.tpj9w._tab-menu",
		"a[href*='/menu']",
		"span.veBoZ",
		"a._tab-menu",
	}

	homeTabSelectors = []string{
		"a[role='tab']",
		"a.tpj9w._tab-menu",
		"span.veBoZ",
	}

	frameFallbackSelectors = []string{
		"iframe#entryIframe",
		"iframe#searchIframe",
		"iframe#placeIframe",
		"iframe[src*='entry']",
		"iframe[src*='place']",
	}
)

// NavResult carries one HTML snapshot per tab the navigator managed to
// reach. A missing snapshot means that tab's fields stay unpopulated.
type NavResult struct {
	MenuHTML string
	HomeHTML string
	InfoHTML string
	// MenuTruncated marks a pagination loop that stopped on click
	// failures rather than on "no more items".
	MenuTruncated bool
}

// Navigator walks the place page tab by tab. Every step except the
// initial navigation is best effort: a failed step degrades the result
// instead of aborting the scrape.
type Navigator struct {
	session     Session
	log         *logrus.Entry
	maxLoadMore int
	retryBudget int
}

func NewNavigator(session Session, maxLoadMore, retryBudget int, log *logrus.Entry) *Navigator {
	return &Navigator{
		session:     session,
		log:         log,
		maxLoadMore: maxLoadMore,
		retryBudget: retryBudget,
	}
}

func (n *Navigator) Run(url string) (NavResult, error) {
	var result NavResult

	if err := n.session.Navigate(url); err != nil {
		return result, err
	}

	n.enterPlaceFrame()
	n.session.Sleep(pageSettleWait)

	if n.clickTab(tabSelectors, "메뉴") {
		result.MenuTruncated = n.expandMenu()
	}

	n.session.Sleep(tabSettleWait)
	if html, err := n.session.HTML(); err == nil {
		result.MenuHTML = html
	} else {
		n.log.WithError(err).Warn("menu snapshot failed")
	}

	if n.clickTab(homeTabSelectors, "홈") {
		if html, err := n.session.HTML(); err == nil {
			result.HomeHTML = html
		}
	}

	if n.clickTab(homeTabSelectors, "정보") {
		if html, err := n.session.HTML(); err == nil {
			result.InfoHTML = html
		}
	}

	return result, nil
}

// enterPlaceFrame waits for the entry iframe, then falls back to the
// wider selector list, then gives up and stays on the top document.
func (n *Navigator) enterPlaceFrame() {
	deadline := time.Now().Add(entryFrameWait)
	for time.Now().Before(deadline) {
		if n.session.EnterFrame([]string{"iframe#entryIframe"}) {
			return
		}
		n.session.Sleep(framePollInterval)
	}

	if n.session.EnterFrame(frameFallbackSelectors) {
		return
	}
	n.log.Info("no place iframe found, continuing on top-level document")
}

func (n *Navigator) clickTab(selectors []string, label string) bool {
	status, err := n.session.ClickByText(selectors, label)
	if err != nil || status != ClickOK {
		n.log.WithFields(logrus.Fields{"tab": label, "status": status}).Info("tab click skipped")
		return false
	}
	n.session.Sleep(tabSettleWait)
	return true
}

// expandMenu drives the "load more" control until the list stops
// growing. An absent control is the normal terminal state; click
// failures burn a bounded retry budget and, once exhausted, leave the
// menu truncated. Returns true when the menu is truncated.
func (n *Navigator) expandMenu() bool {
	retries := n.retryBudget

	for clicks := 0; clicks < n.maxLoadMore; {
		before := n.session.CountNodes(menuItemSelector)

		status, err := n.session.ClickByText([]string{"span.TeItc"}, "더보기")
		switch {
		case err == nil && status == ClickAbsent:
			n.log.WithField("clicks", clicks).Debug("load more exhausted")
			return false
		case err != nil || status == ClickFailed:
			if retries--; retries < 0 {
				n.log.WithField("clicks", clicks).Warn("load more click kept failing, menu may be truncated")
				return true
			}
			n.session.Sleep(loadMoreWait)
			continue
		}

		n.session.Sleep(loadMoreWait)
		if n.session.CountNodes(menuItemSelector) <= before {
			// Click landed but nothing new appeared.
			return false
		}
		clicks++
	}
	return false
}
