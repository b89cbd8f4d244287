package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// ClickStatus distinguishes "nothing to click" from "click blew up";
// the pagination loop treats the two differently.
type ClickStatus int

const (
	ClickOK ClickStatus = iota
	ClickAbsent
	ClickFailed
)

// Session is the narrow boundary to the headless browser. The navigator
// and extractor only ever see this interface, so they can be exercised
// against recorded HTML without a browser.
type Session interface {
	Navigate(url string) error
	// EnterFrame switches the working document into the first matching
	// iframe. Returns false when none of the selectors matched; the
	// session then keeps operating on the top-level document.
	EnterFrame(selectors []string) bool
	// ClickByText finds the first element in the selector list whose
	// visible text contains label, scrolls it into view and clicks it.
	ClickByText(selectors []string, label string) (ClickStatus, error)
	CountNodes(selector string) int
	HTML() (string, error)
	Sleep(d time.Duration)
	Close()
}

type chromeSession struct {
	ctx             context.Context
	cancels         []context.CancelFunc
	frameSelector   string
	pageLoadTimeout time.Duration
	elementWait     time.Duration
	log             *logrus.Entry
}

func (s *chromeSession) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.pageLoadTimeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Navigate(url))
}

func (s *chromeSession) EnterFrame(selectors []string) bool {
	var matched string
	if err := s.eval(enterFrameScript(selectors), &matched); err != nil {
		s.log.WithError(err).Debug("iframe probe failed")
		return false
	}
	if matched == "" {
		return false
	}
	s.frameSelector = matched
	s.log.WithField("selector", matched).Debug("entered iframe")
	return true
}

func (s *chromeSession) ClickByText(selectors []string, label string) (ClickStatus, error) {
	var outcome string
	if err := s.eval(clickScript(s.frameSelector, selectors, label), &outcome); err != nil {
		return ClickFailed, err
	}
	switch outcome {
	case "clicked":
		return ClickOK, nil
	case "absent":
		return ClickAbsent, nil
	default:
		return ClickFailed, nil
	}
}

func (s *chromeSession) CountNodes(selector string) int {
	var count int
	if err := s.eval(countScript(s.frameSelector, selector), &count); err != nil {
		return 0
	}
	return count
}

func (s *chromeSession) HTML() (string, error) {
	var html string
	if err := s.eval(htmlScript(s.frameSelector), &html); err != nil {
		return "", err
	}
	return html, nil
}

func (s *chromeSession) Sleep(d time.Duration) {
	select {
	case <-s.ctx.Done():
	case <-time.After(d):
	}
}

func (s *chromeSession) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

func (s *chromeSession) eval(script string, out interface{}) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.elementWait)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Evaluate(script, out))
}

// The in-page logic runs as injected scripts. Each script resolves its
// working document first: the place page renders inside a same-origin
// iframe, and after EnterFrame every operation must address that
// document instead of the top-level one.
const docPrelude = `
  var doc = document;
  if (frameSel) {
    var frame = document.querySelector(frameSel);
    if (frame && frame.contentDocument) doc = frame.contentDocument;
  }`

func enterFrameScript(selectors []string) string {
	return fmt.Sprintf(`(function () {
  var sels = %s;
  for (var i = 0; i < sels.length; i++) {
    var f = document.querySelector(sels[i]);
    if (f && f.contentDocument) return sels[i];
  }
  return "";
})()`, jsArray(selectors))
}

func clickScript(frameSel string, selectors []string, label string) string {
	return fmt.Sprintf(`(function () {
  var frameSel = %s;%s
  var sels = %s;
  var label = %s;
  var target = null;
  for (var i = 0; i < sels.length && !target; i++) {
    var nodes = doc.querySelectorAll(sels[i]);
    for (var j = 0; j < nodes.length; j++) {
      if ((nodes[j].textContent || '').indexOf(label) !== -1) {
        target = nodes[j];
        break;
      }
    }
  }
  if (!target) return "absent";
  try {
    target.scrollIntoView({block: 'center'});
    target.click();
    return "clicked";
  } catch (e) {
    return "failed";
  }
})()`, jsString(frameSel), docPrelude, jsArray(selectors), jsString(label))
}

func countScript(frameSel, selector string) string {
	return fmt.Sprintf(`(function () {
  var frameSel = %s;%s
  return doc.querySelectorAll(%s).length;
})()`, jsString(frameSel), docPrelude, jsString(selector))
}

func htmlScript(frameSel string) string {
	return fmt.Sprintf(`(function () {
  var frameSel = %s;%s
  return doc.documentElement ? doc.documentElement.outerHTML : "";
})()`, jsString(frameSel), docPrelude)
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func jsArray(items []string) string {
	b, _ := json.Marshal(items)
	return string(b)
}
