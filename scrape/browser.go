package scrape

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// The same desktop UA the place pages are known to render for.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/98.0.4758.102 Safari/537.36"

var errNoBrowserBinary = errors.New("no chrome binary found in candidate paths")

// Candidate browser binaries for container/cloud deploys, probed in
// order. Locally chromedp discovers the browser on its own.
var chromeBinaryPaths = []string{
	"/usr/bin/chromium-browser",
	"/usr/bin/chromium",
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
}

type BrowserConfig struct {
	Headless        bool
	PageLoadTimeout time.Duration
	ElementWait     time.Duration
}

// isCloudEnv short-circuits over the env vars the usual deploy targets
// set.
func isCloudEnv() bool {
	return os.Getenv("RAILWAY_ENVIRONMENT") != "" ||
		os.Getenv("RAILWAY_PROJECT_ID") != "" ||
		os.Getenv("PORT") != ""
}

func firstExistingPath(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func allocatorOptions(cfg BrowserConfig) ([]chromedp.ExecAllocatorOption, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-plugins", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1280, 720),
		chromedp.UserAgent(browserUserAgent),
	)

	if isCloudEnv() {
		path := firstExistingPath(chromeBinaryPaths)
		if path == "" {
			return nil, errNoBrowserBinary
		}
		opts = append(opts, chromedp.ExecPath(path))
	}
	return opts, nil
}

// Provision launches a headless browser session. All failures are
// reported as an error; nothing panics out of here. The caller must
// Close the session even when later steps fail.
func Provision(ctx context.Context, cfg BrowserConfig, log *logrus.Entry) (Session, error) {
	opts, err := allocatorOptions(cfg)
	if err != nil {
		log.WithError(err).Error("browser provisioning failed")
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Starting the browser is deferred until the first action; run a
	// no-op so a missing or broken binary surfaces here, not mid-scrape.
	startCtx, startCancel := context.WithTimeout(browserCtx, cfg.PageLoadTimeout)
	defer startCancel()
	if err := chromedp.Run(startCtx); err != nil {
		browserCancel()
		allocCancel()
		log.WithError(err).Error("browser start failed")
		return nil, err
	}

	return &chromeSession{
		ctx:             browserCtx,
		cancels:         []context.CancelFunc{browserCancel, allocCancel},
		pageLoadTimeout: cfg.PageLoadTimeout,
		elementWait:     cfg.ElementWait,
		log:             log,
	}, nil
}
