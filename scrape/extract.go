package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JohnBaeGH/smio-app/models"
)

// Sentinels shown when a field could not be scraped at all.
const (
	UnknownName    = "가게 이름 정보 없음"
	UnknownAddress = "주소 정보 없음"
	UnknownPhone   = "전화번호 정보 없음"
	UnknownParking = "주차 정보 없음"
)

var nonDigitRegex = regexp.MustCompile(`\D`)

// Candidate selectors are tried in order and the first non-empty match
// wins. The class names drift whenever the page is redeployed, so every
// field carries structural fallbacks after the current class names.
var (
	menuNameSelectors = []string{
		"span.lPzHi",
		"div.yQlqY span",
		"span[class*='name']",
		"div[class*='name'] span",
		"span[class*='title']",
		"div[class*='title'] span",
		"h3", "h4", "h5",
		"div.MXkFw span",
		"div.meDTN span",
	}

	menuPriceSelectors = []string{
		"div.GXS1X em",
		"div.GXS1X",
		"em",
		"span[class*='price']",
		"div[class*='price']",
	}

	storeNameSelectors = []string{
		"div.zD5Nm div.LylZZ.v8v5j span.GHAhO",
		"span.GHAhO",
		"h1", "h2",
		".restaurant_title",
		".place_name",
		"[data-type='title']",
		"div[class*='title'] span",
		"div[class*='name'] span",
		"span[class*='title']",
		"span[class*='name']",
	}

	storeTypeSelectors = []string{
		"div.zD5Nm div.LylZZ.v8v5j span.lnJFt",
		"span.lnJFt",
	}

	addressSelectors = []string{
		"span.LDgIH",
		"span[class*='addr']",
	}

	phoneSelectors = []string{
		"span.xlx7Q",
		"span[class*='phone']",
	}

	ratingSelectors = []string{
		"span.PXMot.LXIwF em",
		"span.PXMot em",
	}

	shortDescSelectors = []string{
		"div.XtBbS",
		"div[class*='desc']",
	}

	parkingStatusSelectors = []string{
		"div.place_section_content div.OWPIf em",
		"div[class*='parking'] em",
		"span[class*='parking']",
	}

	parkingTypeSelectors = []string{
		"div.place_section_content div.OWPIf span.place_blind + span",
		"div[class*='parking'] span",
	}

	parkingDetailSelectors = []string{
		"div.place_section_content div.TZ6fS",
		"div[class*='parking_detail']",
	}
)

// firstText tries each selector in order and returns the first
// non-empty trimmed text. A miss is a normal outcome, never an error.
func firstText(root *goquery.Selection, selectors []string) (string, bool) {
	for _, selector := range selectors {
		node := root.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			return text, true
		}
	}
	return "", false
}

// firstPrice returns the first selector whose text yields a parseable
// integer after stripping every non-digit rune.
func firstPrice(root *goquery.Selection, selectors []string) (int, bool) {
	for _, selector := range selectors {
		node := root.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		digits := nonDigitRegex.ReplaceAllString(node.Text(), "")
		if digits == "" {
			continue
		}
		if price, err := strconv.Atoi(digits); err == nil {
			return price, true
		}
	}
	return 0, false
}

// ExtractMenu parses the menu-tab snapshot into menu items. Items whose
// name resolves through no selector are dropped; duplicates by
// (name, price) keep only the first occurrence.
func ExtractMenu(html string) []models.MenuItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var items []models.MenuItem
	seen := make(map[string]struct{})

	doc.Find(menuItemSelector).Each(func(_ int, node *goquery.Selection) {
		name, ok := firstText(node, menuNameSelectors)
		if !ok {
			return
		}

		var price *int
		if p, ok := firstPrice(node, menuPriceSelectors); ok {
			price = &p
		}

		key := name + "_"
		if price != nil {
			key = fmt.Sprintf("%s_%d", name, *price)
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		items = append(items, models.MenuItem{Name: name, Price: price})
	})

	return items
}

// HomeInfo is the partial record scraped off the home tab.
type HomeInfo struct {
	Name      string
	Type      string
	Rating    string
	ShortDesc string
	Address   string
	Phone     string
}

func ExtractHome(html string) HomeInfo {
	var info HomeInfo
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return info
	}

	root := doc.Selection
	info.Name, _ = firstText(root, storeNameSelectors)
	info.Type, _ = firstText(root, storeTypeSelectors)
	info.Rating, _ = firstText(root, ratingSelectors)
	info.ShortDesc, _ = firstText(root, shortDescSelectors)
	info.Address, _ = firstText(root, addressSelectors)
	info.Phone, _ = firstText(root, phoneSelectors)
	return info
}

// ExtractParking assembles the parking line from the info-tab snapshot:
// a status fragment, an optional parenthesized type, and an optional
// detail on its own line. All three absent yields the sentinel.
func ExtractParking(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return UnknownParking
	}

	root := doc.Selection
	status, hasStatus := firstText(root, parkingStatusSelectors)
	kind, hasKind := firstText(root, parkingTypeSelectors)
	detail, hasDetail := firstText(root, parkingDetailSelectors)

	if !hasStatus && !hasKind && !hasDetail {
		return UnknownParking
	}

	var b strings.Builder
	b.WriteString(status)
	if hasKind {
		if hasStatus {
			b.WriteString(" ")
		}
		b.WriteString("(" + kind + ")")
	}
	if hasDetail {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(detail)
	}
	return b.String()
}
