package scrape

import "strings"

// Keyword match only: "커피 케이크" still counts as a beverage. Good
// enough for deciding whether to show the temperature sub-form.
var beverageKeywords = []string{
	"커피", "아메리카노", "라떼", "카페", "에스프레소", "모카", "카푸치노", "마끼아또",
	"차", "녹차", "홍차", "우롱차", "보리차", "쌍화차", "감잎차", "모과차",
	"주스", "스무디", "에이드", "레몬에이드", "라임에이드", "오렌지에이드",
	"콜라", "사이다", "환타", "스프라이트", "펩시", "코카콜라",
	"우유", "딸기우유", "초코우유", "바나나우유",
	"쉐이크", "밀크쉐이크", "딸기쉐이크", "초코쉐이크",
	"아이스", "핫", "따뜻한", "차가운",
	"음료", "드링크", "베버리지",
}

// IsBeverage reports whether a menu name looks like a drink.
func IsBeverage(menuName string) bool {
	lower := strings.ToLower(menuName)
	for _, keyword := range beverageKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
