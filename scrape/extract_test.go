package scrape

import (
	"strings"
	"testing"
)

const menuFixture = `
<div class="place_section_content">
  <ul>
    <li class="E2jtL"><span class="lPzHi">김치찌개</span><div class="GXS1X"><em>9,000</em>원</div></li>
    <li class="E2jtL"><span class="lPzHi">된장찌개</span><div class="GXS1X"><em>8,500</em>원</div></li>
    <li class="E2jtL"><span class="lPzHi">김치찌개</span><div class="GXS1X"><em>9,000</em>원</div></li>
    <li class="E2jtL"><span class="lPzHi">공기밥 추가</span></li>
    <li class="E2jtL"><div class="GXS1X"><em>3,000</em>원</div></li>
  </ul>
</div>`

func TestExtractMenu(t *testing.T) {
	items := ExtractMenu(menuFixture)

	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 (duplicate and nameless rows dropped): %+v", len(items), items)
	}

	if items[0].Name != "김치찌개" || items[0].Price == nil || *items[0].Price != 9000 {
		t.Errorf("first item = %+v, want 김치찌개 / 9000", items[0])
	}
	if items[1].Name != "된장찌개" || items[1].Price == nil || *items[1].Price != 8500 {
		t.Errorf("second item = %+v, want 된장찌개 / 8500", items[1])
	}
	if items[2].Name != "공기밥 추가" || items[2].Price != nil {
		t.Errorf("third item = %+v, want 공기밥 추가 with nil price", items[2])
	}
}

func TestExtractMenuFallbackSelectors(t *testing.T) {
	html := `
<div class="place_section_content">
  <ul>
    <li class="E2jtL"><div class="yQlqY"><span>치즈돈까스</span></div><span class="price_area">12,000원</span></li>
  </ul>
</div>`

	items := ExtractMenu(html)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Name != "치즈돈까스" {
		t.Errorf("name = %q, want 치즈돈까스", items[0].Name)
	}
	if items[0].Price == nil || *items[0].Price != 12000 {
		t.Errorf("price = %v, want 12000", items[0].Price)
	}
}

func TestExtractMenuEmpty(t *testing.T) {
	if items := ExtractMenu("<html><body></body></html>"); len(items) != 0 {
		t.Errorf("got %d items from empty page, want 0", len(items))
	}
}

func TestExtractHome(t *testing.T) {
	html := `
<div class="zD5Nm">
  <div class="LylZZ v8v5j">
    <span class="GHAhO">참치김밥</span>
    <span class="lnJFt">분식</span>
  </div>
</div>
<span class="PXMot LXIwF"><em>4.5</em></span>
<div class="XtBbS">든든한 한 끼</div>
<span class="LDgIH">서울 강남구 테헤란로 1</span>
<span class="xlx7Q">02-123-4567</span>`

	info := ExtractHome(html)
	if info.Name != "참치김밥" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Type != "분식" {
		t.Errorf("Type = %q", info.Type)
	}
	if info.Rating != "4.5" {
		t.Errorf("Rating = %q", info.Rating)
	}
	if info.Address != "서울 강남구 테헤란로 1" {
		t.Errorf("Address = %q", info.Address)
	}
	if info.Phone != "02-123-4567" {
		t.Errorf("Phone = %q", info.Phone)
	}
	if info.ShortDesc != "든든한 한 끼" {
		t.Errorf("ShortDesc = %q", info.ShortDesc)
	}
}

func TestExtractHomeMissingFields(t *testing.T) {
	info := ExtractHome("<html><body><p>nothing useful</p></body></html>")
	if info.Name != "" || info.Address != "" || info.Phone != "" {
		t.Errorf("expected empty fields, got %+v", info)
	}
}

func TestExtractParking(t *testing.T) {
	full := `
<div class="place_section_content">
  <div class="OWPIf"><em>주차 가능</em><span class="place_blind">종류</span><span>무료주차</span></div>
  <div class="TZ6fS">건물 뒤 전용 주차장 10면</div>
</div>`

	got := ExtractParking(full)
	if !strings.Contains(got, "주차 가능") || !strings.Contains(got, "(무료주차)") {
		t.Errorf("parking line = %q, want status with parenthesized kind", got)
	}
	if !strings.Contains(got, "\n건물 뒤 전용 주차장 10면") {
		t.Errorf("parking line = %q, want detail on its own line", got)
	}
}

func TestExtractParkingAbsent(t *testing.T) {
	if got := ExtractParking("<html><body></body></html>"); got != UnknownParking {
		t.Errorf("got %q, want sentinel %q", got, UnknownParking)
	}
}
