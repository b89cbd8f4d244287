package orders

import (
	"reflect"
	"testing"

	"github.com/JohnBaeGH/smio-app/models"
)

func sampleOrders() []models.Order {
	return []models.Order{
		{ParticipantName: "철수", MenuName: "김치찌개", Quantity: 1, Price: 9000},
		{ParticipantName: "영희", MenuName: "된장찌개", Quantity: 1, Price: 5000},
		{ParticipantName: "철수", MenuName: "공기밥", Quantity: 2, Price: 4000},
	}
}

func TestGrandTotal(t *testing.T) {
	if got := GrandTotal(sampleOrders()); got != 18000 {
		t.Errorf("GrandTotal = %d, want 18000", got)
	}
	if got := GrandTotal(nil); got != 0 {
		t.Errorf("GrandTotal(nil) = %d, want 0", got)
	}
}

func TestSummarizeByMenu(t *testing.T) {
	list := append(sampleOrders(), models.Order{
		ParticipantName: "영희", MenuName: "김치찌개", Quantity: 1, Price: 9000,
	})

	got := SummarizeByMenu(list)
	if len(got) != 3 {
		t.Fatalf("got %d menu rows, want 3", len(got))
	}

	if got[0].Menu != "김치찌개" || got[0].TotalQuantity != 2 {
		t.Errorf("first row = %+v, want 김치찌개 x2", got[0])
	}
	if !reflect.DeepEqual(got[0].Participants, []string{"철수", "영희"}) {
		t.Errorf("participants = %v, want first-seen order", got[0].Participants)
	}
	if got[1].Menu != "된장찌개" || got[2].Menu != "공기밥" {
		t.Errorf("row order = %q, %q; want insertion order", got[1].Menu, got[2].Menu)
	}
}

func TestSummarizeByMenuDedupesParticipants(t *testing.T) {
	list := []models.Order{
		{ParticipantName: "철수", MenuName: "김치찌개", Quantity: 1, Price: 9000},
		{ParticipantName: "철수", MenuName: "김치찌개", Quantity: 1, Price: 9000},
	}
	got := SummarizeByMenu(list)
	if len(got) != 1 || got[0].TotalQuantity != 2 {
		t.Fatalf("got %+v, want one row with quantity 2", got)
	}
	if len(got[0].Participants) != 1 {
		t.Errorf("participants = %v, want one entry", got[0].Participants)
	}
}

func TestSummarizeByPerson(t *testing.T) {
	got := SummarizeByPerson(sampleOrders())
	if len(got) != 2 {
		t.Fatalf("got %d person rows, want 2", len(got))
	}
	if got[0].Participant != "철수" || got[0].TotalPrice != 13000 {
		t.Errorf("철수 row = %+v, want total 13000", got[0])
	}
	if len(got[0].Lines) != 2 {
		t.Errorf("철수 lines = %d, want 2", len(got[0].Lines))
	}
	if got[1].Participant != "영희" || got[1].TotalPrice != 5000 {
		t.Errorf("영희 row = %+v, want total 5000", got[1])
	}
}

func TestDeleteAt(t *testing.T) {
	list := sampleOrders()

	got, deleted := DeleteAt(list, 1)
	if !deleted || len(got) != 2 {
		t.Fatalf("DeleteAt(1) = (%d items, %v), want 2 items and true", len(got), deleted)
	}
	if got[0].MenuName != "김치찌개" || got[1].MenuName != "공기밥" {
		t.Errorf("remaining order wrong: %+v", got)
	}

	fresh := sampleOrders()
	if _, deleted := DeleteAt(fresh, 3); deleted {
		t.Error("out-of-range index must be a no-op")
	}
	if _, deleted := DeleteAt(fresh, -1); deleted {
		t.Error("negative index must be a no-op")
	}
	if _, deleted := DeleteAt(nil, 0); deleted {
		t.Error("delete on empty list must be a no-op")
	}
}
