// Package orders holds the pure settlement arithmetic over a room's
// order list.
package orders

import "github.com/JohnBaeGH/smio-app/models"

// MenuSummary is one row of the per-menu settlement.
type MenuSummary struct {
	Menu          string   `json:"menu"`
	TotalQuantity int      `json:"total_quantity"`
	Participants  []string `json:"participants"`
}

// PersonSummary is one participant's total with the per-line detail.
type PersonSummary struct {
	Participant string         `json:"participant"`
	TotalPrice  int            `json:"total_price"`
	Lines       []models.Order `json:"lines"`
}

func GrandTotal(list []models.Order) int {
	total := 0
	for _, order := range list {
		total += order.Price
	}
	return total
}

// SummarizeByMenu groups by menu name in first-seen order; participants
// are deduplicated, also in first-seen order.
func SummarizeByMenu(list []models.Order) []MenuSummary {
	index := make(map[string]int)
	var summaries []MenuSummary

	for _, order := range list {
		i, ok := index[order.MenuName]
		if !ok {
			i = len(summaries)
			index[order.MenuName] = i
			summaries = append(summaries, MenuSummary{Menu: order.MenuName})
		}
		summaries[i].TotalQuantity += order.Quantity

		seen := false
		for _, p := range summaries[i].Participants {
			if p == order.ParticipantName {
				seen = true
				break
			}
		}
		if !seen {
			summaries[i].Participants = append(summaries[i].Participants, order.ParticipantName)
		}
	}
	return summaries
}

// SummarizeByPerson groups by participant in first-seen order, keeping
// each person's lines for the itemized view.
func SummarizeByPerson(list []models.Order) []PersonSummary {
	index := make(map[string]int)
	var summaries []PersonSummary

	for _, order := range list {
		i, ok := index[order.ParticipantName]
		if !ok {
			i = len(summaries)
			index[order.ParticipantName] = i
			summaries = append(summaries, PersonSummary{Participant: order.ParticipantName})
		}
		summaries[i].TotalPrice += order.Price
		summaries[i].Lines = append(summaries[i].Lines, order)
	}
	return summaries
}

// DeleteAt removes the order at i. An out-of-range index is a no-op;
// the bool tells the caller whether anything was removed.
func DeleteAt(list []models.Order, i int) ([]models.Order, bool) {
	if i < 0 || i >= len(list) {
		return list, false
	}
	return append(list[:i], list[i+1:]...), true
}
