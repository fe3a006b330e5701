package search

import (
	"testing"

	"github.com/armywelfare/welfare-api/internal/domain"
)

func TestSortContacts_PriorityThenCategory(t *testing.T) {
	t.Parallel()

	cs := []domain.EmergencyContact{
		{ID: "1", Priority: domain.PriorityLow, Category: "admin"},
		{ID: "2", Priority: domain.PriorityHigh, Category: "security"},
		{ID: "3", Priority: domain.PriorityMedium, Category: "transport"},
		{ID: "4", Priority: domain.PriorityHigh, Category: "fire"},
		{ID: "5", Priority: domain.PriorityMedium, Category: "admin"},
		{ID: "6", Priority: domain.PriorityHigh, Category: "medical"},
	}
	SortContacts(cs)

	for i := 1; i < len(cs); i++ {
		a, b := cs[i-1], cs[i]
		if a.Priority.Rank() > b.Priority.Rank() {
			t.Fatalf("priority out of order at %d: %s before %s", i, a.Priority, b.Priority)
		}
		if a.Priority == b.Priority && a.Category > b.Category {
			t.Fatalf("category out of order at %d: %s before %s", i, a.Category, b.Category)
		}
	}
	want := []domain.ContactID{"4", "6", "2", "5", "3", "1"}
	for i, id := range want {
		if cs[i].ID != id {
			t.Fatalf("order[%d]=%s, want %s", i, cs[i].ID, id)
		}
	}
}

func TestSortContacts_Stable(t *testing.T) {
	t.Parallel()

	cs := []domain.EmergencyContact{
		{ID: "a", Priority: domain.PriorityHigh, Category: "medical"},
		{ID: "b", Priority: domain.PriorityHigh, Category: "medical"},
		{ID: "c", Priority: domain.PriorityHigh, Category: "medical"},
	}
	SortContacts(cs)
	if cs[0].ID != "a" || cs[1].ID != "b" || cs[2].ID != "c" {
		t.Fatalf("equal keys reordered: %v %v %v", cs[0].ID, cs[1].ID, cs[2].ID)
	}
}
