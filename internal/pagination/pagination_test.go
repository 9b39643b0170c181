package pagination

import "testing"

func seq(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestPaginate_TwoPages(t *testing.T) {
	// 13 items → page 1 has 10, page 2 has 3.
	items := seq(13)

	p1 := Paginate(items, 1)
	if len(p1.Items) != 10 {
		t.Errorf("page 1 len = %d, want 10", len(p1.Items))
	}
	if !p1.HasNext || p1.HasPrevious {
		t.Errorf("page 1 HasNext/HasPrevious = %v/%v, want true/false", p1.HasNext, p1.HasPrevious)
	}
	if p1.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", p1.TotalPages)
	}

	p2 := Paginate(items, 2)
	if len(p2.Items) != 3 {
		t.Errorf("page 2 len = %d, want 3", len(p2.Items))
	}
	if p2.HasNext || !p2.HasPrevious {
		t.Errorf("page 2 HasNext/HasPrevious = %v/%v, want false/true", p2.HasNext, p2.HasPrevious)
	}
	// Page 2 holds items 10..12 in order.
	if p2.Items[0] != 10 || p2.Items[2] != 12 {
		t.Errorf("page 2 items = %v, want [10 11 12]", p2.Items)
	}
}

func TestPaginate_Clamping(t *testing.T) {
	items := seq(25) // 3 pages

	tests := []struct {
		name       string
		number     int
		wantNumber int
		wantLen    int
	}{
		{"zero defaults to first page", 0, 1, 10},
		{"negative clamps to first page", -3, 1, 10},
		{"in range stays", 2, 2, 10},
		{"past the end clamps to last page", 99, 3, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.number)
			if p.Number != tt.wantNumber {
				t.Errorf("Number = %d, want %d", p.Number, tt.wantNumber)
			}
			if len(p.Items) != tt.wantLen {
				t.Errorf("len(Items) = %d, want %d", len(p.Items), tt.wantLen)
			}
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]int{}, 5)

	if len(p.Items) != 0 {
		t.Errorf("len(Items) = %d, want 0", len(p.Items))
	}
	if p.Number != 1 || p.TotalPages != 1 {
		t.Errorf("Number/TotalPages = %d/%d, want 1/1", p.Number, p.TotalPages)
	}
	if p.HasNext || p.HasPrevious {
		t.Error("empty page should have no neighbours")
	}
}

func TestPaginate_ExactMultiple(t *testing.T) {
	// 20 items is exactly 2 pages — no phantom third page.
	p := Paginate(seq(20), 2)
	if p.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", p.TotalPages)
	}
	if len(p.Items) != 10 {
		t.Errorf("len(Items) = %d, want 10", len(p.Items))
	}
	if p.HasNext {
		t.Error("last page should not have a next page")
	}
}
