package pager

import "testing"

func rows(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPageCountAndLastPageLength(t *testing.T) {
	for _, l := range []int{0, 1, 9, 10, 11, 25, 100} {
		p := New(DefaultPageSize)
		data := rows(l)
		p.Clamp(l)

		want := (l + 9) / 10
		if got := p.PageCount(); got != want {
			t.Fatalf("len %d: expected %d pages, got %d", l, want, got)
		}
		if want == 0 {
			if got := Page(p, data, 0); len(got) != 0 {
				t.Fatalf("len %d: expected empty page, got %v", l, got)
			}
			continue
		}
		last := Page(p, data, want-1)
		if len(last) != l-10*(want-1) {
			t.Fatalf("len %d: last page has %d rows", l, len(last))
		}
		clamped := Page(p, data, want+3)
		if len(clamped) != len(last) || clamped[0] != last[0] {
			t.Fatalf("len %d: out of range page not clamped to last page", l)
		}
	}
}

func TestNavigationIsClamped(t *testing.T) {
	p := New(10)
	p.Clamp(25)

	p.Prev()
	if p.Index() != 0 {
		t.Fatalf("prev before first page should stay at 0, got %d", p.Index())
	}
	p.Next()
	p.Next()
	p.Next()
	if p.Index() != 2 {
		t.Fatalf("next past last page should stay at 2, got %d", p.Index())
	}
	p.First()
	p.Last()
	if p.Index() != 2 {
		t.Fatalf("expected last page index 2, got %d", p.Index())
	}
}

func TestClampAfterShrink(t *testing.T) {
	p := New(10)
	p.Clamp(55)
	p.Last()
	if p.Index() != 5 {
		t.Fatalf("expected index 5, got %d", p.Index())
	}

	p.Clamp(12)
	if p.Index() != 1 {
		t.Fatalf("expected index clamped to 1 after shrink, got %d", p.Index())
	}
	p.Clamp(0)
	if p.Index() != 0 || p.PageCount() != 0 {
		t.Fatalf("expected empty pager at index 0, got index=%d count=%d", p.Index(), p.PageCount())
	}
}

func TestCurrentPageContents(t *testing.T) {
	p := New(10)
	data := rows(23)
	p.Clamp(len(data))
	p.Next()
	page := Current(p, data)
	if len(page) != 10 || page[0] != 10 || page[9] != 19 {
		t.Fatalf("unexpected second page %v", page)
	}
}
