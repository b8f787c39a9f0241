package pager

// DefaultPageSize is the number of table rows shown per page.
const DefaultPageSize = 10

// Pager keeps the current page index of a growing or shrinking buffer.
// The index is always within [0, PageCount-1], or 0 when the buffer is empty.
type Pager struct {
	size  int
	index int
	total int
}

func New(size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{size: size}
}

func (p *Pager) Size() int { return p.size }

func (p *Pager) Index() int { return p.index }

// PageCount is ceil(total / size).
func (p *Pager) PageCount() int {
	return pageCount(p.total, p.size)
}

// Clamp records the new buffer length and pulls the index back into range.
// Call it after every buffer mutation.
func (p *Pager) Clamp(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	p.index = p.clampIndex(p.index)
}

// Go moves to page idx, clamped to the valid range.
func (p *Pager) Go(idx int) {
	p.index = p.clampIndex(idx)
}

func (p *Pager) Next()  { p.Go(p.index + 1) }
func (p *Pager) Prev()  { p.Go(p.index - 1) }
func (p *Pager) First() { p.Go(0) }
func (p *Pager) Last()  { p.Go(p.PageCount() - 1) }

// Bounds returns the [start, end) slice bounds of page idx after clamping.
func (p *Pager) Bounds(idx int) (int, int) {
	idx = p.clampIndex(idx)
	start := idx * p.size
	end := start + p.size
	if end > p.total {
		end = p.total
	}
	if start > end {
		start = end
	}
	return start, end
}

func (p *Pager) clampIndex(idx int) int {
	count := p.PageCount()
	if count == 0 || idx < 0 {
		return 0
	}
	if idx >= count {
		return count - 1
	}
	return idx
}

// Page slices rows for page idx. The pager's total is synced to len(rows) first.
func Page[T any](p *Pager, rows []T, idx int) []T {
	p.Clamp(len(rows))
	start, end := p.Bounds(idx)
	return rows[start:end]
}

// Current slices rows for the current page.
func Current[T any](p *Pager, rows []T) []T {
	return Page(p, rows, p.index)
}

func pageCount(total, size int) int {
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
