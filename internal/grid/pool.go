package grid

import "sync"

// Pool recycles scratch grids of one fixed size.
type Pool struct {
	pool       sync.Pool
	rows, cols int
}

func NewPool(rows, cols int) *Pool {
	p := &Pool{rows: rows, cols: cols}
	p.pool.New = func() interface{} {
		return New(rows, cols)
	}
	return p
}

// Get returns a cleared grid.
func (p *Pool) Get() *Grid {
	return p.pool.Get().(*Grid)
}

// Put clears g and keeps it for reuse. Grids of another size are dropped.
func (p *Pool) Put(g *Grid) {
	if g == nil || g.rows != p.rows || g.cols != p.cols {
		return
	}
	g.Clear()
	p.pool.Put(g)
}

// Fits reports whether g has the pool's dimensions.
func (p *Pool) Fits(g *Grid) bool {
	return g != nil && g.rows == p.rows && g.cols == p.cols
}

func (p *Pool) GetAndCopy(src *Grid) *Grid {
	dst := p.Get()
	dst.CopyFrom(src)
	return dst
}
