package fastmarching

import (
	"log/slog"
	"math"

	"github.com/notargets/golsm/utils"
)

type pointState uint8

const (
	unknown pointState = iota
	trial
	known
)

// ComputeExtensionFields returns the unsigned distance to the zero level set
// of p.Phi and the extensions of p.Sources off that level set.
func ComputeExtensionFields[T utils.Float](p *Problem[T]) (sol *Solution[T], err error) {
	if sol, err = NewSolution(p); err != nil {
		return nil, err
	}
	if err = ComputeExtensionFieldsInto(p, sol); err != nil {
		return nil, err
	}
	return
}

// ComputeDistanceFunction is ComputeExtensionFields without source fields.
func ComputeDistanceFunction[T utils.Float](p *Problem[T]) (distance []T, err error) {
	pp := *p
	pp.Sources = nil
	var sol *Solution[T]
	if sol, err = ComputeExtensionFields(&pp); err != nil {
		return
	}
	return sol.Distance, nil
}

// ComputeExtensionFieldsInto writes into caller-owned outputs. Distance is
// reset to +Inf first; extension values are written only at points that
// become Known, everything else is left as supplied.
func ComputeExtensionFieldsInto[T utils.Float](p *Problem[T], sol *Solution[T]) (err error) {
	if err = p.validate(); err != nil {
		return
	}
	if err = sol.validate(p); err != nil {
		return
	}
	var m *marcher[T]
	if m, err = newMarcher(p, sol); err != nil {
		return
	}
	m.arena.Fill(utils.Inf[T]())
	return m.run()
}

type marcher[T utils.Float] struct {
	order   int
	arena   *utils.Field[T] // distance storage, also used for offset arithmetic
	fill    utils.Box
	dx      []T
	phi     []T
	mask    []T
	sources [][]T
	dist    []T
	ext     [][]T
	state   []pointState
	queue   *TrialQueue[T]
	onKnown func(offset int, distance T)
	log     *slog.Logger
	sol     *Solution[T]

	idx, nbr utils.Index
	st       stencil[T]
}

func newMarcher[T utils.Float](p *Problem[T], sol *Solution[T]) (m *marcher[T], err error) {
	nd := p.Grid.NDim()
	m = &marcher[T]{
		order:   p.order(),
		phi:     p.Phi,
		mask:    p.Mask,
		sources: p.Sources,
		dist:    sol.Distance,
		ext:     sol.Extensions,
		onKnown: p.OnKnown,
		log:     p.logger(),
		sol:     sol,
		dx:      make([]T, nd),
		idx:     utils.NewIndex(nd),
		nbr:     utils.NewIndex(nd),
	}
	for a, h := range p.Grid.DX {
		m.dx[a] = T(h)
	}
	if m.arena, err = utils.WrapField(p.Grid.Box, sol.Distance); err != nil {
		return nil, err
	}
	if m.fill, err = utils.FillBox(p.Grid.Box, p.GhostWidth); err != nil {
		return nil, err
	}
	if m.state, err = utils.Allocate[pointState](len(p.Phi)); err != nil {
		return nil, err
	}
	if m.queue, err = NewTrialQueue[T](len(p.Phi)); err != nil {
		return nil, err
	}
	sol.FillBox = m.fill
	sol.NumFront, sol.NumKnown = 0, 0
	return
}

func (m *marcher[T]) active(offset int) bool {
	return len(m.mask) == 0 || m.mask[offset] >= 0
}

// neighbour returns the offset of the point step cells along axis from
// (offset, idx) and whether it lies in the fill box and in the domain.
func (m *marcher[T]) neighbour(offset int, idx utils.Index, axis, step int) (int, bool) {
	c := idx[axis] + step
	if c < m.fill.Lo[axis] || c > m.fill.Hi[axis] {
		return 0, false
	}
	o := offset + step*m.arena.Strides[axis]
	return o, m.active(o)
}

func (m *marcher[T]) run() (err error) {
	var front []int
	if front, err = m.initializeFront(); err != nil {
		return
	}
	m.sol.NumFront = len(front)
	m.sol.NumKnown = len(front)
	m.log.Debug("fast marching front initialized",
		"front", len(front), "fill", m.fill.String(), "order", m.order)
	for _, o := range front {
		if err = m.updateNeighbours(o); err != nil {
			return
		}
	}
	for m.queue.Len() > 0 {
		o, d := m.queue.ExtractMin()
		m.state[o] = known
		m.dist[o] = d
		m.sol.NumKnown++
		if m.onKnown != nil {
			m.onKnown(o, d)
		}
		m.arena.Coords(o, m.idx)
		m.gatherStencil(o, m.idx)
		if m.st.n == 0 {
			return &DegeneracyError{Coords: m.idx.Copy(), Reason: "extracted point has no Known neighbour"}
		}
		if err = m.updateNeighbours(o); err != nil {
			return
		}
	}
	m.log.Debug("fast marching complete",
		"known", m.sol.NumKnown, "unreached", m.fill.Size()-m.sol.NumKnown)
	return
}

// updateNeighbours recomputes the tentative values of the non-Known
// neighbours of a newly Known point.
func (m *marcher[T]) updateNeighbours(offset int) (err error) {
	m.arena.Coords(offset, m.idx)
	for a := range m.idx {
		for _, step := range [2]int{-1, 1} {
			q, ok := m.neighbour(offset, m.idx, a, step)
			if !ok || m.state[q] == known {
				continue
			}
			copy(m.nbr, m.idx)
			m.nbr[a] += step
			m.gatherStencil(q, m.nbr)
			d, solved := m.st.solve()
			if !solved {
				return &DegeneracyError{Coords: m.nbr.Copy(), Reason: "no causal stencil"}
			}
			if d < m.dist[offset] {
				d = m.dist[offset] // keys never fall below the point that produced them
			}
			switch m.state[q] {
			case unknown:
				if err = m.queue.Insert(q, d); err != nil {
					return
				}
				m.state[q] = trial
			case trial:
				if d >= m.dist[q] {
					continue
				}
				if err = m.queue.DecreaseKey(q, d); err != nil {
					return
				}
			}
			m.dist[q] = d
			for _, ext := range m.ext {
				ext[q] = m.st.extend(d, ext)
			}
		}
	}
	return
}

// gatherStencil builds the upwind stencil of point (offset, idx) from its
// Known neighbours.
func (m *marcher[T]) gatherStencil(offset int, idx utils.Index) {
	m.st.reset()
	for a := range idx {
		var (
			o1     = -1
			v1     T
			upwind int
		)
		for _, step := range [2]int{-1, 1} {
			o, ok := m.neighbour(offset, idx, a, step)
			if !ok || m.state[o] != known {
				continue
			}
			if o1 < 0 || m.dist[o] < v1 {
				o1, v1, upwind = o, m.dist[o], step
			}
		}
		if o1 < 0 {
			continue
		}
		h2 := m.dx[a] * m.dx[a]
		term := stencilTerm[T]{axis: a, offset1: o1, offset2: -1, weight: 1 / h2, center: v1}
		if m.order == 2 {
			// the second neighbour must not lie across the interface
			if o2, ok := m.neighbour(offset, idx, a, 2*upwind); ok &&
				m.state[o2] == known && m.dist[o2] <= v1 &&
				m.phi[o2]*m.phi[offset] >= 0 {
				term.offset2 = o2
				term.weight = 9 / (4 * h2)
				term.center = (4*v1 - m.dist[o2]) / 3
			}
		}
		m.st.add(term)
	}
}

// initializeFront marks every point adjacent to a sign change of phi Known
// with its interpolated distance to the interface.
func (m *marcher[T]) initializeFront() (front []int, err error) {
	var (
		nd    = len(m.idx)
		dAxis = make([]T, nd)
		eAxis = make([][]T, nd)
		eSum  = make([]T, len(m.sources))
	)
	for a := range eAxis {
		eAxis[a] = make([]T, len(m.sources))
	}
	m.fill.ForEach(func(idx utils.Index) {
		o := m.arena.Offset(idx)
		if !m.active(o) {
			return
		}
		phiP := m.phi[o]
		if phiP == 0 {
			m.markFront(o, 0)
			for f, src := range m.sources {
				m.ext[f][o] = src[o]
			}
			front = append(front, o)
			return
		}
		var crossed bool
		for a := 0; a < nd; a++ {
			dAxis[a] = utils.Inf[T]()
			for _, step := range [2]int{-1, 1} {
				q, ok := m.neighbour(o, idx, a, step)
				if !ok || phiP*m.phi[q] >= 0 {
					continue
				}
				theta := m.crossing(o, idx, a, step)
				if d := theta * m.dx[a]; d < dAxis[a] {
					dAxis[a] = d
					for f, src := range m.sources {
						eAxis[a][f] = src[o] + theta*(src[q]-src[o])
					}
				}
				crossed = true
			}
		}
		if !crossed {
			return
		}
		var invSum T
		for f := range eSum {
			eSum[f] = 0
		}
		for a := 0; a < nd; a++ {
			if math.IsInf(float64(dAxis[a]), 1) {
				continue
			}
			w := 1 / (dAxis[a] * dAxis[a])
			invSum += w
			for f := range eSum {
				eSum[f] += w * eAxis[a][f]
			}
		}
		m.markFront(o, T(1/math.Sqrt(float64(invSum))))
		for f := range eSum {
			m.ext[f][o] = eSum[f] / invSum
		}
		front = append(front, o)
	})
	return
}

func (m *marcher[T]) markFront(offset int, d T) {
	m.state[offset] = known
	m.dist[offset] = d
}

// minTheta keeps front distances strictly positive so 1/d^2 stays finite.
const minTheta = 1.e-12

// crossing returns the fraction of the cell between o and its neighbour at
// step along axis where phi vanishes. Second order uses the quadratic through
// the pair with the smaller-magnitude second difference when the outer points
// exist.
func (m *marcher[T]) crossing(o int, idx utils.Index, axis, step int) (theta T) {
	var (
		q       = o + step*m.arena.Strides[axis]
		phiP    = float64(m.phi[o])
		phiQ    = float64(m.phi[q])
		linear  = phiP / (phiP - phiQ)
		d2      float64
		haveD2  bool
		outerOK = func(s int) (float64, bool) {
			r, ok := m.neighbour(o, idx, axis, s)
			if !ok {
				return 0, false
			}
			return float64(m.phi[r]), true
		}
	)
	theta = T(linear)
	if m.order == 2 {
		if phiR, ok := outerOK(-step); ok {
			d2, haveD2 = phiQ-2*phiP+phiR, true
		}
		if phiT, ok := outerOK(2 * step); ok {
			if cand := phiT - 2*phiQ + phiP; !haveD2 || math.Abs(cand) < math.Abs(d2) {
				d2, haveD2 = cand, true
			}
		}
		if haveD2 {
			if root, ok := quadraticCrossing(phiP, phiQ, d2); ok {
				theta = T(root)
			}
		}
	}
	if theta < minTheta {
		theta = minTheta
	}
	if theta > 1 {
		theta = 1
	}
	return
}

// quadraticCrossing solves phiP + t*(phiQ-phiP) + d2*t*(t-1)/2 = 0 for t in
// [0, 1].
func quadraticCrossing(phiP, phiQ, d2 float64) (t float64, ok bool) {
	var (
		a = 0.5 * d2
		b = phiQ - phiP - 0.5*d2
		c = phiP
	)
	if math.Abs(a) <= utils.NODETOL*math.Abs(b) {
		return 0, false
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	qq := -0.5 * (b + math.Copysign(math.Sqrt(disc), b))
	for _, r := range [2]float64{qq / a, c / qq} {
		if r >= 0 && r <= 1 {
			return r, true
		}
	}
	return 0, false
}
