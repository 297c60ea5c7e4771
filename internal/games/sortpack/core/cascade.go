package core

// Cascade resolves a cell that was emptied outside a match: it shows the
// next buried layer if one exists at its position, otherwise the cell leaves
// the board. A cell already in transition is left alone.
func (s *Session) Cascade(c *Cell) {
	if c == nil || c.Destroyed() || s.board == nil || !s.board.Contains(c) {
		return
	}
	if s.board.Animating(c) {
		return
	}
	s.board.SetAnimating(c, true)
	s.raise(c, s.generation)
}

// raise runs the replace or remove transition for a cell that is already
// marked as animating.
func (s *Session) raise(c *Cell, gen int) {
	if gen != s.generation || c.Destroyed() || !s.board.Contains(c) {
		return
	}
	next := s.board.Layer(c) + 1
	placements := s.board.Index().At(next, c.Pos())
	if len(placements) > 0 {
		s.presenter.PlayReplaceEffect(c, next, once(func() {
			s.finishReplace(c, next, placements, gen)
		}))
		return
	}
	s.presenter.PlayRemoveEffect(c, once(func() {
		s.finishRemove(c, gen)
	}))
}

// finishReplace swaps c for a new cell showing layer next. Each placement
// consumes its entry from the respawn queue; placements whose item was
// already drawn by a refill stay empty.
func (s *Session) finishReplace(c *Cell, next int, placements []Placement, gen int) {
	if gen != s.generation || c.Destroyed() || !s.board.Contains(c) {
		return
	}
	pos := c.Pos()
	layers := s.depth[pos] - next
	if layers < 1 {
		layers = 1
	}
	nc := NewCell(pos, s.level.SlotsPerCell, layers)
	s.cellUnsub[nc] = nc.Subscribe(cellEvents{s: s})
	for _, p := range placements {
		if !s.queue.Take(p.ItemID) {
			s.log.Debug("buried item already drawn", "pos", pos, "layer", next, "item", p.ItemID)
			continue
		}
		if err := s.spawn(nc, p.ItemID, p.Slot); err != nil {
			s.log.Warn("skipping placement", "pos", pos, "layer", next, "slot", p.Slot, "item", p.ItemID, "err", err)
		}
	}
	s.board.Replace(c, nc, next)
	s.detach(c)
	s.board.SetAnimating(nc, false)
	s.log.Debug("cell raised", "pos", pos, "layer", next, "items", nc.Count())
	s.checkWin()
}

// finishRemove takes c off the board for good.
func (s *Session) finishRemove(c *Cell, gen int) {
	if gen != s.generation || c.Destroyed() || !s.board.Contains(c) {
		return
	}
	s.board.Remove(c)
	s.detach(c)
	s.log.Debug("cell removed", "pos", c.Pos())
	s.checkWin()
}

// retire removes a drained cell permanently, whatever lies beneath it.
func (s *Session) retire(c *Cell) {
	if c == nil || c.Destroyed() || !s.board.Contains(c) || s.board.Animating(c) {
		return
	}
	s.board.SetAnimating(c, true)
	gen := s.generation
	s.presenter.PlayRemoveEffect(c, once(func() {
		s.finishRemove(c, gen)
	}))
}
