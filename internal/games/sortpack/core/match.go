package core

// CheckForMatch evaluates a cell after an item landed in it. When one item
// type reaches the match threshold, the board-wide clear for that type runs
// after the settle delay.
func (s *Session) CheckForMatch(c *Cell) {
	if c == nil || c.Destroyed() || s.board == nil || !s.board.Contains(c) {
		return
	}
	if s.board.Animating(c) {
		return
	}
	if g := c.Gate(); g != nil && g.OnMatchCheck(c) {
		return
	}
	if s.pendingCells.Has(c) {
		return
	}

	t, ok := s.matchedType(c)
	if !ok || s.pendingTypes.Has(t) {
		return
	}
	c.CheckSorted()

	s.pendingCells.Put(c)
	s.pendingTypes.Put(t)
	s.settles++
	gen := s.generation
	s.log.Debug("match detected", "pos", c.Pos(), "type", t)
	s.sched.After(s.cfg.SettleDelay, func() {
		if gen != s.generation {
			return
		}
		s.settles--
		s.pendingCells.Remove(c)
		s.pendingTypes.Remove(t)
		s.resolveMatch(c, t)
		s.checkWin()
	})
}

// matchedType returns the type that reaches the threshold in c. When several
// do, the one holding the lowest item id wins.
func (s *Session) matchedType(c *Cell) (ItemType, bool) {
	threshold := s.level.ItemsPerMatch
	counts := make(map[ItemType]int)
	lowest := make(map[ItemType]ItemID)
	for _, it := range c.Items() {
		counts[it.Type]++
		if id, seen := lowest[it.Type]; !seen || it.ID < id {
			lowest[it.Type] = it.ID
		}
	}
	var best ItemType
	found := false
	for t, n := range counts {
		if n < threshold {
			continue
		}
		if !found || lowest[t] < lowest[best] || (lowest[t] == lowest[best] && t < best) {
			best = t
			found = true
		}
	}
	return best, found
}

// resolveMatch clears every idle cell holding at least one item of type t,
// plus the origin cell, then hands each cleared cell to the cascade.
func (s *Session) resolveMatch(origin *Cell, t ItemType) {
	if origin.Destroyed() || !s.board.Contains(origin) {
		return
	}

	var set []*Cell
	for _, c := range s.board.Cells() {
		if s.board.Animating(c) || c.Gate() != nil {
			continue
		}
		for _, it := range c.Items() {
			if it.Type == t {
				set = append(set, c)
				break
			}
		}
	}
	if !s.board.Animating(origin) && !containsCell(set, origin) {
		set = append(set, origin)
	}
	if len(set) == 0 {
		return
	}

	cleared := make([][]*Item, len(set))
	removed := 0
	for i, c := range set {
		s.board.SetAnimating(c, true)
		cleared[i] = c.DetachAll()
		for _, it := range cleared[i] {
			if it.Type == t {
				removed++
			}
			s.forget(it)
		}
	}

	s.matches++
	s.log.Debug("match cleared", "type", t, "cells", len(set), "removed", removed)
	s.hub.emit(func(o Observer) { o.MatchFound(origin, t) })
	s.addScore(s.cfg.MatchScore)
	s.disableIfExhausted(t)

	gen := s.generation
	for i, c := range set {
		cell := c
		s.presenter.PlayClearEffect(cell, cleared[i], once(func() {
			s.raise(cell, gen)
		}))
	}
}

// disableIfExhausted stops type t from respawning once the board holds none.
// In respawn mode its queued entries are dropped, since only refills draw
// from the queue there. In cascade mode they stay for layer reveals, which
// take entries by id; refills never run in that mode.
func (s *Session) disableIfExhausted(t ItemType) {
	if s.typeCounts[t] > 0 || s.disabled.Has(t) {
		return
	}
	s.disabled.Put(t)
	purged := 0
	if s.cfg.RefillMode == RefillRespawn {
		purged = s.queue.Purge(t)
	}
	s.log.Debug("type exhausted", "type", t, "purged", purged)
}

func containsCell(cells []*Cell, c *Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}
