// Package clock implements the per-player countdown used by match
// sessions: a base allotment per side, an increment credited on each
// committed move, and exactly-once expiry reporting.
//
// A Clock holds no timers and is not safe for concurrent use on its
// own; the owning session drives Tick from its serialized event loop.
package clock

// Clock tracks remaining time for both players of a match.
type Clock struct {
	remaining [2]int64 // milliseconds
	increment int64
	active    int
	running   bool
	expired   bool
}

// New returns a stopped clock with both sides at baseMs.
func New(baseMs, incrementMs int64) *Clock {
	return &Clock{
		remaining: [2]int64{baseMs, baseMs},
		increment: incrementMs,
		active:    -1,
	}
}

// Start begins decrementing time for the given player.
func (c *Clock) Start(active int) {
	if c.expired {
		return
	}
	c.active = active
	c.running = true
}

// Stop halts the clock; remaining times freeze as they are.
func (c *Clock) Stop() {
	c.running = false
}

// Running reports whether Tick currently consumes time.
func (c *Clock) Running() bool { return c.running }

// Active returns the player whose time is running, or -1.
func (c *Clock) Active() int {
	if !c.running {
		return -1
	}
	return c.active
}

// Tick charges elapsedMs to the active player. When that player's time
// reaches zero the clock stops and reports (player, true) exactly once;
// later calls are no-ops.
func (c *Clock) Tick(elapsedMs int64) (int, bool) {
	if !c.running || c.expired {
		return -1, false
	}
	c.remaining[c.active] -= elapsedMs
	if c.remaining[c.active] <= 0 {
		c.remaining[c.active] = 0
		c.running = false
		c.expired = true
		return c.active, true
	}
	return -1, false
}

// OnMoveCommitted credits the mover's increment and hands the clock to
// the other player. Ignored unless the mover holds the running clock.
func (c *Clock) OnMoveCommitted(player int) {
	if !c.running || player != c.active {
		return
	}
	c.remaining[player] += c.increment
	c.active = 1 - player
}

// Remaining returns the player's time budget in milliseconds.
func (c *Clock) Remaining(player int) int64 {
	if player < 0 || player > 1 {
		return 0
	}
	return c.remaining[player]
}

// Remainders returns both budgets, index 0 first.
func (c *Clock) Remainders() [2]int64 { return c.remaining }
