package clock

import "testing"

func TestTickChargesOnlyActivePlayer(t *testing.T) {
	c := New(600000, 5000)
	c.Start(0)

	c.Tick(1000)
	c.Tick(1000)
	if got := c.Remaining(0); got != 598000 {
		t.Fatalf("active player remaining = %d, want 598000", got)
	}
	if got := c.Remaining(1); got != 600000 {
		t.Fatalf("idle player remaining = %d, want 600000", got)
	}
}

func TestTickBeforeStartIsNoOp(t *testing.T) {
	c := New(10000, 0)
	if _, fired := c.Tick(1000); fired {
		t.Fatalf("stopped clock should not expire")
	}
	if got := c.Remaining(0); got != 10000 {
		t.Fatalf("remaining = %d, want 10000", got)
	}
}

func TestMoveCommittedAddsIncrementAndFlips(t *testing.T) {
	c := New(600000, 5000)
	c.Start(0)
	c.Tick(3000)
	c.OnMoveCommitted(0)

	if got := c.Remaining(0); got != 602000 {
		t.Fatalf("mover remaining = %d, want 602000", got)
	}
	if got := c.Active(); got != 1 {
		t.Fatalf("active = %d, want 1", got)
	}

	// a commit by the non-active player changes nothing
	c.OnMoveCommitted(0)
	if got := c.Active(); got != 1 {
		t.Fatalf("active flipped by wrong player")
	}
}

func TestExpiryReportedExactlyOnce(t *testing.T) {
	c := New(2500, 0)
	c.Start(1)

	if _, fired := c.Tick(1000); fired {
		t.Fatalf("expired too early")
	}
	if _, fired := c.Tick(1000); fired {
		t.Fatalf("expired too early")
	}
	player, fired := c.Tick(1000)
	if !fired || player != 1 {
		t.Fatalf("expected player 1 expiry, got player=%d fired=%v", player, fired)
	}
	if got := c.Remaining(1); got != 0 {
		t.Fatalf("remaining clamps at 0, got %d", got)
	}
	if _, fired := c.Tick(1000); fired {
		t.Fatalf("expiry fired twice")
	}
	if c.Running() {
		t.Fatalf("clock still running after expiry")
	}
	// an expired clock cannot be restarted
	c.Start(1)
	if c.Running() {
		t.Fatalf("expired clock restarted")
	}
}

func TestStopFreezesRemainders(t *testing.T) {
	c := New(10000, 0)
	c.Start(0)
	c.Tick(4000)
	c.Stop()
	c.Tick(4000)

	if got := c.Remainders(); got != [2]int64{6000, 10000} {
		t.Fatalf("remainders = %v, want [6000 10000]", got)
	}
	if c.Active() != -1 {
		t.Fatalf("stopped clock reports an active player")
	}
}
