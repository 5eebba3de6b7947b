package lifecycle

import (
	"time"

	"auction-client/internal/ledger"
	model "auction-client/internal/models"
)

// Clock supplies the current time. Production code passes time.Now; tests
// pass a fixed instant.
type Clock func() time.Time

// State is the bidding lifecycle of an auction, derived from the clock and
// never stored. A backwards clock step can flip Ended back to Open; callers
// that need a sticky Ended must persist it themselves.
type State int

const (
	Open State = iota
	Ended
)

func (s State) String() string {
	if s == Ended {
		return "ended"
	}
	return "open"
}

// Countdown is the remaining time decomposed into whole units, truncated at
// each boundary.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// IsZero reports whether no time remains.
func (c Countdown) IsZero() bool {
	return c.Days == 0 && c.Hours == 0 && c.Minutes == 0 && c.Seconds == 0
}

// Evaluation is the derived view of an auction at one instant.
type Evaluation struct {
	State     State
	Remaining Countdown
	// Winner is set only when State is Ended and the ledger holds at least
	// one bid.
	Winner *model.Bid
}

// Evaluate computes the lifecycle view of an auction item at the given
// instant. For a fixed instant and a closed ledger the result is always the
// same.
func Evaluate(item model.AuctionItem, l *ledger.Ledger, now time.Time) Evaluation {
	remaining := item.EndDate.Sub(now)
	if remaining < 0 {
		remaining = 0
	}

	ev := Evaluation{Remaining: decompose(remaining)}
	if remaining > 0 {
		return ev
	}

	ev.State = Ended
	if l != nil {
		if highest, ok := l.Highest(); ok {
			ev.Winner = &highest
		}
	}
	return ev
}

func decompose(d time.Duration) Countdown {
	secs := int(d / time.Second)
	return Countdown{
		Days:    secs / 86400,
		Hours:   (secs % 86400) / 3600,
		Minutes: (secs % 3600) / 60,
		Seconds: secs % 60,
	}
}
