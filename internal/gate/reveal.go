package gate

import "pocketdesk/internal/models"

// State of a reveal attempt.
type State int

const (
	Locked State = iota
	Verifying
	Unlocked
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Verifying:
		return "verifying"
	case Unlocked:
		return "unlocked"
	}
	return "unknown"
}

// Reveal tracks one viewing session of a note. Unlocked lasts only for the
// session; a new Reveal of the same note starts Locked again.
type Reveal struct {
	gate  *Gate
	note  models.Note
	state State
}

// Open starts a session. Notes without the locked flag start Unlocked.
func (g *Gate) Open(note models.Note) *Reveal {
	r := &Reveal{gate: g, note: note, state: Locked}
	if !note.Locked {
		r.state = Unlocked
	}
	return r
}

func (r *Reveal) State() State { return r.state }

// Begin asks to view the note. Without a registered PIN the attempt ends
// here and the note stays locked.
func (r *Reveal) Begin() error {
	if r.state == Unlocked {
		return nil
	}
	if !r.gate.Configured() {
		r.state = Locked
		return ErrNoPinConfigured
	}
	r.state = Verifying
	return nil
}

// Submit checks pin and, on success, returns the note with its content.
// While locked, the returned note has its description withheld.
func (r *Reveal) Submit(pin string) (models.Note, error) {
	if r.state == Unlocked {
		return r.note, nil
	}
	if r.state == Locked {
		if err := r.Begin(); err != nil {
			return r.note.Redacted(), err
		}
	}
	err := r.gate.Verify(pin, func() { r.state = Unlocked })
	if err != nil {
		// a wrong PIN drops back to Locked; the next Submit verifies again
		r.state = Locked
		return r.note.Redacted(), err
	}
	return r.note, nil
}

// Close ends the session; the note is locked again.
func (r *Reveal) Close() {
	if r.note.Locked {
		r.state = Locked
	}
}
