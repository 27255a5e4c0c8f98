// Package draft implements the client-side seat-picking session. A session
// stages seat choices for several passengers before anything is submitted;
// its uniqueness rule (no two drafts share a seat) is session-local and
// strictly weaker than the inventory's atomic check, which remains the
// authority at reserve time.
package draft

import (
	"errors"
	"fmt"
	"strings"

	bookingdomain "github.com/mateusmacedo/go-railbook/internal/booking/domain"
	traindomain "github.com/mateusmacedo/go-railbook/internal/train/domain"
)

var (
	ErrSeatTaken       = errors.New("seat is already booked on this train")
	ErrNoSuchPassenger = errors.New("no passenger draft at that index")
	ErrLastPassenger   = errors.New("a booking needs at least one passenger")
	ErrNotSubmittable  = errors.New("draft is not complete")
)

// PassengerDraft is one passenger's form state. Seat is empty until staged.
type PassengerDraft struct {
	Name   string
	Age    int
	Gender string
	Seat   string
}

// Session is a single user's pre-commit staging area, built against one
// inventory snapshot. It is not safe for concurrent use; one session
// belongs to one submitter.
type Session struct {
	trainID  string
	total    int
	occupied map[string]struct{}
	drafts   []PassengerDraft
	active   int
}

// NewSession opens a session with one empty passenger draft.
func NewSession(snapshot traindomain.Snapshot) *Session {
	occupied := make(map[string]struct{}, len(snapshot.OccupiedSeats))
	for _, seat := range snapshot.OccupiedSeats {
		occupied[seat] = struct{}{}
	}
	return &Session{
		trainID:  snapshot.TrainID,
		total:    snapshot.TotalSeats,
		occupied: occupied,
		drafts:   []PassengerDraft{{}},
	}
}

// TrainID returns the train this session stages seats for.
func (s *Session) TrainID() string {
	return s.trainID
}

// Drafts returns a copy of the passenger drafts in order.
func (s *Session) Drafts() []PassengerDraft {
	drafts := make([]PassengerDraft, len(s.drafts))
	copy(drafts, s.drafts)
	return drafts
}

// Active returns the index of the passenger currently picking a seat.
func (s *Session) Active() int {
	return s.active
}

func (s *Session) SetActive(index int) error {
	if index < 0 || index >= len(s.drafts) {
		return ErrNoSuchPassenger
	}
	s.active = index
	return nil
}

// AddPassenger appends an empty draft and makes it active.
func (s *Session) AddPassenger() {
	s.drafts = append(s.drafts, PassengerDraft{})
	s.active = len(s.drafts) - 1
}

// RemovePassenger drops the draft at index. The last draft cannot be
// removed. Removing the active draft re-activates the first remaining one.
func (s *Session) RemovePassenger(index int) error {
	if index < 0 || index >= len(s.drafts) {
		return ErrNoSuchPassenger
	}
	if len(s.drafts) == 1 {
		return ErrLastPassenger
	}

	s.drafts = append(s.drafts[:index], s.drafts[index+1:]...)
	switch {
	case s.active == index:
		s.active = 0
	case s.active > index:
		s.active--
	}
	return nil
}

// UpdatePassenger fills in the active-independent form fields.
func (s *Session) UpdatePassenger(index int, name string, age int, gender string) error {
	if index < 0 || index >= len(s.drafts) {
		return ErrNoSuchPassenger
	}
	s.drafts[index].Name = name
	s.drafts[index].Age = age
	s.drafts[index].Gender = gender
	return nil
}

// SelectSeat applies the toggle rule for the active passenger:
//   - re-picking the active draft's own staged seat clears it;
//   - a seat staged by another draft is cleared there first, then staged
//     here, so at most one draft holds a given seat at any time;
//   - seats the snapshot shows occupied, and labels outside the train's
//     seat space, are rejected.
func (s *Session) SelectSeat(seat string) error {
	if !traindomain.IsValidSeatLabel(seat, s.total) {
		return &traindomain.InvalidSeatError{Seat: seat}
	}
	if _, taken := s.occupied[seat]; taken {
		return ErrSeatTaken
	}

	current := &s.drafts[s.active]
	if current.Seat == seat {
		current.Seat = ""
		return nil
	}

	for i := range s.drafts {
		if s.drafts[i].Seat == seat {
			s.drafts[i].Seat = ""
			break
		}
	}
	current.Seat = seat
	return nil
}

// StagedSeats lists every staged seat in passenger order, skipping drafts
// without one.
func (s *Session) StagedSeats() []string {
	seats := make([]string, 0, len(s.drafts))
	for _, d := range s.drafts {
		if d.Seat != "" {
			seats = append(seats, d.Seat)
		}
	}
	return seats
}

// Submittable reports whether every draft has a name, a positive age and a
// staged seat. Pairwise-distinct seats hold by construction of SelectSeat.
func (s *Session) Submittable() bool {
	for _, d := range s.drafts {
		if strings.TrimSpace(d.Name) == "" || d.Age <= 0 || d.Seat == "" {
			return false
		}
	}
	return true
}

// Passengers produces the atomic reserve payload.
func (s *Session) Passengers() ([]bookingdomain.Passenger, error) {
	if !s.Submittable() {
		return nil, ErrNotSubmittable
	}
	passengers := make([]bookingdomain.Passenger, len(s.drafts))
	for i, d := range s.drafts {
		passengers[i] = bookingdomain.Passenger{
			Name:   d.Name,
			Age:    d.Age,
			Gender: d.Gender,
			Seat:   d.Seat,
		}
	}
	return passengers, nil
}

// TotalFare prices the current draft list.
func (s *Session) TotalFare(pricePerSeat float64) float64 {
	return pricePerSeat * float64(len(s.drafts))
}

// Refresh replaces the session's view of the inventory after a reserve was
// rejected with a seat conflict. Staged seats the new snapshot shows
// occupied are cleared so the user re-picks only those.
func (s *Session) Refresh(snapshot traindomain.Snapshot) error {
	if snapshot.TrainID != s.trainID {
		return fmt.Errorf("snapshot is for train %s, session is for train %s", snapshot.TrainID, s.trainID)
	}

	occupied := make(map[string]struct{}, len(snapshot.OccupiedSeats))
	for _, seat := range snapshot.OccupiedSeats {
		occupied[seat] = struct{}{}
	}
	s.occupied = occupied

	for i := range s.drafts {
		if _, taken := occupied[s.drafts[i].Seat]; taken {
			s.drafts[i].Seat = ""
		}
	}
	return nil
}
