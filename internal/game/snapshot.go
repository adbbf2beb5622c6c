package game

// CardView is the drawable state of one card
type CardView struct {
	Index int
	Key   string
	Image string
	Face  Face
	Inert bool
}

// Snapshot is what the presentation layer needs to draw one frame
type Snapshot struct {
	Cards          []CardView
	Phase          Phase
	Score          int
	MovesRemaining int
	TimeLeft       int
	Message        string
	StartLabel     string
	Locked         bool
}

// Snapshot copies the current board and readouts
func (m *Machine) Snapshot() Snapshot {
	s := m.state
	snap := Snapshot{
		Cards:          make([]CardView, len(m.board.Cards)),
		Phase:          s.Phase,
		Score:          s.Score,
		MovesRemaining: m.rules.TargetMoves - s.Moves,
		TimeLeft:       s.TimeLeft,
		Message:        s.Message,
		StartLabel:     LabelStart,
		Locked:         s.Locked,
	}
	if s.Started {
		snap.StartLabel = LabelStarted
	}

	for i, c := range m.board.Cards {
		snap.Cards[i] = CardView{
			Index: i,
			Key:   c.Key,
			Image: c.Image,
			Face:  c.Face,
			Inert: c.Inert,
		}
	}
	return snap
}
