package game

import "fmt"

// humanGate maps the current phase to the reason human input is refused,
// or nil when it is accepted.
func (s *Session) humanGate() error {
	switch s.phase {
	case PhaseAwaitingHuman:
		return nil
	case PhaseShotInFlight:
		return ErrShotInFlight
	case PhaseRoundOver:
		return ErrRoundOver
	default:
		return ErrNotYourTurn
	}
}

func (s *Session) reject(action string, err error) error {
	s.logger.Debug("input rejected", "action", action, "reason", err)
	s.mlog.Add(s.tick, SideHuman.String(), "input", "rejected", action+": "+err.Error(), 0)
	return err
}

// AdjustAngle changes the human barrel angle by delta degrees.
func (s *Session) AdjustAngle(delta float64) error {
	if err := s.humanGate(); err != nil {
		return s.reject("angle", err)
	}
	s.tanks[SideHuman].AdjustAngle(delta)
	return nil
}

// AdjustPower changes the human power by delta.
func (s *Session) AdjustPower(delta float64) error {
	if err := s.humanGate(); err != nil {
		return s.reject("power", err)
	}
	s.tanks[SideHuman].AdjustPower(delta, s.cfg.MinPower, s.cfg.MaxPower)
	return nil
}

// Move drives the human tank one step left (-1) or right (+1). A blocked
// move is not an error; the MoveResult says why it did not happen.
func (s *Session) Move(dir float64) (MoveResult, error) {
	if err := s.humanGate(); err != nil {
		return MoveOK, s.reject("move", err)
	}
	r := s.tanks[SideHuman].Move(dir, s.cfg.MoveSpeed, s.cfg.MaxSlope, s.terrain)
	if r != MoveOK {
		s.logger.Debug("move blocked", "reason", r)
		s.mlog.Add(s.tick, SideHuman.String(), "input", "move_blocked", r.String(), dir)
	}
	return r, nil
}

// SelectAmmo cycles the selected shell: +1 next, -1 previous.
func (s *Session) SelectAmmo(dir int) error {
	if err := s.humanGate(); err != nil {
		return s.reject("ammo", err)
	}
	s.ammoIdx = s.ammo.Cycle(s.ammoIdx, dir)
	return nil
}

// SelectedAmmo returns the human's current shell.
func (s *Session) SelectedAmmo() AmmoSpec { return s.ammo.At(s.ammoIdx) }

// Fire launches the selected shell. The ammo cost is paid atomically with
// the launch and is not refunded on a miss.
func (s *Session) Fire() error {
	if err := s.humanGate(); err != nil {
		return s.reject("fire", err)
	}
	ammo := s.ammo.At(s.ammoIdx)
	if ammo.Cost > s.score {
		return s.reject("fire", fmt.Errorf("%w: need %d, have %d", ErrInsufficientScore, ammo.Cost, s.score))
	}
	if ammo.Cost > 0 {
		s.addScore(-ammo.Cost, "ammo_cost")
	}
	s.launch(s.tanks[SideHuman], ammo)
	return nil
}
