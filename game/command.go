package game

import "go.uber.org/zap"

// CommandType enumerates queued inbound effects
type CommandType uint8

const (
	CmdJoin CommandType = iota + 1
	CmdLeave
	CmdInput
	CmdSwitchPath
	CmdApplyUpgrade
	CmdPlaceTrap
	CmdRespawn
)

func (c CommandType) String() string {
	switch c {
	case CmdJoin:
		return "join"
	case CmdLeave:
		return "leave"
	case CmdInput:
		return "input"
	case CmdSwitchPath:
		return "switchPath"
	case CmdApplyUpgrade:
		return "applyUpgrade"
	case CmdPlaceTrap:
		return "tryPlaceTrap"
	case CmdRespawn:
		return "respawn"
	}
	return "unknown"
}

// Command is one inbound client effect, already decoded and typed. Commands
// are applied at the top of a tick, never while collections are iterated.
type Command struct {
	Type     CommandType
	PlayerID string
	Input    Input
	Path     Path
	Upgrade  UpgradeKey
}

// Apply executes a single command. Requests that are not valid in the
// player's current state are no-ops and report ErrInvalidTransition.
func (w *World) Apply(c Command) error {
	if c.Type == CmdJoin {
		w.AddPlayer(c.PlayerID)
		return nil
	}
	p, ok := w.Players[c.PlayerID]
	if !ok {
		return ErrInvalidTransition
	}
	t := &w.Tuning

	switch c.Type {
	case CmdLeave:
		w.RemovePlayer(c.PlayerID)
	case CmdInput:
		p.Input = c.Input
	case CmdSwitchPath:
		if p.Dead {
			return ErrInvalidTransition
		}
		if err := SelectPath(p, c.Path, t); err != nil {
			return err
		}
		w.emit(EventPathChosen, p.ID, string(c.Path), p.Level)
	case CmdApplyUpgrade:
		if p.Dead || p.UpgradePoints <= 0 {
			return ErrInvalidTransition
		}
		if !ApplySubUpgrade(p, c.Upgrade, t) {
			return ErrInvalidTransition
		}
		p.UpgradePoints--
		w.emit(EventUpgradeApplied, p.ID, c.Upgrade.String(), p.Level)
	case CmdPlaceTrap:
		if !w.placeTrap(p) {
			return ErrInvalidTransition
		}
	case CmdRespawn:
		if !p.Dead {
			return ErrInvalidTransition
		}
		w.resetPlayer(p)
		w.emit(EventRespawn, p.ID, "", 0)
	default:
		return ErrInvalidTransition
	}
	return nil
}

func (w *World) applyAll(cmds []Command) {
	for _, c := range cmds {
		if err := w.Apply(c); err != nil {
			w.log.Debug("command ignored",
				zap.Stringer("type", c.Type),
				zap.String("player", c.PlayerID),
				zap.Error(err))
		}
	}
}
