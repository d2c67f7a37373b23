package game

// AddXP credits xp to a player; negative amounts are ignored
func AddXP(p *Player, amount int) {
	if amount > 0 {
		p.XP += amount
	}
}

// updateProgression levels up every live player whose xp has crossed the
// next threshold. Each level restores hp to the new maximum.
func updateProgression(w *World) {
	t := &w.Tuning
	w.EachPlayer(func(p *Player) {
		if p.Dead {
			return
		}
		for p.Level < t.MaxLevel {
			need, ok := t.threshold(p.Level)
			if !ok || p.XP < need {
				break
			}
			p.Level++
			p.MaxHP += t.HPPerLevel
			p.HP = p.MaxHP
			w.milestone(p)
			w.emit(EventLevelUp, p.ID, "", p.Level)
		}
	})
}

// milestone offers the choice tied to the level just reached, if any
func (w *World) milestone(p *Player) {
	t := &w.Tuning
	switch {
	case p.Level == t.PathLevel && p.Path == PathNone:
		opts := make([]string, len(OrdinaryPaths))
		for i, path := range OrdinaryPaths {
			opts[i] = string(path)
		}
		p.Prompt = &Prompt{Type: PromptPath, Level: p.Level, Options: opts}
	case p.Level == t.FinalFormLevel && p.Path.Ordinary():
		p.Prompt = &Prompt{Type: PromptFinalForm, Level: p.Level, Options: []string{string(PathFinalForm)}}
	case isUpgradeLevel(t, p.Level):
		p.UpgradePoints++
		if p.Path.Ordinary() {
			p.Prompt = &Prompt{Type: PromptSubUpgrade, Level: p.Level, Options: pendingUpgrades(p)}
		}
	}
}

func isUpgradeLevel(t *Tuning, level int) bool {
	for _, l := range t.UpgradeLevels {
		if l == level {
			return true
		}
	}
	return false
}
