package game

// movePlayers applies each live player's held keys and facing. Diagonals are
// not normalised.
func movePlayers(w *World) {
	t := &w.Tuning
	w.EachPlayer(func(p *Player) {
		if p.Dead {
			return
		}
		in := p.Input
		var dx, dy float64
		if in.Keys.W {
			dy -= 1
		}
		if in.Keys.S {
			dy += 1
		}
		if in.Keys.A {
			dx -= 1
		}
		if in.Keys.D {
			dx += 1
		}
		speed := p.Loadout.MoveSpeed
		p.X, p.Y = ClampToMap(p.X+dx*speed, p.Y+dy*speed, p.R, t.MapWidth, t.MapHeight)

		// aim point is in world space once the camera offset is added back
		ax := in.Mouse.X + in.Camera.X
		ay := in.Mouse.Y + in.Camera.Y
		if ax != p.X || ay != p.Y {
			p.Angle = AngleTo(p.X, p.Y, ax, ay)
		}
	})
}
