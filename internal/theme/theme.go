package theme

import "git.lost.host/meutraa/flick/internal/game"

type Theme interface {
	RenderNote(t game.NoteType, angle float64, flying bool) string
	RenderTarget(t game.NoteType) string
	RenderHold(h game.HoldState) string
	RenderTier(tier game.Tier) string
}
