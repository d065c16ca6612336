//go:build alpm

package sysinfo

import (
	"context"

	"github.com/Jguer/go-alpm/v2"
)

// pacmanCount reads the local package database through libalpm, falling
// back to counting database entries when the handle cannot be opened.
func (p *probe) pacmanCount(context.Context) (int, bool) {
	if !p.exists("/var/lib/pacman/local") {
		return 0, false
	}
	h, err := alpm.Initialize(p.root, p.path("/var/lib/pacman"))
	if err != nil {
		p.log.Debug().Err(err).Msg("alpm init failed")
		return p.pacmanDirCount()
	}
	defer h.Release()

	db, err := h.LocalDB()
	if err != nil {
		return p.pacmanDirCount()
	}
	n := len(db.PkgCache().Slice())
	return n, n > 0
}
