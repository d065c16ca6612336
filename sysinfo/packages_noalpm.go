//go:build !alpm

package sysinfo

import "context"

func (p *probe) pacmanCount(context.Context) (int, bool) {
	return p.pacmanDirCount()
}
