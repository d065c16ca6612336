//go:build windows
// +build windows

package sysinfo

import (
	"context"
	"encoding/json"
	"os/exec"
	"syscall"
)

func hideWindow(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}

// runPowerShellJSON runs a PowerShell command expected to emit JSON and
// unmarshals it into v.
func (p *probe) runPowerShellJSON(ctx context.Context, cmd string, v interface{}) error {
	out, err := p.run(ctx, "powershell", "-NoProfile", "-Command", cmd)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(out), v)
}
