package sysinfo

import (
	"context"
	"net/netip"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/net"
)

func (p *probe) network(ctx context.Context, info *SystemInfo, publicIP bool) {
	info.Interfaces = p.interfaces(ctx)
	if publicIP {
		info.PublicIP = newIPLookup().lookup(ctx)
	}
}

func (p *probe) interfaces(ctx context.Context) []Interface {
	stats, err := net.InterfacesWithContext(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("interface list unavailable")
		return nil
	}

	var out []Interface
	for _, st := range stats {
		sys := "/sys/class/net/" + st.Name
		state := p.read(sys + "/operstate")
		speed := ""
		if state == "up" {
			speed = p.read(sys + "/speed")
		}
		if iface, ok := newInterface(st, state, speed); ok {
			out = append(out, iface)
		}
	}
	return out
}

// newInterface converts a gopsutil record. state and speed come from sysfs
// when available; without them the interface flags decide the state. The
// interface is kept only if it is up or has an address, and never when it
// is a loopback (lo, lo0, "Loopback Pseudo-Interface 1").
func newInterface(st net.InterfaceStat, state, speedMbps string) (Interface, bool) {
	if isLoopback(st) {
		return Interface{}, false
	}
	if state == "" {
		state = "down"
		for _, f := range st.Flags {
			if f == "up" {
				state = "up"
			}
		}
	}

	iface := Interface{Name: st.Name, State: state}
	if st.HardwareAddr != "" && st.HardwareAddr != "00:00:00:00:00:00" {
		iface.MAC = st.HardwareAddr
	}
	if n, err := strconv.Atoi(speedMbps); err == nil && n > 0 && state == "up" {
		iface.Speed = strconv.Itoa(n) + " Mbps"
	}

	for _, a := range st.Addrs {
		addr, ok := parseAddr(a.Addr)
		if !ok {
			continue
		}
		switch {
		case addr.Is4():
			if iface.IPv4 == "" {
				iface.IPv4 = addr.String()
			}
		case !addr.IsLinkLocalUnicast():
			if iface.IPv6 == "" {
				iface.IPv6 = addr.String()
			}
		}
	}

	keep := iface.IPv4 != "" || iface.IPv6 != "" || iface.State == "up"
	return iface, keep
}

func isLoopback(st net.InterfaceStat) bool {
	if st.Name == "lo" {
		return true
	}
	for _, f := range st.Flags {
		if f == "loopback" {
			return true
		}
	}
	return false
}

// parseAddr accepts both "10.0.0.2/24" and bare addresses.
func parseAddr(s string) (netip.Addr, bool) {
	if pfx, err := netip.ParsePrefix(s); err == nil {
		return pfx.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
