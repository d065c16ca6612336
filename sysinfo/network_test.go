package sysinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterface(t *testing.T) {
	st := net.InterfaceStat{
		Name:         "wlan0",
		HardwareAddr: "a4:c3:f0:11:22:33",
		Flags:        []string{"up", "broadcast", "multicast"},
		Addrs: net.InterfaceAddrList{
			{Addr: "fe80::1c2b:3aff:fe4d:5e6f/64"},
			{Addr: "192.168.1.23/24"},
			{Addr: "2001:db8::23/64"},
			{Addr: "10.0.0.5/8"},
		},
	}

	iface, ok := newInterface(st, "up", "866")
	require.True(t, ok)
	assert.Equal(t, Interface{
		Name:  "wlan0",
		IPv4:  "192.168.1.23",
		IPv6:  "2001:db8::23",
		MAC:   "a4:c3:f0:11:22:33",
		Speed: "866 Mbps",
		State: "up",
	}, iface)
}

func TestNewInterfaceWithoutSysfs(t *testing.T) {
	iface, ok := newInterface(net.InterfaceStat{Name: "en0", Flags: []string{"up"}}, "", "")
	require.True(t, ok)
	assert.Equal(t, "up", iface.State)
	assert.Empty(t, iface.Speed)

	_, ok = newInterface(net.InterfaceStat{Name: "docker0", HardwareAddr: "00:00:00:00:00:00"}, "down", "-1")
	assert.False(t, ok, "down interfaces without addresses are dropped")
}

func TestNewInterfaceSkipsLoopback(t *testing.T) {
	tests := []net.InterfaceStat{
		{Name: "lo", Flags: []string{"up"}, Addrs: net.InterfaceAddrList{{Addr: "127.0.0.1/8"}}},
		{Name: "lo0", Flags: []string{"up", "loopback", "multicast"}, Addrs: net.InterfaceAddrList{{Addr: "127.0.0.1/8"}, {Addr: "::1/128"}}},
		{Name: "Loopback Pseudo-Interface 1", Flags: []string{"up", "loopback", "multicast"}, Addrs: net.InterfaceAddrList{{Addr: "127.0.0.1/8"}}},
	}
	for _, st := range tests {
		t.Run(st.Name, func(t *testing.T) {
			_, ok := newInterface(st, "", "")
			assert.False(t, ok)
		})
	}
}

func TestParseAddr(t *testing.T) {
	a, ok := parseAddr("10.1.2.3/16")
	require.True(t, ok)
	assert.Equal(t, "10.1.2.3", a.String())

	a, ok = parseAddr("::ffff:192.0.2.1")
	require.True(t, ok)
	assert.True(t, a.Is4())

	_, ok = parseAddr("not-an-ip")
	assert.False(t, ok)
}

func TestPublicIPGeo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"203.0.113.7","country":"Germany","regionName":"Berlin","city":"Berlin","zip":"10115","isp":"Example ISP"}`))
	}))
	defer srv.Close()

	l := &ipLookup{client: srv.Client(), geoURL: srv.URL}
	got := l.lookup(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, PublicIP{IP: "203.0.113.7", Country: "Germany", Region: "Berlin", City: "Berlin", Zip: "10115", ISP: "Example ISP"}, *got)
}

func TestPublicIPFallsBackToPlainText(t *testing.T) {
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer geo.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("198.51.100.4\n"))
	}))
	defer plain.Close()

	l := &ipLookup{client: http.DefaultClient, geoURL: geo.URL, plainURLs: []string{broken.URL, plain.URL}}
	got := l.lookup(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, "198.51.100.4", got.IP)
	assert.Empty(t, got.Country)
}

func TestPublicIPAllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	l := &ipLookup{client: srv.Client(), geoURL: srv.URL, plainURLs: []string{srv.URL}}
	assert.Nil(t, l.lookup(context.Background()))
}
