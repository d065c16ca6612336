package sysinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// publicIPTimeout bounds the whole lookup, fallbacks included.
const publicIPTimeout = 5 * time.Second

// ipLookup resolves the external address. geoURL answers with ip-api.com
// style JSON; plainURLs return the bare address as text.
type ipLookup struct {
	client    *http.Client
	geoURL    string
	plainURLs []string
}

func newIPLookup() *ipLookup {
	return &ipLookup{
		client:    &http.Client{Timeout: publicIPTimeout},
		geoURL:    "http://ip-api.com/json/?fields=query,country,regionName,city,zip,isp",
		plainURLs: []string{"https://api.ipify.org", "https://icanhazip.com", "https://ifconfig.me/ip"},
	}
}

type geoResponse struct {
	Query      string `json:"query"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
	Zip        string `json:"zip"`
	ISP        string `json:"isp"`
}

// lookup returns nil when every service fails.
func (l *ipLookup) lookup(ctx context.Context) *PublicIP {
	ctx, cancel := context.WithTimeout(ctx, publicIPTimeout)
	defer cancel()

	if body, err := l.get(ctx, l.geoURL); err == nil {
		var geo geoResponse
		if err := json.Unmarshal(body, &geo); err == nil && geo.Query != "" {
			return &PublicIP{
				IP:      geo.Query,
				Country: geo.Country,
				Region:  geo.RegionName,
				City:    geo.City,
				Zip:     geo.Zip,
				ISP:     geo.ISP,
			}
		}
	}

	for _, u := range l.plainURLs {
		body, err := l.get(ctx, u)
		if err != nil {
			continue
		}
		if ip := strings.TrimSpace(string(body)); ip != "" && len(ip) < 50 {
			return &PublicIP{IP: ip}
		}
	}
	return nil
}

func (l *ipLookup) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", url, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 64<<10))
}
