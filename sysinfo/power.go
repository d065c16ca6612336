package sysinfo

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
)

func (p *probe) power(ctx context.Context, info *SystemInfo) {
	if runtime.GOOS == "darwin" {
		info.Battery = parsePmset(p.output(ctx, "pmset", "-g", "batt"))
	}
	if info.Battery == nil {
		info.Battery = p.battery()
	}
	info.Brightness = p.brightness()
}

const powerSupply = "/sys/class/power_supply"

// battery aggregates every battery under power_supply. Energy readings are
// summed so dual-battery laptops report one combined charge.
func (p *probe) battery() *Battery {
	var (
		energyNow, energyFull, powerNow int64
		hasEnergy, hasPower             bool
		percents                        []int64
		statuses                        []string
	)

	for _, name := range p.entries(powerSupply) {
		if !strings.HasPrefix(name, "BAT") && !strings.Contains(name, "battery") {
			continue
		}
		dir := powerSupply + "/" + name
		if t := p.read(dir + "/type"); t != "" && t != "Battery" {
			continue
		}

		status := p.read(dir + "/status")
		if status == "" {
			status = "Unknown"
		}
		statuses = append(statuses, status)

		if c, ok := p.readInt(dir + "/capacity"); ok {
			percents = append(percents, c)
		}

		now, okNow := p.firstInt(dir+"/energy_now", dir+"/charge_now")
		full, okFull := p.firstInt(dir+"/energy_full", dir+"/charge_full")
		if okNow && okFull {
			energyNow += now
			energyFull += full
			hasEnergy = true
		}
		if pw, ok := p.firstInt(dir+"/power_now", dir+"/current_now"); ok {
			powerNow += pw
			hasPower = true
		}
	}

	if !hasEnergy && len(percents) == 0 {
		return nil
	}

	var percent int64
	switch {
	case hasEnergy && energyFull > 0:
		percent = int64(math.Round(float64(energyNow) / float64(energyFull) * 100))
	case len(percents) == 0:
		// energy files present but a zero design capacity and no capacity file
		return nil
	default:
		var sum int64
		for _, v := range percents {
			sum += v
		}
		percent = sum / int64(len(percents))
	}
	if percent > 100 {
		percent = 100
	}

	status := resolveBatteryStatus(statuses)
	b := &Battery{Percent: int(percent), Status: batteryStatusName(status)}
	if hasEnergy && hasPower {
		b.TimeRemaining = timeRemaining(energyNow, energyFull, powerNow, status)
	}
	return b
}

func (p *probe) firstInt(paths ...string) (int64, bool) {
	for _, path := range paths {
		if v, ok := p.readInt(path); ok {
			return v, true
		}
	}
	return 0, false
}

// resolveBatteryStatus picks one status for all batteries: any charging
// battery wins, then discharging, then full.
func resolveBatteryStatus(statuses []string) string {
	has := func(want string) bool {
		for _, s := range statuses {
			if strings.EqualFold(s, want) {
				return true
			}
		}
		return false
	}
	switch {
	case has("charging"):
		return "Charging"
	case has("discharging"):
		return "Discharging"
	case has("full"):
		return "Full"
	}
	return "Unknown"
}

func batteryStatusName(status string) string {
	switch strings.ToLower(status) {
	case "charging":
		return "Charging"
	case "discharging":
		return "Discharging"
	case "full":
		return "Full"
	case "not charging":
		return "Not Charging"
	}
	return status
}

// timeRemaining estimates H:MM until full or empty. Estimates of 100 hours
// or more are noise from a near-idle power draw and are dropped.
func timeRemaining(energyNow, energyFull, powerNow int64, status string) string {
	if powerNow <= 0 {
		return ""
	}
	var hours float64
	switch strings.ToLower(status) {
	case "charging":
		left := energyFull - energyNow
		if left < 0 {
			left = 0
		}
		hours = float64(left) / float64(powerNow)
	case "discharging":
		hours = float64(energyNow) / float64(powerNow)
	default:
		return ""
	}
	if hours <= 0 || hours >= 100 {
		return ""
	}
	mins := int(hours * 60)
	return fmt.Sprintf("%d:%02d", mins/60, mins%60)
}

// parsePmset reads `pmset -g batt` output, e.g.
// " -InternalBattery-0 (id=123)	85%; discharging; 4:12 remaining present: true".
func parsePmset(out string) *Battery {
	for _, line := range strings.Split(out, "\n") {
		before, _, ok := strings.Cut(line, "%")
		if !ok {
			continue
		}
		fields := strings.Fields(before)
		if len(fields) == 0 {
			continue
		}
		pct, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			continue
		}

		lower := strings.ToLower(line)
		status := "Unknown"
		switch {
		case strings.Contains(lower, "discharging"):
			status = "Discharging"
		case strings.Contains(lower, "charging"):
			status = "Charging"
		case strings.Contains(lower, "charged"):
			status = "Full"
		}

		b := &Battery{Percent: pct, Status: status}
		if parts := strings.Split(line, ";"); len(parts) > 2 {
			if f := strings.Fields(parts[2]); len(f) > 0 && strings.Contains(f[0], ":") {
				b.TimeRemaining = f[0]
			}
		}
		return b
	}
	return nil
}

func (p *probe) brightness() string {
	const base = "/sys/class/backlight"
	for _, name := range p.entries(base) {
		cur, ok1 := p.readInt(base + "/" + name + "/brightness")
		limit, ok2 := p.readInt(base + "/" + name + "/max_brightness")
		if ok1 && ok2 && limit > 0 {
			return fmt.Sprintf("%d%%", cur*100/limit)
		}
	}
	return ""
}
