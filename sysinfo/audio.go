package sysinfo

import (
	"context"
	"strconv"
	"strings"
)

func (p *probe) audio(ctx context.Context, info *SystemInfo) {
	info.AudioDevice = p.audioDevice(ctx)
	info.Volume = p.volume(ctx)
}

func (p *probe) audioDevice(ctx context.Context) string {
	if name := wpctlDefaultSink(p.output(ctx, "wpctl", "status")); name != "" {
		return name + " (PipeWire)"
	}

	if sink := p.output(ctx, "pactl", "get-default-sink"); sink != "" {
		if desc := pactlDescription(p.output(ctx, "pactl", "list", "sinks"), sink); desc != "" {
			return desc + " (PulseAudio)"
		}
		return sink + " (PulseAudio)"
	}

	for _, line := range p.lines(ctx, "aplay", "-l") {
		if !strings.HasPrefix(line, "card") {
			continue
		}
		start := strings.IndexByte(line, '[')
		end := strings.IndexByte(line, ']')
		if start >= 0 && end > start {
			return line[start+1:end] + " (ALSA)"
		}
	}
	return ""
}

// wpctlDefaultSink finds the starred entry in the Sinks block of
// `wpctl status`:
//
//	├─ Sinks:
//	│  *   48. Built-in Audio Analog Stereo        [vol: 0.40]
func wpctlDefaultSink(out string) string {
	inSinks := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Sinks:") {
			inSinks = true
			continue
		}
		if !inSinks {
			continue
		}
		body := strings.TrimLeft(line, " │├└─")
		if body == "" {
			return ""
		}
		if !strings.HasPrefix(body, "*") {
			continue
		}
		_, name, ok := strings.Cut(body, ".")
		if !ok {
			return ""
		}
		name, _, _ = strings.Cut(name, "[")
		return strings.TrimSpace(name)
	}
	return ""
}

// pactlDescription returns the Description of sink in `pactl list sinks`.
func pactlDescription(out, sink string) string {
	inSink := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, sink) {
			inSink = true
		}
		if !inSink {
			continue
		}
		if desc, ok := strings.CutPrefix(strings.TrimSpace(line), "Description:"); ok {
			return strings.TrimSpace(desc)
		}
	}
	return ""
}

func (p *probe) volume(ctx context.Context) string {
	if v := parseWpctlVolume(p.output(ctx, "wpctl", "get-volume", "@DEFAULT_AUDIO_SINK@")); v != "" {
		return v
	}
	if pct, ok := parsePactlVolume(p.output(ctx, "pactl", "get-sink-volume", "@DEFAULT_SINK@")); ok {
		muted := strings.Contains(p.output(ctx, "pactl", "get-sink-mute", "@DEFAULT_SINK@"), "yes")
		return formatVolume(pct, muted)
	}
	return parseAmixer(p.output(ctx, "amixer", "get", "Master"))
}

func formatVolume(pct int, muted bool) string {
	s := strconv.Itoa(pct) + "%"
	if muted {
		s += " (Muted)"
	}
	return s
}

// parseWpctlVolume reads "Volume: 0.40 [MUTED]".
func parseWpctlVolume(out string) string {
	_, rest, ok := strings.Cut(out, ":")
	if !ok {
		return ""
	}
	f := strings.Fields(rest)
	if len(f) == 0 {
		return ""
	}
	v, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return ""
	}
	return formatVolume(int(v*100+0.5), strings.Contains(out, "[MUTED]"))
}

// parsePactlVolume reads the first percentage of
// "Volume: front-left: 26214 /  40% / -23.88 dB,   front-right: ...".
func parsePactlVolume(out string) (int, bool) {
	for _, part := range strings.Split(out, "/") {
		part = strings.TrimSpace(part)
		if !strings.HasSuffix(part, "%") {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(part, "%"))); err == nil {
			return n, true
		}
	}
	return 0, false
}

// parseAmixer reads "  Front Left: Playback 26 [40%] [-23.25dB] [on]".
func parseAmixer(out string) string {
	for _, line := range strings.Split(out, "\n") {
		start := strings.IndexByte(line, '[')
		if start < 0 {
			continue
		}
		end := strings.IndexByte(line[start:], '%')
		if end < 0 {
			continue
		}
		n, err := strconv.Atoi(line[start+1 : start+end])
		if err != nil {
			continue
		}
		return formatVolume(n, strings.Contains(line, "[off]"))
	}
	return ""
}
