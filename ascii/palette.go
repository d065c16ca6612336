package ascii

// twoTone repeats a pair of colors so tokens $1 through $6 all resolve.
func twoTone(a, b Color) []Color {
	return []Color{a, b, a, b, a, b}
}

// distroPalettes colors art loaded from an external directory, where no
// palette travels with the file.
var distroPalettes = map[string][]Color{
	"gentoo":       twoTone(Magenta, White),
	"macos":        twoTone(Yellow, White),
	"macosx":       twoTone(Yellow, White),
	"osx":          twoTone(Yellow, White),
	"darwin":       twoTone(Yellow, White),
	"arch":         twoTone(Cyan, Blue),
	"archlinux":    twoTone(Cyan, Blue),
	"debian":       twoTone(Red, White),
	"ubuntu":       twoTone(Red, White),
	"fedora":       twoTone(Blue, White),
	"nixos":        twoTone(Cyan, Blue),
	"alpine":       twoTone(Blue, White),
	"manjaro":      twoTone(Green, White),
	"endeavouros":  twoTone(Magenta, Cyan),
	"pop":          twoTone(Cyan, White),
	"pop_os":       twoTone(Cyan, White),
	"pop!_os":      twoTone(Cyan, White),
	"mint":         twoTone(Green, White),
	"linuxmint":    twoTone(Green, White),
	"elementary":   twoTone(White, Cyan),
	"elementaryos": twoTone(White, Cyan),
	"zorin":        twoTone(Blue, White),
	"zorinos":      twoTone(Blue, White),
	"kali":         twoTone(Blue, White),
	"parrot":       twoTone(Green, Cyan),
	"parrotos":     twoTone(Green, Cyan),
	"slackware":    twoTone(Blue, White),
	"void":         twoTone(Green, White),
	"voidlinux":    twoTone(Green, White),
	"windows":      twoTone(Cyan, Blue),
}

// PaletteFor returns the palette used for an externally loaded logo. Unknown
// identifiers get cyan and white.
func PaletteFor(id string) []Color {
	if p, ok := distroPalettes[Normalize(id)]; ok {
		return append([]Color(nil), p...)
	}
	return twoTone(Cyan, White)
}
