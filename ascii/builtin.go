package ascii

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed logos/*.txt
var logoFS embed.FS

const (
	genericName  = "linux"
	genericSmall = "linux_small"
	smallSuffix  = "_small"
)

// builtinPalettes lists every compiled-in logo. The key is the embedded
// file stem.
var builtinPalettes = map[string][]Color{
	"arch":           {Cyan, Blue},
	"arch_small":     {Cyan},
	"artix":          {Cyan, Blue},
	"debian":         {Red},
	"debian_small":   {Red},
	"ubuntu":         {Red, White},
	"ubuntu_small":   {Red},
	"fedora":         {Blue, White},
	"fedora_small":   {Blue},
	"centos":         {Yellow, Green, Blue, Magenta},
	"rhel":           {Red},
	"opensuse":       {Green, White},
	"gentoo":         {Magenta, White},
	"gentoo_small":   {Magenta},
	"void":           {Green, Black},
	"void_small":     {Green},
	"nixos":          {Blue, Cyan},
	"nixos_small":    {Blue},
	"alpine":         {Blue},
	"manjaro":        {Green},
	"manjaro_small":  {Green},
	"endeavouros":    {Magenta, Red, Blue},
	"pop":            {Cyan, White},
	"mint":           {Green, White},
	"elementary":     {Blue},
	"zorin":          {Blue, Cyan},
	"kali":           {Blue, Black},
	"parrot":         {Cyan, Red},
	"slackware":      {Blue, White},
	"windows":        {Cyan},
	"windows_small":  {Red, Green, Blue, Yellow},
	"windows_server": {Blue, White},
	"linux":          {White, Yellow},
	"linux_small":    {White},
}

// aliases maps alternative identifiers onto builtin logo names.
var aliases = map[string]string{
	"archlinux":           "arch",
	"artixlinux":          "artix",
	"redhat":              "rhel",
	"opensuse-leap":       "opensuse",
	"opensuse-tumbleweed": "opensuse",
	"voidlinux":           "void",
	"pop_os":              "pop",
	"pop!_os":             "pop",
	"linuxmint":           "mint",
	"elementaryos":        "elementary",
	"zorinos":             "zorin",
	"parrotos":            "parrot",
	"windows11":           "windows",
	"windows10":           "windows",
	"win32":               "windows",
}

// available is the listing order of builtin logos.
var available = []string{
	"arch",
	"artix",
	"debian",
	"ubuntu",
	"fedora",
	"centos",
	"rhel",
	"opensuse",
	"gentoo",
	"void",
	"nixos",
	"alpine",
	"manjaro",
	"endeavouros",
	"pop",
	"mint",
	"elementary",
	"zorin",
	"kali",
	"parrot",
	"slackware",
	"windows",
	"windows_server",
	"linux",
}

// Builtin returns the compiled-in logo for id. Unknown identifiers, small
// variant stems such as "arch_small", and small requests for logos without
// a small variant yield the generic penguin.
func Builtin(id string, small bool) *Art {
	name := Normalize(id)
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	switch {
	case isSmallStem(name):
		name = genericName
		if small {
			name = genericSmall
		}
	case small:
		name += smallSuffix
		if _, ok := builtinPalettes[name]; !ok {
			name = genericSmall
		}
	default:
		if _, ok := builtinPalettes[name]; !ok {
			name = genericName
		}
	}

	return loadBuiltin(logoFS, name)
}

// loadBuiltin reads logos/<name>.txt from fsys. A missing or empty file
// yields the inline generic art.
func loadBuiltin(fsys fs.FS, name string) *Art {
	lines, err := readLogo(fsys, path.Join("logos", name+logoExt))
	if err != nil || len(lines) == 0 {
		return NewArt(genericName, fallbackLines, builtinPalettes[genericName])
	}
	return NewArt(name, lines, builtinPalettes[name])
}

// isSmallStem reports whether name is the file stem of a small variant.
func isSmallStem(name string) bool {
	return strings.HasSuffix(name, smallSuffix)
}

// fallbackLines stand in when an embedded logo cannot be read.
var fallbackLines = []string{
	"$1    .--.",
	"$1   |o_o |",
	"$1   |$2:_/$1 |",
	"$1  //   \\ \\",
	"$1 (|     | )",
	"$1/'\\_   _/`\\",
	"$1\\___)=(___/",
}

// BuiltinNames returns the builtin logo names in listing order.
func BuiltinNames() []string {
	return append([]string(nil), available...)
}
