package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func (p *probe) hardware(ctx context.Context, info *SystemInfo) {
	p.cpu(ctx, info)
	info.CPUTemp = p.cpuTemp(ctx)
	info.CPUGovernor = p.read("/sys/devices/system/cpu/cpu0/cpufreq/scaling_governor")

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil && vm.Total > 0 {
		info.MemoryUsed, info.MemoryTotal = vm.Used, vm.Total
		info.Memory = formatUsage(vm.Used, vm.Total)
	}
	if sw, err := mem.SwapMemoryWithContext(ctx); err == nil && sw.Total > 0 {
		info.SwapUsed, info.SwapTotal = sw.Used, sw.Total
		info.Swap = formatUsage(sw.Used, sw.Total)
	}

	info.GPUs = p.gpus(ctx)
	info.Disks = p.disks(ctx)
	info.Motherboard, info.BIOS = p.firmware()
}

// cpuSummary is what the per-thread cpu.InfoStat records boil down to.
type cpuSummary struct {
	model   string
	mhz     float64
	cacheKB int32
	threads int
	cores   int
}

func summarizeCPU(stats []cpu.InfoStat) cpuSummary {
	var s cpuSummary
	cores := make(map[string]bool)
	for _, st := range stats {
		if s.model == "" {
			s.model = cleanCPUName(st.ModelName)
		}
		if st.CoreID != "" {
			cores[st.PhysicalID+"/"+st.CoreID] = true
		}
		if st.Mhz > s.mhz {
			s.mhz = st.Mhz
		}
		if s.cacheKB == 0 {
			s.cacheKB = st.CacheSize
		}
	}
	s.threads = len(stats)
	s.cores = len(cores)
	if s.cores == 0 {
		s.cores = s.threads
	}
	return s
}

// cleanCPUName drops trademark noise and collapses whitespace.
func cleanCPUName(name string) string {
	r := strings.NewReplacer("(R)", "", "(TM)", "", "CPU", "")
	return strings.Join(strings.Fields(r.Replace(name)), " ")
}

func formatFreq(mhz float64) string {
	switch {
	case mhz >= 1000:
		return fmt.Sprintf("%.2f GHz", mhz/1000)
	case mhz > 0:
		return fmt.Sprintf("%.0f MHz", mhz)
	}
	return ""
}

func (p *probe) cpu(ctx context.Context, info *SystemInfo) {
	var s cpuSummary
	if stats, err := cpu.InfoWithContext(ctx); err == nil {
		s = summarizeCPU(stats)
	} else {
		p.log.Debug().Err(err).Msg("cpu info unavailable")
	}

	info.CPU = s.model
	if info.CPU == "" {
		info.CPU = cleanCPUName(cpuid.CPU.BrandName)
	}
	info.CPUFreq = formatFreq(s.mhz)

	info.CPUThreads, info.CPUCores = s.threads, s.cores
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		info.CPUThreads = n
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil && n > 0 {
		info.CPUCores = n
	}

	info.CPUArch = machineArch()
	if info.CPUArch == "" {
		info.CPUArch = runtime.GOARCH
	}

	info.CPUCache = p.cpuCache()
	if info.CPUCache == "" {
		c := cpuid.CPU.Cache
		info.CPUCache = formatCache(cacheSize(c.L1D), cacheSize(c.L1I), cacheSize(c.L2), cacheSize(c.L3))
	}
	if info.CPUCache == "" && s.cacheKB > 0 {
		info.CPUCache = fmt.Sprintf("%d KB", s.cacheKB)
	}
}

// cpuCache reads the cache hierarchy of cpu0 from sysfs.
func (p *probe) cpuCache() string {
	const base = "/sys/devices/system/cpu/cpu0/cache"
	var l1d, l1i, l2, l3 string
	for i := 0; i < 10; i++ {
		dir := fmt.Sprintf("%s/index%d", base, i)
		if !p.exists(dir) {
			break
		}
		level, ok := p.readInt(dir + "/level")
		size := p.read(dir + "/size")
		if !ok || size == "" {
			continue
		}
		switch kind := p.read(dir + "/type"); {
		case level == 1 && kind == "Data":
			l1d = size
		case level == 1 && kind == "Instruction":
			l1i = size
		case level == 2:
			l2 = size
		case level == 3:
			l3 = size
		}
	}
	return formatCache(l1d, l1i, l2, l3)
}

// cacheSize renders a cpuid byte count the way sysfs does ("32K").
func cacheSize(bytes int) string {
	if bytes <= 0 {
		return ""
	}
	return strconv.Itoa(bytes/1024) + "K"
}

func formatCache(l1d, l1i, l2, l3 string) string {
	var parts []string
	if l1d != "" && l1i != "" {
		parts = append(parts, fmt.Sprintf("L1: %s+%s", l1d, l1i))
	}
	if l2 != "" {
		parts = append(parts, "L2: "+l2)
	}
	if l3 != "" {
		parts = append(parts, "L3: "+l3)
	}
	return strings.Join(parts, ", ")
}

func celsius(milli int64) string {
	return fmt.Sprintf("%d°C", milli/1000)
}

var cpuSensors = []string{"coretemp", "k10temp", "zenpower"}

func (p *probe) cpuTemp(ctx context.Context) string {
	for _, hw := range p.entries("/sys/class/hwmon") {
		dir := "/sys/class/hwmon/" + hw
		name := p.read(dir + "/name")
		for _, s := range cpuSensors {
			if name != s {
				continue
			}
			if milli, ok := p.readInt(dir + "/temp1_input"); ok {
				return celsius(milli)
			}
		}
	}

	for i := 0; i < 10; i++ {
		dir := fmt.Sprintf("/sys/class/thermal/thermal_zone%d", i)
		kind := strings.ToLower(p.read(dir + "/type"))
		if kind == "" {
			continue
		}
		if !strings.Contains(kind, "cpu") && !strings.Contains(kind, "core") &&
			!strings.Contains(kind, "package") && !strings.Contains(kind, "x86_pkg_temp") {
			continue
		}
		if milli, ok := p.readInt(dir + "/temp"); ok {
			return celsius(milli)
		}
	}

	if !p.live {
		return ""
	}
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil && len(temps) == 0 {
		return ""
	}
	for _, t := range temps {
		key := strings.ToLower(t.SensorKey)
		for _, s := range cpuSensors {
			if strings.HasPrefix(key, s) && t.Temperature > 0 {
				return fmt.Sprintf("%.0f°C", t.Temperature)
			}
		}
	}
	return ""
}

// gpuCard carries what enrichment needs beyond the printed fields.
type gpuCard struct {
	GPU
	vendor  string // lower case
	pciAddr string
}

func (p *probe) gpus(ctx context.Context) []GPU {
	cards := p.pciGPUs()
	if len(cards) == 0 {
		cards = p.drmGPUs()
	}

	var out []GPU
	for _, c := range cards {
		p.enrichGPU(ctx, &c)
		out = append(out, c.GPU)
	}
	return out
}

func (p *probe) pciGPUs() []gpuCard {
	if !p.live {
		return nil
	}
	gi, err := ghw.GPU(ghw.WithDisableWarnings())
	if err != nil {
		p.log.Debug().Err(err).Msg("ghw gpu lookup failed")
		return nil
	}

	var cards []gpuCard
	for _, gc := range gi.GraphicsCards {
		dev := gc.DeviceInfo
		if dev == nil {
			continue
		}
		var vendor, product string
		if dev.Vendor != nil {
			vendor = known(dev.Vendor.Name)
		}
		if dev.Product != nil {
			product = known(dev.Product.Name)
		}
		name := strings.TrimSpace(vendor + " " + product)
		if name == "" {
			continue
		}
		name = TruncateString(name, maxGPUNameWidth)
		cards = append(cards, gpuCard{
			GPU:     GPU{Name: name, Driver: known(dev.Driver)},
			vendor:  strings.ToLower(vendor),
			pciAddr: gc.Address,
		})
	}
	return cards
}

// maxGPUNameWidth caps pci.ids names such as
// "Advanced Micro Devices, Inc. [AMD/ATI] Navi 21 [Radeon RX 6800/6800 XT / 6900 XT]".
const maxGPUNameWidth = 60

var drmVendors = map[string]string{
	"0x10de": "NVIDIA",
	"0x1002": "AMD",
	"0x8086": "Intel",
}

// drmGPUs is the sysfs fallback when PCI enumeration yields nothing.
func (p *probe) drmGPUs() []gpuCard {
	var cards []gpuCard
	for _, name := range p.entries("/sys/class/drm") {
		if !strings.HasPrefix(name, "card") || strings.Contains(name, "-") {
			continue
		}
		dev := "/sys/class/drm/" + name + "/device"
		id := p.read(dev + "/vendor")
		if id == "" {
			continue
		}
		vendor, ok := drmVendors[id]
		if !ok {
			vendor = "Unknown"
		}
		cards = append(cards, gpuCard{
			GPU:     GPU{Name: vendor + " Graphics", Driver: p.linkBase(dev + "/driver")},
			vendor:  strings.ToLower(vendor),
			pciAddr: p.linkBase(dev),
		})
	}
	return cards
}

func (p *probe) enrichGPU(ctx context.Context, c *gpuCard) {
	switch {
	case strings.Contains(c.vendor, "nvidia"):
		if v := nvidiaDriverVersion(p.read("/proc/driver/nvidia/version")); v != "" {
			c.Driver = "NVIDIA " + v
		}
		if mb := p.output(ctx, "nvidia-smi", "--query-gpu=memory.total", "--format=csv,noheader,nounits"); mb != "" {
			if n, err := strconv.ParseUint(firstLine(mb), 10, 64); err == nil {
				c.VRAM = fmt.Sprintf("%d MiB", n)
			}
		}
		if t := firstLine(p.output(ctx, "nvidia-smi", "--query-gpu=temperature.gpu", "--format=csv,noheader")); t != "" {
			c.Temp = t + "°C"
		}
	case strings.Contains(c.vendor, "intel"):
		if c.Driver == "i915" || c.Driver == "xe" {
			c.Driver = "Intel " + c.Driver
		}
	case strings.Contains(c.vendor, "amd"):
		if c.pciAddr != "" {
			if b, ok := p.readInt("/sys/bus/pci/devices/" + c.pciAddr + "/mem_info_vram_total"); ok {
				c.VRAM = fmt.Sprintf("%d MiB", b/1024/1024)
			}
		}
		c.Temp = p.hwmonTemp("amdgpu")
	}
}

// nvidiaDriverVersion pulls the version out of /proc/driver/nvidia/version,
// e.g. "NVRM version: NVIDIA UNIX x86_64 Kernel Module  535.54.03  Tue ...".
func nvidiaDriverVersion(content string) string {
	fields := strings.Fields(firstLine(content))
	if len(fields) > 7 {
		return fields[7]
	}
	return ""
}

func (p *probe) hwmonTemp(sensor string) string {
	for _, hw := range p.entries("/sys/class/hwmon") {
		dir := "/sys/class/hwmon/" + hw
		if p.read(dir+"/name") != sensor {
			continue
		}
		if milli, ok := p.readInt(dir + "/temp1_input"); ok {
			return celsius(milli)
		}
	}
	return ""
}

var pseudoFS = map[string]bool{
	"tmpfs": true, "devtmpfs": true, "squashfs": true, "overlay": true,
	"proc": true, "sysfs": true, "devpts": true, "cgroup": true,
	"cgroup2": true, "autofs": true, "mqueue": true, "hugetlbfs": true,
	"debugfs": true, "tracefs": true, "securityfs": true, "pstore": true,
	"configfs": true, "fusectl": true, "binfmt_misc": true, "ramfs": true,
	"efivarfs": true,
}

// minDiskSize hides boot partitions and other tiny filesystems.
const minDiskSize = 100 * 1024 * 1024

func (p *probe) disks(ctx context.Context) []Disk {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		p.log.Debug().Err(err).Msg("partition list unavailable")
		return nil
	}

	seen := make(map[string]bool)
	var out []Disk
	for _, part := range parts {
		if pseudoFS[part.Fstype] || seen[part.Mountpoint] {
			continue
		}
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			continue
		}
		d, ok := newDisk(part.Mountpoint, part.Fstype, usage.Total, usage.Free)
		if !ok {
			continue
		}
		d.Type = p.diskType(part.Device)
		seen[part.Mountpoint] = true
		out = append(out, d)
	}
	return out
}

func newDisk(mount, fstype string, total, free uint64) (Disk, bool) {
	if total < minDiskSize {
		return Disk{}, false
	}
	used := uint64(0)
	if total > free {
		used = total - free
	}
	return Disk{
		Mount:      mount,
		Filesystem: fstype,
		Size:       FormatBytes(total),
		Used:       FormatBytes(used),
		Available:  FormatBytes(free),
		Percent:    int(float64(used) / float64(total) * 100),
	}, true
}

// blockDevice maps a partition device to its parent block device:
// /dev/sda2 -> sda, /dev/nvme0n1p3 -> nvme0n1, /dev/mmcblk0p1 -> mmcblk0.
func blockDevice(dev string) string {
	base := strings.TrimPrefix(dev, "/dev/")
	if strings.HasPrefix(base, "nvme") || strings.HasPrefix(base, "mmcblk") {
		if i := strings.LastIndex(base, "p"); i > 0 && isDigits(base[i+1:]) && isDigits(base[i-1:i]) {
			return base[:i]
		}
		return base
	}
	return strings.TrimRight(base, "0123456789")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p *probe) diskType(dev string) string {
	base := blockDevice(dev)
	if base == "" {
		return ""
	}
	rot := p.read("/sys/block/" + base + "/queue/rotational")
	switch {
	case rot == "":
		return ""
	case rot == "1":
		return "HDD"
	case strings.HasPrefix(base, "nvme"):
		return "NVMe SSD"
	}
	return "SSD"
}

// firmware reports the baseboard and BIOS from DMI, falling back to ghw
// where sysfs has nothing (non-Linux hosts).
func (p *probe) firmware() (board, bios string) {
	const dmi = "/sys/class/dmi/id/"
	board = joinFields(p.read(dmi+"board_vendor"), p.read(dmi+"board_name"))
	bios = formatBIOS(p.read(dmi+"bios_vendor"), p.read(dmi+"bios_version"), p.read(dmi+"bios_date"))
	if !p.live {
		return board, bios
	}

	if board == "" {
		if bb, err := ghw.Baseboard(ghw.WithDisableWarnings()); err == nil {
			board = joinFields(known(bb.Vendor), known(bb.Product))
		}
	}
	if bios == "" {
		if bi, err := ghw.BIOS(ghw.WithDisableWarnings()); err == nil {
			bios = formatBIOS(known(bi.Vendor), known(bi.Version), known(bi.Date))
		}
	}
	return board, bios
}

func formatBIOS(vendor, version, date string) string {
	if date != "" {
		date = "(" + date + ")"
	}
	return joinFields(vendor, version, date)
}

// joinFields joins the non-empty values with single spaces.
func joinFields(vals ...string) string {
	var parts []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// known blanks ghw's placeholder for missing values.
func known(s string) string {
	if strings.EqualFold(s, "unknown") {
		return ""
	}
	return strings.TrimSpace(s)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
