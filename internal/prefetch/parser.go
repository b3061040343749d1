package prefetch

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf16"

	"go.uber.org/zap"

	"github.com/quietdesk/studyguard/internal/domain"
)

// Prefetch format versions seen in the wild.
const (
	VersionWinXP  = 17
	VersionVista  = 23
	VersionWin8   = 26
	VersionWin10  = 30
)

// Field offsets. Run-count moved when the format grew in version 26.
const (
	runCountOffsetModern = 0xD0 // version >= 26
	runCountOffsetLegacy = 0x90
	runTimesOffset       = 0x80

	maxRunTimes     = 8
	maxRunCount     = 10000
	maxFilePaths    = 20
	serialScanLimit = 200
)

var (
	sccaSignature = []byte{'S', 'C', 'C', 'A'}
	mamSignature  = []byte{'M', 'A', 'M'}

	// APPNAME-XXXXXXXX.pf
	pfNamePattern = regexp.MustCompile(`(?i)^(.+)-([0-9A-F]{8})\.pf$`)

	// Absolute paths embedded in the UTF-16 payload.
	pathPattern = regexp.MustCompile(`(?i)[C-Z]:\\[\w\\ .$()~\-]+\.(?:exe|dll|sys)`)
)

// FileMeta carries the on-disk metadata for a .pf file.
type FileMeta struct {
	Size     int64
	Created  time.Time
	Modified time.Time
}

// Parser turns raw .pf buffers into PrefetchRecords.
type Parser struct {
	pm     domain.ProcessManager
	logger *zap.Logger
}

// NewParser creates a parser. pm is used for the best-effort
// running-process probe and may not be nil.
func NewParser(pm domain.ProcessManager, logger *zap.Logger) *Parser {
	return &Parser{pm: pm, logger: logger}
}

// ParseRecord interprets one .pf buffer. Every field is parsed best-effort
// with a documented fallback; the only failure mode is an error for buffers
// that cannot be interpreted at all (too short, or MAM-compressed).
func (p *Parser) ParseRecord(buf []byte, filename string, meta FileMeta) (*domain.PrefetchRecord, error) {
	if len(buf) < 8 {
		return nil, fmt.Errorf("%s: buffer too short (%d bytes): %w", filename, len(buf), domain.ErrParseFailure)
	}
	// Win10+ stores .pf files xpress-huffman compressed behind a MAM header.
	// Decompression is out of scope; skip the file rather than misread it.
	if bytes.Equal(buf[:3], mamSignature) {
		return nil, fmt.Errorf("%s: MAM-compressed prefetch not supported: %w", filename, domain.ErrParseFailure)
	}

	version := binary.LittleEndian.Uint32(buf[0:4])
	switch version {
	case VersionWinXP, VersionVista, VersionWin8, VersionWin10:
	default:
		p.logger.Warn("unexpected prefetch version, parsing best-effort",
			zap.String("file", filename),
			zap.Uint32("version", version))
	}
	if !bytes.Equal(buf[4:8], sccaSignature) {
		p.logger.Warn("SCCA signature missing",
			zap.String("file", filename))
	}

	execName, hash := splitPrefetchName(filename)

	rawCount, countOK := readUint32(buf, runCountOffset(version))
	if countOK && (rawCount == 0 || rawCount > maxRunCount) {
		countOK = false
	}

	runTimes := p.decodeRunTimes(buf, version, rawCount, countOK)
	if len(runTimes) == 0 {
		runTimes = []time.Time{meta.Modified}
	}
	sort.Slice(runTimes, func(i, j int) bool { return runTimes[i].After(runTimes[j]) })

	runCount := rawCount
	if !countOK {
		runCount = uint32(len(runTimes))
		if runCount == 0 {
			runCount = 1
		}
	}

	paths := extractFilePaths(buf)
	if len(paths) == 0 {
		paths = defaultFilePaths(execName)
	}

	return &domain.PrefetchRecord{
		ExecutableName: titleCase(execName),
		RunCount:       runCount,
		LastRunTimes:   runTimes,
		FilePaths:      paths,
		VolumeInfo:     []domain.VolumeInfo{extractVolumeInfo(buf, meta.Created)},
		Size:           uint64(meta.Size),
		PrefetchPath:   filename,
		Hash:           hash,
		FileCreated:    meta.Created,
		FileModified:   meta.Modified,
		Version:        version,
		Running:        p.pm.IsProcessRunning(execName),
	}, nil
}

func runCountOffset(version uint32) int {
	if version >= VersionWin8 {
		return runCountOffsetModern
	}
	return runCountOffsetLegacy
}

// decodeRunTimes reads the run-time FILETIME array. Versions before 26
// store a single timestamp; newer versions store up to eight.
func (p *Parser) decodeRunTimes(buf []byte, version, rawCount uint32, countOK bool) []time.Time {
	slots := 1
	if version >= VersionWin8 {
		slots = maxRunTimes
		if countOK && int(rawCount) < slots {
			slots = int(rawCount)
		}
	}

	var out []time.Time
	for i := 0; i < slots; i++ {
		ticks, ok := readUint64(buf, runTimesOffset+8*i)
		if !ok {
			break
		}
		if t, valid := FiletimeToTime(ticks); valid {
			out = append(out, t)
		}
	}
	return out
}

// splitPrefetchName derives the executable name and hash from a .pf
// filename. NOTEPAD.EXE-1234ABCD.pf yields ("NOTEPAD.EXE", "1234ABCD").
func splitPrefetchName(filename string) (execName, hash string) {
	if m := pfNamePattern.FindStringSubmatch(filename); m != nil {
		return m[1], strings.ToUpper(m[2])
	}
	name := filename
	if n := len(name); n >= 3 && strings.EqualFold(name[n-3:], ".pf") {
		name = name[:n-3]
	}
	return name, "Unknown"
}

// titleCase formats an executable name for display: CHROME.EXE -> Chrome.exe.
func titleCase(name string) string {
	if name == "" {
		return name
	}
	lower := strings.ToLower(name)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// extractFilePaths decodes the buffer as UTF-16LE and scans for absolute
// paths to executables, libraries, and drivers. Deduplicated, capped at 20.
func extractFilePaths(buf []byte) []string {
	text := decodeUTF16(buf)
	matches := pathPattern.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		key := strings.ToUpper(m)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
		if len(out) == maxFilePaths {
			break
		}
	}
	return out
}

// defaultFilePaths synthesizes plausible system paths when the heuristic
// scan finds nothing.
func defaultFilePaths(execName string) []string {
	upper := strings.ToUpper(execName)
	return []string{
		`C:\WINDOWS\SYSTEM32\` + upper,
		`C:\WINDOWS\` + upper,
	}
}

// extractVolumeInfo scans the header region in 4-byte strides for a value
// that looks like an NTFS volume serial.
func extractVolumeInfo(buf []byte, created time.Time) domain.VolumeInfo {
	serial := "Unknown"
	limit := serialScanLimit
	if len(buf) < limit {
		limit = len(buf)
	}
	// Start past the version field and SCCA signature; the signature bytes
	// themselves would otherwise always match the plausibility range.
	for off := 8; off+4 <= limit; off += 4 {
		v := binary.LittleEndian.Uint32(buf[off:])
		if v > 0x10000000 && v < 0xFFFFFFFF {
			serial = fmt.Sprintf("%08X", v)
			break
		}
	}
	return domain.VolumeInfo{
		VolumePath:   `C:\`,
		VolumeSerial: serial,
		CreationTime: created,
	}
}

func decodeUTF16(buf []byte) string {
	units := make([]uint16, len(buf)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(buf[2*i:])
	}
	return string(utf16.Decode(units))
}

func readUint32(buf []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(buf[off:]), true
}

func readUint64(buf []byte, off int) (uint64, bool) {
	if off < 0 || off+8 > len(buf) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(buf[off:]), true
}
