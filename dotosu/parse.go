package dotosu

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/DarkbitNetwork/osu/sliderpath"
)

const (
	EARLY_VERSION_TIMING_OFFSET = 24
	LATEST_VERSION              = 14
)

type section int

const (
	secNone section = iota
	secGeneral
	secMetadata
	secDifficulty
	secHitObjects
)

// ---------- Beatmap model ----------

// Beatmap is a decoded .osu file. Every source line is kept so that Encode
// only rewrites the hit objects that were edited.
type Beatmap struct {
	FormatVersion int
	General       General
	Metadata      Metadata
	Difficulty    Difficulty
	HitObjects    []HitObject

	lines []string
	crlf  bool
}

type General struct {
	AudioFilename string
	Mode          int
}

type Metadata struct {
	Title, Artist           string
	Creator, Version        string
	BeatmapID, BeatmapSetID int
}

type Difficulty struct {
	SliderMultiplier float64
	SliderTickRate   float64
}

// Key identifies the beatmap in logs and the edit journal.
func (b *Beatmap) Key() string {
	if b.Metadata.BeatmapID > 0 {
		return strconv.Itoa(b.Metadata.BeatmapID)
	}
	return fmt.Sprintf("%s - %s (%s) [%s]", b.Metadata.Artist, b.Metadata.Title, b.Metadata.Creator, b.Metadata.Version)
}

// ---------- HitObject enums & typed variants ----------

type ObjectKind uint8

const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

type HitSoundFlags uint8

const (
	HitSoundNormal  HitSoundFlags = 1 << iota // 1
	HitSoundWhistle                           // 2
	HitSoundFinish                            // 4
	HitSoundClap                              // 8
)

type HitObjectTypeFlags int

const (
	TypeCircle     HitObjectTypeFlags = 1 << iota // 1
	TypeSlider                                    // 2
	TypeNewCombo                                  // 4
	TypeSpinner                                   // 8
	TypeComboSkip1                                // 16
	TypeComboSkip2                                // 32
	TypeComboSkip3                                // 64
	TypeHold       HitObjectTypeFlags = 1 << 7    // 128
)

type HitObject interface {
	Kind() ObjectKind
	StartTime() int
	NewCombo() bool
	Flags() HitObjectTypeFlags
	Pos() sliderpath.Vec
	HitSound() HitSoundFlags
	// Line is the index of the source line the object was decoded from.
	Line() int
}

type BaseHO struct {
	PosXY sliderpath.Vec
	Time  int
	Type  HitObjectTypeFlags
	Sound HitSoundFlags

	line int
}

func (b BaseHO) StartTime() int            { return b.Time }
func (b BaseHO) NewCombo() bool            { return (b.Type & TypeNewCombo) != 0 }
func (b BaseHO) Flags() HitObjectTypeFlags { return b.Type }
func (b BaseHO) Pos() sliderpath.Vec       { return b.PosXY }
func (b BaseHO) HitSound() HitSoundFlags   { return b.Sound }
func (b BaseHO) Line() int                 { return b.line }

type Circle struct{ BaseHO }

func (Circle) Kind() ObjectKind { return KindCircle }

// Slider owns its path. Control point positions are relative to PosXY.
type Slider struct {
	BaseHO
	Path   *sliderpath.SliderPath
	Slides int

	// fields holds the comma separated source fields; trailing edge sounds
	// and samples are written back unchanged.
	fields []string
}

func (Slider) Kind() ObjectKind { return KindSlider }

func (s Slider) SliderPath() *sliderpath.SliderPath { return s.Path }

// Length is the pixel length declared by the beatmap, or 0 if it declares none.
func (s Slider) Length() float64 {
	d, _ := s.Path.ExpectedDistance()
	return d
}

type Spinner struct {
	BaseHO
	EndTime int
}

func (Spinner) Kind() ObjectKind { return KindSpinner }

type Hold struct {
	BaseHO
	EndTime int
}

func (Hold) Kind() ObjectKind { return KindHold }

// ---------- Public API ----------

func DecodeFile(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("dotosu: %s: %w", path, err)
	}
	return b, nil
}

func Decode(r io.Reader) (*Beatmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	const maxLine = 1024 * 1024
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	b := &Beatmap{
		Difficulty: Difficulty{SliderMultiplier: 1.4, SliderTickRate: 1},
		crlf:       bytes.Contains(data, []byte("\r\n")),
	}

	// header
	header := ""
	for sc.Scan() {
		b.lines = append(b.lines, sc.Text())
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		header = line
		break
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.ToLower(header), "osu file format v") {
		return nil, fmt.Errorf("invalid .osu header: %q", header)
	}
	versionStr := strings.TrimSpace(header[len("osu file format v"):])
	b.FormatVersion, err = strconv.Atoi(versionStr)
	if err != nil {
		return nil, fmt.Errorf("invalid .osu version in header: %q: %w", header, err)
	}

	offset := 0
	if b.FormatVersion < 5 {
		offset = EARLY_VERSION_TIMING_OFFSET
	}

	sec := secNone
	for sc.Scan() {
		lineNo := len(b.lines)
		b.lines = append(b.lines, sc.Text())

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			switch strings.ToLower(line) {
			case "[general]":
				sec = secGeneral
			case "[metadata]":
				sec = secMetadata
			case "[difficulty]":
				sec = secDifficulty
			case "[hitobjects]":
				sec = secHitObjects
			default:
				sec = secNone
			}
			continue
		}

		switch sec {
		case secGeneral:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "audiofilename":
				b.General.AudioFilename = strings.ReplaceAll(strings.Trim(v, "\""), "\\", "/")
			case "mode":
				b.General.Mode = parseInt(v, 0)
			}

		case secMetadata:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "title":
				b.Metadata.Title = v
			case "artist":
				b.Metadata.Artist = v
			case "creator":
				b.Metadata.Creator = v
			case "version":
				b.Metadata.Version = v
			case "beatmapid":
				b.Metadata.BeatmapID = parseInt(v, 0)
			case "beatmapsetid":
				b.Metadata.BeatmapSetID = parseInt(v, 0)
			}

		case secDifficulty:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "slidermultiplier":
				b.Difficulty.SliderMultiplier = parseFloat(v, 1.4)
			case "slidertickrate":
				b.Difficulty.SliderTickRate = parseFloat(v, 1)
			}

		case secHitObjects:
			ho, err := parseHitObject(line, lineNo, offset)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			if ho != nil {
				b.HitObjects = append(b.HitObjects, ho)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// ---------- parsing helpers ----------

func parseHitObject(line string, lineNo, offset int) (HitObject, error) {
	// The last field may contain a sample filename; keep it whole.
	parts := strings.SplitN(line, ",", 11)
	if len(parts) < 5 {
		return nil, nil
	}
	base := BaseHO{
		PosXY: sliderpath.Vec{X: parseFloat(parts[0], 0), Y: parseFloat(parts[1], 0)},
		Time:  parseInt(parts[2], 0) + offset,
		Type:  HitObjectTypeFlags(parseInt(parts[3], 0)),
		Sound: HitSoundFlags(parseInt(parts[4], 0)),
		line:  lineNo,
	}

	switch {
	case base.Type&TypeHold != 0:
		// mania hold: "endTime:sample"
		end := 0
		if len(parts) >= 6 {
			end = parseInt(strings.SplitN(parts[5], ":", 2)[0], 0) + offset
		}
		return Hold{BaseHO: base, EndTime: end}, nil

	case base.Type&TypeSpinner != 0:
		end := 0
		if len(parts) >= 6 && strings.TrimSpace(parts[5]) != "" {
			end = parseInt(parts[5], 0) + offset
		}
		return Spinner{BaseHO: base, EndTime: end}, nil

	case base.Type&TypeSlider != 0:
		if len(parts) < 6 {
			return nil, fmt.Errorf("slider without path: %q", line)
		}
		slides := 1
		if len(parts) >= 7 && strings.TrimSpace(parts[6]) != "" {
			slides = parseInt(parts[6], 1)
		}
		path := sliderpath.New(ParsePath(base.PosXY, parts[5])...)
		if len(parts) >= 8 {
			if length := parseFloat(parts[7], 0); length > 0 {
				path.SetExpectedDistance(length)
			}
		}
		return Slider{BaseHO: base, Path: path, Slides: slides, fields: parts}, nil

	default:
		return Circle{BaseHO: base}, nil
	}
}

func splitKeyVal(line string) (key, val string) {
	i := strings.Index(line, ":")
	if i < 0 {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Some editors write times as floats.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return def
		}
		return int(f)
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
