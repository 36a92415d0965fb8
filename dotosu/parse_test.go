package dotosu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/DarkbitNetwork/osu/sliderpath"
)

const testMap = `osu file format v14

[General]
AudioFilename: audio.mp3
Mode: 0

[Metadata]
Title:Reverse
Artist:Someone
Creator:Mapper
Version:Hard
BeatmapID:123
BeatmapSetID:45

[Difficulty]
SliderMultiplier:1.8
SliderTickRate:2

[HitObjects]
256,192,1000,1,0,0:0:0:0:
100,100,2000,2,0,L|200:100|200:200,1,200,2|0,0:0|0:0,0:0:0:0:
64,64,3000,6,0,B|128:32|128:32|192:96,2,140
256,192,4000,12,0,5000,0:0:0:0:
`

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func pt(x, y float64, typ sliderpath.PathType) sliderpath.ControlPoint {
	return sliderpath.Pt(x, y, typ)
}

func TestDecode(t *testing.T) {
	b, err := Decode(strings.NewReader(testMap))
	if err != nil {
		t.Fatal(err)
	}

	diff(t, 14, b.FormatVersion)
	diff(t, General{AudioFilename: "audio.mp3"}, b.General)
	diff(t, Metadata{Title: "Reverse", Artist: "Someone", Creator: "Mapper", Version: "Hard", BeatmapID: 123, BeatmapSetID: 45}, b.Metadata)
	diff(t, "123", b.Key())
	diff(t, Difficulty{SliderMultiplier: 1.8, SliderTickRate: 2}, b.Difficulty)

	var kinds []ObjectKind
	for _, ho := range b.HitObjects {
		kinds = append(kinds, ho.Kind())
	}
	diff(t, []ObjectKind{KindCircle, KindSlider, KindSlider, KindSpinner}, kinds)

	s := b.HitObjects[1].(Slider)
	diff(t, sliderpath.Vec{X: 100, Y: 100}, s.Pos())
	diff(t, 2000, s.StartTime())
	diff(t, 1, s.Slides)
	diff(t, 200.0, s.Length())
	diff(t, []sliderpath.ControlPoint{
		pt(0, 0, sliderpath.PathLinear),
		pt(100, 0, sliderpath.PathInherited),
		pt(100, 100, sliderpath.PathInherited),
	}, s.Path.ControlPoints())

	red := b.HitObjects[2].(Slider)
	diff(t, true, red.NewCombo())
	diff(t, 2, red.Slides)
	diff(t, []sliderpath.ControlPoint{
		pt(0, 0, sliderpath.PathBezier),
		pt(64, -32, sliderpath.PathBezier),
		pt(128, 32, sliderpath.PathInherited),
	}, red.Path.ControlPoints())

	diff(t, 5000, b.HitObjects[3].(Spinner).EndTime)
}

func TestDecodeInvalidHeader(t *testing.T) {
	if _, err := Decode(strings.NewReader("not a beatmap\n")); err == nil {
		t.Error("decoded a file without a header")
	}
	if _, err := Decode(strings.NewReader("osu file format vX\n")); err == nil {
		t.Error("decoded a file with a broken version")
	}
}

func TestDecodeEarlyVersionOffset(t *testing.T) {
	b, err := Decode(strings.NewReader("osu file format v4\n[HitObjects]\n1,1,100,1,0\n"))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 100+EARLY_VERSION_TIMING_OFFSET, b.HitObjects[0].StartTime())
	diff(t, Difficulty{SliderMultiplier: 1.4, SliderTickRate: 1}, b.Difficulty)
}

func TestEncodeUnchanged(t *testing.T) {
	b, err := Decode(strings.NewReader(testMap))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		t.Fatal(err)
	}
	diff(t, testMap, buf.String())
}

func TestEncodeKeepsCRLF(t *testing.T) {
	in := strings.ReplaceAll(testMap, "\n", "\r\n")
	b, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		t.Fatal(err)
	}
	diff(t, in, buf.String())
}

func TestEncodeEditedSlider(t *testing.T) {
	b, err := Decode(strings.NewReader(testMap))
	if err != nil {
		t.Fatal(err)
	}
	s := b.HitObjects[1].(Slider)
	s.PosXY = s.PosXY.Add(sliderpath.Reverse(s.Path))
	b.HitObjects[1] = s

	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	diff(t, "200,200,2000,2,0,L|200:100|100:100,1,200,2|0,0:0|0:0,0:0:0:0:", lines[s.Line()])
}

func TestEncodeReversedTypeChange(t *testing.T) {
	b, err := Decode(strings.NewReader("osu file format v14\n[HitObjects]\n100,100,1000,2,0,B|150:200|L|200:100|300:100\n"))
	if err != nil {
		t.Fatal(err)
	}
	s := b.HitObjects[0].(Slider)
	s.PosXY = s.PosXY.Add(sliderpath.Reverse(s.Path))
	b.HitObjects[0] = s

	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		t.Fatal(err)
	}
	diff(t, "osu file format v14\n[HitObjects]\n300,100,1000,2,0,L|B|200:100|150:200|100:100\n", buf.String())
}
