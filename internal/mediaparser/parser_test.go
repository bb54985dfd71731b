package mediaparser

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse_MovieRelease(t *testing.T) {
	info := Parse("Inception.2010.1080p.BluRay.x264-GROUP.mkv")

	if info.Title != "Inception" {
		t.Errorf("Title: expected 'Inception', got %q", info.Title)
	}
	if info.Year != "2010" {
		t.Errorf("Year: expected 2010, got %q", info.Year)
	}
	if info.Resolution != "1080p" {
		t.Errorf("Resolution: expected 1080p, got %q", info.Resolution)
	}
	if info.VideoCodec != "AVC" {
		t.Errorf("VideoCodec: expected AVC, got %q", info.VideoCodec)
	}
	if info.ResourceType != "BluRay" {
		t.Errorf("ResourceType: expected BluRay, got %q", info.ResourceType)
	}
	if info.ReleaseGroup != "GROUP" {
		t.Errorf("ReleaseGroup: expected GROUP, got %q", info.ReleaseGroup)
	}
	if info.Type != TypeMovie {
		t.Errorf("Type: expected movie, got %q", info.Type)
	}
}

func TestParse_SeasonEpisode(t *testing.T) {
	cases := []struct {
		name    string
		season  int
		episode int
	}{
		{"Show.Name.S01E05.720p.WEB-DL.mkv", 1, 5},
		{"Show Name S2E12.mkv", 2, 12},
		{"西部世界.S01E03.4K.mkv", 1, 3},
		{"Some.Show.S03.E07.mkv", 3, 7},
	}

	for _, c := range cases {
		info := Parse(c.name)
		if info.Season != c.season || info.Episode != c.episode {
			t.Errorf("%s: expected S%dE%d, got S%dE%d", c.name, c.season, c.episode, info.Season, info.Episode)
		}
		if info.Type != TypeTV {
			t.Errorf("%s: expected tv, got %q", c.name, info.Type)
		}
	}
}

func TestParse_ChineseMarkers(t *testing.T) {
	info := Parse("西部世界.S01E03.4K.mkv")
	if info.Season != 1 || info.Episode != 3 {
		t.Fatalf("expected S1E3, got S%dE%d", info.Season, info.Episode)
	}
	if info.Resolution != "4K" {
		t.Errorf("Resolution: expected 4K, got %q", info.Resolution)
	}
	if info.Title != "西部世界" {
		t.Errorf("Title: expected 西部世界, got %q", info.Title)
	}

	info = Parse("进击的巨人.第二季.第三集.1080p.mkv")
	if info.Season != 2 {
		t.Errorf("第二季: expected season 2, got %d", info.Season)
	}
	if info.Episode != 3 {
		t.Errorf("第三集: expected episode 3, got %d", info.Episode)
	}

	info = Parse("某科学的超电磁炮.第十二话.mkv")
	if info.Episode != 12 {
		t.Errorf("第十二话: expected episode 12, got %d", info.Episode)
	}
}

func TestParse_NilNumeralDegrades(t *testing.T) {
	p := NewWithNumeral(nil)
	info := p.Parse("进击的巨人.第二季.mkv")
	if info.Season != 0 {
		t.Errorf("without numeral support season should stay 0, got %d", info.Season)
	}
	// 阿拉伯数字模式不依赖转换器
	info = p.Parse("Show.S02E01.mkv")
	if info.Season != 2 || info.Episode != 1 {
		t.Errorf("arabic patterns must still work, got S%dE%d", info.Season, info.Episode)
	}
}

func TestParse_TMDBToken(t *testing.T) {
	info := Parse("Inception.{tmdb-27205}.2010.mkv")
	if info.TMDBID != 27205 {
		t.Errorf("TMDBID: expected 27205, got %d", info.TMDBID)
	}
	if strings.Contains(info.Title, "tmdb") || strings.Contains(info.Title, "27205") {
		t.Errorf("tmdb token must not leak into title: %q", info.Title)
	}
	if info.Title != "Inception" {
		t.Errorf("Title: expected 'Inception', got %q", info.Title)
	}
}

func TestParse_YearNotConfusedWithResolution(t *testing.T) {
	info := Parse("Batman.1989.2160p.UHD.BluRay.x265.mkv")
	if info.Year != "1989" {
		t.Errorf("Year: expected 1989, got %q", info.Year)
	}
	if info.Resolution != "4K" {
		t.Errorf("Resolution: expected 4K for 2160p, got %q", info.Resolution)
	}
}

func TestParse_LastYearWins(t *testing.T) {
	// 标题本身带年份时取最后一次出现的年份
	info := Parse("2001.A.Space.Odyssey.1968.1080p.mkv")
	if info.Year != "1968" {
		t.Errorf("Year: expected 1968, got %q", info.Year)
	}
}

func TestParse_EpisodeRange(t *testing.T) {
	info := Parse("Show.Name.S01.E01-E12.1080p.mkv")
	if info.Season != 1 {
		t.Errorf("Season: expected 1, got %d", info.Season)
	}
	if info.Episode != 1 || info.EpisodeEnd != 12 {
		t.Errorf("range: expected E1-E12, got E%d-E%d", info.Episode, info.EpisodeEnd)
	}
}

func TestParse_Part(t *testing.T) {
	info := Parse("Gettysburg.1993.Part2.1080p.mkv")
	if info.Part == "" {
		t.Errorf("expected part token, got none")
	}
}

func TestParse_AudioCodecs(t *testing.T) {
	cases := []struct {
		name  string
		codec string
	}{
		{"Movie.2020.DTS-HD.MA.mkv", "DTS-HD"},
		{"Movie.2020.DTS.mkv", "DTS"},
		{"Movie.2020.FLAC.mkv", "FLAC"},
		{"Movie.2020.AAC.mkv", "AAC"},
	}
	for _, c := range cases {
		if got := Parse(c.name).AudioCodec; got != c.codec {
			t.Errorf("%s: expected %s, got %q", c.name, c.codec, got)
		}
	}
}

func TestParse_LeadingGroup(t *testing.T) {
	info := Parse("[LoliHouse] 葬送的芙莉莲 S01E28 [WebRip 1080p HEVC-10bit AAC].mkv")
	if info.ReleaseGroup != "LoliHouse" {
		t.Errorf("ReleaseGroup: expected LoliHouse, got %q", info.ReleaseGroup)
	}
	if info.Season != 1 || info.Episode != 28 {
		t.Errorf("expected S1E28, got S%dE%d", info.Season, info.Episode)
	}
}

func TestParse_WebDLNotAGroup(t *testing.T) {
	info := Parse("Movie.2021.2160p.WEB-DL.mkv")
	if info.ReleaseGroup != "" {
		t.Errorf("WEB-DL suffix must not become a release group, got %q", info.ReleaseGroup)
	}
	if info.ResourceType != "WEB-DL" {
		t.Errorf("ResourceType: expected WEB-DL, got %q", info.ResourceType)
	}
}

func TestParse_NoMatchNeverFails(t *testing.T) {
	info := Parse("随便一个名字")
	if info.Type != TypeUnknown {
		t.Errorf("expected unknown type, got %q", info.Type)
	}
	if info.OriginalName != "随便一个名字" {
		t.Errorf("OriginalName must be preserved")
	}
}

func TestParse_Idempotent(t *testing.T) {
	name := "Inception.2010.1080p.BluRay.x264-GROUP.mkv"
	first := Parse(name)
	for i := 0; i < 5; i++ {
		if got := Parse(name); !reflect.DeepEqual(first, got) {
			t.Fatalf("parse is not idempotent: %+v vs %+v", first, got)
		}
	}
}

func TestChineseNumeral(t *testing.T) {
	cases := []struct {
		in  string
		out int
		ok  bool
	}{
		{"3", 3, true},
		{"一", 1, true},
		{"十", 10, true},
		{"十二", 12, true},
		{"二十", 20, true},
		{"二十三", 23, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ChineseNumeral(c.in)
		if got != c.out || ok != c.ok {
			t.Errorf("ChineseNumeral(%q) = (%d,%v), expected (%d,%v)", c.in, got, ok, c.out, c.ok)
		}
	}
}
