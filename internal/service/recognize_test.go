package service

import (
	"context"
	"testing"
)

// 不配 LLM/TMDB 时识别链应当纯走确定性解析

func TestRecognize_Movie(t *testing.T) {
	s := NewRecognizeService(nil, nil, "", "")
	sug := s.Recognize(context.Background(), "Inception.2010.1080p.BluRay.x264-GROUP.mkv")

	if sug.Category != "movie" {
		t.Fatalf("expected movie, got %q", sug.Category)
	}
	if sug.NewName != "Inception (2010).mkv" {
		t.Errorf("NewName: got %q", sug.NewName)
	}
	if sug.TargetDir != "Movies/Inception (2010)" {
		t.Errorf("TargetDir: got %q", sug.TargetDir)
	}
}

func TestRecognize_TV(t *testing.T) {
	s := NewRecognizeService(nil, nil, "", "")
	sug := s.Recognize(context.Background(), "Westworld.2016.S01E03.2160p.WEB-DL.mkv")

	if sug.Category != "tv" {
		t.Fatalf("expected tv, got %q", sug.Category)
	}
	if sug.NewName != "Westworld (2016) - S01E03.mkv" {
		t.Errorf("NewName: got %q", sug.NewName)
	}
	if sug.TargetDir != "TV/Westworld (2016)/Season 1" {
		t.Errorf("TargetDir: got %q", sug.TargetDir)
	}
}

func TestRecognize_TVEpisodeRange(t *testing.T) {
	s := NewRecognizeService(nil, nil, "", "")
	sug := s.Recognize(context.Background(), "Show.S02.E01-E03.mkv")

	if sug.NewName != "Show - S02E01-E03.mkv" {
		t.Errorf("NewName: got %q", sug.NewName)
	}
}

func TestRecognize_CustomRoots(t *testing.T) {
	s := NewRecognizeService(nil, nil, "电影", "剧集")
	sug := s.Recognize(context.Background(), "Inception.2010.mkv")
	if sug.TargetDir != "电影/Inception (2010)" {
		t.Errorf("TargetDir: got %q", sug.TargetDir)
	}
}

func TestRecognize_UnknownKeepsOriginalName(t *testing.T) {
	s := NewRecognizeService(nil, nil, "", "")
	sug := s.Recognize(context.Background(), "某个完全认不出来的文件")

	if sug.Category != "" {
		t.Errorf("unknown input must not be categorized, got %q", sug.Category)
	}
	if sug.TargetDir != "" {
		t.Errorf("unknown input must not get a target dir, got %q", sug.TargetDir)
	}
}

func TestMaskSecret(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"", ""},
		{"short", "****"},
		{"sk-abcdefgh1234", "sk-a****34"},
	}
	for _, c := range cases {
		if got := MaskSecret(c.in); got != c.out {
			t.Errorf("MaskSecret(%q) = %q, expected %q", c.in, got, c.out)
		}
	}
}
