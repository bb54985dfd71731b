package mediaparser

import "regexp"

// dictEntry 分类字典条目: 规范标签 + 按序匹配的正则候选
// 每个类别里第一个命中的条目获胜, 类别之间互相独立
type dictEntry struct {
	label    string
	patterns []*regexp.Regexp
}

func compileDict(entries []struct {
	label string
	exprs []string
}) []dictEntry {
	out := make([]dictEntry, 0, len(entries))
	for _, e := range entries {
		de := dictEntry{label: e.label}
		for _, expr := range e.exprs {
			de.patterns = append(de.patterns, regexp.MustCompile(`(?i)`+expr))
		}
		out = append(out, de)
	}
	return out
}

var resourceTypeDict = compileDict([]struct {
	label string
	exprs []string
}{
	{"Remux", []string{`remux`}},
	{"BluRay", []string{`blu-?ray`, `bd-?rip`, `bdmv`, `\bbd\b`}},
	{"WEB-DL", []string{`web-?dl`}},
	{"WEBRip", []string{`web-?rip`}},
	{"HDTV", []string{`hdtv`, `tv-?rip`}},
	{"DVDRip", []string{`dvd-?rip`, `dvd-?scr`, `\bdvd\b`}},
	{"HDCAM", []string{`hd-?cam`, `\bcam\b`}},
	{"UHD", []string{`\buhd\b`}},
})

var resolutionDict = compileDict([]struct {
	label string
	exprs []string
}{
	{"8K", []string{`\b8k\b`, `4320p`, `7680x4320`}},
	{"4K", []string{`\b4k\b`, `2160p`, `3840x2160`}},
	{"1080p", []string{`1080p`, `1080i`, `1920x1080`, `\bfhd\b`}},
	{"720p", []string{`720p`, `1280x720`}},
	{"480p", []string{`480p`, `\bsd\b`}},
})

var videoCodecDict = compileDict([]struct {
	label string
	exprs []string
}{
	{"HEVC", []string{`x265`, `h\.?265`, `hevc`}},
	{"AVC", []string{`x264`, `h\.?264`, `\bavc\b`}},
	{"AV1", []string{`\bav1\b`}},
	{"VP9", []string{`\bvp9\b`}},
	{"XviD", []string{`xvid`}},
})

var audioCodecDict = compileDict([]struct {
	label string
	exprs []string
}{
	{"Atmos", []string{`atmos`}},
	{"TrueHD", []string{`true-?hd`}},
	{"DTS-HD", []string{`dts-?hd`, `dts-?ma`}},
	{"DTS", []string{`\bdts\b`}},
	{"EAC3", []string{`eac3`, `e-ac-?3`, `\bddp\b`, `dd\+`}},
	{"AC3", []string{`\bac-?3\b`, `\bdd5\.?1\b`}},
	{"FLAC", []string{`flac`}},
	{"AAC", []string{`aac(?:x\d)?`}},
	{"OPUS", []string{`opus`}},
	{"MP3", []string{`\bmp3\b`}},
})

// matchDict 返回第一个命中的条目标签和匹配位置, 未命中返回 ("", -1)
func matchDict(dict []dictEntry, s string) (string, int) {
	for _, e := range dict {
		for _, p := range e.patterns {
			if loc := p.FindStringIndex(s); loc != nil {
				return e.label, loc[0]
			}
		}
	}
	return "", -1
}

// findAllDictMatches 收集某类别所有候选的匹配区间, 供标题清洗使用
func findAllDictMatches(dict []dictEntry, s string) [][]int {
	var out [][]int
	for _, e := range dict {
		for _, p := range e.patterns {
			out = append(out, p.FindAllStringIndex(s, -1)...)
		}
	}
	return out
}
