package mediaparser

import (
	"regexp"
	"strconv"
	"strings"
)

// Parser 文件名解析器, 无状态, 可并发使用
// 中文数字转换是注入的能力, 传 nil 时相关模式直接视为不匹配
type Parser struct {
	numeral NumeralFunc
}

func New() *Parser {
	return &Parser{numeral: ChineseNumeral}
}

func NewWithNumeral(fn NumeralFunc) *Parser {
	return &Parser{numeral: fn}
}

// Default 包级默认实例, 方便不关心注入的调用方
var Default = New()

// Parse 等价于 Default.Parse
func Parse(filename string) MediaInfo {
	return Default.Parse(filename)
}

var (
	tmdbTokenRe = regexp.MustCompile(`(?i)\{tmdb[-=]?(\d+)\}`)
	yearRe      = regexp.MustCompile(`(?:19|20)\d{2}`)
	seRe        = regexp.MustCompile(`(?i)\bS(\d{1,2})[\s._-]?E(\d{1,4})\b`)
	epRangeRe   = regexp.MustCompile(`(?i)\bE(\d{1,4})\s?-\s?E?(\d{1,4})\b`)

	leadGroupRe  = regexp.MustCompile(`^\[([^\]]+)\]`)
	trailGroupRe = regexp.MustCompile(`-([A-Za-z][A-Za-z0-9@]{1,15})$`)
	separatorRe  = regexp.MustCompile(`[.\_\-]+`)
	spacesRe     = regexp.MustCompile(`\s+`)
)

// numberPattern 季/集模式: 捕获组是数字串, chinese 标记捕获内容需要走数字转换
type numberPattern struct {
	re      *regexp.Regexp
	chinese bool
}

// 模式按优先级排列, 各列表内第一个命中者生效
var seasonPatterns = []numberPattern{
	{re: regexp.MustCompile(`(?i)\bS(\d{1,2})\b`)},
	{re: regexp.MustCompile(`(?i)\bSeason[\s._-]?(\d{1,2})\b`)},
	{re: regexp.MustCompile(`第\s?([0-9一二三四五六七八九十两]{1,3})\s?季`), chinese: true},
}

var episodePatterns = []numberPattern{
	{re: regexp.MustCompile(`(?i)\bE(\d{1,4})\b`)},
	{re: regexp.MustCompile(`(?i)\bEP(\d{1,4})\b`)},
	{re: regexp.MustCompile(`第\s?([0-9一二三四五六七八九十两]{1,4})\s?[集话話期]`), chinese: true},
	{re: regexp.MustCompile(`(?i)\bEpisode[\s._-]?(\d{1,4})\b`)},
}

var partPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:part|pt)[\s._-]?(\d{1,2})\b`),
	regexp.MustCompile(`(?i)\bcd[\s._-]?(\d{1,2})\b`),
	regexp.MustCompile(`(?i)\bdis[ck][\s._-]?(\d{1,2})\b`),
}

// Parse 从文件名提取媒体信息, 尽力而为, 永不失败
// 各提取步骤都在去掉扩展名的原始串上扫描, 只有标题字段使用剪除后的副本
func (p *Parser) Parse(filename string) MediaInfo {
	info := MediaInfo{
		OriginalName: filename,
		Type:         TypeUnknown,
	}

	base := stripExtension(filename)
	working := base

	// 1. {tmdb-12345} 内嵌标识, 命中后从工作串剔除
	if m := tmdbTokenRe.FindStringSubmatch(base); len(m) > 1 {
		if id, err := strconv.Atoi(m[1]); err == nil {
			info.TMDBID = id
		}
		working = tmdbTokenRe.ReplaceAllString(working, "")
	}

	// 2. 年份: 取最后一个边界完整的 1900-2099, 避免把 2160p 当年份
	info.Year = findYear(base)

	// 3. 季集: 先试 SxxEyy 组合, 命中则短路独立匹配
	if m := seRe.FindStringSubmatch(base); len(m) > 2 {
		info.Season, _ = strconv.Atoi(m[1])
		info.Episode, _ = strconv.Atoi(m[2])
	} else {
		info.Season = p.matchNumber(seasonPatterns, base)
		info.Episode = p.matchNumber(episodePatterns, base)
	}

	// 4. 集数区间 E01-E12: 命中时覆盖 episode/episode_end, 季保持已有结果
	if m := epRangeRe.FindStringSubmatch(base); len(m) > 2 {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if start > 0 && end >= start {
			info.Episode = start
			info.EpisodeEnd = end
		}
	}

	// 5. 类型: 有季/集算剧集, 否则有年份算电影
	switch {
	case info.Season > 0 || info.Episode > 0:
		info.Type = TypeTV
	case info.Year != "":
		info.Type = TypeMovie
	}

	// 6. 四个独立分类字典
	info.ResourceType, _ = matchDict(resourceTypeDict, base)
	info.Resolution, _ = matchDict(resolutionDict, base)
	info.VideoCodec, _ = matchDict(videoCodecDict, base)
	info.AudioCodec, _ = matchDict(audioCodecDict, base)

	// 7. Part/CD/Disc
	for _, re := range partPatterns {
		if m := re.FindString(base); m != "" {
			info.Part = m
			break
		}
	}

	// 8. 字幕组: 开头 [Group], 否则结尾 -GROUP (结尾 token 落在分类词里的不算, WEB-DL 的 DL 不是组名)
	if m := leadGroupRe.FindStringSubmatch(base); len(m) > 1 {
		info.ReleaseGroup = m[1]
	} else if m := trailGroupRe.FindStringSubmatchIndex(base); m != nil && !overlapsDict(base, m[0], m[1]) {
		info.ReleaseGroup = base[m[2]:m[3]]
	}

	info.Title = p.deriveTitle(working, info)
	return info
}

// matchNumber 按序尝试模式列表, 返回第一个解析成功的值, 无则 0
func (p *Parser) matchNumber(patterns []numberPattern, s string) int {
	for _, pat := range patterns {
		m := pat.re.FindStringSubmatch(s)
		if len(m) < 2 {
			continue
		}
		if pat.chinese {
			if p.numeral == nil {
				continue
			}
			if n, ok := p.numeral(m[1]); ok && n > 0 {
				return n
			}
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

var allDicts = [][]dictEntry{resourceTypeDict, resolutionDict, videoCodecDict, audioCodecDict}

// overlapsDict 判断 [start,end) 是否落在任一分类词的匹配区间内
func overlapsDict(s string, start, end int) bool {
	for _, dict := range allDicts {
		for _, loc := range findAllDictMatches(dict, s) {
			if loc[1] > start && loc[0] < end {
				return true
			}
		}
	}
	return false
}

// findYear 返回最后一个左右边界都不是字母数字的四位年份
func findYear(s string) string {
	year := ""
	for _, loc := range yearRe.FindAllStringIndex(s, -1) {
		if boundedAt(s, loc[0], loc[1]) {
			year = s[loc[0]:loc[1]]
		}
	}
	return year
}

func boundedAt(s string, start, end int) bool {
	if start > 0 && isAlnum(s[start-1]) {
		return false
	}
	if end < len(s) && isAlnum(s[end]) {
		return false
	}
	return true
}

func isAlnum(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// deriveTitle 从剪除后的工作串得到标题:
// 先在年份处截断, 再在季集标记处截断, 然后剔除所有分类/Part/字幕组 token,
// 最后把 . _ - 连续分隔符折叠成空格
func (p *Parser) deriveTitle(working string, info MediaInfo) string {
	cut := len(working)

	if info.Year != "" {
		for _, loc := range yearRe.FindAllStringIndex(working, -1) {
			if working[loc[0]:loc[1]] == info.Year && boundedAt(working, loc[0], loc[1]) {
				if loc[0] < cut {
					cut = loc[0]
				}
				break
			}
		}
	}

	if idx := earliestMarker(p, working); idx >= 0 && idx < cut {
		cut = idx
	}

	title := working[:cut]
	title = leadGroupRe.ReplaceAllString(title, "")

	for _, dict := range allDicts {
		for _, e := range dict {
			for _, re := range e.patterns {
				title = re.ReplaceAllString(title, " ")
			}
		}
	}
	for _, re := range partPatterns {
		title = re.ReplaceAllString(title, " ")
	}

	title = separatorRe.ReplaceAllString(title, " ")
	title = spacesRe.ReplaceAllString(title, " ")
	title = strings.Trim(title, " []()")
	return strings.TrimSpace(title)
}

// earliestMarker 工作串上最早出现的季/集标记位置, 没有返回 -1
func earliestMarker(p *Parser, s string) int {
	idx := -1
	consider := func(loc []int) {
		if loc != nil && (idx < 0 || loc[0] < idx) {
			idx = loc[0]
		}
	}

	consider(seRe.FindStringIndex(s))
	consider(epRangeRe.FindStringIndex(s))
	for _, pat := range seasonPatterns {
		if pat.chinese && p.numeral == nil {
			continue
		}
		consider(pat.re.FindStringIndex(s))
	}
	for _, pat := range episodePatterns {
		if pat.chinese && p.numeral == nil {
			continue
		}
		consider(pat.re.FindStringIndex(s))
	}
	return idx
}
