package service

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/hysende/filmflow/internal/llm"
	"github.com/hysende/filmflow/internal/logger"
	"github.com/hysende/filmflow/internal/mediaparser"
	"github.com/hysende/filmflow/internal/tmdb"
	"github.com/spf13/cast"
)

// Suggestion 一个文件的识别结论和整理建议
type Suggestion struct {
	Info      mediaparser.MediaInfo `json:"info"`
	NewName   string                `json:"new_name"`
	TargetDir string                `json:"target_dir"`
	Category  string                `json:"category"` // "movie" / "tv" / ""
}

// RecognizeService 识别链: 确定性解析 → LLM 补充 → TMDB 定标
// llm 和 tmdb 都可以为 nil, 缺哪个就跳过哪一环
type RecognizeService struct {
	parser    *mediaparser.Parser
	llm       *llm.Client
	tmdb      *tmdb.Client
	movieRoot string
	tvRoot    string
}

func NewRecognizeService(llmClient *llm.Client, tmdbClient *tmdb.Client, movieRoot, tvRoot string) *RecognizeService {
	if movieRoot == "" {
		movieRoot = "Movies"
	}
	if tvRoot == "" {
		tvRoot = "TV"
	}
	return &RecognizeService{
		parser:    mediaparser.New(),
		llm:       llmClient,
		tmdb:      tmdbClient,
		movieRoot: movieRoot,
		tvRoot:    tvRoot,
	}
}

// Recognize 对单个文件名给出整理建议, 尽力而为不报错
func (s *RecognizeService) Recognize(ctx context.Context, filename string) Suggestion {
	info := s.parser.Parse(filename)

	// 确定性解析没搞定标题或类型时才请求 LLM, 且 LLM 不覆盖已解析字段
	if s.llm != nil && (info.Title == "" || info.Type == mediaparser.TypeUnknown) {
		s.enrich(ctx, &info, filename)
	}

	if s.tmdb != nil && info.TMDBID == 0 && info.Title != "" {
		s.pinTMDB(ctx, &info)
	}

	return s.suggest(info)
}

// enrich 把 LLM 结果合并进 info, 只填空字段
func (s *RecognizeService) enrich(ctx context.Context, info *mediaparser.MediaInfo, filename string) {
	result := s.llm.ParseFilename(ctx, filename)
	if len(result) == 0 {
		return
	}

	if info.Title == "" {
		info.Title = cast.ToString(result["title"])
	}
	if info.Year == "" {
		info.Year = cast.ToString(result["year"])
	}
	if info.Type == mediaparser.TypeUnknown {
		switch cast.ToString(result["type"]) {
		case "movie":
			info.Type = mediaparser.TypeMovie
		case "tv":
			info.Type = mediaparser.TypeTV
		}
	}
	if info.Season == 0 {
		info.Season = cast.ToInt(result["season"])
	}
	if info.Episode == 0 {
		info.Episode = cast.ToInt(result["episode"])
	}
	if info.TMDBID == 0 {
		info.TMDBID = cast.ToInt(result["tmdb_id"])
	}
}

// pinTMDB 用 TMDB 搜索定准 ID 和标准标题, 搜不到不影响结果
func (s *RecognizeService) pinTMDB(ctx context.Context, info *mediaparser.MediaInfo) {
	var (
		result *tmdb.Result
		err    error
	)
	if info.Type == mediaparser.TypeTV {
		result, err = s.tmdb.SearchTV(ctx, info.Title)
	} else {
		result, err = s.tmdb.SearchMovie(ctx, info.Title, info.Year)
	}
	if err != nil {
		logger.L.Debugf("tmdb search %q failed: %v", info.Title, err)
		return
	}
	if result == nil {
		return
	}

	info.TMDBID = result.ID
	if title := result.DisplayTitle(); title != "" {
		info.Title = title
	}
}

// suggest 根据识别结果生成转移文件名和目标目录
func (s *RecognizeService) suggest(info mediaparser.MediaInfo) Suggestion {
	sug := Suggestion{Info: info}
	if info.Title == "" {
		return sug
	}

	ext := strings.ToLower(filepath.Ext(info.OriginalName))
	titleYear := info.Title
	if info.Year != "" {
		titleYear = fmt.Sprintf("%s (%s)", info.Title, info.Year)
	}

	switch info.Type {
	case mediaparser.TypeTV:
		sug.Category = "tv"
		season := info.Season
		if season == 0 {
			season = 1
		}
		name := fmt.Sprintf("%s - S%02dE%02d", titleYear, season, info.Episode)
		if info.EpisodeEnd > info.Episode {
			name = fmt.Sprintf("%s-E%02d", name, info.EpisodeEnd)
		}
		sug.NewName = name + ext
		sug.TargetDir = path.Join(s.tvRoot, titleYear, fmt.Sprintf("Season %d", season))
	case mediaparser.TypeMovie:
		sug.Category = "movie"
		sug.NewName = titleYear + ext
		sug.TargetDir = path.Join(s.movieRoot, titleYear)
	default:
		// 类型未知只能原名建议, 不给目录
		sug.NewName = info.OriginalName
	}
	return sug
}
