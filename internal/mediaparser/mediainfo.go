package mediaparser

import (
	"path/filepath"
	"strings"
)

// MediaType 识别出的媒体类型
type MediaType string

const (
	TypeMovie   MediaType = "movie"
	TypeTV      MediaType = "tv"
	TypeUnknown MediaType = "unknown"
)

// MediaInfo 从文件名解析出的信息, 纯值对象, 零值表示未识别
type MediaInfo struct {
	OriginalName string    `json:"original_name"`
	Title        string    `json:"title"`
	Year         string    `json:"year"`
	Type         MediaType `json:"type"`
	Season       int       `json:"season"`
	SeasonEnd    int       `json:"season_end"`
	Episode      int       `json:"episode"`
	EpisodeEnd   int       `json:"episode_end"`
	Part         string    `json:"part"`
	ResourceType string    `json:"resource_type"`
	Resolution   string    `json:"resolution"`
	VideoCodec   string    `json:"video_codec"`
	AudioCodec   string    `json:"audio_codec"`
	ReleaseGroup string    `json:"release_group"`
	TMDBID       int       `json:"tmdb_id"`
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true, ".flv": true,
	".wmv": true, ".ts": true, ".rmvb": true, ".webm": true, ".m2ts": true,
	".iso": true, ".mpg": true, ".mpeg": true, ".m4v": true,
}

// IsVideoFile checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// stripExtension 去掉已知视频扩展名, 其他扩展名保留
func stripExtension(name string) string {
	ext := filepath.Ext(name)
	if videoExtensions[strings.ToLower(ext)] {
		return strings.TrimSuffix(name, ext)
	}
	return name
}
