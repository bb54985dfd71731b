package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const BaseURL = "https://api.themoviedb.org/3"

type Client struct {
	client   *resty.Client
	Token    string
	Language string
}

func NewClient(token, language string) *Client {
	if language == "" {
		language = "zh-CN"
	}
	c := resty.New()
	c.SetTimeout(10 * time.Second)
	c.SetHeader("Authorization", "Bearer "+token)
	c.SetHeader("Content-Type", "application/json")

	return &Client{
		client:   c,
		Token:    token,
		Language: language,
	}
}

// Result 搜索结果, 电影和剧集共用 (剧集的 name 映射进 Title)
type Result struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

// DisplayTitle 统一电影/剧集的标题字段
func (r *Result) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// SearchMovie 按标题搜电影, 可带年份缩小范围, 取第一条
func (c *Client) SearchMovie(ctx context.Context, query, year string) (*Result, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("language", c.Language)
	if year != "" {
		req.SetQueryParam("year", year)
	}

	resp, err := req.Get(BaseURL + "/search/movie")
	if err != nil {
		return nil, err
	}
	return firstResult(resp.Body(), resp.IsError(), resp.Status())
}

// SearchTV 按标题搜剧集, 取第一条
func (c *Client) SearchTV(ctx context.Context, query string) (*Result, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("language", c.Language).
		Get(BaseURL + "/search/tv")
	if err != nil {
		return nil, err
	}
	return firstResult(resp.Body(), resp.IsError(), resp.Status())
}

func firstResult(body []byte, isErr bool, status string) (*Result, error) {
	if isErr {
		return nil, fmt.Errorf("TMDB Error: %s", status)
	}
	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, nil // Not found
	}
	return &result.Results[0], nil
}
