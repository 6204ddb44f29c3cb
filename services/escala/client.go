// Package escala is the client of the church API (schedules, lesson materials, members and agendas).
package escala

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sendgrid/rest"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/core/agenda"
	"github.com/adrodovia/portal/core/lesson"
	"github.com/adrodovia/portal/core/media"
	"github.com/adrodovia/portal/core/member"
	"github.com/adrodovia/portal/core/portal"
	"github.com/adrodovia/portal/core/schedule"
	"github.com/adrodovia/portal/services/metrics"
)

const (
	scheduleEndpoint     = "/api/schedule"
	lessonsEndpoint      = "/api/lessons"
	videosEndpoint       = "/api/videos"
	libraryEndpoint      = "/api/library"
	membersEndpoint      = "/api/membros"
	pastorAgendaEndpoint = "/api/agenda-pastor"
	churchAgendaEndpoint = "/api/patrimonio/dados"
)

// Client calls the church API. Every call is a single attempt: no retry, no caching.
type Client struct {
	baseURL string
	rest    *rest.Client
}

var _ portal.API = (*Client)(nil)

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.API.Timeout}},
	}
}

// FetchSchedule posts the class name and returns its schedule.
// The "Todas as Classes" selector is not a class and is rejected without any request.
func (c *Client) FetchSchedule(ctx context.Context, class string) (schedule.Response, error) {
	var resp schedule.Response
	class = core.CleanString(class)
	if class == "" || class == core.ClassesSentinel {
		return resp, core.NewArgumentError("FetchSchedule: a class name is required, got " + class)
	}
	req := c.request(rest.Post, scheduleEndpoint)
	req.Headers["Content-Type"] = "application/x-www-form-urlencoded"
	req.Body = []byte(url.Values{"classe": {class}}.Encode())
	err := c.do(ctx, scheduleEndpoint, req, &resp)
	return resp, err
}

func (c *Client) FetchLessons(ctx context.Context) ([]lesson.Lesson, error) {
	var lessons []lesson.Lesson
	err := c.do(ctx, lessonsEndpoint, c.request(rest.Get, lessonsEndpoint), &lessons)
	return lessons, err
}

func (c *Client) FetchVideos(ctx context.Context) ([]media.Video, error) {
	var videos []media.Video
	err := c.do(ctx, videosEndpoint, c.request(rest.Get, videosEndpoint), &videos)
	return videos, err
}

func (c *Client) FetchLibrary(ctx context.Context) ([]media.LibraryItem, error) {
	var items []media.LibraryItem
	err := c.do(ctx, libraryEndpoint, c.request(rest.Get, libraryEndpoint), &items)
	return items, err
}

func (c *Client) FetchMembers(ctx context.Context) ([]member.Record, error) {
	var records []member.Record
	err := c.do(ctx, membersEndpoint, c.request(rest.Get, membersEndpoint), &records)
	return records, err
}

func (c *Client) FetchPastorAgenda(ctx context.Context) ([]agenda.Event, error) {
	var events []agenda.Event
	err := c.do(ctx, pastorAgendaEndpoint, c.request(rest.Get, pastorAgendaEndpoint), &events)
	return events, err
}

func (c *Client) FetchChurchAgenda(ctx context.Context) (agenda.ChurchData, error) {
	var data agenda.ChurchData
	err := c.do(ctx, churchAgendaEndpoint, c.request(rest.Get, churchAgendaEndpoint), &data)
	return data, err
}

func (c *Client) request(method rest.Method, endpoint string) rest.Request {
	return rest.Request{
		Method:  method,
		BaseURL: c.baseURL + endpoint,
		Headers: map[string]string{"Accept": "application/json"},
	}
}

// do sends req and decodes a 2xx JSON body into dst.
func (c *Client) do(ctx context.Context, endpoint string, req rest.Request, dst interface{}) error {
	start := time.Now()
	res, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		metrics.ObserveAPI(endpoint, "network_error", time.Since(start))
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		metrics.ObserveAPI(endpoint, "status_error", time.Since(start))
		return &StatusError{Endpoint: endpoint, Code: res.StatusCode, Body: res.Body}
	}
	if err := json.Unmarshal([]byte(res.Body), dst); err != nil {
		metrics.ObserveAPI(endpoint, "parse_error", time.Since(start))
		return &ParseError{Endpoint: endpoint, Err: err}
	}
	metrics.ObserveAPI(endpoint, "ok", time.Since(start))
	return nil
}
