// Package device speaks the GeekMagic SmallTV HTTP protocol: state polling,
// theme and brightness commands, and the two-phase image upload. Paths and
// fields match the device firmware and are treated as a fixed contract.
package device

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Fixed theme slots of the firmware. Themes 0-2 are device-native modes;
// theme 3 displays the image we uploaded last. The mapping is a firmware
// convention, not a documented protocol; newer firmware may renumber it.
const (
	ThemeClock   = 0
	ThemeWeather = 1
	ThemeSystem  = 2
	ThemeCustom  = 3
)

const (
	uploadDir      = "/image/"
	defaultTimeout = 5 * time.Second
)

// State is the device's reported display state.
type State struct {
	Theme      int    `json:"theme"`
	Brightness int    `json:"brightness"`
	Version    string `json:"version"`
}

type Option func(c *Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client talks to one device. Safe for sequential use from the coordinator;
// connections are pooled and released by Close.
type Client struct {
	host   string
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(host string, opts ...Option) *Client {
	c := &Client{
		host:   host,
		logger: zap.NewNop(),
		http: resty.New().
			SetBaseURL("http://" + host).
			SetTimeout(defaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Host() string {
	return c.host
}

// TestConnection is a liveness probe: false on any failure, never an error.
func (c *Client) TestConnection(ctx context.Context) bool {
	resp, err := c.http.R().SetContext(ctx).Get("/get")
	return err == nil && resp.IsSuccess()
}

// State fetches the current theme and brightness.
func (c *Client) State(ctx context.Context) (*State, error) {
	var state State
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&state).
		Get("/get")
	if err != nil {
		return nil, unreachable(err)
	}
	if !resp.IsSuccess() {
		return nil, rejected("state query", resp)
	}
	if state.Theme < ThemeClock || state.Theme > ThemeCustom {
		return nil, fmt.Errorf("state query: theme %d out of range: %w", state.Theme, ErrRejected)
	}
	return &state, nil
}

func (c *Client) SetTheme(ctx context.Context, theme int) error {
	if theme < ThemeClock || theme > ThemeCustom {
		return fmt.Errorf("theme %d out of range: %w", theme, ErrRejected)
	}
	return c.command(ctx, "set theme", map[string]string{"theme": strconv.Itoa(theme)})
}

func (c *Client) SetBrightness(ctx context.Context, level int) error {
	if level < 0 || level > 100 {
		return fmt.Errorf("brightness %d out of range: %w", level, ErrRejected)
	}
	return c.command(ctx, "set brightness", map[string]string{"brt": strconv.Itoa(level)})
}

// UploadAndDisplay pushes the image to the device's flash and then switches
// the displayed file to it. The display command is only issued after the
// upload is acknowledged; any failure in either phase fails the whole
// operation, so the caller never observes an uploaded-but-not-shown frame.
func (c *Client) UploadAndDisplay(ctx context.Context, data []byte, filename string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("dir", uploadDir).
		SetFileReader("file", filename, bytes.NewReader(data)).
		Post("/doUpload")
	if err != nil {
		return unreachable(err)
	}
	if !resp.IsSuccess() {
		return rejected("upload", resp)
	}

	c.logger.With(
		zap.String("file", filename),
		zap.Int("bytes", len(data)),
	).Debug("image uploaded")

	return c.command(ctx, "display", map[string]string{"img": uploadDir + filename})
}

// Close releases pooled connections. Required between coordinator teardowns
// so repeated polling cycles don't leak sockets.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

func (c *Client) command(ctx context.Context, op string, params map[string]string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/set")
	if err != nil {
		return unreachable(err)
	}
	if !resp.IsSuccess() {
		return rejected(op, resp)
	}
	return nil
}
