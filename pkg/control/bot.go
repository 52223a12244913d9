// Package control is a Telegram remote for the coordinator: switch screens,
// change device mode and brightness, pause the loop, inspect state.
package control

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/inhies/go-bytesize"
	tele "gopkg.in/telebot.v3"

	"geekmagic/pkg/coordinator"
	"geekmagic/pkg/device"
	"geekmagic/pkg/screen"
)

var themeNames = map[string]int{
	"clock":   device.ThemeClock,
	"weather": device.ThemeWeather,
	"system":  device.ThemeSystem,
	"custom":  device.ThemeCustom,
}

func NewBot(token string, coord *coordinator.Coordinator) (*Bot, error) {
	pref := tele.Settings{
		Token: token,
		Poller: &tele.LongPoller{
			Timeout: 30 * time.Second,
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	return &Bot{b: b, coord: coord}, nil
}

type Bot struct {
	b     *tele.Bot
	coord *coordinator.Coordinator
}

func (b *Bot) handleScreens() {
	b.b.Handle("/list", func(context tele.Context) error {
		var lines []string
		for i, s := range b.coord.Screens() {
			marker := " "
			if i == b.coord.CurrentScreenIndex() {
				marker = "*"
			}
			lines = append(lines, fmt.Sprintf("%s %d: %s (%s)", marker, i, s.Name, s.Layout))
		}
		if len(lines) == 0 {
			return context.Reply("No screens configured")
		}
		return context.Reply(strings.Join(lines, "\n"))
	})

	b.b.Handle("/screen", func(c tele.Context) error {
		in := c.Message().Payload
		if in == "" {
			return c.Reply(fmt.Sprintf("%d: %s", b.coord.CurrentScreenIndex(), b.coord.CurrentScreenName()))
		}

		index, err := strconv.Atoi(in)
		if err != nil {
			return c.Reply(fmt.Sprintf("bad index: %s", err))
		}

		if err := b.coord.SetScreen(context.Background(), index); err != nil {
			return c.Reply(fmt.Sprintf("switch failed: %s", err))
		}
		return c.Reply("OK")
	})

	b.b.Handle("/template", func(c tele.Context) error {
		in := c.Message().Payload
		if in == "" {
			return c.Reply(strings.Join(screenTemplateLines(), "\n"))
		}

		key := in
		index := b.coord.CurrentScreenIndex()
		if parts := strings.Fields(in); len(parts) == 2 {
			if i, err := strconv.Atoi(parts[0]); err == nil {
				index = i
				key = parts[1]
			}
		}

		if err := b.coord.ApplyTemplate(index, key); err != nil {
			return c.Reply(fmt.Sprintf("apply failed: %s", err))
		}
		return c.Reply("OK")
	})
}

func (b *Bot) handleDevice() {
	b.b.Handle("/theme", func(c tele.Context) error {
		in := c.Message().Payload
		if in == "" {
			return c.Reply(fmt.Sprintf("theme: %d", b.coord.Theme()))
		}

		theme, ok := themeNames[in]
		if !ok {
			if parsed, err := strconv.Atoi(in); err == nil {
				theme = parsed
			} else {
				return c.Reply("use clock, weather, system or custom")
			}
		}

		if err := b.coord.SetTheme(context.Background(), theme); err != nil {
			return c.Reply(fmt.Sprintf("change failed: %s", err))
		}
		return c.Reply("OK")
	})

	b.b.Handle("/brightness", func(c tele.Context) error {
		in := c.Message().Payload
		if in == "" {
			return c.Reply(strconv.Itoa(b.coord.Brightness()))
		}

		level, err := strconv.Atoi(in)
		if err != nil {
			return c.Reply(fmt.Sprintf("bad level: %s", err))
		}

		if err := b.coord.SetBrightness(context.Background(), level); err != nil {
			return c.Reply(fmt.Sprintf("change failed: %s", err))
		}
		return c.Reply("OK")
	})
}

func (b *Bot) handleLoop() {
	b.b.Handle("/pause", func(context tele.Context) error {
		b.coord.Pause()
		return context.Reply("OK")
	})

	b.b.Handle("/resume", func(context tele.Context) error {
		b.coord.Resume()
		return context.Reply("OK")
	})

	b.b.Handle("/refresh", func(c tele.Context) error {
		if err := b.coord.Refresh(context.Background()); err != nil {
			return c.Reply(fmt.Sprintf("refresh failed: %s", err))
		}
		return c.Reply("OK")
	})

	b.b.Handle("/info", func(context tele.Context) error {
		lines := []string{
			fmt.Sprintf("Screen: %s", b.coord.CurrentScreenName()),
			fmt.Sprintf("Theme: %d", b.coord.Theme()),
			fmt.Sprintf("Brightness: %d", b.coord.Brightness()),
			fmt.Sprintf("Last update ok: %t", b.coord.LastUpdateSuccess()),
			fmt.Sprintf("Frame size: %s", bytesize.New(float64(len(b.coord.LastImage()))).String()),
		}
		return context.Reply(strings.Join(lines, "\n"))
	})
}

func (b *Bot) Start() {
	b.handleScreens()
	b.handleDevice()
	b.handleLoop()
	go b.b.Start()
}

func (b *Bot) Stop() {
	b.b.Stop()
}

func screenTemplateLines() []string {
	lines := []string{"Usage: /template [index] <key>"}
	names := screen.TemplateNames()
	for _, k := range screen.TemplateKeys() {
		lines = append(lines, fmt.Sprintf("%s: %s", k, names[k]))
	}
	return lines
}
