package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/keymode/internal/app"
	"github.com/dshills/keymode/internal/dispatcher/execctx"
	"github.com/dshills/keymode/internal/engine/cursor"
	"github.com/dshills/keymode/internal/input"
	"github.com/dshills/keymode/internal/input/key"
	"github.com/dshills/keymode/internal/input/source"
)

var quitKey = key.MustParse("<C-c>")

// runInteractive edits the session in the terminal until Ctrl-C.
func runInteractive(ctx context.Context, s *app.Session) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.Input().Hooks().RegisterWithOptions(input.FilterHook{
		KeyEventFilter: func(ev key.Event, _ *execctx.State) bool {
			if ev == quitKey {
				cancel()
				return true
			}
			return false
		},
	}, "quit", input.HookPriorityHighest)

	src := source.NewScreen(screen)
	defer src.Close()

	v := &view{screen: screen, session: s}
	src.OnResize(func(_, height int) {
		s.Buffer().SetViewportHeight(max(height-1, 1))
		screen.Sync()
		v.draw()
	})
	_, height := screen.Size()
	s.Buffer().SetViewportHeight(max(height-1, 1))
	v.draw()

	err = s.Run(ctx, src, func(out input.Outcome) {
		v.last = out
		v.draw()
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// view draws the visible lines, the cursors and a status line.
type view struct {
	screen  tcell.Screen
	session *app.Session
	last    input.Outcome
}

func (v *view) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	buf := v.session.Buffer()
	vp := buf.Viewport()
	sels := buf.Selections()

	for row := 0; row < height-1; row++ {
		line := vp.Top + row
		if line >= buf.LineCount() {
			v.screen.SetContent(0, row, '~', nil, tcell.StyleDefault.Foreground(tcell.ColorBlue))
			continue
		}
		v.drawLine(row, line, buf.LineText(line), sels, width)
	}

	if len(sels) > 0 {
		head := sels[0].Head
		if vp.Contains(head.Line) {
			v.screen.ShowCursor(screenX(buf.LineText(head.Line), head.Col), head.Line-vp.Top)
		} else {
			v.screen.HideCursor()
		}
	}

	v.drawStatus(height-1, width)
	v.screen.Show()
}

// drawLine draws one buffer line grapheme by grapheme. Selected cells and
// secondary cursors are drawn in reverse video.
func (v *view) drawLine(row, line int, text string, sels []cursor.Selection, width int) {
	x, col := 0, 0
	state := -1
	rest := text
	for rest != "" && x < width {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		runes := []rune(cluster)

		style := tcell.StyleDefault
		if highlighted(sels, cursor.Pos(line, col)) {
			style = style.Reverse(true)
		}
		v.screen.SetContent(x, row, runes[0], runes[1:], style)

		x += max(w, 1)
		col += len(runes)
	}
}

func highlighted(sels []cursor.Selection, p cursor.Position) bool {
	for i, s := range sels {
		if s.IsEmpty() {
			if i > 0 && s.Head == p {
				return true
			}
			continue
		}
		if !p.Before(s.Start()) && (p.Before(s.End()) || p == s.Head) {
			return true
		}
	}
	return false
}

// screenX returns the screen column of rune column col.
func screenX(text string, col int) int {
	x, c := 0, 0
	state := -1
	rest := text
	for rest != "" && c < col {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		x += max(w, 1)
		c += len([]rune(cluster))
	}
	return x
}

func (v *view) drawStatus(row, width int) {
	s := v.session
	left := s.Mode().DisplayName()
	if pending := s.Input().Pending(); !pending.IsEmpty() {
		left += " " + pending.String()
	}

	right := ""
	switch {
	case v.last.Err != nil:
		right = v.last.Err.Error()
	case v.last.Result.IsError():
		right = v.last.Result.Error.Error()
	case v.last.Action != "":
		right = v.last.Action
	}
	right += "  ^C quits"

	style := tcell.StyleDefault.Reverse(true)
	for x := range width {
		v.screen.SetContent(x, row, ' ', nil, style)
	}
	drawText(v.screen, 0, row, left, style)
	drawText(v.screen, max(width-uniseg.StringWidth(right), 0), row, right, style)
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
