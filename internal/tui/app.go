// Package tui is the terminal front end: the board is clicked with the
// mouse, p pauses and q quits.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

const (
	frameInterval = 50 * time.Millisecond
	flashDuration = 300 * time.Millisecond
)

// Player is the round the terminal drives.
type Player interface {
	Snapshot() round.Snapshot
	Click(index, value int) round.ClickResult
	Pause() bool
	Resume() bool
}

// Catalog resolves HUD strings.
type Catalog interface {
	Get(key string) string
	Getf(key string, args ...interface{}) string
}

var (
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleCell    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray)
	styleFound   = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleWrong   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed)
	styleCorrect = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleFooter  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleResult  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// App draws one round and feeds it mouse clicks.
type App struct {
	screen tcell.Screen
	player Player
	tr     Catalog
	logger *zap.Logger

	width, height int
	buttons       tcell.ButtonMask

	flashIndex int
	flashStyle tcell.Style
	flashUntil time.Time
}

// New opens the terminal. Close must be called to restore it.
func New(player Player, tr Catalog, logger *zap.Logger) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	app := NewWithScreen(screen, player, tr, logger)
	app.width, app.height = screen.Size()
	return app, nil
}

// NewWithScreen wraps an initialised screen. screen may be nil when only
// event handling is exercised.
func NewWithScreen(screen tcell.Screen, player Player, tr Catalog, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		screen:     screen,
		player:     player,
		tr:         tr,
		logger:     logger.Named("tui"),
		flashIndex: -1,
	}
}

// Close restores the terminal.
func (a *App) Close() {
	if a.screen != nil {
		a.screen.Fini()
	}
}

// Run draws until the player quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// screen finalised
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !a.handleEvent(ev) {
				return nil
			}
			a.draw()
		case <-ticker.C:
			a.draw()
		}
	}
}

// handleEvent applies one terminal event and reports whether to keep running.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if a.player.Snapshot().Result != nil {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'p', 'P':
			a.togglePause()
		}

	case *tcell.EventMouse:
		buttons := ev.Buttons()
		pressed := buttons&tcell.Button1 != 0 && a.buttons&tcell.Button1 == 0
		a.buttons = buttons
		if pressed {
			x, y := ev.Position()
			a.click(x, y)
		}

	case *tcell.EventResize:
		if a.screen != nil {
			a.width, a.height = a.screen.Size()
			a.screen.Sync()
		}
	}
	return true
}

func (a *App) togglePause() {
	if a.player.Snapshot().Paused {
		a.player.Resume()
		return
	}
	a.player.Pause()
}

func (a *App) click(x, y int) {
	snap := a.player.Snapshot()
	if snap.Result != nil {
		return
	}
	index, ok := HitTest(Layout(snap, BoardArea(a.width, a.height)), x, y)
	if !ok {
		return
	}
	res := a.player.Click(index, snap.Cells[index].Value)
	a.logger.Debug("click",
		zap.Int("index", index),
		zap.Int("value", snap.Cells[index].Value),
		zap.String("outcome", string(res.Outcome)),
	)

	switch res.Outcome {
	case round.OutcomeCorrect:
		a.flash(index, styleCorrect)
	case round.OutcomeWrong:
		a.flash(index, styleWrong)
	}
}

func (a *App) flash(index int, style tcell.Style) {
	a.flashIndex = index
	a.flashStyle = style
	a.flashUntil = time.Now().Add(flashDuration)
}

func (a *App) draw() {
	if a.screen == nil {
		return
	}
	a.screen.Clear()
	snap := a.player.Snapshot()

	a.drawHUD(snap)
	if snap.Result != nil {
		a.drawResult(*snap.Result)
	} else {
		a.drawBoard(snap)
	}
	a.text(0, a.height-1, styleFooter, a.tr.Get("hud.help"))
	a.screen.Show()
}

func (a *App) drawHUD(snap round.Snapshot) {
	line := a.tr.Getf("hud.score", snap.State.Score)
	if snap.Mode.IsZen() {
		line += "   " + a.tr.Getf("hud.lives", snap.State.Lives)
	} else {
		line += "   " + a.tr.Getf("hud.time", snap.State.TimeLeft)
	}
	if snap.State.Combo > 1 {
		line += "   " + a.tr.Getf("hud.combo", snap.State.Combo)
	}
	line += "   " + a.tr.Getf("hud.found", snap.State.NumbersFound, snap.Goal)
	a.text(0, 0, styleHUD, line)

	var status string
	switch {
	case snap.Target != nil:
		status = a.tr.Getf("hud.target", *snap.Target)
	case snap.TargetHidden:
		status = a.tr.Get("hud.target_hidden")
	}
	if snap.Paused {
		status += "   " + a.tr.Get("hud.paused")
	} else if snap.Pending {
		status += "   " + a.tr.Get("hud.pending")
	}
	a.text(0, 1, styleHUD, status)
}

func (a *App) drawBoard(snap round.Snapshot) {
	if snap.Paused {
		// hide the numbers so pausing cannot be used to study the board
		return
	}
	now := time.Now()
	for _, b := range Layout(snap, BoardArea(a.width, a.height)) {
		cell := snap.Cells[b.Index]
		style := styleCell
		if cell.Found {
			style = styleFound
		}
		if b.Index == a.flashIndex && now.Before(a.flashUntil) {
			style = a.flashStyle
		}
		a.fill(b.Rect, style)

		label := Label(cell.Value)
		x := b.Rect.X + (b.Rect.W-len(label))/2
		y := b.Rect.Y + b.Rect.H/2
		a.text(x, y, style, label)
	}
}

func (a *App) drawResult(res round.Result) {
	lines := []string{
		res.Title,
		a.tr.Getf("summary.stars", Stars(res.Stars)),
		a.tr.Getf("hud.score", res.Score),
		a.tr.Getf("summary.found", res.NumbersFound),
		a.tr.Getf("summary.used", res.UsedTime),
		a.tr.Getf("summary.remaining", res.TimeRemaining),
		"",
		a.tr.Get("summary.exit"),
	}
	top := (a.height - len(lines)) / 2
	for i, l := range lines {
		x := (a.width - len([]rune(l))) / 2
		a.text(x, top+i, styleResult, l)
	}
}

func (a *App) fill(r Rect, style tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			a.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (a *App) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		if x >= a.width {
			return
		}
		if x >= 0 {
			a.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}
