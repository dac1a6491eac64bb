package client

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/dodge/internal/difficulty"
	"github.com/tomz197/dodge/internal/draw"
	"github.com/tomz197/dodge/internal/event"
	"github.com/tomz197/dodge/internal/input"
	"github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/loop/game"
	"github.com/tomz197/dodge/internal/sched"
	"github.com/tomz197/dodge/internal/store"
)

// Client handles rendering and input for a single connection. Each client
// runs its own game session on its own scheduler.
type Client struct {
	clock        *sched.Scheduler
	bus          *event.Bus
	session      *game.Session
	scores       *store.PlayerScores
	state        *ClientState
	fx           *effects
	styles       styles
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	profile      termenv.Profile
	rng          *rand.Rand
	logger       *log.Logger
	shutdown     <-chan struct{}
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Player       string          // Name records are stored under
	Difficulty   string          // Preselected in the menu, started with SPACE
	Scores       store.Store     // Shared record store, nil keeps records in memory
	Profile      termenv.Profile // Colour capabilities of the terminal
	Logger       *log.Logger
	Rand         *rand.Rand
	Subscribers  []event.Handler // Extra event consumers, e.g. sound
	Shutdown     <-chan struct{} // Closed when the server is going down
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r io.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	scores := opts.Scores
	if scores == nil {
		scores = store.NewMemory()
	}

	now := time.Now()
	bus := event.NewBus(logger)
	fx := &effects{}
	bus.Subscribe(fx.handle)
	for _, h := range opts.Subscribers {
		bus.Subscribe(h)
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := fitPlayArea(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.CanvasWidth, config.CanvasHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		clock:        sched.New(now),
		bus:          bus,
		scores:       store.ForPlayer(scores, opts.Player, logger),
		state:        NewClientState(now),
		fx:           fx,
		styles:       newStyles(w, opts.Profile),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		profile:      opts.Profile,
		rng:          rng,
		logger:       logger,
		shutdown:     opts.Shutdown,
	}
	if opts.Difficulty != "" {
		p, ok := difficulty.Lookup(opts.Difficulty)
		if !ok {
			logger.Warn("unknown difficulty, using default", "difficulty", opts.Difficulty, "default", p.Tag)
		}
		c.state.Difficulty = p.Tag
	}
	c.enterMenu()
	return c
}

// Run starts the client loop. Blocks until the player quits, the input
// closes or the server shuts down.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()
	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.update(input.ReadInput(c.inputStream), frameStart)
		c.updateScreen()

		if err := c.drawFrame(frameStart); err != nil {
			c.stopSession()
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.stopSession()
	draw.ClearScreen(c.writer)
	return nil
}

// update applies one frame of input and advances the game clock to now.
func (c *Client) update(in input.Input, now time.Time) {
	c.state.Input = in
	c.processInput(now)
	c.processShutdown()

	switch c.state.Screen {
	case ScreenMenu:
		c.updateMenu()
	case ScreenPlaying:
		c.updatePlaying()
	case ScreenGameOver:
		c.updateGameOver()
	case ScreenShutdown:
		c.updateShutdown()
	}

	c.clock.Advance(now)

	if c.state.Screen == ScreenPlaying && c.session != nil && c.session.Phase() == game.PhaseOver {
		c.state.Screen = ScreenGameOver
	}
}

func (c *Client) processInput(now time.Time) {
	in := c.state.Input
	switch {
	case in.Any():
		c.state.lastInput = now
		c.state.isInactive = false
	case now.Sub(c.state.lastInput).Seconds() > config.InactivityDisconnectUser:
		c.logger.Info("disconnecting inactive player", "player", c.scores.Player())
		c.state.Running = false
	case now.Sub(c.state.lastInput).Seconds() > config.InactivityWarnUser:
		c.state.isInactive = true
	}

	if in.Quit || in.Closed {
		c.state.Running = false
	}
}

func (c *Client) processShutdown() {
	if c.shutdown == nil || c.state.Screen == ScreenShutdown {
		return
	}
	select {
	case <-c.shutdown:
		c.stopSession()
		c.state.Screen = ScreenShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	default:
	}
}

// updateScreen handles terminal resize.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := fitPlayArea(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// fitPlayArea sizes the canvas to keep the play area's aspect ratio on a
// terminal, leaving HUD rows above it, and centres it.
func fitPlayArea(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	maxWidth := min(termWidth, config.MaxTermWidth)
	availHeight := min(termHeight-config.HUDRows, config.MaxTermHeight)
	if maxWidth <= 0 || availHeight <= 0 {
		return 0, 0, 0, 0
	}

	// One cell is one pixel wide and two half-block pixels tall.
	aspect := float64(config.CanvasWidth) / float64(config.CanvasHeight)
	renderHeight = availHeight
	renderWidth = int(float64(renderHeight*2)*aspect + 0.5)
	if renderWidth > maxWidth {
		renderWidth = maxWidth
		renderHeight = max(int(float64(renderWidth)/aspect/2+0.5), 1)
	}
	renderWidth = max(renderWidth, 1)

	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight-renderHeight-config.HUDRows)/2 + config.HUDRows
	return renderWidth, renderHeight, offsetCol, offsetRow
}

func (c *Client) enterMenu() {
	c.stopSession()
	for _, tag := range difficulty.Tags() {
		c.state.MenuRecords[tag] = c.scores.Score(tag)
	}
	c.state.MenuBest = c.scores.Record()
	c.state.Screen = ScreenMenu
}

func (c *Client) updateMenu() {
	in := c.state.Input
	tags := difficulty.Tags()
	switch {
	case in.Number >= 1 && in.Number <= len(tags):
		c.startGame(tags[in.Number-1])
	case (in.Space || in.Enter) && c.state.Difficulty != "":
		c.startGame(c.state.Difficulty)
	}
}

// startGame replaces any running session with a fresh one on tag.
func (c *Client) startGame(tag string) {
	input.ResetKeyInput(c.inputStream)
	c.stopSession()
	c.fx.reset()

	c.state.Difficulty = tag
	c.session = game.NewSession(c.clock, game.Options{
		Difficulty: tag,
		Scores:     c.scores,
		Bus:        c.bus,
		Rand:       c.rng,
		Logger:     c.logger,
	})
	c.session.Start()
	c.state.Screen = ScreenPlaying
	c.logger.Debug("game started", "player", c.scores.Player(), "difficulty", tag)
}

func (c *Client) stopSession() {
	if c.session != nil {
		c.session.Stop()
		c.session = nil
	}
}

func (c *Client) updatePlaying() {
	in := c.state.Input
	if in.Escape {
		c.enterMenu()
		return
	}
	c.steer(in)
}

func (c *Client) steer(in input.Input) {
	step := config.PlayerSpeed * c.state.delta.Seconds()
	if in.Left && !in.Right {
		c.session.MoveBy(-step)
	}
	if in.Right && !in.Left {
		c.session.MoveBy(step)
	}
	if in.Number >= 0 {
		c.session.SetSlider(float64(in.Number) / 9)
	}
}

func (c *Client) updateGameOver() {
	in := c.state.Input
	switch {
	case in.Escape:
		c.enterMenu()
	case in.Space || in.Enter:
		input.ResetKeyInput(c.inputStream)
		c.fx.reset()
		c.session.Restart()
		c.state.Screen = ScreenPlaying
	}
}

func (c *Client) updateShutdown() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
