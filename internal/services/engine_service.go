package services

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"

	"webshell/internal/logger"
	"webshell/pkg/webtypes"
)

// evaluateWrapper runs a script with indirect eval so it sees the page's global
// scope, and converts the completion value to a string.
const evaluateWrapper = `(script) => {
	const value = (0, eval)(script);
	return value === undefined || value === null ? "" : String(value);
}`

// EngineOptions configures the browser launched by EngineService.
type EngineOptions struct {
	Headless  bool
	UserAgent string
	Width     int
	Height    int
	// Install downloads the browser binaries before launching.
	Install bool
}

// DefaultEngineOptions returns a headless 1280x720 configuration.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{Headless: true, Width: 1280, Height: 720}
}

// EngineService implements webtypes.Engine, webtypes.Navigator and
// webtypes.Scrollable on a Playwright-driven Chromium page.
type EngineService struct {
	opts EngineOptions

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	zoom    float64
	onLoad  func(uri string)

	logger *log.Logger
}

// NewEngineService creates an engine that launches a browser on Initialize.
func NewEngineService(opts EngineOptions) *EngineService {
	return &EngineService{
		opts:   opts,
		zoom:   1.0,
		logger: logger.NewStyledLogger("EngineService"),
	}
}

// Name returns the service name for registration.
func (e *EngineService) Name() string {
	return "engine"
}

// OnLoad registers fn to be called with the page URL whenever a page finishes
// loading. It is called from a Playwright goroutine.
func (e *EngineService) OnLoad(fn func(uri string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onLoad = fn
}

// Initialize starts Playwright, launches Chromium and opens the page.
func (e *EngineService) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page != nil {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if e.opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(e.opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{}
	if e.opts.Width > 0 && e.opts.Height > 0 {
		contextOpts.Viewport = &playwright.Size{Width: e.opts.Width, Height: e.opts.Height}
	}
	if e.opts.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(e.opts.UserAgent)
	}
	bctx, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create page: %w", err)
	}

	page.OnLoad(func(p playwright.Page) {
		e.mu.Lock()
		fn := e.onLoad
		e.mu.Unlock()
		if fn != nil {
			fn(p.URL())
		}
	})

	e.pw, e.browser, e.page = pw, browser, page
	e.logger.Info("Browser launched", "version", browser.Version(), "headless", e.opts.Headless)
	return nil
}

// Close shuts the browser and Playwright down.
func (e *EngineService) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pw == nil {
		return nil
	}
	if e.browser != nil {
		if err := e.browser.Close(); err != nil {
			e.logger.Warn("Failed to close browser", "error", err)
		}
	}
	err := e.pw.Stop()
	e.pw, e.browser, e.page = nil, nil, nil
	if err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

func (e *EngineService) currentPage() (playwright.Page, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.page == nil {
		return nil, fmt.Errorf("engine not initialized")
	}
	return e.page, nil
}

// EvaluateScript runs script in the page and returns its string form.
func (e *EngineService) EvaluateScript(_ context.Context, script string) (string, error) {
	page, err := e.currentPage()
	if err != nil {
		return "", err
	}
	value, err := page.Evaluate(evaluateWrapper, script)
	if err != nil {
		return "", err
	}
	return stringify(value), nil
}

// Navigate loads uri in the page.
func (e *EngineService) Navigate(_ context.Context, uri string) error {
	page, err := e.currentPage()
	if err != nil {
		return err
	}
	if _, err := page.Goto(uri); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", uri, err)
	}
	return e.applyZoom(page)
}

// Zoom returns the current zoom level.
func (e *EngineService) Zoom() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zoom
}

// SetZoom scales the page with CSS zoom. The level is kept across navigations.
func (e *EngineService) SetZoom(level float64) error {
	if level <= 0 || math.IsNaN(level) || math.IsInf(level, 0) {
		return fmt.Errorf("invalid zoom level %v", level)
	}
	e.mu.Lock()
	e.zoom = level
	page := e.page
	e.mu.Unlock()

	if page == nil {
		return nil
	}
	return e.applyZoom(page)
}

func (e *EngineService) applyZoom(page playwright.Page) error {
	script := "(z) => { document.documentElement.style.zoom = String(z); }"
	if _, err := page.Evaluate(script, e.Zoom()); err != nil {
		return fmt.Errorf("failed to apply zoom: %w", err)
	}
	return nil
}

// Version reports the browser version, or an empty string before Initialize.
func (e *EngineService) Version() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browser == nil {
		return ""
	}
	return e.browser.Version()
}

// Back goes back in the page history.
func (e *EngineService) Back(context.Context) error {
	page, err := e.currentPage()
	if err != nil {
		return err
	}
	_, err = page.GoBack()
	return err
}

// Forward goes forward in the page history.
func (e *EngineService) Forward(context.Context) error {
	page, err := e.currentPage()
	if err != nil {
		return err
	}
	_, err = page.GoForward()
	return err
}

// Reload reloads the page. With bypassCache the request asks intermediaries
// not to serve a cached copy.
func (e *EngineService) Reload(_ context.Context, bypassCache bool) error {
	page, err := e.currentPage()
	if err != nil {
		return err
	}
	if bypassCache {
		if err := page.SetExtraHTTPHeaders(map[string]string{"Cache-Control": "no-cache", "Pragma": "no-cache"}); err != nil {
			return fmt.Errorf("failed to set cache headers: %w", err)
		}
		defer func() {
			if err := page.SetExtraHTTPHeaders(map[string]string{}); err != nil {
				e.logger.Warn("Failed to reset headers", "error", err)
			}
		}()
	}
	_, err = page.Reload()
	return err
}

// Stop stops loading the page.
func (e *EngineService) Stop(context.Context) error {
	page, err := e.currentPage()
	if err != nil {
		return err
	}
	_, err = page.Evaluate("() => window.stop()")
	return err
}

// Adjustment returns the live scroll state of the page along axis.
func (e *EngineService) Adjustment(axis webtypes.Axis) webtypes.Adjustment {
	return &pageAdjustment{engine: e, metrics: axisMetrics(axis)}
}

// metrics holds the DOM expressions describing one scroll axis.
type metrics struct {
	upper    string
	page     string
	value    string
	scrollTo string
}

func axisMetrics(axis webtypes.Axis) metrics {
	if axis == webtypes.AxisHorizontal {
		return metrics{
			upper:    "() => document.documentElement.scrollWidth",
			page:     "() => window.innerWidth",
			value:    "() => window.scrollX",
			scrollTo: "(v) => window.scrollTo(v, window.scrollY)",
		}
	}
	return metrics{
		upper:    "() => document.documentElement.scrollHeight",
		page:     "() => window.innerHeight",
		value:    "() => window.scrollY",
		scrollTo: "(v) => window.scrollTo(window.scrollX, v)",
	}
}

// pageAdjustment reads scroll metrics from the page on every call.
type pageAdjustment struct {
	engine  *EngineService
	metrics metrics
}

func (a *pageAdjustment) Lower() float64    { return 0 }
func (a *pageAdjustment) Upper() float64    { return a.number(a.metrics.upper) }
func (a *pageAdjustment) PageSize() float64 { return a.number(a.metrics.page) }
func (a *pageAdjustment) Value() float64    { return a.number(a.metrics.value) }

func (a *pageAdjustment) SetValue(value float64) {
	page, err := a.engine.currentPage()
	if err != nil {
		return
	}
	if _, err := page.Evaluate(a.metrics.scrollTo, value); err != nil {
		a.engine.logger.Warn("Failed to scroll", "error", err)
	}
}

func (a *pageAdjustment) number(script string) float64 {
	page, err := a.engine.currentPage()
	if err != nil {
		return 0
	}
	value, err := page.Evaluate(script)
	if err != nil {
		a.engine.logger.Warn("Failed to read scroll metrics", "error", err)
		return 0
	}
	return toFloat(value)
}

// stringify converts an evaluation result to text.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func toFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}
