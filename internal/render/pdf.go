package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ErrNoBrowser means no Chrome instance could be launched or reached.
var ErrNoBrowser = errors.New("no browser available for PDF rendering")

// PDFRenderer prints an HTML document to PDF.
type PDFRenderer interface {
	PDF(ctx context.Context, html []byte) ([]byte, error)
}

// ChromeOptions selects the browser ChromePDF drives.
type ChromeOptions struct {
	// Bin is the Chrome executable. Empty lets the launcher find or fetch one.
	Bin string
	// ControlURL connects to an already running browser instead of launching.
	ControlURL string
	Headless   bool
	// Timeout bounds one PDF render. Zero means no extra deadline.
	Timeout time.Duration
}

// ChromePDF renders through a headless Chrome driven by rod. The browser is
// started on first use and shared by later calls.
type ChromePDF struct {
	opts ChromeOptions

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

// NewChromePDF creates a renderer. No browser is started until PDF is called.
func NewChromePDF(opts ChromeOptions) *ChromePDF {
	return &ChromePDF{opts: opts}
}

func (c *ChromePDF) connect() (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.browser != nil {
		return c.browser, nil
	}

	controlURL := c.opts.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(c.opts.Headless)
		if c.opts.Bin != "" {
			l = l.Bin(c.opts.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("%w: launch chrome: %v", ErrNoBrowser, err)
		}
		c.launcher = l
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		if c.launcher != nil {
			c.launcher.Kill()
			c.launcher = nil
		}
		return nil, fmt.Errorf("%w: connect to chrome: %v", ErrNoBrowser, err)
	}
	c.browser = browser
	return browser, nil
}

// PDF loads html into a fresh tab and prints it with backgrounds enabled.
func (c *ChromePDF) PDF(ctx context.Context, html []byte) ([]byte, error) {
	browser, err := c.connect()
	if err != nil {
		return nil, err
	}
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	defer page.Close()

	if err := page.SetDocumentContent(string(html)); err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("printing to pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading pdf stream: %w", err)
	}
	return data, nil
}

// Close shuts down the browser and any process the renderer launched.
func (c *ChromePDF) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	if c.launcher != nil {
		c.launcher.Kill()
		c.launcher = nil
	}
	return err
}
