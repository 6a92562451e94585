package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"rainbowbrowser/internal/page"
)

// BrowserConfig controls how RodPageFactory launches or attaches to
// Chrome. Adapted from the launcher bootstrap this engine's browser
// layer used before: bring-your-own debugger URL, or launch a local
// binary with extra flags, falling back to a bare headless launch.
type BrowserConfig struct {
	DebuggerURL    string
	Launch         []string // [0] = binary path, rest = "--flag" or "--flag=value"
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	NavTimeout     time.Duration
}

func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless:       true,
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		NavTimeout:     30 * time.Second,
	}
}

// connect launches or attaches to a Chrome instance per cfg and
// returns a live *rod.Browser.
func connect(ctx context.Context, cfg BrowserConfig) (*rod.Browser, error) {
	controlURL := cfg.DebuggerURL

	if controlURL == "" && len(cfg.Launch) > 0 {
		bin := cfg.Launch[0]
		l := launcher.New().Bin(bin).Headless(cfg.Headless)
		for _, raw := range cfg.Launch[1:] {
			name, val, hasVal := strings.Cut(strings.TrimLeft(raw, "-"), "=")
			if hasVal {
				l = l.Set(flags.Flag(name), val)
			} else {
				l = l.Set(flags.Flag(name))
			}
		}
		url, err := l.Launch()
		if err != nil {
			fallback := launcher.New().Bin(bin).Headless(cfg.Headless)
			url, err = fallback.Launch()
			if err != nil {
				return nil, fmt.Errorf("launch chrome: %w", err)
			}
		}
		controlURL = url
	}

	if controlURL == "" {
		url, err := launcher.New().Headless(cfg.Headless).Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	return browser, nil
}

// RodPageFactory returns a PageFactory that opens a fresh incognito
// page against a Chrome instance described by cfg, applying the
// configured viewport before handing back the page.Page adapter.
func RodPageFactory(cfg BrowserConfig) PageFactory {
	return func(ctx context.Context) (page.Page, error) {
		browser, err := connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		incognito, err := browser.Incognito()
		if err != nil {
			return nil, fmt.Errorf("incognito context: %w", err)
		}
		rp, err := incognito.Page(proto.TargetCreateTarget{})
		if err != nil {
			return nil, fmt.Errorf("create page: %w", err)
		}
		if err := (proto.EmulationSetDeviceMetricsOverride{
			Width:             cfg.ViewportWidth,
			Height:            cfg.ViewportHeight,
			DeviceScaleFactor: 1,
			Mobile:            false,
		}).Call(rp); err != nil {
			return nil, fmt.Errorf("set viewport: %w", err)
		}
		return page.WrapPage(rp.Timeout(cfg.NavTimeout)), nil
	}
}
