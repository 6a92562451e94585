package locator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/locator"
	"rainbowbrowser/internal/page"
	"rainbowbrowser/internal/page/pagefake"
)

func TestLocate_SelectorStrategy(t *testing.T) {
	p := pagefake.New()
	p.Set("#login", pagefake.NewNode("button"))
	loc := locator.New(nil)

	el, err := loc.Locate(context.Background(), p, action.Selector("#login"))
	require.NoError(t, err)
	assert.NotNil(t, el)
	assert.Equal(t, 1, loc.CacheLen())
}

func TestLocate_AttributeStrategy_ByID(t *testing.T) {
	p := pagefake.New()
	p.Set(`[id="email"]`, pagefake.NewNode("input"))
	loc := locator.New(nil)

	el, err := loc.Locate(context.Background(), p, action.ID("email"))
	require.NoError(t, err)
	assert.NotNil(t, el)
}

func TestLocate_AttributeStrategy_ByName(t *testing.T) {
	p := pagefake.New()
	p.Set(`[name="q"]`, pagefake.NewNode("input"))
	loc := locator.New(nil)

	el, err := loc.Locate(context.Background(), p, action.Name("q"))
	require.NoError(t, err)
	assert.NotNil(t, el)
}

func TestLocate_SemanticStrategy_AriaLabelFallback(t *testing.T) {
	p := pagefake.New()
	p.Set(`[aria-label="Close"]`, pagefake.NewNode("button"))
	loc := locator.New(nil)

	el, err := loc.Locate(context.Background(), p, action.Text("Close"))
	require.NoError(t, err)
	assert.NotNil(t, el)
}

func TestLocate_TextContentStrategy_RejectsAbsentTextWithoutRoundTrip(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("button")
	node.TextVal = "Cancel"
	p.Set("#cancel", node)
	_, err := p.FindElement(context.Background(), "#cancel")
	require.NoError(t, err)

	loc := locator.New(nil)
	_, err = loc.Locate(context.Background(), p, action.Text("Nonexistent Label Entirely"))
	assert.ErrorIs(t, err, locator.ErrElementNotFound)
}

func TestLocate_NotFound(t *testing.T) {
	p := pagefake.New()
	loc := locator.New(nil)

	_, err := loc.Locate(context.Background(), p, action.Selector("#missing"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, locator.ErrElementNotFound)
}

func TestInvalidate_ClearsCache(t *testing.T) {
	p := pagefake.New()
	p.Set("#a", pagefake.NewNode("div"))
	loc := locator.New(nil)

	_, err := loc.Locate(context.Background(), p, action.Selector("#a"))
	require.NoError(t, err)
	require.Equal(t, 1, loc.CacheLen())

	loc.Invalidate()
	assert.Equal(t, 0, loc.CacheLen())
}

func TestBestOf_PrefersVisibleEnabledCentered(t *testing.T) {
	infos := []action.ElementInfo{
		{Visible: false, Enabled: true, W: 50, H: 50, Y: 400},
		{Visible: true, Enabled: true, W: 50, H: 50, Y: 400},
	}

	p := pagefake.New()
	p.Set("#hidden", pagefake.NewNode("div"))
	p.Set("#visible", pagefake.NewNode("div"))
	hidden, err := p.FindElement(context.Background(), "#hidden")
	require.NoError(t, err)
	visible, err := p.FindElement(context.Background(), "#visible")
	require.NoError(t, err)

	best := locator.BestOf(context.Background(), []page.Element{hidden, visible}, infos)
	assert.Same(t, visible, best)
}
