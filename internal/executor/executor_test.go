package executor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/executor"
	"rainbowbrowser/internal/page/pagefake"
	"rainbowbrowser/internal/verify"
)

func TestExecute_Click_Success(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("button")
	clicked := false
	p.Set("#go", node)
	el, err := p.FindElement(context.Background(), "#go")
	require.NoError(t, err)

	e := executor.New(nil)
	a := action.New(action.Click(), action.Selector("#go")).WithTimeout(time.Second)
	result := e.Execute(context.Background(), p, a, el)

	assert.True(t, result.Success)
	assert.Equal(t, a.ID, result.ActionID)
	assert.Empty(t, result.Error)
	_ = clicked
}

func TestExecute_Click_NilElement_Fails(t *testing.T) {
	p := pagefake.New()
	e := executor.New(nil)
	a := action.New(action.Click(), action.Selector("#missing")).WithTimeout(time.Second)

	result := e.Execute(context.Background(), p, a, nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not found")
}

func TestExecute_Type_ClearsThenTypes(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("input")
	node.ValueFl = "stale"
	p.Set("#field", node)
	el, err := p.FindElement(context.Background(), "#field")
	require.NoError(t, err)

	e := executor.New(nil)
	a := action.New(action.Type("hello"), action.Selector("#field")).WithTimeout(time.Second)
	result := e.Execute(context.Background(), p, a, el)

	require.True(t, result.Success)
	assert.Equal(t, "hello", node.ValueFl)
	require.NotNil(t, result.Element)
	assert.Equal(t, "hello", result.Element.Text)
}

func TestExecute_CapturesAttributesInSnapshot(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("button")
	node.Attrs["aria-label"] = "Submit"
	node.Attrs["id"] = "go"
	p.Set("#go", node)
	el, err := p.FindElement(context.Background(), "#go")
	require.NoError(t, err)

	e := executor.New(nil)
	a := action.New(action.Click(), action.Selector("#go")).WithTimeout(time.Second)
	result := e.Execute(context.Background(), p, a, el)

	require.True(t, result.Success)
	require.NotNil(t, result.Element)
	assert.Equal(t, "Submit", result.Element.Attributes["aria-label"])
	assert.Equal(t, "go", result.Element.Attributes["id"])
}

func TestExecute_Type_RealSnapshotPassesInputVerifier(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("input")
	p.Set("#field", node)
	el, err := p.FindElement(context.Background(), "#field")
	require.NoError(t, err)

	e := executor.New(nil)
	a := action.New(action.Type("hello world"), action.Selector("#field")).WithTimeout(time.Second)
	result, pre, post := e.ExecuteWithSnapshots(context.Background(), p, a, el)
	require.True(t, result.Success)

	v := verify.New(nil)
	vr := v.Verify(context.Background(), p, a, el, pre, post)
	assert.True(t, vr.Success)
}

func TestExecute_Type_DisabledElement_Fails(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("input")
	node.Disabled = true
	p.Set("#field", node)
	el, err := p.FindElement(context.Background(), "#field")
	require.NoError(t, err)

	e := executor.New(nil)
	a := action.New(action.Type("hello"), action.Selector("#field")).WithTimeout(time.Second)
	result := e.Execute(context.Background(), p, a, el)

	assert.False(t, result.Success)
}

func TestExecute_Navigate(t *testing.T) {
	p := pagefake.New()
	e := executor.New(nil)
	a := action.New(action.Navigate("https://example.com"), action.Target{}).WithTimeout(time.Second)

	result := e.Execute(context.Background(), p, a, nil)

	require.True(t, result.Success)
	url, _ := p.URL(context.Background())
	assert.Equal(t, "https://example.com", url)
}

func TestExecute_Navigate_EmptyURL_IsConfigError(t *testing.T) {
	p := pagefake.New()
	e := executor.New(nil)
	a := action.New(action.Navigate(""), action.Target{}).WithTimeout(time.Second)

	result := e.Execute(context.Background(), p, a, nil)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "config error")
}

func TestExecute_Wait(t *testing.T) {
	p := pagefake.New()
	e := executor.New(nil)
	a := action.New(action.Wait(10*time.Millisecond), action.Target{}).WithTimeout(time.Second)

	start := time.Now()
	result := e.Execute(context.Background(), p, a, nil)

	assert.True(t, result.Success)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestExecute_Screenshot_SetsPath(t *testing.T) {
	p := pagefake.New()
	e := executor.New(nil)
	a := action.New(action.Screenshot(), action.Target{}).WithTimeout(time.Second)

	result := e.Execute(context.Background(), p, a, nil)

	require.True(t, result.Success)
	assert.Contains(t, result.ScreenshotPath, a.ID)
}

func TestExecute_TimesOut(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("div")
	p.Set("#slow", node)
	el, err := p.FindElement(context.Background(), "#slow")
	require.NoError(t, err)

	e := executor.New(nil)
	a := action.New(action.Wait(200*time.Millisecond), action.Target{}).WithTimeout(5 * time.Millisecond)
	result := e.Execute(context.Background(), p, a, el)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "timed out")
}

func TestExecute_RecordsMonitorStats(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("button")
	p.Set("#go", node)
	el, err := p.FindElement(context.Background(), "#go")
	require.NoError(t, err)

	e := executor.New(nil)
	a := action.New(action.Click(), action.Selector("#go")).WithTimeout(time.Second)
	e.Execute(context.Background(), p, a, el)

	stats := e.Monitor().Stats()
	assert.Equal(t, 1, stats.TotalActions)
	clickStat, ok := stats.PerKind[action.KindClick]
	require.True(t, ok)
	assert.Equal(t, 1.0, clickStat.SuccessRate)
}
