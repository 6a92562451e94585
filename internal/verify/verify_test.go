package verify_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/page/pagefake"
	"rainbowbrowser/internal/verify"
)

func TestVerify_Click_Passes(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("button")
	p.Set("#go", node)
	el, err := p.FindElement(context.Background(), "#go")
	require.NoError(t, err)

	v := verify.New(nil)
	a := action.New(action.Click(), action.Selector("#go"))
	post := &action.ElementInfo{W: 50, H: 20, Visible: true, Enabled: true}

	result := v.Verify(context.Background(), p, a, el, nil, post)

	assert.True(t, result.Success)
	assert.GreaterOrEqual(t, result.Confidence, 0.5)
}

func TestVerify_Type_FailsWhenValueNotReflected(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("input")
	p.Set("#field", node)
	el, err := p.FindElement(context.Background(), "#field")
	require.NoError(t, err)

	v := verify.New(nil)
	a := action.New(action.Type("hello"), action.Selector("#field"))
	post := &action.ElementInfo{Text: "", Enabled: true}

	result := v.Verify(context.Background(), p, a, el, nil, post)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestVerify_Type_PassesWhenValueReflected(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("input")
	p.Set("#field", node)
	el, err := p.FindElement(context.Background(), "#field")
	require.NoError(t, err)

	v := verify.New(nil)
	a := action.New(action.Type("hello"), action.Selector("#field"))
	post := &action.ElementInfo{Text: "hello world", Enabled: true, W: 50, H: 20, Visible: true}

	result := v.Verify(context.Background(), p, a, el, nil, post)

	assert.True(t, result.Success)
}

func TestVerify_Navigate_UsesPageURL(t *testing.T) {
	p := pagefake.New()
	ctx := context.Background()
	require.NoError(t, p.Goto(ctx, "https://example.com/path"))

	v := verify.New(nil)
	a := action.New(action.Navigate("https://example.com/path"), action.Target{})

	result := v.Verify(ctx, p, a, nil, nil, nil)

	assert.True(t, result.Success)
}

func TestVerify_CachesByActionIDAndKind(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("button")
	p.Set("#go", node)
	el, err := p.FindElement(context.Background(), "#go")
	require.NoError(t, err)

	v := verify.New(nil)
	a := action.New(action.Click(), action.Selector("#go"))
	post := &action.ElementInfo{W: 50, H: 20, Visible: true, Enabled: true}

	first := v.Verify(context.Background(), p, a, el, nil, post)
	second := v.Verify(context.Background(), p, a, el, nil, nil)

	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestVerify_StateChange_FailsWhenMarkerRemovedFromContent(t *testing.T) {
	p := pagefake.New()
	node := pagefake.NewNode("button")
	p.Set("#go", node)
	el, err := p.FindElement(context.Background(), "#go")
	require.NoError(t, err)

	p.Remove("#go")

	v := verify.New(nil)
	a := action.New(action.Click(), action.Selector("#go"))
	post := &action.ElementInfo{W: 50, H: 20, Visible: true, Enabled: true}

	result := v.Verify(context.Background(), p, a, el, nil, post)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestChain_AllPassed(t *testing.T) {
	results := []action.ActionResult{
		{ActionID: "a", Success: true},
		{ActionID: "b", Success: true},
	}
	cr := verify.Chain(results)
	assert.True(t, cr.Success)
	assert.Equal(t, 1.0, cr.ChainIntegrity)
	assert.Equal(t, -1, cr.BreakingPoint)
}

func TestChain_BreakingPoint(t *testing.T) {
	results := []action.ActionResult{
		{ActionID: "a", Success: true},
		{ActionID: "b", Success: false},
		{ActionID: "c", Success: true},
	}
	cr := verify.Chain(results)
	assert.False(t, cr.Success)
	assert.Equal(t, 1, cr.BreakingPoint)
	assert.InDelta(t, 2.0/3.0, cr.ChainIntegrity, 0.001)
}

func TestChain_PenalizesRecoveryAfterFailure(t *testing.T) {
	results := []action.ActionResult{
		{ActionID: "a", Success: false},
		{ActionID: "b", Success: true, Verification: &action.VerificationResult{Confidence: 0.9}},
	}
	cr := verify.Chain(results)
	assert.InDelta(t, 0.7, cr.Results[1].Verification.Confidence, 0.001)
}

func TestVerify_EmptyCatalogStillReturnsResult(t *testing.T) {
	v := verify.New(nil)
	a := action.New(action.Wait(time.Millisecond), action.Target{})
	result := v.Verify(context.Background(), pagefake.New(), a, nil, nil, nil)
	assert.True(t, result.Success)
}
