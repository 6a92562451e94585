package action_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rainbowbrowser/internal/action"
)

func TestNew_AppliesDocumentedDefaults(t *testing.T) {
	a := action.New(action.Click(), action.Selector("#go"))

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, 10*time.Second, a.Timeout)
	assert.Equal(t, 3, a.RetryBudget)
	assert.True(t, a.VerifyResult)
}

func TestAction_WithersAreImmutable(t *testing.T) {
	base := action.New(action.Click(), action.Selector("#go"))

	withTimeout := base.WithTimeout(5 * time.Second)
	withBudget := base.WithRetryBudget(7)
	withDesc := base.WithDescription("click the go button")
	withoutVerify := base.WithoutVerification()

	assert.Equal(t, 10*time.Second, base.Timeout, "original action must be untouched")
	assert.Equal(t, 5*time.Second, withTimeout.Timeout)
	assert.Equal(t, 7, withBudget.RetryBudget)
	assert.Equal(t, "click the go button", withDesc.Description)
	assert.True(t, base.VerifyResult)
	assert.False(t, withoutVerify.VerifyResult)
}

func TestActionKind_Constructors_CarryPayload(t *testing.T) {
	require.Equal(t, "hello", action.Type("hello").Text)
	require.Equal(t, "option-a", action.Select("option-a").Option)
	require.Equal(t, "/tmp/file.png", action.Upload("/tmp/file.png").Path)
	require.Equal(t, "Enter", action.KeyPress("Enter").Key)
	require.Equal(t, 2*time.Second, action.Wait(2*time.Second).Duration)
	require.Equal(t, "https://example.com", action.Navigate("https://example.com").URL)
}

func TestTarget_Constructors_CarryKindAndValue(t *testing.T) {
	cases := []struct {
		name string
		t    action.Target
		kind action.TargetKind
	}{
		{"selector", action.Selector("#x"), action.TargetSelector},
		{"xpath", action.XPath("//div"), action.TargetXPath},
		{"text", action.Text("Submit"), action.TargetText},
		{"id", action.ID("email"), action.TargetID},
		{"class", action.Class("btn"), action.TargetClass},
		{"name", action.Name("q"), action.TargetName},
		{"placeholder", action.Placeholder("search"), action.TargetPlaceholder},
		{"value", action.Value("42"), action.TargetValue},
		{"role", action.Role("button"), action.TargetRole},
		{"elementref", action.ElementRef("action-1"), action.TargetElementRef},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.kind, c.t.Kind)
		})
	}

	coord := action.Coordinate(12, 34)
	assert.Equal(t, action.TargetCoordinate, coord.Kind)
	assert.Equal(t, 12.0, coord.X)
	assert.Equal(t, 34.0, coord.Y)
}

func TestNewChain_DefaultsStopOnFailureTrue(t *testing.T) {
	c := action.NewChain([]action.Action{action.New(action.Click(), action.Selector("#a"))})
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.StopOnFailure)
	assert.Len(t, c.Actions, 1)
}

func TestKind_String_CoversEveryConstructor(t *testing.T) {
	kinds := []action.Kind{
		action.Click().Kind, action.DoubleClick().Kind, action.RightClick().Kind,
		action.Type("").Kind, action.Clear().Kind, action.Submit().Kind,
		action.ScrollTo().Kind, action.Hover().Kind, action.Focus().Kind,
		action.Select("").Kind, action.Upload("").Kind, action.KeyPress("").Kind,
		action.Wait(0).Kind, action.Screenshot().Kind, action.Navigate("").Kind,
		action.GoBack().Kind, action.GoForward().Kind, action.Refresh().Kind,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		assert.NotEqual(t, "Unknown", s)
		assert.False(t, seen[s], "duplicate String() value %q", s)
		seen[s] = true
	}
}
