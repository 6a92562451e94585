// Package action defines the sum-type data model for the Intelligent
// Action Engine: what to do (ActionKind), where to do it (Target), and
// the records produced once an action has run.
package action

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the closed set of primitive browser operations the
// engine knows how to dispatch. The zero value is KindClick; the
// exported constructors below set the kind explicitly.
type Kind int

const (
	KindClick Kind = iota
	KindDoubleClick
	KindRightClick
	KindType
	KindClear
	KindSubmit
	KindScrollTo
	KindHover
	KindFocus
	KindSelect
	KindUpload
	KindKeyPress
	KindWait
	KindScreenshot
	KindNavigate
	KindGoBack
	KindGoForward
	KindRefresh
)

func (k Kind) String() string {
	switch k {
	case KindClick:
		return "Click"
	case KindDoubleClick:
		return "DoubleClick"
	case KindRightClick:
		return "RightClick"
	case KindType:
		return "Type"
	case KindClear:
		return "Clear"
	case KindSubmit:
		return "Submit"
	case KindScrollTo:
		return "ScrollTo"
	case KindHover:
		return "Hover"
	case KindFocus:
		return "Focus"
	case KindSelect:
		return "Select"
	case KindUpload:
		return "Upload"
	case KindKeyPress:
		return "KeyPress"
	case KindWait:
		return "Wait"
	case KindScreenshot:
		return "Screenshot"
	case KindNavigate:
		return "Navigate"
	case KindGoBack:
		return "GoBack"
	case KindGoForward:
		return "GoForward"
	case KindRefresh:
		return "Refresh"
	default:
		return "Unknown"
	}
}

// ActionKind carries the Kind tag plus whatever payload that kind needs
// (Type's text, Select's option, Upload's path, KeyPress's key,
// Wait's duration, Navigate's url). Unused fields for a given Kind are
// left zero.
type ActionKind struct {
	Kind     Kind
	Text     string        // Type
	Option   string        // Select
	Path     string        // Upload
	Key      string        // KeyPress
	Duration time.Duration // Wait
	URL      string        // Navigate
}

func Click() ActionKind                     { return ActionKind{Kind: KindClick} }
func DoubleClick() ActionKind               { return ActionKind{Kind: KindDoubleClick} }
func RightClick() ActionKind                { return ActionKind{Kind: KindRightClick} }
func Type(text string) ActionKind           { return ActionKind{Kind: KindType, Text: text} }
func Clear() ActionKind                     { return ActionKind{Kind: KindClear} }
func Submit() ActionKind                    { return ActionKind{Kind: KindSubmit} }
func ScrollTo() ActionKind                  { return ActionKind{Kind: KindScrollTo} }
func Hover() ActionKind                     { return ActionKind{Kind: KindHover} }
func Focus() ActionKind                     { return ActionKind{Kind: KindFocus} }
func Select(option string) ActionKind       { return ActionKind{Kind: KindSelect, Option: option} }
func Upload(path string) ActionKind         { return ActionKind{Kind: KindUpload, Path: path} }
func KeyPress(key string) ActionKind        { return ActionKind{Kind: KindKeyPress, Key: key} }
func Wait(d time.Duration) ActionKind       { return ActionKind{Kind: KindWait, Duration: d} }
func Screenshot() ActionKind                { return ActionKind{Kind: KindScreenshot} }
func Navigate(url string) ActionKind        { return ActionKind{Kind: KindNavigate, URL: url} }
func GoBack() ActionKind                    { return ActionKind{Kind: KindGoBack} }
func GoForward() ActionKind                 { return ActionKind{Kind: KindGoForward} }
func Refresh() ActionKind                   { return ActionKind{Kind: KindRefresh} }

// TargetKind identifies the closed set of ways an element can be
// specified.
type TargetKind int

const (
	TargetSelector TargetKind = iota
	TargetXPath
	TargetText
	TargetID
	TargetClass
	TargetName
	TargetPlaceholder
	TargetValue
	TargetRole
	TargetCoordinate
	TargetElementRef
)

// Target is the abstract specification of the element an Action applies
// to. Only the field matching Kind is meaningful.
type Target struct {
	Kind  TargetKind
	Value string // Selector, XPath, Text, Id, Class, Name, Placeholder, Value, Role, ElementRef
	X, Y  float64
}

func Selector(css string) Target    { return Target{Kind: TargetSelector, Value: css} }
func XPath(xpath string) Target     { return Target{Kind: TargetXPath, Value: xpath} }
func Text(substr string) Target     { return Target{Kind: TargetText, Value: substr} }
func ID(id string) Target           { return Target{Kind: TargetID, Value: id} }
func Class(class string) Target     { return Target{Kind: TargetClass, Value: class} }
func Name(name string) Target       { return Target{Kind: TargetName, Value: name} }
func Placeholder(p string) Target   { return Target{Kind: TargetPlaceholder, Value: p} }
func Value(v string) Target         { return Target{Kind: TargetValue, Value: v} }
func Role(r string) Target          { return Target{Kind: TargetRole, Value: r} }
func Coordinate(x, y float64) Target {
	return Target{Kind: TargetCoordinate, X: x, Y: y}
}
func ElementRef(id string) Target { return Target{Kind: TargetElementRef, Value: id} }

// Action is an immutable record describing one primitive operation to
// perform. Created by the caller, never mutated by the core.
type Action struct {
	ID           string
	ActionKind   ActionKind
	Target       Target
	Timeout      time.Duration
	RetryBudget  int
	VerifyResult bool
	Description  string
	Metadata     any
}

// New creates an Action with the engine's documented defaults: a 10s
// timeout, a budget of 3 retries, and verification enabled.
func New(kind ActionKind, target Target) Action {
	return Action{
		ID:           uuid.NewString(),
		ActionKind:   kind,
		Target:       target,
		Timeout:      10 * time.Second,
		RetryBudget:  3,
		VerifyResult: true,
	}
}

func (a Action) WithTimeout(d time.Duration) Action {
	a.Timeout = d
	return a
}

func (a Action) WithRetryBudget(n int) Action {
	a.RetryBudget = n
	return a
}

func (a Action) WithDescription(desc string) Action {
	a.Description = desc
	return a
}

func (a Action) WithoutVerification() Action {
	a.VerifyResult = false
	return a
}

func (a Action) WithMetadata(md any) Action {
	a.Metadata = md
	return a
}

// ElementInfo is a snapshot of a live DOM node taken before and/or after
// an action executes.
type ElementInfo struct {
	TagName    string
	Attributes map[string]string
	Text       string
	X, Y, W, H float64
	Visible    bool
	Enabled    bool
}

// ActionResult is the immutable output of one logical action.
type ActionResult struct {
	ActionID      string
	Success       bool
	ExecutionTime time.Duration
	Attempts      int
	Error         string
	Element       *ElementInfo
	ScreenshotPath string
	Verification  *VerificationResult
	Metadata      any
}

// VerificationCheck is one verifier's individual pass/fail judgment.
type VerificationCheck struct {
	Name       string
	Passed     bool
	Confidence float64
	Detail     string
}

// VerificationResult aggregates every VerificationCheck run for one
// action.
type VerificationResult struct {
	Success    bool
	Confidence float64
	Duration   time.Duration
	Checks     []VerificationCheck
	Error      string
	PreState   *ElementInfo
	PostState  *ElementInfo
	Changes    []string
}

// ActionChain is an ordered sequence of Actions plus chain-level
// execution policy.
type ActionChain struct {
	ID             string
	Actions        []Action
	StopOnFailure  bool
	ParallelGroups [][]int
}

func NewChain(actions []Action) ActionChain {
	return ActionChain{
		ID:            uuid.NewString(),
		Actions:       actions,
		StopOnFailure: true,
	}
}

// ChainResult is the outcome of running an ActionChain.
type ChainResult struct {
	Results         []ActionResult
	Success         bool
	ChainIntegrity  float64
	BreakingPoint   int // -1 if no failure
}
