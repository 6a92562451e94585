package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"rainbowbrowser/internal/action"
)

// actionSpec is the YAML-serializable description of one action, read
// from a batch or chain file. action.Action itself carries no yaml
// tags (it's an in-process value type, not a wire format), so CLI
// input goes through this DTO and gets translated by the functions
// below, the YAML counterparts of the flag-driven parseActionKind
// /parseTarget.
type actionSpec struct {
	Kind        string  `yaml:"kind"`
	TargetKind  string  `yaml:"target_kind"`
	Target      string  `yaml:"target"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	Text        string  `yaml:"text"`
	Option      string  `yaml:"option"`
	Path        string  `yaml:"path"`
	Key         string  `yaml:"key"`
	DurationMs  int     `yaml:"duration_ms"`
	URL         string  `yaml:"url"`
	TimeoutMs   int     `yaml:"timeout_ms"`
	NoVerify    bool    `yaml:"no_verify"`
	Description string  `yaml:"description"`
}

type chainSpec struct {
	Actions        []actionSpec `yaml:"actions"`
	StopOnFailure  *bool        `yaml:"stop_on_failure"`
	ParallelGroups [][]int      `yaml:"parallel_groups"`
}

func loadActionSpecs(path string) ([]actionSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read action file %q: %w", path, err)
	}
	var specs []actionSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse action file %q: %w", path, err)
	}
	return specs, nil
}

func loadChainSpec(path string) (chainSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return chainSpec{}, fmt.Errorf("read chain file %q: %w", path, err)
	}
	var cs chainSpec
	if err := yaml.Unmarshal(data, &cs); err != nil {
		return chainSpec{}, fmt.Errorf("parse chain file %q: %w", path, err)
	}
	return cs, nil
}

func (s actionSpec) toAction() (action.Action, error) {
	kind, err := specActionKind(s)
	if err != nil {
		return action.Action{}, err
	}
	target, err := specTarget(s)
	if err != nil {
		return action.Action{}, err
	}
	a := action.New(kind, target)
	if s.TimeoutMs > 0 {
		a = a.WithTimeout(time.Duration(s.TimeoutMs) * time.Millisecond)
	}
	if s.Description != "" {
		a = a.WithDescription(s.Description)
	}
	if s.NoVerify {
		a = a.WithoutVerification()
	}
	return a, nil
}

func specActionKind(s actionSpec) (action.ActionKind, error) {
	switch s.Kind {
	case "click":
		return action.Click(), nil
	case "doubleclick":
		return action.DoubleClick(), nil
	case "rightclick":
		return action.RightClick(), nil
	case "type":
		return action.Type(s.Text), nil
	case "clear":
		return action.Clear(), nil
	case "submit":
		return action.Submit(), nil
	case "scrollto":
		return action.ScrollTo(), nil
	case "hover":
		return action.Hover(), nil
	case "focus":
		return action.Focus(), nil
	case "select":
		return action.Select(s.Option), nil
	case "upload":
		return action.Upload(s.Path), nil
	case "keypress":
		return action.KeyPress(s.Key), nil
	case "wait":
		return action.Wait(time.Duration(s.DurationMs) * time.Millisecond), nil
	case "screenshot":
		return action.Screenshot(), nil
	case "navigate":
		return action.Navigate(s.URL), nil
	case "goback":
		return action.GoBack(), nil
	case "goforward":
		return action.GoForward(), nil
	case "refresh":
		return action.Refresh(), nil
	default:
		return action.ActionKind{}, fmt.Errorf("config error: unknown action kind %q", s.Kind)
	}
}

func specTarget(s actionSpec) (action.Target, error) {
	switch s.TargetKind {
	case "", "selector":
		return action.Selector(s.Target), nil
	case "xpath":
		return action.XPath(s.Target), nil
	case "text":
		return action.Text(s.Target), nil
	case "id":
		return action.ID(s.Target), nil
	case "class":
		return action.Class(s.Target), nil
	case "name":
		return action.Name(s.Target), nil
	case "placeholder":
		return action.Placeholder(s.Target), nil
	case "value":
		return action.Value(s.Target), nil
	case "role":
		return action.Role(s.Target), nil
	case "coordinate":
		return action.Coordinate(s.X, s.Y), nil
	case "elementref":
		return action.ElementRef(s.Target), nil
	default:
		return action.Target{}, fmt.Errorf("config error: unknown target kind %q", s.TargetKind)
	}
}
