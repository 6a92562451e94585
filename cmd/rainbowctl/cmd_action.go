package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rainbowbrowser/internal/action"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "Run a single action against a session",
	RunE:  actionRun,
}

var (
	actionSessionID  string
	actionKindFlag   string
	actionTargetKind string
	actionTargetVal  string
	actionX, actionY float64
	actionText       string
	actionOption     string
	actionPath       string
	actionKey        string
	actionDuration   time.Duration
	actionURL        string
	actionTimeout    time.Duration
	actionNoVerify   bool
	actionDesc       string
)

func init() {
	f := actionCmd.Flags()
	f.StringVar(&actionSessionID, "session", "", "session id (required)")
	f.StringVar(&actionKindFlag, "kind", "", "click|doubleclick|rightclick|type|clear|submit|scrollto|hover|focus|select|upload|keypress|wait|screenshot|navigate|goback|goforward|refresh")
	f.StringVar(&actionTargetKind, "target-kind", "selector", "selector|xpath|text|id|class|name|placeholder|value|role|coordinate|elementref")
	f.StringVar(&actionTargetVal, "target", "", "target value (selector, xpath, text, element id, action id for elementref, ...)")
	f.Float64Var(&actionX, "x", 0, "coordinate x (target-kind=coordinate)")
	f.Float64Var(&actionY, "y", 0, "coordinate y (target-kind=coordinate)")
	f.StringVar(&actionText, "text", "", "text to type (kind=type)")
	f.StringVar(&actionOption, "option", "", "option to select (kind=select)")
	f.StringVar(&actionPath, "path", "", "file path to upload (kind=upload)")
	f.StringVar(&actionKey, "key", "", "key to press (kind=keypress)")
	f.DurationVar(&actionDuration, "duration", 0, "duration to wait (kind=wait)")
	f.StringVar(&actionURL, "url", "", "url to navigate to (kind=navigate)")
	f.DurationVar(&actionTimeout, "action-timeout", 10*time.Second, "per-action timeout")
	f.BoolVar(&actionNoVerify, "no-verify", false, "skip post-execution verification")
	f.StringVar(&actionDesc, "description", "", "human-readable description stored on the action")
	_ = actionCmd.MarkFlagRequired("session")
	_ = actionCmd.MarkFlagRequired("kind")
}

func parseActionKind() (action.ActionKind, error) {
	switch actionKindFlag {
	case "click":
		return action.Click(), nil
	case "doubleclick":
		return action.DoubleClick(), nil
	case "rightclick":
		return action.RightClick(), nil
	case "type":
		return action.Type(actionText), nil
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
		return action.Select(actionOption), nil
	case "upload":
		return action.Upload(actionPath), nil
	case "keypress":
		return action.KeyPress(actionKey), nil
	case "wait":
		return action.Wait(actionDuration), nil
	case "screenshot":
		return action.Screenshot(), nil
	case "navigate":
		return action.Navigate(actionURL), nil
	case "goback":
		return action.GoBack(), nil
	case "goforward":
		return action.GoForward(), nil
	case "refresh":
		return action.Refresh(), nil
	default:
		return action.ActionKind{}, fmt.Errorf("config error: unknown action kind %q", actionKindFlag)
	}
}

func parseTarget() (action.Target, error) {
	switch actionTargetKind {
	case "selector":
		return action.Selector(actionTargetVal), nil
	case "xpath":
		return action.XPath(actionTargetVal), nil
	case "text":
		return action.Text(actionTargetVal), nil
	case "id":
		return action.ID(actionTargetVal), nil
	case "class":
		return action.Class(actionTargetVal), nil
	case "name":
		return action.Name(actionTargetVal), nil
	case "placeholder":
		return action.Placeholder(actionTargetVal), nil
	case "value":
		return action.Value(actionTargetVal), nil
	case "role":
		return action.Role(actionTargetVal), nil
	case "coordinate":
		return action.Coordinate(actionX, actionY), nil
	case "elementref":
		return action.ElementRef(actionTargetVal), nil
	default:
		return action.Target{}, fmt.Errorf("config error: unknown target kind %q", actionTargetKind)
	}
}

func actionRun(cmd *cobra.Command, args []string) error {
	kind, err := parseActionKind()
	if err != nil {
		return err
	}
	target, err := parseTarget()
	if err != nil {
		return err
	}

	a := action.New(kind, target).WithTimeout(actionTimeout)
	if actionDesc != "" {
		a = a.WithDescription(actionDesc)
	}
	if actionNoVerify {
		a = a.WithoutVerification()
	}

	ctx, cancel := cmdContext()
	defer cancel()

	result, err := eng.Execute(ctx, actionSessionID, a)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	enc, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(enc))
	return nil
}
