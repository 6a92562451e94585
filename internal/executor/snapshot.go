package executor

import (
	"context"
	"fmt"
	"strings"

	"rainbowbrowser/internal/action"
	"rainbowbrowser/internal/page"
)

// snapshotScript captures tag, attributes, text/value, bounding box,
// visibility, and disabled/aria-disabled state in one round trip.
// Input/textarea/select elements surface their live `value` property as
// Text, since that's what the spec's Input verifier checks typed text
// against; every other element surfaces innerText/textContent instead.
// Attributes are flattened into `attr:<name>` keys on the returned
// object rather than nested under an `attrs` object, since Value.Map()
// only exposes a flat string-valued map.
const snapshotScript = `() => {
	const r = this.getBoundingClientRect();
	const style = window.getComputedStyle(this);
	const visible = style.display !== 'none' && style.visibility !== 'hidden' &&
		style.opacity !== '0' && r.width > 0 && r.height > 0;
	const disabled = this.disabled === true || this.getAttribute('aria-disabled') === 'true';
	const hasValue = ['INPUT', 'TEXTAREA', 'SELECT'].includes(this.tagName) && this.value !== undefined;
	const out = {
		tag: this.tagName,
		text: (this.innerText || this.textContent || '').slice(0, 500),
		value: hasValue ? String(this.value) : '',
		hasValue: hasValue ? '1' : '0',
		x: r.x, y: r.y, width: r.width, height: r.height,
		visible: visible ? '1' : '0',
		enabled: disabled ? '0' : '1',
	};
	for (const a of Array.from(this.attributes || [])) out['attr:' + a.name] = a.value;
	return out;
}`

// captureSnapshot takes a single-round-trip ElementInfo snapshot: tag,
// attributes, text, bounding box, visibility, and disabled/aria-disabled.
func captureSnapshot(ctx context.Context, el page.Element) *action.ElementInfo {
	if el == nil {
		return nil
	}
	v, err := el.Eval(ctx, snapshotScript)
	if err != nil || v == nil {
		return nil
	}
	m := v.Map()
	tag, _ := el.TagName(ctx)

	// For input/textarea/select, the live `value` property is what a
	// Type/Clear action actually mutates; innerText/textContent never
	// reflects it, so the Input verifier (which checks Text) would
	// otherwise never see typed text.
	text := m["text"]
	if m["hasValue"] == "1" {
		text = m["value"]
	}

	attrs := map[string]string{}
	for k, val := range m {
		if name, ok := strings.CutPrefix(k, "attr:"); ok {
			attrs[name] = val
		}
	}

	return &action.ElementInfo{
		TagName:    tag,
		Attributes: attrs,
		Text:       text,
		X:          parseFloat(m["x"]),
		Y:          parseFloat(m["y"]),
		W:          parseFloat(m["width"]),
		H:          parseFloat(m["height"]),
		Visible:    m["visible"] == "1",
		Enabled:    m["enabled"] == "1",
	}
}

func parseFloat(s string) float64 {
	var f float64
	if _, err := fmt.Sscanf(s, "%g", &f); err != nil {
		return 0
	}
	return f
}
