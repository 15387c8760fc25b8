package rodhost

import (
	"github.com/f3rmion/hoverword/internal/agent"
	"github.com/f3rmion/hoverword/internal/dom"
	"github.com/ysmood/gson"
)

// bindingName is the window function the page script reports events through.
const bindingName = "__hoverwordEvent"

// bridgeJS runs in every document before page scripts. It stays silent until
// the Go side reports at least one subscriber through the binding's reply.
const bridgeJS = `() => {
	if (window.__hoverword) return;
	const state = { listening: false };
	window.__hoverword = state;

	const send = (msg, force) => {
		if (!force && !state.listening) return;
		const fn = window["` + bindingName + `"];
		if (typeof fn !== 'function') return;
		try {
			Promise.resolve(fn(msg)).then(on => { state.listening = !!on; }).catch(() => {});
		} catch (e) {}
	};

	document.addEventListener('mousemove', ev => {
		send({ kind: 'pointermove', x: ev.clientX, y: ev.clientY });
	}, true);
	document.addEventListener('selectionchange', () => {
		send({ kind: 'selectionchange' });
	});

	send({ kind: 'hello' }, true);
}`

// setListeningJS toggles event forwarding in the current document.
const setListeningJS = `(on) => {
	if (window.__hoverword) window.__hoverword.listening = on;
	return on;
}`

// caretJS resolves a viewport point to a node and offset. Text offsets are
// converted from UTF-16 code units to code points.
const caretJS = `(x, y) => {
	let node = null, offset = 0;
	if (document.caretPositionFromPoint) {
		const p = document.caretPositionFromPoint(x, y);
		if (p) { node = p.offsetNode; offset = p.offset; }
	} else if (document.caretRangeFromPoint) {
		const r = document.caretRangeFromPoint(x, y);
		if (r) { node = r.startContainer; offset = r.startOffset; }
	}
	if (!node) return null;
	if (node.nodeType !== Node.TEXT_NODE) return { type: node.nodeType, data: '', offset: 0 };
	const data = node.data;
	return { type: node.nodeType, data: data, offset: Array.from(data.slice(0, offset)).length };
}`

const selectionJS = `() => {
	const sel = window.getSelection ? window.getSelection() : null;
	return sel ? sel.toString() : '';
}`

// remoteNode is a snapshot of a page node returned by caretJS.
type remoteNode struct {
	typ  dom.NodeType
	data string
}

func (n remoteNode) Type() dom.NodeType { return n.typ }
func (n remoteNode) Data() string       { return n.data }

// parseCaret decodes caretJS's result.
func parseCaret(v gson.JSON) (dom.CaretPosition, bool) {
	if v.Nil() {
		return dom.CaretPosition{}, false
	}

	node := remoteNode{
		typ:  dom.NodeType(v.Get("type").Int()),
		data: v.Get("data").Str(),
	}
	return dom.CaretPosition{Node: node, Offset: v.Get("offset").Int()}, true
}

// parseEvent decodes a message sent by bridgeJS. It reports false for
// messages that are not agent events.
func parseEvent(msg gson.JSON, target dom.Element) (agent.Event, bool) {
	switch msg.Get("kind").Str() {
	case "pointermove":
		return agent.Event{
			Kind:   agent.PointerMove,
			Target: target,
			X:      msg.Get("x").Num(),
			Y:      msg.Get("y").Num(),
		}, true
	case "selectionchange":
		return agent.Event{Kind: agent.SelectionChange}, true
	}
	return agent.Event{}, false
}
