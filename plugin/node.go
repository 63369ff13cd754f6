// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package plugin

import (
	"fmt"
	"strings"

	"github.com/clbanning/mxj/v2"
)

// Kind identifies the shape of a parsed XML node.
type Kind int

const (
	KindScalar Kind = iota
	KindRecord
	KindSequence
)

const (
	attrPrefix = "@"
	textKey    = "#text"

	// mxj marks attributes with a hyphen by default.
	mxjAttrPrefix = "-"
)

// Node is an untyped XML tree node. A repeated child element is parsed as a
// sequence while a single child is parsed as a record or scalar, so callers
// go through Items when they expect one-or-more entries.
type Node struct {
	kind   Kind
	value  string
	fields map[string]Node
	items  []Node
}

// Scalar returns a text-only node.
func Scalar(value string) Node {
	return Node{kind: KindScalar, value: value}
}

// Record returns a node holding attributes (keyed "@name"), a text body
// (keyed "#text") and named children.
func Record(fields map[string]Node) Node {
	return Node{kind: KindRecord, fields: fields}
}

// Sequence returns a node holding repeated sibling elements in document order.
func Sequence(items ...Node) Node {
	return Node{kind: KindSequence, items: items}
}

// Kind reports the node's shape.
func (n Node) Kind() Kind { return n.kind }

func (n Node) IsRecord() bool   { return n.kind == KindRecord }
func (n Node) IsSequence() bool { return n.kind == KindSequence }

// Get returns the named child of a record.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != KindRecord {
		return Node{}, false
	}
	child, ok := n.fields[key]
	return child, ok
}

// Has reports whether a record carries the named child.
func (n Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// Path walks nested records by key.
func (n Node) Path(keys ...string) (Node, bool) {
	cur := n
	for _, key := range keys {
		next, ok := cur.Get(key)
		if !ok {
			return Node{}, false
		}
		cur = next
	}
	return cur, true
}

// Attr returns the value of an XML attribute on a record.
func (n Node) Attr(name string) (string, bool) {
	attr, ok := n.Get(attrPrefix + name)
	if !ok {
		return "", false
	}
	return attr.Text(), true
}

// Text returns the value of a scalar or the text body of a record.
func (n Node) Text() string {
	switch n.kind {
	case KindScalar:
		return n.value
	case KindRecord:
		if body, ok := n.fields[textKey]; ok {
			return body.Text()
		}
	}
	return ""
}

// Items coerces the node into a list of one or more entries.
func (n Node) Items() []Node {
	if n.kind == KindSequence {
		return n.items
	}
	return []Node{n}
}

// parseReport parses raw XML into a Node tree rooted at a record keyed by
// the document element name.
func parseReport(data []byte) (Node, error) {
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return Node{}, err
	}
	return newNode(map[string]interface{}(m)), nil
}

func newNode(v interface{}) Node {
	switch v := v.(type) {
	case map[string]interface{}:
		fields := make(map[string]Node, len(v))
		for key, child := range v {
			if strings.HasPrefix(key, mxjAttrPrefix) {
				key = attrPrefix + strings.TrimPrefix(key, mxjAttrPrefix)
			}
			fields[key] = newNode(child)
		}
		return Record(fields)
	case mxj.Map:
		return newNode(map[string]interface{}(v))
	case []interface{}:
		items := make([]Node, 0, len(v))
		for _, item := range v {
			items = append(items, newNode(item))
		}
		return Sequence(items...)
	case string:
		return Scalar(v)
	case nil:
		return Scalar("")
	default:
		return Scalar(fmt.Sprint(v))
	}
}
