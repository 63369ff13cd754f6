// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package plugin

import "fmt"

// LeafSuite is a suite node that directly contains test entries.
type LeafSuite struct {
	Node
}

// CollectSuites walks the suite tree depth first and returns its leaf
// suites in discovery order.
func CollectSuites(root Node) ([]LeafSuite, error) {
	var suites []LeafSuite
	if err := collectSuites(root, "suite", &suites); err != nil {
		return nil, err
	}
	return suites, nil
}

func collectSuites(node Node, path string, suites *[]LeafSuite) error {
	if node.Has("test") {
		*suites = append(*suites, LeafSuite{node})
		return nil
	}

	if node.IsSequence() {
		for i, sub := range node.Items() {
			if err := collectSuites(sub, fmt.Sprintf("%s[%d]", path, i), suites); err != nil {
				return err
			}
		}
		return nil
	}

	sub, ok := node.Get("suite")
	if !ok {
		return &StructuralError{Path: path, Reason: "suite contains neither tests nor child suites"}
	}
	return collectSuites(sub, path+"/suite", suites)
}
