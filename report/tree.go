/*
 * Cadence - The resource-oriented smart contract programming language
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package report

import (
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/onflow/cadence-benchmarking/generator"
)

// Tree returns the cases of the report, grouped by family and operation.
func Tree(report *Report) treeprint.Tree {
	tree := treeprint.NewWithRoot(
		fmt.Sprintf("%s (scale %d)", report.Backend, report.Scale),
	)

	for _, family := range families(report) {
		familyBranch := tree.AddBranch(family.name)

		for _, operation := range family.operations {
			operationBranch := familyBranch.AddBranch(operation)

			for _, c := range report.Cases {
				if c.Operation != operation {
					continue
				}
				operationBranch.AddMetaNode(c.Size, caseValue(c))
			}
		}
	}

	return tree
}

func caseValue(c *Case) string {
	if !c.Succeeded() {
		return fmt.Sprintf("%s: %s", c.State, c.Error)
	}
	return fmt.Sprintf(
		"%.1f ns/op [%.1f, %.1f], %.2f ns/unit",
		c.Summary.Center,
		c.Summary.Lo,
		c.Summary.Hi,
		c.NsPerUnit(),
	)
}

// OperationsTree returns all operations, grouped by family.
// Operations without a generator are marked.
func OperationsTree() treeprint.Tree {
	tree := treeprint.NewWithRoot("operations")

	for _, family := range generator.Families() {
		branch := tree.AddBranch(family.Name)
		for _, operation := range family.Operations {
			if operation.HasGenerator() {
				branch.AddNode(operation.String())
			} else {
				branch.AddMetaNode("not implemented", operation.String())
			}
		}
	}

	return tree
}
