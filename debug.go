// Copyright 2021. Silvano DAL ZILIO.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

//go:build debug

package mdd

import (
	"fmt"

	"go.uber.org/zap"
)

const _DEBUG bool = true
const _LOGLEVEL int = 1

// ******************************************************************************************************

// logTable writes the content of the node arena in the log of the forest, one
// line for each slot in use.
func (f *Forest) logTable() {
	for k := 1; k < len(f.nodes); k++ {
		n := &f.nodes[k]
		if n.isFree() {
			continue
		}
		f.log.Debug("slot",
			zap.Int("id", k),
			zap.Int32("level", n.level),
			zap.String("down", fmt.Sprint(n.down)),
			zap.String("edges", fmt.Sprint(n.edges)),
			zap.Int64("payload", n.payload),
			zap.Int32("refcou", n.refcou),
			zap.Int32("cachecou", n.cachecou),
			zap.Stringer("status", n.status))
	}
}
