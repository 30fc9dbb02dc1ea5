// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sink

import (
	"fmt"
	"sync"

	"github.com/NVIDIA/logfan/pkg/errors"
)

// FailureTally accumulates background delivery failures so a queueing sink
// can report them from Close. The zero value is ready to use.
type FailureTally struct {
	mu    sync.Mutex
	count int
	last  error
}

// Add records n events that failed with err.
func (t *FailureTally) Add(n int, err error) {
	if n < 1 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
	t.last = err
}

// Count returns the number of failed events recorded so far.
func (t *FailureTally) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Err returns an ErrCodeDelivery error wrapping the most recent failure, or
// nil when nothing failed.
func (t *FailureTally) Err(sinkName string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 {
		return nil
	}
	return errors.WrapWithContext(errors.ErrCodeDelivery,
		fmt.Sprintf("sink %s failed to deliver %d event(s)", sinkName, t.count), t.last,
		map[string]any{"sink": sinkName, "failed": t.count})
}
