// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package faaq

import "code.hybscloud.com/faaq/hazptr"

// Option configures a Queue at construction time.
type Option func(*Queue)

// WithDomain scopes the queue's node reclamation to domain instead of
// the process-wide hazptr.Default domain. Use this to isolate a queue's
// reclamation bookkeeping from unrelated hazard-pointer users in the
// same process, e.g. in tests that want an independent retired/reclaimed
// count.
func WithDomain(domain *hazptr.Domain) Option {
	return func(q *Queue) {
		q.domain = domain
	}
}
