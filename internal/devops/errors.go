// Copyright DataStax, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package devops

import "fmt"

// ErrorDescriptor mirrors the teacher's astraops.Error shape (id,
// message) returned in a DevOps error payload.
type ErrorDescriptor struct {
	ID      int    `json:"ID,omitempty"`
	Message string `json:"message"`
}

// ResponseError is DevOpsResponseError: a non-2xx status or non-empty
// error payload from the DevOps API.
type ResponseError struct {
	Status      int
	Descriptors []ErrorDescriptor
	Raw         []byte
}

func (e *ResponseError) Error() string {
	if len(e.Descriptors) > 0 {
		return fmt.Sprintf("devops: %s (status %d)", e.Descriptors[0].Message, e.Status)
	}
	return fmt.Sprintf("devops: request failed with status %d", e.Status)
}

// UnexpectedStateError is raised when a long-running command's polled
// state leaves the legal set without reaching the target.
type UnexpectedStateError struct {
	Target      string
	LegalStates []string
	GotState    string
	Raw         []byte
}

func (e *UnexpectedStateError) Error() string {
	return fmt.Sprintf("devops: expected state %q (legal: %v), got %q", e.Target, e.LegalStates, e.GotState)
}
