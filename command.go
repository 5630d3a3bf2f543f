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

package astradata

import (
	"context"

	"github.com/rsds143/astra-data-go/internal/dataapi"
	"github.com/rsds143/astra-data-go/internal/timeoutmgr"
	"github.com/rsds143/astra-data-go/options"
	"github.com/rsds143/astra-data-go/serdes"
)

// entityDispatcher is the shape Collection and Table both share: a
// parent db, a name, resolved spawn options, and the dataapi.Client
// to run commands through. Factoring this out lets the CRUD builders
// in collection.go/table.go share one dispatch path (spec.md 4.10:
// "Collection/Table operations are thin").
type entityDispatcher struct {
	db     *Db
	name   string
	opts   options.SpawnOptions
	client *dataapi.Client
}

// effectiveKeyspace resolves this entity's keyspace, falling back to
// the parent db's when unset.
func (e *entityDispatcher) effectiveKeyspace() string {
	if e.opts.Keyspace != nil && *e.opts.Keyspace != "" {
		return *e.opts.Keyspace
	}
	return e.db.Keyspace()
}

// commandTarget picks the ser/des Target a command's body is rooted
// at; only find-shaped commands (which carry a filter, not a bare
// record) differ from the record default.
func commandTarget(name string) serdes.Target {
	switch name {
	case "find", "findOne", "deleteOne", "deleteMany", "countDocuments", "distinct", "findOneAndDelete":
		return serdes.TargetFilter
	default:
		return serdes.TargetRecord
	}
}

// dispatch resolves headers/timeout/keyspace and runs one command
// against this entity's collection/table, selecting the Manager mode
// appropriate to single-shot vs. paginated/polling calls (spec.md 4.3).
func (e *entityDispatcher) dispatch(ctx context.Context, cmd dataapi.Command, category options.Category, call options.CallOptions, mode timeoutmgr.Mode) (dataapi.Envelope, error) {
	headers, err := e.db.headers(ctx)
	if err != nil {
		return dataapi.Envelope{}, err
	}

	base := options.ConcatTimeouts(e.db.client.opts.TimeoutDefaults, e.opts.TimeoutDefaults)
	resolved := base
	if call.Timeout != nil {
		if mode == timeoutmgr.Multipart {
			resolved = call.Timeout.ResolveMultipart(base, category)
		} else {
			resolved = call.Timeout.ResolveSingleAttempt(base, category)
		}
	}

	return e.client.Dispatch(ctx, dataapi.DispatchParams{
		Endpoint:          e.db.endpoint,
		APIPath:           dataapi.DefaultAPIPath,
		Keyspace:          e.effectiveKeyspace(),
		CollectionOrTable: e.name,
		Headers:           headers,
		Command:           cmd,
		Target:            commandTarget(cmd.Name),
		Category:          category,
		TimeoutMode:       mode,
		Timeouts:          resolved,
		BigNumbers:        e.opts.Serdes.BigNumbersEnabled(),
	})
}
