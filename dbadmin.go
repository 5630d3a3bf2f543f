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
	"fmt"

	"github.com/rsds143/astra-data-go/auth"
	"github.com/rsds143/astra-data-go/internal/dataapi"
	"github.com/rsds143/astra-data-go/internal/devops"
	"github.com/rsds143/astra-data-go/internal/timeoutmgr"
	"github.com/rsds143/astra-data-go/options"
)

// DbAdmin is the keyspace/collection/table/index lifecycle facade
// (spec.md 3.2, 4.10): keyspace add/drop over DevOps
// (astraops.AddKeyspaceToDb, generalized), collection/table/index
// create/drop over the Data API's admin commands.
type DbAdmin struct {
	db         *Db
	devopsAuth auth.Chain
}

func (a *DbAdmin) devopsHeaders(ctx context.Context) (map[string]string, error) {
	h, err := a.devopsAuth.GetHeaders(ctx, auth.FamilyDevOps)
	if err != nil {
		return nil, err
	}
	merged := map[string]string{"User-Agent": a.db.client.UserAgent(), "Content-Type": "application/json"}
	for k, v := range h {
		merged[k] = v
	}
	return merged, nil
}

func (a *DbAdmin) devopsClient() *devops.Client {
	base := devopsBaseURL(a.db.env)
	return devops.NewClient(a.db.client.fetcher, a.db.bus.Child(), base)
}

// CreateKeyspace adds a keyspace to the database (spec.md 4.8,
// grounded on astraops.AddKeyspaceToDb). The DevOps API acknowledges
// this synchronously; no poll loop is needed.
func (a *DbAdmin) CreateKeyspace(ctx context.Context, name string) error {
	headers, err := a.devopsHeaders(ctx)
	if err != nil {
		return err
	}
	_, err = a.devopsClient().Dispatch(ctx, devops.Params{
		Method: "POST", Path: fmt.Sprintf("/databases/%s/keyspaces/%s", a.db.uuid, name),
		Headers: headers, Name: "createKeyspace",
	})
	return err
}

// DropKeyspace removes a keyspace from the database.
func (a *DbAdmin) DropKeyspace(ctx context.Context, name string) error {
	headers, err := a.devopsHeaders(ctx)
	if err != nil {
		return err
	}
	_, err = a.devopsClient().Dispatch(ctx, devops.Params{
		Method: "DELETE", Path: fmt.Sprintf("/databases/%s/keyspaces/%s", a.db.uuid, name),
		Headers: headers, Name: "dropKeyspace",
	})
	return err
}

func (a *DbAdmin) adminDispatch(ctx context.Context, cmd dataapi.Command, category options.Category) (dataapi.Envelope, error) {
	e := &entityDispatcher{db: a.db, name: "", opts: options.SpawnOptions{}, client: a.db.dataAPIClient()}
	return e.dispatch(ctx, cmd, category, options.CallOptions{}, timeoutmgr.SingleAttempt)
}

// ListCollections lists the keyspace's collections.
func (a *DbAdmin) ListCollections(ctx context.Context) ([]string, error) {
	env, err := a.adminDispatch(ctx, dataapi.Command{Name: "findCollections", Body: map[string]any{}}, options.CategoryKeyspaceAdmin)
	if err != nil {
		return nil, err
	}
	if env.Status == nil {
		return nil, nil
	}
	return env.Status.Names, nil
}

// ListTables lists the keyspace's tables.
func (a *DbAdmin) ListTables(ctx context.Context) ([]string, error) {
	env, err := a.adminDispatch(ctx, dataapi.Command{Name: "findTables", Body: map[string]any{}}, options.CategoryKeyspaceAdmin)
	if err != nil {
		return nil, err
	}
	if env.Status == nil {
		return nil, nil
	}
	return env.Status.Names, nil
}

// CreateCollectionOptions configures createCollection (spec.md 3.2's
// Round-trip-of-UUID-default-id testable property names `defaultId`).
type CreateCollectionOptions struct {
	VectorDimension int
	VectorMetric    string
	DefaultIDType   string
}

// CreateCollection creates a new schemaless document collection.
func (a *DbAdmin) CreateCollection(ctx context.Context, name string, opts CreateCollectionOptions) error {
	def := map[string]any{"name": name}
	collOpts := map[string]any{}
	if opts.VectorDimension > 0 {
		collOpts["vector"] = map[string]any{"dimension": opts.VectorDimension, "metric": opts.VectorMetric}
	}
	if opts.DefaultIDType != "" {
		collOpts["defaultId"] = map[string]any{"type": opts.DefaultIDType}
	}
	if len(collOpts) > 0 {
		def["options"] = collOpts
	}
	_, err := a.adminDispatch(ctx, dataapi.Command{Name: "createCollection", Body: def}, options.CategoryCollectionAdmin)
	return err
}

// DropCollection drops a collection.
func (a *DbAdmin) DropCollection(ctx context.Context, name string) error {
	_, err := a.adminDispatch(ctx, dataapi.Command{Name: "deleteCollection", Body: map[string]any{"name": name}}, options.CategoryCollectionAdmin)
	return err
}

// ColumnDefinition is one column of a createTable request.
type ColumnDefinition struct {
	Name string
	Type string
}

// PrimaryKeyDefinition is a table's declared primary key: partition
// key column(s) plus optional clustering key column(s).
type PrimaryKeyDefinition struct {
	PartitionBy  []string
	ClusteringBy []string
}

// CreateTable creates a new schema'd row table.
func (a *DbAdmin) CreateTable(ctx context.Context, name string, columns []ColumnDefinition, pk PrimaryKeyDefinition) error {
	cols := map[string]any{}
	for _, c := range columns {
		cols[c.Name] = map[string]any{"type": c.Type}
	}
	def := map[string]any{
		"name": name,
		"definition": map[string]any{
			"columns": cols,
			"primaryKey": map[string]any{
				"partitionBy":  pk.PartitionBy,
				"partitionSort": pk.ClusteringBy,
			},
		},
	}
	_, err := a.adminDispatch(ctx, dataapi.Command{Name: "createTable", Body: def}, options.CategoryTableAdmin)
	return err
}

// DropTable drops a table.
func (a *DbAdmin) DropTable(ctx context.Context, name string) error {
	_, err := a.adminDispatch(ctx, dataapi.Command{Name: "dropTable", Body: map[string]any{"name": name}}, options.CategoryTableAdmin)
	return err
}

// CreateIndexOptions configures createIndex/createVectorIndex.
type CreateIndexOptions struct {
	Column string
	Metric string
}

// CreateIndex creates a non-vector index on a table column.
func (a *DbAdmin) CreateIndex(ctx context.Context, name string, opts CreateIndexOptions) error {
	_, err := a.adminDispatch(ctx, dataapi.Command{Name: "createIndex", Body: map[string]any{
		"name": name, "definition": map[string]any{"column": opts.Column},
	}}, options.CategoryTableAdmin)
	return err
}

// CreateVectorIndex creates a vector (ANN) index on a table column.
func (a *DbAdmin) CreateVectorIndex(ctx context.Context, name string, opts CreateIndexOptions) error {
	_, err := a.adminDispatch(ctx, dataapi.Command{Name: "createVectorIndex", Body: map[string]any{
		"name": name, "definition": map[string]any{"column": opts.Column, "options": map[string]any{"metric": opts.Metric}},
	}}, options.CategoryTableAdmin)
	return err
}

// DropIndex drops an index by name.
func (a *DbAdmin) DropIndex(ctx context.Context, name string) error {
	_, err := a.adminDispatch(ctx, dataapi.Command{Name: "dropIndex", Body: map[string]any{"name": name}}, options.CategoryTableAdmin)
	return err
}
