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
	"regexp"

	"github.com/rsds143/astra-data-go/auth"
	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/internal/dataapi"
	"github.com/rsds143/astra-data-go/options"
	"github.com/rsds143/astra-data-go/serdes"
)

// The recognized Astra data-endpoint environment suffixes (spec.md
// 6.1): "" (prod), "-dev", "-test".
const (
	envAstraDev  options.Environment = "astra-dev"
	envAstraTest options.Environment = "astra-test"
)

var astraEndpointPattern = regexp.MustCompile(
	`^https://([0-9a-fA-F-]{36})-([a-z0-9-]+)\.apps\.astra(-dev|-test)?\.datastax\.com/?$`,
)

// ParseAstraEndpoint parses the Astra data endpoint form
// https://<uuid>-<region>.apps.astra[-dev|-test].datastax.com into
// its (uuid, region, environment) parts, per spec.md 6.1. It must not
// misclassify non-matching URLs: a URL failing the pattern is an
// InvalidArgumentsError, never silently parsed as astra-prod.
func ParseAstraEndpoint(endpoint string) (uuid, region string, env options.Environment, err error) {
	m := astraEndpointPattern.FindStringSubmatch(endpoint)
	if m == nil {
		return "", "", "", &InvalidArgumentsError{Reason: fmt.Sprintf("%q is not a recognized Astra data endpoint", endpoint)}
	}
	switch m[3] {
	case "-dev":
		env = envAstraDev
	case "-test":
		env = envAstraTest
	default:
		env = options.EnvironmentAstra
	}
	return m[1], m[2], env, nil
}

// Db is one Astra database (spec.md 4.10, C10): a keyspace-scoped
// handle over the Data API, spawning Collection/Table facades.
type Db struct {
	client   *Client
	endpoint string
	uuid     string
	region   string
	env      options.Environment
	opts     options.DbOptions
	auth     auth.Chain
	bus      *events.Bus
}

// Keyspace returns the db's effective keyspace (default_keyspace if
// unset).
func (d *Db) Keyspace() string { return d.opts.EffectiveKeyspace() }

// ID returns the database's Astra UUID, parsed from its endpoint.
func (d *Db) ID() string { return d.uuid }

// Region returns the database's region, parsed from its endpoint.
func (d *Db) Region() string { return d.region }

// headers resolves this db's per-request headers: User-Agent, then
// auth (Token), then additionalHeaders, each overriding the ones
// before it (spec.md 3.4).
func (d *Db) headers(ctx context.Context) (map[string]string, error) {
	authHeaders, err := d.auth.GetHeaders(ctx, auth.FamilyDataAPI)
	if err != nil {
		return nil, err
	}
	merged := map[string]string{"User-Agent": d.client.UserAgent()}
	for k, v := range authHeaders {
		merged[k] = v
	}
	for k, v := range d.opts.AdditionalHeaders {
		merged[k] = v
	}
	return merged, nil
}

// dataAPIClient builds the dataapi.Client this db dispatches commands
// through.
func (d *Db) dataAPIClient() *dataapi.Client {
	return dataapi.NewClient(d.client.fetcher, serdes.NewEngine(d.engineRegistry()), d.bus)
}

func (d *Db) engineRegistry() *serdes.Registry {
	return d.client.registry
}

// DbAdmin builds the keyspace/collection/table/index lifecycle facade
// for this database (spec.md 4.10).
func (d *Db) DbAdmin() *DbAdmin {
	token := d.opts.Token
	chain := d.auth
	if token != nil {
		chain = auth.Chain{auth.NewStaticToken(*token)}
	}
	return &DbAdmin{db: d, devopsAuth: chain}
}

// Collection attaches to an existing collection, merging opts with
// the db's SpawnOptions-compatible defaults.
func (d *Db) Collection(name string, opts options.SpawnOptions) (*Collection, error) {
	merged := options.ConcatSpawnOptions(options.SpawnOptions{
		Keyspace:        d.opts.Keyspace,
		EmbeddingAPIKey: d.opts.EmbeddingAPIKey,
		RerankingAPIKey: d.opts.RerankingAPIKey,
		Logging:         d.opts.Logging,
		TimeoutDefaults: d.opts.TimeoutDefaults,
		Serdes:          d.opts.Serdes,
	}, opts)
	bus := d.bus.Child()
	if err := bus.Configure(merged.Logging); err != nil {
		return nil, err
	}
	return &Collection{db: d, name: name, opts: merged, bus: bus, client: d.dataAPIClient()}, nil
}

// Table attaches to an existing table, merging opts the same way
// Collection does.
func (d *Db) Table(name string, opts options.SpawnOptions) (*Table, error) {
	merged := options.ConcatSpawnOptions(options.SpawnOptions{
		Keyspace:        d.opts.Keyspace,
		EmbeddingAPIKey: d.opts.EmbeddingAPIKey,
		RerankingAPIKey: d.opts.RerankingAPIKey,
		Logging:         d.opts.Logging,
		TimeoutDefaults: d.opts.TimeoutDefaults,
		Serdes:          d.opts.Serdes,
	}, opts)
	bus := d.bus.Child()
	if err := bus.Configure(merged.Logging); err != nil {
		return nil, err
	}
	return &Table{db: d, name: name, opts: merged, bus: bus, client: d.dataAPIClient()}, nil
}
