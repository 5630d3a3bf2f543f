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
	"github.com/rsds143/astra-data-go/auth"
	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/internal/devops"
	"github.com/rsds143/astra-data-go/internal/fetcher"
	"github.com/rsds143/astra-data-go/options"
	"github.com/rsds143/astra-data-go/serdes"
)

// devopsBaseURL is the DevOps API base per spec.md 6.3, with the
// -dev/-test variants mirroring the Astra data endpoint's own
// environment suffix (spec.md 6.1).
func devopsBaseURL(env options.Environment) string {
	switch env {
	case envAstraDev:
		return "https://api.astra-dev.datastax.com/v2"
	case envAstraTest:
		return "https://api.astra-test.datastax.com/v2"
	default:
		return "https://api.astra.datastax.com/v2"
	}
}

// Client is the library's root entity (spec.md 4.1): resolved
// options, the auth provider chain, the shared fetcher, and the root
// event bus every Db/Admin spawned from it is a child of.
type Client struct {
	opts     options.ClientOptions
	auth     auth.Chain
	fetcher  fetcher.Fetcher
	bus      *events.Bus
	registry *serdes.Registry
}

// NewClient builds a root Client from a token and the recognized
// client options (spec.md 4.1: environment, caller, logging,
// httpOptions, dbOptions, adminOptions, timeoutDefaults,
// additionalHeaders). The fetcher is selected by HTTPOptions
// (HTTP/2-preferred by default, per spec.md 4.4).
func NewClient(token string, opts options.ClientOptions) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.TimeoutDefaults == (options.TimeoutDescriptor{}) {
		opts.TimeoutDefaults = options.DefaultTimeoutDescriptor()
	}

	bus := events.New(nil)
	if err := bus.Configure(opts.Logging); err != nil {
		return nil, err
	}

	var f fetcher.Fetcher = fetcher.NewHTTP1()
	if opts.HTTPOptions.PreferHTTP2Effective() {
		f = fetcher.NewHTTP2()
	}

	vectorAsBinary := false
	return &Client{
		opts:     opts,
		auth:     auth.Chain{auth.NewStaticToken(token)},
		fetcher:  f,
		bus:      bus,
		registry: serdes.DefaultRegistry(vectorAsBinary),
	}, nil
}

// UserAgent composes this client's User-Agent header value.
func (c *Client) UserAgent() string {
	return fetcher.BuildUserAgent(c.opts.Caller.UserAgentFragment())
}

// Admin builds the DevOps-backed database lifecycle facade
// (spec.md 4.10, C8), a child of this client's event bus.
func (c *Client) Admin() *Admin {
	token := c.opts.AdminOptions.Token
	chain := c.auth
	if token != nil {
		chain = auth.Chain{auth.NewStaticToken(*token)}
	}
	base := devopsBaseURL(c.opts.Environment)
	devopsClient := devops.NewClient(c.fetcher, c.bus.Child(), base)
	return &Admin{client: c, auth: chain, devops: devopsClient, bus: devopsClient.Bus}
}

// Db attaches to an existing database by its Astra data endpoint URL,
// merging db with the client's DbOptions layer (spec.md 3.2's
// hierarchical options resolution).
func (c *Client) Db(endpoint string, db options.DbOptions) (*Db, error) {
	uuid, region, env, err := ParseAstraEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	merged := options.ConcatDbOptions(c.opts.DbOptions, db)
	return c.newDb(endpoint, uuid, region, env, merged)
}

func (c *Client) newDb(endpoint, uuid, region string, env options.Environment, opts options.DbOptions) (*Db, error) {
	chain := c.auth
	if opts.Token != nil {
		chain = auth.Chain{auth.NewStaticToken(*opts.Token)}
	}
	bus := c.bus.Child()
	if err := bus.Configure(opts.Logging); err != nil {
		return nil, err
	}
	return &Db{
		client:   c,
		endpoint: endpoint,
		uuid:     uuid,
		region:   region,
		env:      env,
		opts:     opts,
		auth:     chain,
		bus:      bus,
	}, nil
}
