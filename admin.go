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
	"encoding/json"
	"fmt"

	"github.com/rsds143/astra-data-go/auth"
	"github.com/rsds143/astra-data-go/events"
	"github.com/rsds143/astra-data-go/internal/devops"
)

// Admin is the DevOps-backed database lifecycle facade (spec.md 3.2,
// 4.8): createDatabase/listDatabases/findDatabase/terminateDatabase
// plus park/unpark/resize, all Astra-only. Its DTOs are adapted from
// the teacher's astraops.Database/CreateDb/Storage/TierInfo/Costs
// shapes, generalized to flow through devops.Client's event-emitting,
// poll-capable dispatch instead of astraops's bespoke HTTP calls.
type Admin struct {
	client *Client
	auth   auth.Chain
	devops *devops.Client
	bus    *events.Bus
}

// Storage reports a database's node/replication/capacity footprint.
type Storage struct {
	NodeCount         int32 `json:"nodeCount"`
	ReplicationFactor int32 `json:"replicationFactor"`
	TotalStorageGB    int32 `json:"totalStorage"`
	UsedStorageGB     int32 `json:"usedStorage,omitempty"`
}

// DatabaseInfo is a database's user-facing configuration.
type DatabaseInfo struct {
	Name                string   `json:"name,omitempty"`
	Keyspace            string   `json:"keyspace,omitempty"`
	CloudProvider       string   `json:"cloudProvider,omitempty"`
	Tier                string   `json:"tier,omitempty"`
	CapacityUnits       int32    `json:"capacityUnits,omitempty"`
	Region              string   `json:"region,omitempty"`
	AdditionalKeyspaces []string `json:"additionalKeyspaces,omitempty"`
}

// Database is one Astra database as reported by the DevOps API.
type Database struct {
	ID              string       `json:"id"`
	OrgID           string       `json:"orgId"`
	OwnerID         string       `json:"ownerId"`
	Info            DatabaseInfo `json:"info"`
	CreationTime    string       `json:"creationTime,omitempty"`
	TerminationTime string       `json:"terminationTime,omitempty"`
	Status          string       `json:"status"`
	Storage         Storage      `json:"storage,omitempty"`
	DataEndpointURL string       `json:"dataEndpointUrl,omitempty"`
}

// CreateDatabaseParams submits a new database (spec.md 4.8).
type CreateDatabaseParams struct {
	Name          string `json:"name"`
	Keyspace      string `json:"keyspace"`
	CloudProvider string `json:"cloudProvider"`
	Tier          string `json:"tier"`
	CapacityUnits int32  `json:"capacityUnits"`
	Region        string `json:"region"`
}

// Costs are the per-tier/region billing skus.
type Costs struct {
	CostPerMinCents   float64 `json:"costPerMinCents,omitempty"`
	CostPerHourCents  float64 `json:"costPerHourCents,omitempty"`
	CostPerDayCents   float64 `json:"costPerDayCents,omitempty"`
	CostPerMonthCents float64 `json:"costPerMonthCents,omitempty"`
}

// TierInfo describes one tier/cloud/region combination's limits and costs.
type TierInfo struct {
	Tier               string `json:"tier"`
	CloudProvider      string `json:"cloudProvider"`
	Region             string `json:"region"`
	Cost               *Costs `json:"cost"`
	DatabaseCountUsed  int32  `json:"databaseCountUsed"`
	DatabaseCountLimit int32  `json:"databaseCountLimit"`
}

func (a *Admin) headers(ctx context.Context) (map[string]string, error) {
	h, err := a.auth.GetHeaders(ctx, auth.FamilyDevOps)
	if err != nil {
		return nil, err
	}
	merged := map[string]string{"User-Agent": a.client.UserAgent(), "Content-Type": "application/json"}
	for k, v := range h {
		merged[k] = v
	}
	return merged, nil
}

// ListDatabases lists the caller's databases.
func (a *Admin) ListDatabases(ctx context.Context) ([]Database, error) {
	headers, err := a.headers(ctx)
	if err != nil {
		return nil, err
	}
	res, err := a.devops.Dispatch(ctx, devops.Params{Method: "GET", Path: "/databases", Headers: headers, Name: "listDatabases"})
	if err != nil {
		return nil, err
	}
	var dbs []Database
	if err := json.Unmarshal(res.Body, &dbs); err != nil {
		return nil, &FetchError{Err: err}
	}
	return dbs, nil
}

// FindDatabase fetches one database by id.
func (a *Admin) FindDatabase(ctx context.Context, id string) (Database, error) {
	headers, err := a.headers(ctx)
	if err != nil {
		return Database{}, err
	}
	res, err := a.devops.Dispatch(ctx, devops.Params{Method: "GET", Path: "/databases/" + id, Headers: headers, Name: "findDatabase"})
	if err != nil {
		return Database{}, err
	}
	var db Database
	if err := json.Unmarshal(res.Body, &db); err != nil {
		return Database{}, &FetchError{Err: err}
	}
	return db, nil
}

// CreateDatabaseOptions controls whether CreateDatabase blocks until
// the database reaches ACTIVE (spec.md 4.8's blocking/non-blocking
// long-running command toggle).
type CreateDatabaseOptions struct {
	Blocking bool
}

func (a *Admin) createDatabaseCheck(ctx context.Context, id string) (string, []byte, error) {
	db, err := a.FindDatabase(ctx, id)
	if err != nil {
		return "", nil, err
	}
	raw, _ := json.Marshal(db)
	return db.Status, raw, nil
}

// CreateDatabase submits createDb and, when opts.Blocking, polls until
// the database reaches ACTIVE; non-blocking returns immediately with
// the initial (PENDING) database state plus a Handle the caller can
// poll or wait on directly.
func (a *Admin) CreateDatabase(ctx context.Context, params CreateDatabaseParams, opts CreateDatabaseOptions) (Database, *devops.Handle, error) {
	headers, err := a.headers(ctx)
	if err != nil {
		return Database{}, nil, err
	}
	res, err := a.devops.Dispatch(ctx, devops.Params{Method: "POST", Path: "/databases", Headers: headers, Body: params, Name: "createDatabase"})
	if err != nil {
		return Database{}, nil, err
	}
	var id string
	if loc, ok := res.Headers["Location"]; ok && len(loc) > 0 {
		id = loc[0]
	}

	cfg := devops.PollConfig{
		Name: "createDatabase", Target: "ACTIVE",
		LegalStates: []string{"PENDING", "INITIALIZING", "PREPARING", "PREPARED"},
		Interval:    devops.DefaultDatabasePollInterval,
		Check:       func(ctx context.Context) (string, []byte, error) { return a.createDatabaseCheck(ctx, id) },
	}
	handle := a.devops.NewHandle(cfg)
	if !opts.Blocking {
		db, _ := a.FindDatabase(ctx, id)
		return db, handle, nil
	}

	raw, err := a.devops.PollUntil(ctx, cfg)
	if err != nil {
		return Database{}, handle, err
	}
	var db Database
	if err := json.Unmarshal(raw, &db); err != nil {
		return Database{}, handle, &FetchError{Err: err}
	}
	return db, handle, nil
}

// TerminateDatabaseOptions controls TerminateDatabase's blocking
// behavior, mirroring CreateDatabaseOptions.
type TerminateDatabaseOptions struct {
	Blocking bool
}

// TerminateDatabase drops a database (spec.md 4.8). When Blocking, it
// polls until the database leaves the DevOps listing entirely.
func (a *Admin) TerminateDatabase(ctx context.Context, id string, opts TerminateDatabaseOptions) error {
	headers, err := a.headers(ctx)
	if err != nil {
		return err
	}
	_, err = a.devops.Dispatch(ctx, devops.Params{Method: "POST", Path: fmt.Sprintf("/databases/%s/terminate", id), Headers: headers, Name: "terminateDatabase"})
	if err != nil {
		return err
	}
	if !opts.Blocking {
		return nil
	}
	_, err = a.devops.PollUntil(ctx, devops.PollConfig{
		Name: "terminateDatabase", Target: "TERMINATED",
		LegalStates: []string{"TERMINATING", "ACTIVE"},
		Interval:    devops.DefaultDatabasePollInterval,
		Check: func(ctx context.Context) (string, []byte, error) {
			db, findErr := a.FindDatabase(ctx, id)
			if findErr != nil {
				if respErr, ok := findErr.(*devops.ResponseError); ok && respErr.Status == 404 {
					return "TERMINATED", nil, nil
				}
				return "", nil, findErr
			}
			return db.Status, nil, nil
		},
	})
	return err
}

// ParkDatabase parks a database (pauses billing for its compute).
func (a *Admin) ParkDatabase(ctx context.Context, id string) error {
	headers, err := a.headers(ctx)
	if err != nil {
		return err
	}
	_, err = a.devops.Dispatch(ctx, devops.Params{Method: "POST", Path: fmt.Sprintf("/databases/%s/park", id), Headers: headers, Name: "parkDatabase"})
	return err
}

// UnparkDatabase resumes a parked database.
func (a *Admin) UnparkDatabase(ctx context.Context, id string) error {
	headers, err := a.headers(ctx)
	if err != nil {
		return err
	}
	_, err = a.devops.Dispatch(ctx, devops.Params{Method: "POST", Path: fmt.Sprintf("/databases/%s/unpark", id), Headers: headers, Name: "unparkDatabase"})
	return err
}

// ResizeDatabase changes a database's capacity units (vertical scaling).
func (a *Admin) ResizeDatabase(ctx context.Context, id string, capacityUnits int32) error {
	headers, err := a.headers(ctx)
	if err != nil {
		return err
	}
	_, err = a.devops.Dispatch(ctx, devops.Params{
		Method: "POST", Path: fmt.Sprintf("/databases/%s/resize", id), Headers: headers,
		Body: map[string]any{"capacityUnits": capacityUnits}, Name: "resizeDatabase",
	})
	return err
}

// GetTierInfo lists the available tier/cloud/region combinations and
// their limits/costs.
func (a *Admin) GetTierInfo(ctx context.Context) ([]TierInfo, error) {
	headers, err := a.headers(ctx)
	if err != nil {
		return nil, err
	}
	res, err := a.devops.Dispatch(ctx, devops.Params{Method: "GET", Path: "/availableRegions", Headers: headers, Name: "getTierInfo"})
	if err != nil {
		return nil, err
	}
	var tiers []TierInfo
	if err := json.Unmarshal(res.Body, &tiers); err != nil {
		return nil, &FetchError{Err: err}
	}
	return tiers, nil
}
