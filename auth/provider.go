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

// Package auth implements header/token providers (C2): capabilities
// that produce per-request auth headers, synchronously or with
// arbitrary I/O.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"
)

// Family distinguishes which API a provider's headers are destined
// for, since the data-api and devops families use different header
// shapes for the same token.
type Family string

// The two header families.
const (
	FamilyDataAPI Family = "data-api"
	FamilyDevOps  Family = "devops"
)

// Provider produces per-request headers. Every provider has an async
// signature; synchronous providers simply return already-resolved
// values, avoiding a sync/async branch at every call site (spec.md
// DESIGN NOTES).
type Provider interface {
	GetHeaders(ctx context.Context, family Family) (map[string]string, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, family Family) (map[string]string, error)

// GetHeaders implements Provider.
func (f ProviderFunc) GetHeaders(ctx context.Context, family Family) (map[string]string, error) {
	return f(ctx, family)
}

// tokenHeader maps a resolved token string to the header shape its
// family expects. A null/empty token contributes no header (spec.md
// 4.2).
func tokenHeader(family Family, token string) map[string]string {
	if token == "" {
		return nil
	}
	switch family {
	case FamilyDevOps:
		return map[string]string{"Authorization": "Bearer " + token}
	default: // FamilyDataAPI
		return map[string]string{"Token": token}
	}
}

// StaticToken is a synchronous provider that always returns the same
// token.
type StaticToken struct {
	Token string
}

// NewStaticToken builds a StaticToken provider.
func NewStaticToken(token string) *StaticToken { return &StaticToken{Token: token} }

// GetHeaders implements Provider.
func (s *StaticToken) GetHeaders(_ context.Context, family Family) (map[string]string, error) {
	return tokenHeader(family, s.Token), nil
}

// UsernamePassword is a synchronous provider that encodes
// "Cassandra:<b64 user>:<b64 pass>" as the token.
type UsernamePassword struct {
	Username string
	Password string
}

// NewUsernamePassword builds a UsernamePassword provider.
func NewUsernamePassword(username, password string) *UsernamePassword {
	return &UsernamePassword{Username: username, Password: password}
}

// GetHeaders implements Provider.
func (u *UsernamePassword) GetHeaders(_ context.Context, family Family) (map[string]string, error) {
	token := fmt.Sprintf("Cassandra:%s:%s",
		base64.StdEncoding.EncodeToString([]byte(u.Username)),
		base64.StdEncoding.EncodeToString([]byte(u.Password)),
	)
	return tokenHeader(family, token), nil
}

// Dynamic wraps an arbitrary, possibly I/O-bound, user-supplied
// callback returning a fresh token per call.
type Dynamic struct {
	Resolve func(ctx context.Context) (string, error)
}

// NewDynamic builds a Dynamic provider.
func NewDynamic(resolve func(ctx context.Context) (string, error)) *Dynamic {
	return &Dynamic{Resolve: resolve}
}

// GetHeaders implements Provider.
func (d *Dynamic) GetHeaders(ctx context.Context, family Family) (map[string]string, error) {
	token, err := d.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return tokenHeader(family, token), nil
}

// HeaderKeyProvider is the embedding/reranking provider shape: same
// capability as a token provider, but maps to an arbitrary header
// name rather than Token/Authorization.
type HeaderKeyProvider struct {
	HeaderName string
	Value      string
}

// NewEmbeddingHeader builds a provider for the
// "x-embedding-api-key" family of headers.
func NewEmbeddingHeader(value string) *HeaderKeyProvider {
	return &HeaderKeyProvider{HeaderName: "x-embedding-api-key", Value: value}
}

// NewRerankingHeader builds a provider for the
// "x-rerank-api-key" family of headers.
func NewRerankingHeader(value string) *HeaderKeyProvider {
	return &HeaderKeyProvider{HeaderName: "x-rerank-api-key", Value: value}
}

// GetHeaders implements Provider.
func (h *HeaderKeyProvider) GetHeaders(_ context.Context, _ Family) (map[string]string, error) {
	if h.Value == "" {
		return nil, nil
	}
	return map[string]string{h.HeaderName: h.Value}, nil
}

// Unset is the identity provider: it never contributes a header. It
// is the "last write wins with an identity unset" monoid identity of
// spec.md 3.4.
var Unset Provider = ProviderFunc(func(context.Context, Family) (map[string]string, error) {
	return nil, nil
})
