package options

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ClientOptions are the process-wide root options recognized by
// NewClient: environment, caller, logging, httpOptions, dbOptions,
// adminOptions, timeoutDefaults, additionalHeaders.
type ClientOptions struct {
	Environment     Environment
	Caller          Caller
	Logging         LoggingConfig
	HTTPOptions     HTTPOptions
	DbOptions       DbOptions
	AdminOptions    AdminOptions
	TimeoutDefaults TimeoutDescriptor
	AdditionalHeaders AdditionalHeaders
}

// HTTPOptions selects/configures the fetcher (C4).
type HTTPOptions struct {
	// PreferHTTP2 requests the HTTP/2-capable fetcher when available.
	// Defaults to true per spec.md 4.4.
	PreferHTTP2 *bool
}

// EmptyHTTPOptions is the identity.
func EmptyHTTPOptions() HTTPOptions { return HTTPOptions{} }

// ConcatHTTPOptions merges two layers.
func ConcatHTTPOptions(a, b HTTPOptions) HTTPOptions {
	out := a
	if b.PreferHTTP2 != nil {
		out.PreferHTTP2 = b.PreferHTTP2
	}
	return out
}

// PreferHTTP2Effective resolves the flag, defaulting to true.
func (h HTTPOptions) PreferHTTP2Effective() bool {
	return h.PreferHTTP2 == nil || *h.PreferHTTP2
}

// AdminOptions configures the DevOps HTTP client (C8) defaults.
type AdminOptions struct {
	Token *string
}

// EmptyAdminOptions is the identity.
func EmptyAdminOptions() AdminOptions { return AdminOptions{} }

// ConcatAdminOptions merges two layers.
func ConcatAdminOptions(a, b AdminOptions) AdminOptions {
	out := a
	if b.Token != nil {
		out.Token = b.Token
	}
	return out
}

// DbOptions is the per-db override layer: keyspace, token, headers,
// embedding/reranking keys, logging, timeouts, serdes.
type DbOptions struct {
	Keyspace         *string `validate:"omitempty,min=1,max=48"`
	Token            *string
	AdditionalHeaders AdditionalHeaders
	EmbeddingAPIKey  *string
	RerankingAPIKey  *string
	Logging          LoggingConfig
	TimeoutDefaults  TimeoutDescriptor
	Serdes           SerdesOptions
}

// DefaultKeyspace is used when no keyspace has been specified anywhere
// in the hierarchy.
const DefaultKeyspace = "default_keyspace"

// EmptyDbOptions is the identity.
func EmptyDbOptions() DbOptions { return DbOptions{} }

// ConcatDbOptions merges two layers field-wise.
func ConcatDbOptions(a, b DbOptions) DbOptions {
	return DbOptions{
		Keyspace:          pickStr(a.Keyspace, b.Keyspace),
		Token:             pickStr(a.Token, b.Token),
		AdditionalHeaders: ConcatHeaders(a.AdditionalHeaders, b.AdditionalHeaders),
		EmbeddingAPIKey:   pickStr(a.EmbeddingAPIKey, b.EmbeddingAPIKey),
		RerankingAPIKey:   pickStr(a.RerankingAPIKey, b.RerankingAPIKey),
		Logging:           ConcatLogging(a.Logging, b.Logging),
		TimeoutDefaults:   ConcatTimeouts(a.TimeoutDefaults, b.TimeoutDefaults),
		Serdes:            ConcatSerdes(a.Serdes, b.Serdes),
	}
}

func pickStr(a, b *string) *string {
	if b != nil {
		return b
	}
	return a
}

// EffectiveKeyspace resolves the keyspace, defaulting to
// DefaultKeyspace.
func (d DbOptions) EffectiveKeyspace() string {
	if d.Keyspace == nil || *d.Keyspace == "" {
		return DefaultKeyspace
	}
	return *d.Keyspace
}

// SpawnOptions are Collection/Table spawn options: keyspace,
// embedding/reranking keys, logging, timeouts, serdes.
type SpawnOptions struct {
	Keyspace        *string `validate:"omitempty,min=1,max=48"`
	EmbeddingAPIKey *string
	RerankingAPIKey *string
	Logging         LoggingConfig
	TimeoutDefaults TimeoutDescriptor
	Serdes          SerdesOptions
}

// EmptySpawnOptions is the identity.
func EmptySpawnOptions() SpawnOptions { return SpawnOptions{} }

// ConcatSpawnOptions merges two layers field-wise.
func ConcatSpawnOptions(a, b SpawnOptions) SpawnOptions {
	return SpawnOptions{
		Keyspace:        pickStr(a.Keyspace, b.Keyspace),
		EmbeddingAPIKey: pickStr(a.EmbeddingAPIKey, b.EmbeddingAPIKey),
		RerankingAPIKey: pickStr(a.RerankingAPIKey, b.RerankingAPIKey),
		Logging:         ConcatLogging(a.Logging, b.Logging),
		TimeoutDefaults: ConcatTimeouts(a.TimeoutDefaults, b.TimeoutDefaults),
		Serdes:          ConcatSerdes(a.Serdes, b.Serdes),
	}
}

// CallOptions are per-call options: timeout shorthand plus a retry
// toggle.
type CallOptions struct {
	Timeout    *PerCallTimeout
	RetryOverride *bool
}

// EmptyCallOptions is the identity.
func EmptyCallOptions() CallOptions { return CallOptions{} }

// Validate runs struct-tag validation plus the domain checks that
// cannot be expressed as tags (closed enums, caller sequence).
func (c ClientOptions) Validate() error {
	if err := validate.Struct(c.DbOptions); err != nil {
		return NewInvalidOptionsError("dbOptions", err.Error())
	}
	if _, err := ParseEnvironment(string(c.Environment)); c.Environment != "" && err != nil {
		return err
	}
	return c.Caller.Validate("caller")
}
