package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticTokenDataAPIFamily(t *testing.T) {
	p := NewStaticToken("secret")
	h, err := p.GetHeaders(context.Background(), FamilyDataAPI)
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"Token": "secret"}, h)
}

func TestStaticTokenDevOpsFamily(t *testing.T) {
	p := NewStaticToken("secret")
	h, err := p.GetHeaders(context.Background(), FamilyDevOps)
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"Authorization": "Bearer secret"}, h)
}

func TestEmptyTokenContributesNoHeader(t *testing.T) {
	p := NewStaticToken("")
	h, err := p.GetHeaders(context.Background(), FamilyDataAPI)
	assert.NoError(t, err)
	assert.Nil(t, h)
}

func TestUsernamePasswordEncodesBothFields(t *testing.T) {
	p := NewUsernamePassword("alice", "pw")
	h, err := p.GetHeaders(context.Background(), FamilyDataAPI)
	assert.NoError(t, err)
	assert.Equal(t, "Cassandra:YWxpY2U=:cHc=", h["Token"])
}

func TestChainLastWriteWins(t *testing.T) {
	chain := Chain{NewStaticToken("first"), NewStaticToken("second")}
	h, err := chain.GetHeaders(context.Background(), FamilyDataAPI)
	assert.NoError(t, err)
	assert.Equal(t, "second", h["Token"])
}

func TestDynamicProviderPropagatesError(t *testing.T) {
	boom := assert.AnError
	d := NewDynamic(func(context.Context) (string, error) { return "", boom })
	_, err := d.GetHeaders(context.Background(), FamilyDataAPI)
	assert.ErrorIs(t, err, boom)
}

func TestEmbeddingHeaderKey(t *testing.T) {
	p := NewEmbeddingHeader("emb-key")
	h, _ := p.GetHeaders(context.Background(), FamilyDataAPI)
	assert.Equal(t, "emb-key", h["x-embedding-api-key"])
}
