package nft

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazorkit/nft-server/pkg/solana"
	"github.com/lazorkit/nft-server/pkg/solana/metadata"
	"github.com/lazorkit/nft-server/pkg/solana/system"
	"github.com/lazorkit/nft-server/pkg/solana/token"
)

type stubClient struct {
	solana.Client

	rent  uint64
	err   error
	calls int
}

func (c *stubClient) GetMinimumBalanceForRentExemption(size uint64) (uint64, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	return c.rent, nil
}

var testInput = MetadataInput{
	Name:       "Example",
	Symbol:     "EXM",
	URI:        "https://example.com/meta.json",
	RoyaltyBps: 500,
}

func TestBuildCreationPlan(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	sc := &stubClient{rent: 1461600}
	plan, err := NewBuilder(sc).BuildCreationPlan(payer, testInput)
	require.NoError(t, err)
	assert.Equal(t, 1, sc.calls)

	require.Len(t, plan.Instructions, 6)
	assert.Equal(t, plan.Mint, plan.MintPrivateKey.Public().(ed25519.PublicKey))

	createAccount, err := system.DecompileCreateAccount(solana.NewTransaction(payer, plan.Instructions[0]).Message, 0)
	require.NoError(t, err)
	assert.Equal(t, plan.Mint, createAccount.Address)
	assert.Equal(t, payer, createAccount.Funder)
	assert.Equal(t, token.ProgramKey, createAccount.Owner)
	assert.EqualValues(t, 1461600, createAccount.Lamports)
	assert.EqualValues(t, token.MintSize, createAccount.Size)

	initMint, err := token.DecompileInitializeMint(solana.NewTransaction(payer, plan.Instructions[1]).Message, 0)
	require.NoError(t, err)
	assert.Equal(t, plan.Mint, initMint.Mint)
	assert.EqualValues(t, 0, initMint.Decimals)
	assert.Equal(t, payer, initMint.MintAuthority)
	assert.Equal(t, payer, initMint.FreezeAuthority)

	createHolding, err := token.DecompileCreateAssociatedAccount(solana.NewTransaction(payer, plan.Instructions[2]).Message, 0)
	require.NoError(t, err)
	assert.Equal(t, plan.HoldingAccount, createHolding.Address)
	assert.Equal(t, payer, createHolding.Owner)
	assert.Equal(t, plan.Mint, createHolding.Mint)

	mintTo, err := token.DecompileMintTo(solana.NewTransaction(payer, plan.Instructions[3]).Message, 0)
	require.NoError(t, err)
	assert.Equal(t, plan.Mint, mintTo.Mint)
	assert.Equal(t, plan.HoldingAccount, mintTo.Destination)
	assert.Equal(t, payer, mintTo.Authority)
	assert.EqualValues(t, 1, mintTo.Amount)

	createMeta, err := metadata.DecompileCreateMetadataAccountV3(solana.NewTransaction(payer, plan.Instructions[4]).Message, 0)
	require.NoError(t, err)
	assert.Equal(t, plan.MetadataAccount, createMeta.MetadataAccount)
	assert.Equal(t, plan.Mint, createMeta.Mint)
	assert.Equal(t, payer, createMeta.Payer)
	assert.Equal(t, payer, createMeta.UpdateAuthority)
	assert.Equal(t, testInput.Name, createMeta.Data.Name)
	assert.Equal(t, testInput.Symbol, createMeta.Data.Symbol)
	assert.Equal(t, testInput.URI, createMeta.Data.URI)
	assert.Equal(t, testInput.RoyaltyBps, createMeta.Data.SellerFeeBasisPoints)
	assert.True(t, createMeta.IsMutable)

	createEdition, err := metadata.DecompileCreateMasterEditionV3(solana.NewTransaction(payer, plan.Instructions[5]).Message, 0)
	require.NoError(t, err)
	assert.Equal(t, plan.MasterEditionAccount, createEdition.Edition)
	assert.Equal(t, plan.Mint, createEdition.Mint)
	assert.Equal(t, plan.MetadataAccount, createEdition.MetadataAccount)
	assert.EqualValues(t, 0, createEdition.MaxSupply)

	// Derived addresses match the mint.
	expectedMeta, err := metadata.GetMetadataAddress(plan.Mint)
	require.NoError(t, err)
	assert.Equal(t, expectedMeta, plan.MetadataAccount)

	expectedEdition, err := metadata.GetMasterEditionAddress(plan.Mint)
	require.NoError(t, err)
	assert.Equal(t, expectedEdition, plan.MasterEditionAccount)

	expectedHolding, err := token.GetAssociatedAccount(payer, plan.Mint)
	require.NoError(t, err)
	assert.Equal(t, expectedHolding, plan.HoldingAccount)
}

func TestBuildCreationPlan_FreshMint(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	builder := NewBuilder(&stubClient{rent: 1461600})

	first, err := builder.BuildCreationPlan(payer, testInput)
	require.NoError(t, err)
	second, err := builder.BuildCreationPlan(payer, testInput)
	require.NoError(t, err)

	assert.False(t, bytes.Equal(first.Mint, second.Mint))
	assert.False(t, bytes.Equal(first.MetadataAccount, second.MetadataAccount))
	assert.False(t, bytes.Equal(first.HoldingAccount, second.HoldingAccount))
}

func TestBuildCreationPlan_Options(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	plan, err := NewBuilder(&stubClient{}, WithImmutableMetadata(), WithMaxSupply(10)).BuildCreationPlan(payer, testInput)
	require.NoError(t, err)

	createMeta, err := metadata.DecompileCreateMetadataAccountV3(solana.NewTransaction(payer, plan.Instructions[4]).Message, 0)
	require.NoError(t, err)
	assert.False(t, createMeta.IsMutable)

	createEdition, err := metadata.DecompileCreateMasterEditionV3(solana.NewTransaction(payer, plan.Instructions[5]).Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 10, createEdition.MaxSupply)
}

func TestBuildCreationPlan_InvalidInput(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	sc := &stubClient{rent: 1461600}
	builder := NewBuilder(sc)

	input := testInput
	input.URI = ""
	plan, err := builder.BuildCreationPlan(payer, input)
	assert.Nil(t, plan)
	assert.Equal(t, ErrMissingMetadataURI, errors.Cause(err))

	// Validation failures never reach the cluster.
	assert.Equal(t, 0, sc.calls)
}

func TestBuildCreationPlan_QueryFailure(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	sc := &stubClient{err: errors.New("connection refused")}
	plan, err := NewBuilder(sc).BuildCreationPlan(payer, testInput)
	assert.Nil(t, plan)
	assert.Equal(t, ErrExternalQueryFailed, errors.Cause(err))
	assert.Contains(t, err.Error(), "connection refused")

	// A single attempt, no retries.
	assert.Equal(t, 1, sc.calls)
}

func TestCreationPlanTransaction(t *testing.T) {
	payer, payerPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	plan, err := NewBuilder(&stubClient{rent: 1461600}).BuildCreationPlan(payer, testInput)
	require.NoError(t, err)

	txn := plan.Transaction(payer)
	require.Len(t, txn.Message.Instructions, 6)
	assert.Equal(t, payer, txn.Message.Accounts[0])

	// Both the payer and the fresh mint must sign.
	assert.EqualValues(t, 2, txn.Message.Header.NumSignatures)
	require.NoError(t, txn.Sign(payerPriv, plan.MintPrivateKey))
}
