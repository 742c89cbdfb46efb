package nft

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lazorkit/nft-server/pkg/solana"
	"github.com/lazorkit/nft-server/pkg/solana/metadata"
	"github.com/lazorkit/nft-server/pkg/solana/system"
	"github.com/lazorkit/nft-server/pkg/solana/token"
)

// Builder constructs creation plans against a cluster. The only network
// call made while planning is the rent exemption query; everything else is
// pure derivation, so concurrent use from multiple goroutines is safe.
type Builder struct {
	log *logrus.Entry
	sc  solana.Client

	immutable bool
	maxSupply uint64
}

type BuilderOption func(*Builder)

// WithImmutableMetadata makes planned metadata accounts immutable after
// creation. The default is mutable, matching the update authority retaining
// control.
func WithImmutableMetadata() BuilderOption {
	return func(b *Builder) {
		b.immutable = true
	}
}

// WithMaxSupply allows up to maxSupply print editions of planned NFTs. The
// default of zero disallows prints, making each NFT one of one.
func WithMaxSupply(maxSupply uint64) BuilderOption {
	return func(b *Builder) {
		b.maxSupply = maxSupply
	}
}

func NewBuilder(sc solana.Client, opts ...BuilderOption) *Builder {
	b := &Builder{
		log: logrus.StandardLogger().WithField("type", "nft/builder"),
		sc:  sc,
	}

	for _, o := range opts {
		o(b)
	}

	return b
}

// BuildCreationPlan derives a complete mint sequence for a new NFT owned
// and paid for by payer. A fresh mint keypair is generated per call; two
// calls never share state.
//
// The instruction order is fixed: create the mint account, initialize the
// mint, create the payer's associated token account, mint the single token,
// create the metadata account, create the master edition. The master
// edition instruction transfers the mint and freeze authorities to the
// edition PDA, so it must come after the mint-to.
func (b *Builder) BuildCreationPlan(payer ed25519.PublicKey, meta MetadataInput) (*CreationPlan, error) {
	if err := meta.Validate(); err != nil {
		return nil, err
	}

	mintPub, mintPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate mint keypair")
	}

	rent, err := b.sc.GetMinimumBalanceForRentExemption(token.MintSize)
	if err != nil {
		return nil, errors.Wrapf(ErrExternalQueryFailed, "getting minimum balance for %d bytes: %v", token.MintSize, err)
	}

	metadataAccount, err := metadata.GetMetadataAddress(mintPub)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive metadata address")
	}
	masterEdition, err := metadata.GetMasterEditionAddress(mintPub)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive master edition address")
	}

	createHolding, holding, err := token.CreateAssociatedTokenAccount(payer, payer, mintPub)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive holding account")
	}

	plan := &CreationPlan{
		Mint:                 mintPub,
		MintPrivateKey:       mintPriv,
		HoldingAccount:       holding,
		MetadataAccount:      metadataAccount,
		MasterEditionAccount: masterEdition,
		Instructions: []solana.Instruction{
			system.CreateAccount(payer, mintPub, token.ProgramKey, rent, token.MintSize),
			token.InitializeMint(mintPub, payer, payer, 0),
			createHolding,
			token.MintTo(mintPub, holding, payer, 1),
			metadata.CreateMetadataAccountV3(
				metadataAccount,
				mintPub,
				payer,
				payer,
				payer,
				metadata.Data{
					Name:                 meta.Name,
					Symbol:               meta.Symbol,
					URI:                  meta.URI,
					SellerFeeBasisPoints: meta.RoyaltyBps,
				},
				!b.immutable,
			),
			metadata.CreateMasterEditionV3(
				masterEdition,
				mintPub,
				payer,
				payer,
				payer,
				metadataAccount,
				b.maxSupply,
			),
		},
	}

	b.log.WithFields(logrus.Fields{
		"method": "BuildCreationPlan",
		"mint":   base58.Encode(mintPub),
	}).Debug("built creation plan")

	return plan, nil
}
