// Package metadata provides instruction builders for the Metaplex token
// metadata program, covering the subset needed to mint NFTs: creating the
// metadata account and the master edition account for a mint.
package metadata

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"

	"github.com/lazorkit/nft-server/pkg/solana"
	"github.com/lazorkit/nft-server/pkg/solana/binary"
	"github.com/lazorkit/nft-server/pkg/solana/system"
	"github.com/lazorkit/nft-server/pkg/solana/token"
)

// ProgramKey is the address of the Metaplex token metadata program.
//
// Current key: metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s
var ProgramKey = ed25519.PublicKey(mustBase58Decode("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"))

type Command byte

// Single byte discriminators of the token metadata program instructions
// this package compiles.
//
// Reference: https://github.com/metaplex-foundation/mpl-token-metadata/blob/23aee718e723578ee5df411f045184e0ac9a9e63/programs/token-metadata/program/src/instruction/mod.rs#L53
const (
	CommandCreateMasterEditionV3   Command = 17
	CommandCreateMetadataAccountV3 Command = 33

	CommandUnknown = Command(math.MaxUint8)
)

const (
	// Maximum encodable lengths of the metadata string fields, measured in
	// UTF-8 bytes.
	//
	// Reference: https://github.com/metaplex-foundation/mpl-token-metadata/blob/23aee718e723578ee5df411f045184e0ac9a9e63/programs/token-metadata/program/src/state/data.rs#L14-L18
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200

	// Royalties are expressed in basis points of the sale price.
	MaxSellerFeeBasisPoints = 10000
)

func GetCommand(m solana.Message, index int) (Command, error) {
	if index >= len(m.Instructions) {
		return CommandUnknown, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 {
		return CommandUnknown, errors.New("metadata instruction missing data")
	}

	return Command(i.Data[0]), nil
}

// Data is the on-chain metadata content provided when creating a metadata
// account. Creators, collection and uses are always encoded as absent.
type Data struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
}

func (d *Data) encodedSize() int {
	return binary.StringSize(d.Name) +
		binary.StringSize(d.Symbol) +
		binary.StringSize(d.URI) +
		2 + // seller fee basis points
		1 + // creators option
		1 + // collection option
		1 // uses option
}

func (d *Data) encode(dst []byte, offset *int) {
	_ = binary.PutString(dst[*offset:], d.Name, offset)
	_ = binary.PutString(dst[*offset:], d.Symbol, offset)
	_ = binary.PutString(dst[*offset:], d.URI, offset)
	binary.PutUint16(dst[*offset:], d.SellerFeeBasisPoints, offset)
	*offset += 3 // creators, collection, uses: all None
}

// CreateMetadataAccountV3 creates the metadata account for a mint.
//
// Reference: https://github.com/metaplex-foundation/mpl-token-metadata/blob/23aee718e723578ee5df411f045184e0ac9a9e63/programs/token-metadata/program/src/instruction/metadata.rs#L24
func CreateMetadataAccountV3(
	metadataAccount, mint, mintAuthority, payer, updateAuthority ed25519.PublicKey,
	data Data,
	isMutable bool,
) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` Metadata key (pda of ['metadata', program id, mint id])
	//   1. `[]` Mint of token asset
	//   2. `[signer]` Mint authority
	//   3. `[signer, writable]` payer
	//   4. `[]` update authority info
	//   5. `[]` System program
	//   6. `[]` Rent sysvar
	buf := make([]byte, 1+data.encodedSize()+1+1)

	var offset int
	buf[offset] = byte(CommandCreateMetadataAccountV3)
	offset++
	data.encode(buf, &offset)
	if isMutable {
		buf[offset] = 1
	}
	offset++
	buf[offset] = 0 // collection details: None

	return solana.NewInstruction(
		ProgramKey,
		buf,
		solana.NewAccountMeta(metadataAccount, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(mintAuthority, true),
		solana.NewAccountMeta(payer, true),
		solana.NewReadonlyAccountMeta(updateAuthority, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

type DecompiledCreateMetadataAccountV3 struct {
	MetadataAccount ed25519.PublicKey
	Mint            ed25519.PublicKey
	MintAuthority   ed25519.PublicKey
	Payer           ed25519.PublicKey
	UpdateAuthority ed25519.PublicKey
	Data            Data
	IsMutable       bool
}

func DecompileCreateMetadataAccountV3(m solana.Message, index int) (*DecompiledCreateMetadataAccountV3, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if !bytes.HasPrefix(i.Data, []byte{byte(CommandCreateMetadataAccountV3)}) {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Accounts) != 7 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if !bytes.Equal(m.Accounts[i.Accounts[5]], system.ProgramKey[:]) {
		return nil, errors.Errorf("system program key mismatch")
	}
	if !bytes.Equal(m.Accounts[i.Accounts[6]], system.RentSysVar) {
		return nil, errors.Errorf("rent sysvar mismatch")
	}

	decompiled := &DecompiledCreateMetadataAccountV3{
		MetadataAccount: m.Accounts[i.Accounts[0]],
		Mint:            m.Accounts[i.Accounts[1]],
		MintAuthority:   m.Accounts[i.Accounts[2]],
		Payer:           m.Accounts[i.Accounts[3]],
		UpdateAuthority: m.Accounts[i.Accounts[4]],
	}

	offset := 1
	if err := binary.GetString(i.Data[offset:], &decompiled.Data.Name, &offset); err != nil {
		return nil, errors.Wrap(err, "invalid name field")
	}
	if err := binary.GetString(i.Data[offset:], &decompiled.Data.Symbol, &offset); err != nil {
		return nil, errors.Wrap(err, "invalid symbol field")
	}
	if err := binary.GetString(i.Data[offset:], &decompiled.Data.URI, &offset); err != nil {
		return nil, errors.Wrap(err, "invalid uri field")
	}
	if len(i.Data) != offset+2+3+1+1 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	binary.GetUint16(i.Data[offset:], &decompiled.Data.SellerFeeBasisPoints, &offset)
	offset += 3 // creators, collection, uses
	decompiled.IsMutable = i.Data[offset] == 1

	return decompiled, nil
}

// CreateMasterEditionV3 creates the master edition account for a mint,
// marking it as a non-fungible token. A max supply of zero disallows any
// print editions, making the token one of one.
//
// Reference: https://github.com/metaplex-foundation/mpl-token-metadata/blob/23aee718e723578ee5df411f045184e0ac9a9e63/programs/token-metadata/program/src/instruction/edition.rs#L21
func CreateMasterEditionV3(
	edition, mint, updateAuthority, mintAuthority, payer, metadataAccount ed25519.PublicKey,
	maxSupply uint64,
) solana.Instruction {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` Unallocated edition V2 account with address as pda of ['metadata', program id, mint, 'edition']
	//   1. `[writable]` Metadata mint
	//   2. `[signer]` Update authority
	//   3. `[signer]` Mint authority on the metadata's mint
	//   4. `[signer, writable]` payer
	//   5. `[writable]` Metadata account
	//   6. `[]` Token program
	//   7. `[]` System program
	//   8. `[]` Rent sysvar
	buf := make([]byte, 1+1+8)

	var offset int
	buf[offset] = byte(CommandCreateMasterEditionV3)
	offset++
	buf[offset] = 1 // max supply: Some
	offset++
	binary.PutUint64(buf[offset:], maxSupply, &offset)

	return solana.NewInstruction(
		ProgramKey,
		buf,
		solana.NewAccountMeta(edition, false),
		solana.NewAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(updateAuthority, true),
		solana.NewReadonlyAccountMeta(mintAuthority, true),
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(metadataAccount, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	)
}

type DecompiledCreateMasterEditionV3 struct {
	Edition         ed25519.PublicKey
	Mint            ed25519.PublicKey
	UpdateAuthority ed25519.PublicKey
	MintAuthority   ed25519.PublicKey
	Payer           ed25519.PublicKey
	MetadataAccount ed25519.PublicKey
	MaxSupply       uint64
}

func DecompileCreateMasterEditionV3(m solana.Message, index int) (*DecompiledCreateMasterEditionV3, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if !bytes.HasPrefix(i.Data, []byte{byte(CommandCreateMasterEditionV3)}) {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Accounts) != 9 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if !bytes.Equal(m.Accounts[i.Accounts[6]], token.ProgramKey) {
		return nil, errors.Errorf("token program key mismatch")
	}
	if !bytes.Equal(m.Accounts[i.Accounts[7]], system.ProgramKey[:]) {
		return nil, errors.Errorf("system program key mismatch")
	}
	if !bytes.Equal(m.Accounts[i.Accounts[8]], system.RentSysVar) {
		return nil, errors.Errorf("rent sysvar mismatch")
	}
	if len(i.Data) != 10 || i.Data[1] != 1 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	decompiled := &DecompiledCreateMasterEditionV3{
		Edition:         m.Accounts[i.Accounts[0]],
		Mint:            m.Accounts[i.Accounts[1]],
		UpdateAuthority: m.Accounts[i.Accounts[2]],
		MintAuthority:   m.Accounts[i.Accounts[3]],
		Payer:           m.Accounts[i.Accounts[4]],
		MetadataAccount: m.Accounts[i.Accounts[5]],
	}

	offset := 2
	binary.GetUint64(i.Data[offset:], &decompiled.MaxSupply, &offset)
	return decompiled, nil
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
