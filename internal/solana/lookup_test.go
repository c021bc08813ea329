package solana

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

const wsolMint = "So11111111111111111111111111111111111111112"

// fakeRPC returns canned account infos by pubkey.
type fakeRPC struct {
	accounts map[string]*AccountInfo
}

func (f *fakeRPC) GetAccountInfo(_ context.Context, pubkey string) (*AccountInfo, error) {
	return f.accounts[pubkey], nil
}

func (f *fakeRPC) GetTokenAccountBalance(_ context.Context, _ string) (*TokenAmount, error) {
	return nil, nil
}

func (f *fakeRPC) GetTransaction(_ context.Context, _ string) (*Transaction, error) {
	return nil, nil
}

func mintAccountData(supply uint64, decimals byte) string {
	buf := make([]byte, 82)
	binary.LittleEndian.PutUint64(buf[36:44], supply)
	buf[44] = decimals
	return base64.StdEncoding.EncodeToString(buf)
}

func TestParseMintAccount(t *testing.T) {
	meta := &TokenMetadata{}
	err := parseMintAccount(mintAccountData(1_000_000_000, 6), meta)
	require.NoError(t, err)
	require.Equal(t, 6, meta.Decimals)
	require.InDelta(t, 1000.0, meta.Supply, 1e-9)
}

func TestParseMintAccount_TooShort(t *testing.T) {
	meta := &TokenMetadata{}
	short := base64.StdEncoding.EncodeToString(make([]byte, 10))
	require.Error(t, parseMintAccount(short, meta))
}

func TestLookup_DecimalsWithoutMetadataAccount(t *testing.T) {
	rpc := &fakeRPC{accounts: map[string]*AccountInfo{
		wsolMint: {Data: mintAccountData(500, 9)},
	}}
	lookup := NewMetadataLookup(rpc)

	meta, err := lookup.Lookup(context.Background(), wsolMint)
	require.NoError(t, err)
	require.Equal(t, 9, meta.Decimals)
	// No metadata PDA account: name/symbol stay empty, no error.
	require.Empty(t, meta.Name)
	require.Empty(t, meta.Symbol)
}

func TestLookup_MintNotFound(t *testing.T) {
	lookup := NewMetadataLookup(&fakeRPC{accounts: map[string]*AccountInfo{}})
	_, err := lookup.Lookup(context.Background(), wsolMint)
	require.Error(t, err)
}

func TestDeriveMetadataPDA(t *testing.T) {
	pda := deriveMetadataPDA(wsolMint)
	require.NotEmpty(t, pda)
	require.True(t, IsValidMint(pda), "PDA must be a 32-byte base58 key")
}

func TestIsValidMint(t *testing.T) {
	require.True(t, IsValidMint(wsolMint))
	require.False(t, IsValidMint("not-a-mint"))
	require.False(t, IsValidMint(""))
}
