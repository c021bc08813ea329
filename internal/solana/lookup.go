package solana

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// metaplexProgramID is the Metaplex Token Metadata program.
const metaplexProgramID = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"

// TokenMetadata is the result of an on-chain token lookup.
type TokenMetadata struct {
	Mint     string
	Name     string
	Symbol   string
	Decimals int
	Supply   float64
}

// MetadataLookup fetches token metadata and decimals from chain.
type MetadataLookup struct {
	rpc RPCClient
}

// NewMetadataLookup creates a lookup backed by the given RPC client.
func NewMetadataLookup(rpc RPCClient) *MetadataLookup {
	return &MetadataLookup{rpc: rpc}
}

// Lookup fetches decimals/supply from the mint account and name/symbol
// from the Metaplex metadata PDA. Name and symbol are best-effort: a
// missing metadata account leaves them empty without error.
func (l *MetadataLookup) Lookup(ctx context.Context, mint string) (*TokenMetadata, error) {
	meta := &TokenMetadata{Mint: mint}

	info, err := l.rpc.GetAccountInfo(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("get mint account %s: %w", mint, err)
	}
	if info == nil {
		return nil, fmt.Errorf("mint account %s not found", mint)
	}
	if err := parseMintAccount(info.Data, meta); err != nil {
		return nil, fmt.Errorf("parse mint account %s: %w", mint, err)
	}

	pda := deriveMetadataPDA(mint)
	if pda == "" {
		return meta, nil
	}
	metaInfo, err := l.rpc.GetAccountInfo(ctx, pda)
	if err != nil || metaInfo == nil {
		return meta, nil
	}
	parseMetaplexData(metaInfo.Data, meta)
	return meta, nil
}

// parseMintAccount decodes an SPL mint account layout.
// supply at offset 36 (after the mintAuthority option), decimals at 44.
func parseMintAccount(data string, meta *TokenMetadata) error {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("decode account data: %w", err)
	}
	if len(decoded) < 82 {
		return fmt.Errorf("mint data too short: %d", len(decoded))
	}

	supply := binary.LittleEndian.Uint64(decoded[36:44])
	decimals := int(decoded[44])

	meta.Decimals = decimals
	divisor := 1.0
	for i := 0; i < decimals; i++ {
		divisor *= 10
	}
	meta.Supply = float64(supply) / divisor
	return nil
}

// parseMetaplexData parses a Metaplex Token Metadata account.
// Layout: key(1) + updateAuthority(32) + mint(32) + name + symbol + uri,
// where strings are borsh-encoded (4-byte LE length + data).
func parseMetaplexData(data string, meta *TokenMetadata) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return
	}
	if len(decoded) < 100 {
		return
	}
	if decoded[0] != 4 { // MetadataV1 key
		return
	}

	offset := 65 // key(1) + updateAuthority(32) + mint(32)

	if offset+4 > len(decoded) {
		return
	}
	nameLen := binary.LittleEndian.Uint32(decoded[offset:])
	offset += 4
	if nameLen > 100 || offset+int(nameLen) > len(decoded) {
		return
	}
	meta.Name = strings.TrimRight(string(decoded[offset:offset+int(nameLen)]), "\x00")
	offset += int(nameLen)

	if offset+4 > len(decoded) {
		return
	}
	symbolLen := binary.LittleEndian.Uint32(decoded[offset:])
	offset += 4
	if symbolLen > 20 || offset+int(symbolLen) > len(decoded) {
		return
	}
	meta.Symbol = strings.TrimRight(string(decoded[offset:offset+int(symbolLen)]), "\x00")
}

// deriveMetadataPDA derives the Metaplex metadata PDA for a given mint.
// Seeds: ["metadata", metaplex_program_id, mint].
func deriveMetadataPDA(mint string) string {
	mintBytes, err := base58.Decode(mint)
	if err != nil {
		return ""
	}
	programBytes, err := base58.Decode(metaplexProgramID)
	if err != nil {
		return ""
	}
	if len(mintBytes) != 32 || len(programBytes) != 32 {
		return ""
	}

	seeds := [][]byte{
		[]byte("metadata"),
		programBytes,
		mintBytes,
	}
	return derivePDA(seeds, programBytes)
}

// derivePDA derives a Program Derived Address: sha256 over seeds + bump +
// program id + marker, searching for the first bump whose hash is off the
// ed25519 curve.
func derivePDA(seeds [][]byte, programID []byte) string {
	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0, 128)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programID...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)
		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:])
		}
	}
	return ""
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// IsValidMint reports whether s decodes to a 32-byte base58 public key.
func IsValidMint(s string) bool {
	decoded, err := base58.Decode(s)
	return err == nil && len(decoded) == 32
}
