// Package keyhandler implements the abstract signing custodian: software
// Ed25519/BIP-32 key stores (optionally EMIP-003-encrypted at rest) and a
// null/test handler, all behind the KeyHandler interface.
package keyhandler

import "github.com/synnergy-labs/cardano-go/crypto"

// Role is the CIP-1852 chain-role level (the fourth path component).
type Role uint32

const (
	RoleExternal Role = 0
	RoleInternal Role = 1
	RoleStaking  Role = 2
)

// CIP-1852 fixes the purpose and coin-type levels for any Cardano
// derivation path.
const (
	Purpose1852 uint32 = 1852
	CoinTypeADA uint32 = 1815
)

// DerivationPath is a CIP-1852 path: m / purpose' / coin_type' / account' /
// role / index. Purpose and coin type are pinned to Cardano's registered
// values rather than carried as free integers, per original_source's
// cip_1852_constants.h / account_derivation_path.h / derivation_path.h.
type DerivationPath struct {
	Account uint32
	Role     Role
	Index    uint32
}

// NewDerivationPath builds a path for the given hardened account and the
// external/internal/staking role at index.
func NewDerivationPath(account uint32, role Role, index uint32) DerivationPath {
	return DerivationPath{Account: account, Role: role, Index: index}
}

// indices returns the five path levels in derivation order, with purpose,
// coin type, and account hardened per CIP-1852 (role and index are soft).
func (p DerivationPath) indices() [5]uint32 {
	return [5]uint32{
		Purpose1852 | crypto.HardenedOffset,
		CoinTypeADA | crypto.HardenedOffset,
		p.Account | crypto.HardenedOffset,
		uint32(p.Role),
		p.Index,
	}
}
