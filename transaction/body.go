package transaction

import (
	"fmt"

	"github.com/synnergy-labs/cardano-go/cbor"
	"github.com/synnergy-labs/cardano-go/certs"
	"github.com/synnergy-labs/cardano-go/cerrors"
	"github.com/synnergy-labs/cardano-go/crypto"
	"github.com/synnergy-labs/cardano-go/hash"
	"github.com/synnergy-labs/cardano-go/value"
)

func bodyHash(cborBytes []byte) (hash.Hash, error) {
	return hash.New(hash.Size32, crypto.Blake2b256(cborBytes))
}

// Cardano's transaction-body map keys (CDDL `transaction_body`, Conway
// era).
const (
	bodyKeyInputs               = 0
	bodyKeyOutputs              = 1
	bodyKeyFee                  = 2
	bodyKeyTTL                  = 3
	bodyKeyCertificates         = 4
	bodyKeyWithdrawals          = 5
	bodyKeyUpdate               = 6
	bodyKeyAuxiliaryDataHash    = 7
	bodyKeyValidityIntervalStart = 8
	bodyKeyMint                 = 9
	bodyKeyScriptDataHash       = 11
	bodyKeyCollateralInputs     = 13
	bodyKeyRequiredSigners      = 14
	bodyKeyNetworkID            = 15
	bodyKeyCollateralReturn     = 16
	bodyKeyTotalCollateral      = 17
	bodyKeyReferenceInputs      = 18
	bodyKeyVotingProcedures     = 19
	bodyKeyProposalProcedures   = 20
	bodyKeyCurrentTreasuryValue = 21
	bodyKeyDonation             = 22
)

// Withdrawal pairs a reward address (as its raw 29-byte wire form) with
// the coin amount withdrawn from its accrued rewards.
type Withdrawal struct {
	RewardAddress []byte
	Coin          uint64
}

// NetworkID tags which Cardano network a body targets, when the field is
// present.
type NetworkID int

const (
	NetworkTestnet NetworkID = 0
	NetworkMainnet NetworkID = 1
)

// Body is a transaction body: the signed payload whose Blake2b-256 hash
// is the transaction's identity.
type Body struct {
	Inputs  []Input
	Outputs []Output
	Fee     uint64

	TTL                  *uint64
	Certificates         []certs.Certificate
	Withdrawals          []Withdrawal
	Update               []byte // opaque pre-encoded protocol-parameter update, nil when absent
	AuxiliaryDataHash    *hash.Hash
	ValidityIntervalStart *uint64
	Mint                 value.MultiAsset
	ScriptDataHash       *hash.Hash
	CollateralInputs     []Input
	RequiredSigners      []hash.Hash
	NetworkID            *NetworkID
	CollateralReturn     *Output
	TotalCollateral      *uint64
	ReferenceInputs      []Input
	VotingProcedures     *certs.VotingProcedures
	ProposalProcedures   []certs.ProposalProcedure
	CurrentTreasuryValue *uint64
	Donation             *uint64

	// cached holds the exact bytes this body was parsed from. ToCBOR
	// re-emits it verbatim whenever it is set; nothing clears it, so
	// changes to a parsed Body's exported fields do not reach ToCBOR or
	// Hash.
	cached []byte
}

// NewBody builds a minimal body from its three mandatory fields.
func NewBody(inputs []Input, outputs []Output, fee uint64) Body {
	return Body{Inputs: inputs, Outputs: outputs, Fee: fee}
}

// Hash computes the transaction identity: Blake2b-256 of the body's
// canonical CBOR encoding (the cached bytes if present, else a fresh
// encoding)
func (b *Body) Hash() (hash.Hash, error) {
	w := cbor.NewWriter()
	if err := b.ToCBOR(w); err != nil {
		return hash.Hash{}, err
	}
	return bodyHash(w.Bytes())
}

func optionalFieldCount(b Body) int {
	n := 3 // inputs, outputs, fee always present
	for _, present := range []bool{
		b.TTL != nil,
		len(b.Certificates) > 0,
		len(b.Withdrawals) > 0,
		b.Update != nil,
		b.AuxiliaryDataHash != nil,
		b.ValidityIntervalStart != nil,
		len(b.Mint) > 0,
		b.ScriptDataHash != nil,
		len(b.CollateralInputs) > 0,
		len(b.RequiredSigners) > 0,
		b.NetworkID != nil,
		b.CollateralReturn != nil,
		b.TotalCollateral != nil,
		len(b.ReferenceInputs) > 0,
		b.VotingProcedures != nil && len(b.VotingProcedures.Votes) > 0,
		len(b.ProposalProcedures) > 0,
		b.CurrentTreasuryValue != nil,
		b.Donation != nil,
	} {
		if present {
			n++
		}
	}
	return n
}

// ToCBOR emits b's canonical map encoding, or its cached bytes verbatim
// when present (the CBOR-cache policy).
func (b Body) ToCBOR(w *cbor.Writer) error {
	if b.cached != nil {
		return w.WritePreencoded(b.cached)
	}
	if err := w.StartMap(optionalFieldCount(b)); err != nil {
		return err
	}
	if err := w.WriteUint(bodyKeyInputs); err != nil {
		return err
	}
	if err := writeInputSet(w, b.Inputs); err != nil {
		return err
	}
	if err := w.WriteUint(bodyKeyOutputs); err != nil {
		return err
	}
	if err := w.StartArray(len(b.Outputs)); err != nil {
		return err
	}
	for _, o := range b.Outputs {
		if err := o.ToCBOR(w); err != nil {
			return err
		}
	}
	if err := w.EndArray(); err != nil {
		return err
	}
	if err := w.WriteUint(bodyKeyFee); err != nil {
		return err
	}
	if err := w.WriteUint(b.Fee); err != nil {
		return err
	}
	if b.TTL != nil {
		if err := writeUintField(w, bodyKeyTTL, *b.TTL); err != nil {
			return err
		}
	}
	if len(b.Certificates) > 0 {
		if err := w.WriteUint(bodyKeyCertificates); err != nil {
			return err
		}
		if err := w.StartArray(len(b.Certificates)); err != nil {
			return err
		}
		for _, c := range b.Certificates {
			if err := c.ToCBOR(w); err != nil {
				return err
			}
		}
		if err := w.EndArray(); err != nil {
			return err
		}
	}
	if len(b.Withdrawals) > 0 {
		if err := w.WriteUint(bodyKeyWithdrawals); err != nil {
			return err
		}
		if err := w.StartMap(len(b.Withdrawals)); err != nil {
			return err
		}
		for _, wd := range b.Withdrawals {
			if err := w.WriteByteString(wd.RewardAddress); err != nil {
				return err
			}
			if err := w.WriteUint(wd.Coin); err != nil {
				return err
			}
		}
		if err := w.EndMap(); err != nil {
			return err
		}
	}
	if b.Update != nil {
		if err := w.WriteUint(bodyKeyUpdate); err != nil {
			return err
		}
		if err := w.WritePreencoded(b.Update); err != nil {
			return err
		}
	}
	if b.AuxiliaryDataHash != nil {
		if err := w.WriteUint(bodyKeyAuxiliaryDataHash); err != nil {
			return err
		}
		if err := w.WriteByteString(b.AuxiliaryDataHash.Bytes()); err != nil {
			return err
		}
	}
	if b.ValidityIntervalStart != nil {
		if err := writeUintField(w, bodyKeyValidityIntervalStart, *b.ValidityIntervalStart); err != nil {
			return err
		}
	}
	if len(b.Mint) > 0 {
		if err := w.WriteUint(bodyKeyMint); err != nil {
			return err
		}
		if err := value.WriteMultiAsset(w, b.Mint); err != nil {
			return err
		}
	}
	if b.ScriptDataHash != nil {
		if err := w.WriteUint(bodyKeyScriptDataHash); err != nil {
			return err
		}
		if err := w.WriteByteString(b.ScriptDataHash.Bytes()); err != nil {
			return err
		}
	}
	if len(b.CollateralInputs) > 0 {
		if err := w.WriteUint(bodyKeyCollateralInputs); err != nil {
			return err
		}
		if err := writeInputSet(w, b.CollateralInputs); err != nil {
			return err
		}
	}
	if len(b.RequiredSigners) > 0 {
		if err := w.WriteUint(bodyKeyRequiredSigners); err != nil {
			return err
		}
		if err := w.WriteTag(cbor.TagSet); err != nil {
			return err
		}
		if err := w.StartArray(len(b.RequiredSigners)); err != nil {
			return err
		}
		for _, h := range b.RequiredSigners {
			if err := w.WriteByteString(h.Bytes()); err != nil {
				return err
			}
		}
		if err := w.EndArray(); err != nil {
			return err
		}
	}
	if b.NetworkID != nil {
		if err := writeUintField(w, bodyKeyNetworkID, uint64(*b.NetworkID)); err != nil {
			return err
		}
	}
	if b.CollateralReturn != nil {
		if err := w.WriteUint(bodyKeyCollateralReturn); err != nil {
			return err
		}
		if err := b.CollateralReturn.ToCBOR(w); err != nil {
			return err
		}
	}
	if b.TotalCollateral != nil {
		if err := writeUintField(w, bodyKeyTotalCollateral, *b.TotalCollateral); err != nil {
			return err
		}
	}
	if len(b.ReferenceInputs) > 0 {
		if err := w.WriteUint(bodyKeyReferenceInputs); err != nil {
			return err
		}
		if err := writeInputSet(w, b.ReferenceInputs); err != nil {
			return err
		}
	}
	if b.VotingProcedures != nil && len(b.VotingProcedures.Votes) > 0 {
		if err := w.WriteUint(bodyKeyVotingProcedures); err != nil {
			return err
		}
		if err := b.VotingProcedures.ToCBOR(w); err != nil {
			return err
		}
	}
	if len(b.ProposalProcedures) > 0 {
		if err := w.WriteUint(bodyKeyProposalProcedures); err != nil {
			return err
		}
		if err := certs.WriteProposalProcedures(w, b.ProposalProcedures); err != nil {
			return err
		}
	}
	if b.CurrentTreasuryValue != nil {
		if err := writeUintField(w, bodyKeyCurrentTreasuryValue, *b.CurrentTreasuryValue); err != nil {
			return err
		}
	}
	if b.Donation != nil {
		if err := writeUintField(w, bodyKeyDonation, *b.Donation); err != nil {
			return err
		}
	}
	return w.EndMap()
}

func writeUintField(w *cbor.Writer, key int, v uint64) error {
	if err := w.WriteUint(uint64(key)); err != nil {
		return err
	}
	return w.WriteUint(v)
}

// BodyFromCBOR parses the encoding produced by ToCBOR and caches the
// consumed bytes so a subsequent unmutated ToCBOR re-emits them verbatim.
func BodyFromCBOR(r *cbor.Reader) (Body, error) {
	start := r.Mark()
	n, err := r.StartMap()
	if err != nil {
		return Body{}, err
	}
	var b Body
	for i := 0; i < n; i++ {
		key, err := r.ReadUint()
		if err != nil {
			return Body{}, err
		}
		if err := readBodyField(r, &b, key); err != nil {
			return Body{}, err
		}
	}
	if err := r.EndMap(); err != nil {
		return Body{}, err
	}
	b.cached = r.Since(start)
	return b, nil
}

func readBodyField(r *cbor.Reader, b *Body, key uint64) error {
	switch key {
	case bodyKeyInputs:
		inputs, err := readInputSet(r)
		if err != nil {
			return err
		}
		b.Inputs = inputs
	case bodyKeyOutputs:
		n, err := r.StartArray()
		if err != nil {
			return err
		}
		b.Outputs = make([]Output, 0, n)
		for i := 0; i < n; i++ {
			o, err := OutputFromCBOR(r)
			if err != nil {
				return err
			}
			b.Outputs = append(b.Outputs, o)
		}
		return r.EndArray()
	case bodyKeyFee:
		fee, err := r.ReadUint()
		if err != nil {
			return err
		}
		b.Fee = fee
	case bodyKeyTTL:
		v, err := r.ReadUint()
		if err != nil {
			return err
		}
		b.TTL = &v
	case bodyKeyCertificates:
		n, err := r.StartArray()
		if err != nil {
			return err
		}
		b.Certificates = make([]certs.Certificate, 0, n)
		for i := 0; i < n; i++ {
			c, err := certs.FromCBOR(r)
			if err != nil {
				return err
			}
			b.Certificates = append(b.Certificates, c)
		}
		return r.EndArray()
	case bodyKeyWithdrawals:
		n, err := r.StartMap()
		if err != nil {
			return err
		}
		b.Withdrawals = make([]Withdrawal, 0, n)
		for i := 0; i < n; i++ {
			addr, err := r.ReadByteString()
			if err != nil {
				return err
			}
			coin, err := r.ReadUint()
			if err != nil {
				return err
			}
			b.Withdrawals = append(b.Withdrawals, Withdrawal{RewardAddress: addr, Coin: coin})
		}
		return r.EndMap()
	case bodyKeyUpdate:
		raw, err := readPreencodedItem(r)
		if err != nil {
			return err
		}
		b.Update = raw
	case bodyKeyAuxiliaryDataHash:
		raw, err := r.ReadByteString()
		if err != nil {
			return err
		}
		h, err := hash.New(hash.Size32, raw)
		if err != nil {
			return err
		}
		b.AuxiliaryDataHash = &h
	case bodyKeyValidityIntervalStart:
		v, err := r.ReadUint()
		if err != nil {
			return err
		}
		b.ValidityIntervalStart = &v
	case bodyKeyMint:
		m, err := value.ReadMultiAsset(r)
		if err != nil {
			return err
		}
		b.Mint = m
	case bodyKeyScriptDataHash:
		raw, err := r.ReadByteString()
		if err != nil {
			return err
		}
		h, err := hash.New(hash.Size32, raw)
		if err != nil {
			return err
		}
		b.ScriptDataHash = &h
	case bodyKeyCollateralInputs:
		inputs, err := readInputSet(r)
		if err != nil {
			return err
		}
		b.CollateralInputs = inputs
	case bodyKeyRequiredSigners:
		state, err := r.PeekState()
		if err != nil {
			return err
		}
		if state == cbor.StateTag {
			if _, err := r.ReadTag(); err != nil {
				return err
			}
		}
		n, err := r.StartArray()
		if err != nil {
			return err
		}
		b.RequiredSigners = make([]hash.Hash, 0, n)
		for i := 0; i < n; i++ {
			raw, err := r.ReadByteString()
			if err != nil {
				return err
			}
			h, err := hash.New(hash.Size28, raw)
			if err != nil {
				return err
			}
			b.RequiredSigners = append(b.RequiredSigners, h)
		}
		return r.EndArray()
	case bodyKeyNetworkID:
		v, err := r.ReadUint()
		if err != nil {
			return err
		}
		nid := NetworkID(v)
		b.NetworkID = &nid
	case bodyKeyCollateralReturn:
		o, err := OutputFromCBOR(r)
		if err != nil {
			return err
		}
		b.CollateralReturn = &o
	case bodyKeyTotalCollateral:
		v, err := r.ReadUint()
		if err != nil {
			return err
		}
		b.TotalCollateral = &v
	case bodyKeyReferenceInputs:
		inputs, err := readInputSet(r)
		if err != nil {
			return err
		}
		b.ReferenceInputs = inputs
	case bodyKeyVotingProcedures:
		vp, err := certs.VotingProceduresFromCBOR(r)
		if err != nil {
			return err
		}
		b.VotingProcedures = &vp
	case bodyKeyProposalProcedures:
		procs, err := certs.ProposalProceduresFromCBOR(r)
		if err != nil {
			return err
		}
		b.ProposalProcedures = procs
	case bodyKeyCurrentTreasuryValue:
		v, err := r.ReadUint()
		if err != nil {
			return err
		}
		b.CurrentTreasuryValue = &v
	case bodyKeyDonation:
		v, err := r.ReadUint()
		if err != nil {
			return err
		}
		b.Donation = &v
	default:
		return fmt.Errorf("transaction: unknown transaction body map key %d: %w", key, cerrors.ErrInvalidCBOR)
	}
	return nil
}

func readPreencodedItem(r *cbor.Reader) ([]byte, error) {
	start := r.Mark()
	if err := r.SkipValue(); err != nil {
		return nil, err
	}
	return r.Since(start), nil
}
