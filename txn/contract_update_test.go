package txn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hashnet.dev/sdk/errs"
	"hashnet.dev/sdk/ident"
	"hashnet.dev/sdk/keys"
	"hashnet.dev/sdk/wire"
)

func TestContractUpdateRequiresContractID(t *testing.T) {
	tx := NewContractUpdateTransaction()
	tx.SetPayer(testPayer)
	tx.SetNodeAccountIDs(testNodes)
	err := tx.Freeze()
	require.Error(t, err)
	require.True(t, errs.IsKind(err, errs.KindConstruction))
}

func TestContractUpdateEncodesOnlySetFields(t *testing.T) {
	contract := ident.ContractID{Num: 600}

	bare := NewContractUpdateTransaction().SetContractID(contract)
	_, bareData, err := bare.data.BodyData()
	require.NoError(t, err)

	key, err := keys.GenerateEd25519(nil)
	require.NoError(t, err)
	full := NewContractUpdateTransaction().
		SetContractID(contract).
		SetAdminKey(key.PublicKey()).
		SetExpirationTime(time.Unix(2_000_000_000, 0)).
		SetAutoRenewPeriod(90 * 24 * time.Hour).
		SetAutoRenewAccountID(ident.AccountIDFromNum(1001)).
		SetContractMemo("updated")
	kind, fullData, err := full.data.BodyData()
	require.NoError(t, err)
	require.Equal(t, wire.DataKindContractUpdate, kind)
	require.Greater(t, len(fullData), len(bareData))

	// The bare form is the contract id followed by five absent markers.
	d := wire.NewDecoder(bareData)
	d.Uint()
	d.Uint()
	require.Equal(t, uint64(600), d.Uint())
	for i := 0; i < 5; i++ {
		require.False(t, d.Bool())
	}
	require.NoError(t, d.Finish())
}

func TestContractUpdateValidation(t *testing.T) {
	tx := NewContractUpdateTransaction().SetAutoRenewPeriod(-time.Hour)
	require.Error(t, tx.Err())

	tx = NewContractUpdateTransaction().SetContractMemo(string(make([]byte, MaxMemoLength+1)))
	require.Error(t, tx.Err())
}
