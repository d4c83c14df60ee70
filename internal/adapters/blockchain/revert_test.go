package blockchain

import (
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upcade/vaultctl/internal/domain"
)

const accessControlABI = `[
	{"type":"function","name":"grantRole","stateMutability":"nonpayable",
	 "inputs":[{"name":"role","type":"bytes32"},{"name":"account","type":"address"}],"outputs":[]},
	{"type":"function","name":"MANAGER_ROLE","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"error","name":"AccessControlUnauthorizedAccount",
	 "inputs":[{"name":"account","type":"address"},{"name":"neededRole","type":"bytes32"}]}
]`

func parseABI(t *testing.T, raw string) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(raw))
	require.NoError(t, err)
	return &parsed
}

func errorStringData(t *testing.T, reason string) string {
	t.Helper()
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	selector := crypto.Keccak256([]byte("Error(string)"))[:4]
	return hexutil.Encode(append(selector, packed...))
}

func unauthorizedData(t *testing.T, contractABI *abi.ABI, account common.Address, role [32]byte) string {
	t.Helper()
	abiErr := contractABI.Errors["AccessControlUnauthorizedAccount"]
	packed, err := abiErr.Inputs.Pack(account, role)
	require.NoError(t, err)
	return hexutil.Encode(append(append([]byte{}, abiErr.ID[:4]...), packed...))
}

type dataError struct {
	msg  string
	data interface{}
}

func (e *dataError) Error() string          { return e.msg }
func (e *dataError) ErrorData() interface{} { return e.data }

func TestDecodeRevert(t *testing.T) {
	contractABI := parseABI(t, accessControlABI)
	account := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	role := [32]byte{0xaa}

	tests := []struct {
		name string
		data interface{}
		want string
	}{
		{
			name: "error string",
			data: errorStringData(t, "Initializable: already initialized"),
			want: "Initializable: already initialized",
		},
		{
			name: "custom error",
			data: unauthorizedData(t, contractABI, account, role),
			want: "AccessControlUnauthorizedAccount(0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266, " + hexutil.Encode(role[:]) + ")",
		},
		{
			name: "unknown selector",
			data: "0xdeadbeef",
			want: "custom error 0xdeadbeef",
		},
		{name: "too short", data: "0x01", want: ""},
		{name: "not hex", data: "oops", want: ""},
		{name: "unsupported type", data: 42, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeRevert(tt.data, contractABI))
		})
	}
}

func TestWrapRevert(t *testing.T) {
	contractABI := parseABI(t, accessControlABI)

	t.Run("data error", func(t *testing.T) {
		err := wrapRevert("grantRole", &dataError{msg: "execution reverted", data: errorStringData(t, "denied")}, contractABI)

		var revert *domain.TransactionRevertError
		require.ErrorAs(t, err, &revert)
		assert.Equal(t, "grantRole", revert.Method)
		assert.Equal(t, "denied", revert.Reason)
	})

	t.Run("message only", func(t *testing.T) {
		err := wrapRevert("grantRole", errors.New("execution reverted: nope"), contractABI)

		var revert *domain.TransactionRevertError
		require.ErrorAs(t, err, &revert)
		assert.Equal(t, "execution reverted: nope", revert.Reason)
	})

	t.Run("transport error", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := wrapRevert("grantRole", cause, contractABI)

		var revert *domain.TransactionRevertError
		assert.False(t, errors.As(err, &revert))
		assert.ErrorIs(t, err, cause)
	})
}
