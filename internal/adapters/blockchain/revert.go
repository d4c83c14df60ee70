package blockchain

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/upcade/vaultctl/internal/domain"
)

// wrapRevert turns a node error into a TransactionRevertError when it
// carries revert data, decoding it against the contract ABI.
func wrapRevert(method string, err error, contractABI *abi.ABI) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason := decodeRevert(dataErr.ErrorData(), contractABI); reason != "" {
			return &domain.TransactionRevertError{Method: method, Reason: reason, Err: err}
		}
	}
	if strings.Contains(err.Error(), "revert") {
		return &domain.TransactionRevertError{Method: method, Reason: err.Error(), Err: err}
	}
	return fmt.Errorf("%s: %w", method, err)
}

// decodeRevert renders revert data as Error(string), Panic(uint256) or one of
// the ABI's custom errors. Unknown selectors are shown raw.
func decodeRevert(data interface{}, contractABI *abi.ABI) string {
	var raw []byte
	switch v := data.(type) {
	case string:
		decoded, err := hexutil.Decode(v)
		if err != nil {
			return ""
		}
		raw = decoded
	case []byte:
		raw = v
	default:
		return ""
	}
	if len(raw) < 4 {
		return ""
	}

	if reason, err := abi.UnpackRevert(raw); err == nil {
		return reason
	}

	if contractABI != nil {
		names := make([]string, 0, len(contractABI.Errors))
		for name := range contractABI.Errors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			abiErr := contractABI.Errors[name]
			if !bytes.Equal(abiErr.ID[:4], raw[:4]) {
				continue
			}
			values, err := abiErr.Unpack(raw)
			if err != nil {
				return name
			}
			return name + "(" + formatValues(values) + ")"
		}
	}
	return "custom error " + hexutil.Encode(raw[:4])
}

func formatValues(values interface{}) string {
	list, ok := values.([]interface{})
	if !ok {
		return fmt.Sprint(values)
	}
	parts := make([]string, len(list))
	for i, v := range list {
		switch val := v.(type) {
		case common.Address:
			parts[i] = val.Hex()
		case [32]byte:
			parts[i] = hexutil.Encode(val[:])
		case []byte:
			parts[i] = hexutil.Encode(val)
		case *big.Int:
			parts[i] = val.String()
		default:
			parts[i] = fmt.Sprint(val)
		}
	}
	return strings.Join(parts, ", ")
}
