package blockchain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

const (
	bytecodeHashVersion = 1
	maxBytecodeWords    = 1 << 16
)

// HashBytecode computes the versioned hash the zkSync ContractDeployer uses
// to identify a contract's code. Bytecode must be a whole, odd number of
// 32-byte words and shorter than 2^16 words.
func HashBytecode(bytecode []byte) ([32]byte, error) {
	var out [32]byte
	if len(bytecode) == 0 {
		return out, fmt.Errorf("bytecode is empty")
	}
	if len(bytecode)%32 != 0 {
		return out, fmt.Errorf("bytecode length %d is not divisible by 32", len(bytecode))
	}
	words := len(bytecode) / 32
	if words >= maxBytecodeWords {
		return out, fmt.Errorf("bytecode has %d words, limit is %d", words, maxBytecodeWords-1)
	}
	if words%2 == 0 {
		return out, fmt.Errorf("bytecode word count %d must be odd", words)
	}

	sum := sha256.Sum256(bytecode)
	out[0] = bytecodeHashVersion
	out[1] = 0
	binary.BigEndian.PutUint16(out[2:4], uint16(words))
	copy(out[4:], sum[4:])
	return out, nil
}
