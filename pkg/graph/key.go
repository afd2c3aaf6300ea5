package graph

import (
	"encoding/binary"

	"github.com/airscript-lang/airscript/pkg/util/collection/hash"
)

// nodeKey is the structural key used to hash-cons nodes: two nodes with
// equal kind and equal operand identities must produce equal keys.  It is
// built by serialising a node's fields into bytes, deterministically, and
// reusing hash.BytesKey for equality and hashing.
type nodeKey = hash.BytesKey

func keyOf(n Node) nodeKey {
	buf := make([]byte, 0, 32)
	buf = append(buf, byte(n.Kind))

	switch n.Kind {
	case Const:
		sign := byte(0)
		if n.Literal.Sign() < 0 {
			sign = 1
		}

		buf = append(buf, sign)
		buf = appendUint(buf, uint64(len(n.Literal.Bytes())))
		buf = append(buf, n.Literal.Bytes()...)
	case TraceAccess:
		buf = append(buf, byte(n.Seg), n.Row)
		buf = appendUint(buf, uint64(n.Column))
	case PeriodicRef, RandomRef:
		buf = appendUint(buf, uint64(n.Ordinal))
	case PublicRef:
		buf = appendUint(buf, uint64(n.Ordinal))
		buf = appendUint(buf, uint64(n.Element))
	case Exp:
		buf = appendUint(buf, uint64(n.Left))
		buf = appendUint(buf, n.Exponent)
	default: // Add, Sub, Mul
		buf = appendUint(buf, uint64(n.Left))
		buf = appendUint(buf, uint64(n.Right))
	}

	return hash.NewBytesKey(buf)
}

func appendUint(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)

	return append(buf, tmp[:]...)
}
