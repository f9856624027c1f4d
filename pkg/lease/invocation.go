package lease

import (
	"github.com/rentflow/rentflow/pkg/crypto"
)

type invocation struct {
	signer crypto.PublicKey
	now    int64
}

// NewInvocation fixes the caller and the trusted unix time of one operation.
func NewInvocation(signer crypto.PublicKey, now int64) Invocation {
	return invocation{signer: signer, now: now}
}

func (i invocation) Signer() crypto.PublicKey {
	return i.signer
}

func (i invocation) Now() int64 {
	return i.now
}
