// README: Order reference and delivery token generators.
package orderflow

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"waybill/internal/types"
)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewReference returns a human-readable reference such as WB-20261014-K7Q2MX.
func NewReference(now time.Time) string {
	var b strings.Builder
	b.WriteString("WB-")
	b.WriteString(now.UTC().Format("20060102"))
	b.WriteByte('-')
	for i := 0; i < 6; i++ {
		b.WriteByte(referenceAlphabet[randInt(len(referenceAlphabet))])
	}
	return b.String()
}

// NewDeliveryToken returns the 6-digit code the recipient gives the rider on handover.
func NewDeliveryToken() string {
	return fmt.Sprintf("%06d", randInt(1000000))
}

func newID() types.ID {
	return types.ID(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	return int(v.Int64())
}
