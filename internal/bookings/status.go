package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// BookingStatus is the lifecycle state of a ledger row
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

func (s BookingStatus) String() string {
	return string(s)
}

// PaymentStatus tracks the payment attached to a booking
type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "PAID"
	PaymentPending  PaymentStatus = "PENDING"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) String() string {
	return string(s)
}

const referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewReference builds a booking reference: "BK", the current epoch
// milliseconds, and a 4-character random base36 suffix. The unique index on
// the column catches the rare collision; the request fails rather than retry.
func NewReference() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceAlphabet))))
		if err != nil {
			// crypto/rand failing means the system is broken; fall back to a
			// time-derived index rather than panic in the request path.
			suffix[i] = referenceAlphabet[time.Now().UnixNano()%int64(len(referenceAlphabet))]
			continue
		}
		suffix[i] = referenceAlphabet[n.Int64()]
	}
	return fmt.Sprintf("BK%d%s", time.Now().UnixMilli(), suffix)
}
