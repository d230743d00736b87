package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// pnrAlphabet omits easily confused characters (0/O, 1/I).
const pnrAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePNR returns a 6-character booking reference.
func GeneratePNR() string {
	buf := make([]byte, 6)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pnrAlphabet))))
		if err != nil {
			// Fallback keeps bookings flowing if the entropy source fails.
			return fmt.Sprintf("P%05d", time.Now().UnixNano()%100000)
		}
		buf[i] = pnrAlphabet[n.Int64()]
	}
	return string(buf)
}
