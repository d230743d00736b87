package booking

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"

	"github.com/skip2/go-qrcode"
)

// qrPayload is what a gate scanner reads back from the ticket QR.
type qrPayload struct {
	TenantKey string `json:"tenant_key"`
	PNR       string `json:"pnr"`
	TripID    int64  `json:"trip_id"`
	SeatNo    int    `json:"seat_no"`
}

// QRGenerator encrypts the booking reference into a QR image so the
// printed ticket cannot be forged from visible fields alone.
type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:]}
}

// GenerateTicketQR renders the encrypted payload as a 256px PNG.
func (q *QRGenerator) GenerateTicketQR(tenantKey, pnr string, tripID int64, seatNo int) ([]byte, error) {
	data, err := json.Marshal(qrPayload{
		TenantKey: tenantKey,
		PNR:       pnr,
		TripID:    tripID,
		SeatNo:    seatNo,
	})
	if err != nil {
		return nil, err
	}

	encrypted, err := encryptAES(data, q.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}
