package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hmac256 is a function to generate HMAC256 hash.
func Hmac256(body, key []byte) string {
	hash := hmac.New(sha256.New, key)
	hash.Write(body)
	return hex.EncodeToString(hash.Sum(nil))
}

// VerifySignature validates MercadoPago's x-signature header, which is
// formatted as "ts=<unix>,v1=<hmac>". The signed manifest is
// "id:<data.id>;request-id:<x-request-id>;ts:<ts>;" with a lowercase
// data id, HMAC-SHA256 over the webhook secret.
func VerifySignature(secret, xSignature, xRequestID, dataID string) bool {
	var ts, v1 string
	for _, part := range strings.Split(xSignature, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "ts":
			ts = value
		case "v1":
			v1 = value
		}
	}
	if ts == "" || v1 == "" {
		return false
	}

	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", strings.ToLower(dataID), xRequestID, ts)
	expected := Hmac256([]byte(manifest), []byte(secret))

	return hmac.Equal([]byte(expected), []byte(v1))
}
