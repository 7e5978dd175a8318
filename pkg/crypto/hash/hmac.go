package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
)

// HMACSHA256 computes HMAC-SHA256 of data with the given key.
func HMACSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write(data)
	return mac.Sum(nil)
}

// HMACSHA512 computes HMAC-SHA512 of data with the given key. The result is
// 64 bytes long, BIP-32 splits it into the key and chain code halves.
func HMACSHA512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	_, _ = mac.Write(data)
	return mac.Sum(nil)
}
