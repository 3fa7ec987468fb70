package security

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"

	"identity-web-server/internal/util"
)

// prehash сводит токен произвольной длины к 44 байтам.
// bcrypt в Go отклоняет вход длиннее 72 байт, а подписанный refresh-токен заметно длиннее
func prehash(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// HashRefreshToken возвращает bcrypt-digest refresh-токена для хранения в БД
func HashRefreshToken(token string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(prehash(token), bcrypt.DefaultCost)
	if err != nil {
		return "", util.LogError("ошибка хэширования refresh-токена", err)
	}
	return string(digest), nil
}

// CompareRefreshToken сравнивает предъявленный токен с хранимым digest
func CompareRefreshToken(token, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(token)) == nil
}
