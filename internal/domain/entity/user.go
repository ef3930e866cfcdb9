package entity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// DefaultAdminUsername - зарезервированное имя администратора.
// Роль определяется только точным совпадением имени, отдельного флага в таблице нет.
const DefaultAdminUsername = "Admin"

// User представляет строку листа Users удаленного сервиса
type User struct {
	Username     string   `json:"username"`
	FullName     string   `json:"fullName"`
	PasswordHash string   `json:"passwordHash"`
	Tests        []string `json:"tests"`
}

// HasPasswordDigest сравнивает сохраненный дайджест с переданным за постоянное время
func (u *User) HasPasswordDigest(digest string) bool {
	stored := strings.ToLower(strings.TrimSpace(u.PasswordHash))
	if stored == "" || len(stored) != len(digest) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(digest)) == 1
}

// HashPassword возвращает hex-кодированный SHA-256 пароля.
// Открытый пароль дальше клиента не уходит, сервис хранит только дайджест.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
