package utils

import (
	crand "crypto/rand"
	"encoding/hex"
	"math/rand"
	"time"
)

// GenerateID создает простой уникальный ID (замена UUID для снижения зависимостей)
func GenerateID() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := crand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// NewRandom - детерминированный генератор для симуляции.
// Не потокобезопасен: им владеет цикл сервиса.
func NewRandom(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// SystemClock - реальное время
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
