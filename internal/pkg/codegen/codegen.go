// Package codegen генерирует короткие коды для комнат и участников.
package codegen

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// alphabet не содержит похожих символов (0/O, 1/I/L), чтобы код
// можно было продиктовать и ввести с бумажной карточки без ошибок.
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Code возвращает случайный код длины n из безопасного алфавита.
func Code(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand на поддерживаемых платформах не возвращает ошибок;
			// паника здесь честнее, чем предсказуемый код.
			panic(err)
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String()
}

// CodeWithPrefix возвращает код общей длины total с заданным префиксом.
// Префикс обрезается до 3 символов и приводится к верхнему регистру.
func CodeWithPrefix(prefix string, total int) string {
	prefix = strings.ToUpper(prefix)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	rest := total - len(prefix)
	if rest < 0 {
		rest = 0
	}
	return prefix + Code(rest)
}
