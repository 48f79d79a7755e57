package mirror

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// accessCodePattern принимает оба формата кода доступа:
// случайный XXX-XXX-XXX и детерминированный CODE######.
var accessCodePattern = regexp.MustCompile(`^(?:[A-Z0-9]{3}-[A-Z0-9]{3}-[A-Z0-9]{3}|CODE\d{6})$`)

// caseInitialsPattern вырезает из имени инициатора всё, кроме латинских букв.
var caseInitialsPattern = regexp.MustCompile(`[^A-Z]`)

// RandomAccessCode генерирует случайный код доступа XXX-XXX-XXX
// (три группы по три заглавных буквенно-цифровых символа).
func RandomAccessCode() string {
	part := func() string {
		var b strings.Builder
		for i := 0; i < 3; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
			if err != nil {
				// crypto/rand без энтропии — исключительная ситуация
				panic(fmt.Sprintf("генерация кода доступа: %v", err))
			}
			b.WriteByte(codeAlphabet[n.Int64()])
		}
		return b.String()
	}
	return part() + "-" + part() + "-" + part()
}

// FileAccessCode строит детерминированный код CODE###### для файла
// с числовым идентификатором — тот же формат использует backend.
func FileAccessCode(fileID int64) string {
	return fmt.Sprintf("CODE%06d", fileID)
}

// ValidAccessCode проверяет, что код соответствует одному из двух форматов.
func ValidAccessCode(code string) bool {
	return accessCodePattern.MatchString(code)
}

// CaseReference строит референс дела: две буквы инициатора
// (дополняются X) + шесть случайных цифр. Пример: "JD-042137".
func CaseReference(initiator string) string {
	if initiator == "" {
		initiator = "IN"
	}
	prefix := caseInitialsPattern.ReplaceAllString(strings.ToUpper(initiator), "")
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	for len(prefix) < 2 {
		prefix += "X"
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		panic(fmt.Sprintf("генерация референса дела: %v", err))
	}
	return fmt.Sprintf("%s-%06d", prefix, n.Int64())
}
