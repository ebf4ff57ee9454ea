package fieldparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "обои флизелиновые, 3 рулона", Sanitize("обои   флизелиновые,\n3 рулона", 0))
	assert.Equal(t, "клиент спросил про цену", Sanitize("клиент\tспросил\r\nпро цену", 0))
	assert.Equal(t, "", Sanitize("   \n\t ", 0))
}

func TestSanitizeStripsGarbage(t *testing.T) {
	// Emoji and control characters are outside the permitted range.
	assert.Equal(t, "привет", Sanitize("привет🎉", 0))
}

func TestSanitizeTruncates(t *testing.T) {
	got := Sanitize("очень длинный комментарий", 5)
	assert.Equal(t, "очень", got)
	assert.Len(t, []rune(got), 5)
}

func TestPhoneDigits(t *testing.T) {
	assert.Equal(t, "77771234567", PhoneDigits("+7 (777) 123-45-67"))
	assert.Equal(t, "123", PhoneDigits("доб. 123"))
	assert.Equal(t, "", PhoneDigits("нет"))
	// Long digit runs keep only the trailing 12.
	assert.Equal(t, "771234567999", PhoneDigits("8 777 123 45 67 999"))
}

func TestLastDigits(t *testing.T) {
	assert.Equal(t, "456789", LastDigits("id 123456789", 6))
	assert.Equal(t, "42", LastDigits("клиент 42", 6))
	assert.Equal(t, "", LastDigits("без номера", 6))
}
