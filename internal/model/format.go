package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatPrice renders a stored price as Indonesian Rupiah, e.g. "25000" ->
// "Rp 25.000". Every non-digit character is ignored.
func FormatPrice(price string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, price)
	if digits == "" {
		return "Rp 0"
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "Rp 0"
	}
	return "Rp " + rupiahPrinter.Sprintf("%d", n)
}

// NewMenuItemID returns "menu_<base36 unix ms>_<8 random chars>".
func NewMenuItemID(now time.Time) string {
	return "menu_" + strconv.FormatInt(now.UnixMilli(), 36) + "_" + randomSuffix(8)
}

// NewPhotoID returns "photo_<unix ms>". Two photos created within the same
// millisecond collide.
func NewPhotoID(now time.Time) string {
	return "photo_" + strconv.FormatInt(now.UnixMilli(), 10)
}

// NewUserID returns "user_<unix ms>_<6 random chars>".
func NewUserID(now time.Time) string {
	return "user_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + randomSuffix(6)
}

func randomSuffix(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
