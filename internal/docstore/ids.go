package docstore

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID собирает идентификатор: миллисекунды Unix и случайный хвост из 9 символов.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + randomSuffix()
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}
