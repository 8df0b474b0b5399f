package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// sheetKeyPrefix общий префикс ключей разобранных листов
const sheetKeyPrefix = "sheet:"

// SheetPattern паттерн для всех ключей разобранных листов
const SheetPattern = sheetKeyPrefix + "*"

// ContentHash хеш содержимого файла книги
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash короткий хеш (16 символов)
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// BuildSheetKey строит ключ кэша для листа книги.
// Пустое имя листа означает первый лист.
func BuildSheetKey(contentHash, sheet string, skip int) string {
	if sheet == "" {
		sheet = "#first"
	}
	return fmt.Sprintf("%s%s:%s:%d", sheetKeyPrefix, contentHash, sheet, skip)
}
