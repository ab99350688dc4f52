// Package subid кодирует и разбирает sub-id партнёрских ссылок.
//
// Sub-id хранятся JSON-объектом с короткими ключами s1..s5:
// Ключи: s1 партнёр, s2 аналитика, s3 категория, s4 код товара, s5 код кампании.
package subid

import (
	"encoding/json"
	"strings"

	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
)

// CategoryPrefix — префикс, с которым витрина записывает категорию в s3.
const CategoryPrefix = "categoria_"

type wire struct {
	S1 string `json:"s1,omitempty"`
	S2 string `json:"s2,omitempty"`
	S3 string `json:"s3,omitempty"`
	S4 string `json:"s4,omitempty"`
	S5 string `json:"s5,omitempty"`
}

// Decode разбирает строку sub-id. Никогда не возвращает ошибку:
// пустой ввод, битый JSON или не-объект дают пустое значение.
func Decode(raw string) domain.DecodedSubIds {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.DecodedSubIds{}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return domain.DecodedSubIds{}
	}

	return domain.DecodedSubIds{
		Affiliate:    stringField(fields, "s1"),
		Analytics:    stringField(fields, "s2"),
		Category:     stringField(fields, "s3"),
		ProductCode:  stringField(fields, "s4"),
		CampaignCode: stringField(fields, "s5"),
	}
}

// Encode упаковывает sub-id в компактный JSON, пропуская пустые ключи.
func Encode(parts domain.DecodedSubIds) string {
	data, err := json.Marshal(wire{
		S1: parts.Affiliate,
		S2: parts.Analytics,
		S3: parts.Category,
		S4: parts.ProductCode,
		S5: parts.CampaignCode,
	})
	if err != nil {
		return "{}"
	}

	return string(data)
}

// CategoryHint возвращает категорию из s3 без префикса кампании.
func CategoryHint(parts domain.DecodedSubIds) (string, bool) {
	hint := strings.TrimSpace(strings.TrimPrefix(parts.Category, CategoryPrefix))
	if hint == "" {
		return "", false
	}

	return hint, true
}

// stringField достаёт строковое значение; значения других типов игнорируются.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	return s
}
