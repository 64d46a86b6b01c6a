package i18n

import "fmt"

// Language is the closed set of language tags the API accepts. The values are
// the wire format (`lang` query parameter); the names match the upstream
// locale identifiers used in generated filenames.
type Language string

const (
	LanguageCHT Language = "zh-TW"
	LanguageCHS Language = "zh-CN"
	LanguageDE  Language = "de-DE"
	LanguageEN  Language = "en-US"
	LanguageES  Language = "es-ES"
	LanguageFR  Language = "fr-FR"
	LanguageID  Language = "id-ID"
	LanguageJP  Language = "ja-JP"
	LanguageKR  Language = "ko-KR"
	LanguagePT  Language = "pt-PT"
	LanguageRU  Language = "ru-RU"
	LanguageTH  Language = "th-TH"
	LanguageVI  Language = "vi-VN"
)

var languageNames = map[Language]string{
	LanguageCHT: "CHT",
	LanguageCHS: "CHS",
	LanguageDE:  "DE",
	LanguageEN:  "EN",
	LanguageES:  "ES",
	LanguageFR:  "FR",
	LanguageID:  "ID",
	LanguageJP:  "JP",
	LanguageKR:  "KR",
	LanguagePT:  "PT",
	LanguageRU:  "RU",
	LanguageTH:  "TH",
	LanguageVI:  "VI",
}

// Parse validates a raw language tag against the closed enumeration.
func Parse(tag string) (Language, error) {
	lang := Language(tag)
	if _, ok := languageNames[lang]; !ok {
		return "", fmt.Errorf("unknown language tag %q", tag)
	}
	return lang, nil
}

// Name returns the short locale identifier used in card filenames (e.g. "EN").
func (l Language) Name() string { return languageNames[l] }

func (l Language) String() string { return string(l) }

// Hoyolab returns the lowercase tag the HoYoLAB API expects.
func (l Language) Hoyolab() string {
	switch l {
	case LanguageCHT:
		return "zh-tw"
	case LanguageCHS:
		return "zh-cn"
	default:
		// HoYoLAB tags are the lowercase form of ours.
		return lower(string(l))
	}
}

// Mihomo returns the short code the Mihomo API expects.
func (l Language) Mihomo() string {
	switch l {
	case LanguageCHS:
		return "cn"
	case LanguageCHT:
		return "cht"
	default:
		return lower(languageNames[l])
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
