// Package translit provides character-level transliteration of Tajik-Cyrillic
// and Persian/Arabic script into Latin approximants. It exists so that slugs
// derived from poet names and poem titles come out as plain ASCII.
package translit

import "strings"

// latinTable maps source-script runes to their Latin approximants.
// Runes absent from the table pass through Transliterate unchanged.
//
//nolint:gochecknoglobals // Static lookup table, loaded once and never mutated
var latinTable = map[rune]string{
	// Cyrillic (Tajik alphabet uses the Russian base set).
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ь': "", 'э': "e",
	'ю': "yu", 'я': "ya",

	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D",
	'Е': "E", 'Ё': "Yo", 'Ж': "Zh", 'З': "Z", 'И': "I",
	'Й': "Y", 'К': "K", 'Л': "L", 'М': "M", 'Н': "N",
	'О': "O", 'П': "P", 'Р': "R", 'С': "S", 'Т': "T",
	'У': "U", 'Ф': "F", 'Х': "Kh", 'Ц': "Ts", 'Ч': "Ch",
	'Ш': "Sh", 'Щ': "Shch", 'Ъ': "", 'Ь': "", 'Э': "E",
	'Ю': "Yu", 'Я': "Ya",

	// Tajik-specific Cyrillic letters.
	'ғ': "gh", 'ӣ': "i", 'қ': "q", 'ӯ': "u", 'ҳ': "h", 'ҷ': "j",
	'Ғ': "Gh", 'Ӣ': "I", 'Қ': "Q", 'Ӯ': "U", 'Ҳ': "H", 'Ҷ': "J",

	// Historic orthography sometimes uses ў for ӯ.
	'ў': "u", 'Ў': "U",

	// Persian/Arabic script.
	'ا': "a", 'ب': "b", 'پ': "p", 'ت': "t", 'ث': "s",
	'ج': "j", 'چ': "ch", 'ح': "h", 'خ': "kh", 'د': "d",
	'ذ': "z", 'ر': "r", 'ز': "z", 'ژ': "zh", 'س': "s",
	'ش': "sh", 'ص': "s", 'ض': "d", 'ط': "t", 'ظ': "z",
	'ع': "a", 'غ': "gh", 'ف': "f", 'ق': "q", 'ک': "k",
	'گ': "g", 'ل': "l", 'م': "m", 'ن': "n", 'و': "v",
	'ه': "h", 'ی': "y", 'ء': "", 'آ': "a", 'أ': "a",
	'إ': "e", 'ة': "h", 'ى': "a", 'ئ': "y", 'ؤ': "v",
	'ي': "y", 'ك': "k",

	// Persian (Extended Arabic-Indic) digits.
	'۰': "0", '۱': "1", '۲': "2", '۳': "3", '۴': "4",
	'۵': "5", '۶': "6", '۷': "7", '۸': "8", '۹': "9",

	// Arabic-Indic digits.
	'٠': "0", '١': "1", '٢': "2", '٣': "3", '٤': "4",
	'٥': "5", '٦': "6", '٧': "7", '٨': "8", '٩': "9",
}

// Transliterate replaces every rune found in the mapping table with its Latin
// approximant. Unknown runes pass through unchanged, so the result may still
// contain non-Latin characters for scripts the table does not cover.
func Transliterate(text string) string {
	if text == "" {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if latin, ok := latinTable[r]; ok {
			b.WriteString(latin)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
