package translate

import "strings"

type phrase struct {
	text     string
	phonetic string
}

// Known phrases per language, checked in order
var phoneticTable = map[string][]phrase{
	"es": {
		{"hola", "OH-lah"},
		{"gracias", "GRAH-syahs"},
		{"buenos días", "BWEH-nohs DEE-ahs"},
		{"por favor", "pohr fah-VOHR"},
		{"cómo estás", "KOH-moh ehs-TAHS"},
	},
	"fr": {
		{"bonjour", "bohn-ZHOOR"},
		{"merci", "mehr-SEE"},
		{"au revoir", "oh ruh-VWAHR"},
		{"s'il vous plaît", "seel voo PLEH"},
	},
	"de": {
		{"hallo", "HAH-loh"},
		{"danke", "DAHN-kuh"},
		{"guten tag", "GOO-ten TAHK"},
		{"bitte", "BIT-tuh"},
	},
	"ja": {
		{"こんにちは", "kon-ni-chi-wa"},
		{"ありがとう", "a-ri-ga-tou"},
		{"さようなら", "sa-yo-u-na-ra"},
	},
	"zh": {
		{"你好", "nǐ hǎo"},
		{"谢谢", "xiè xie"},
		{"再见", "zài jiàn"},
	},
}

// Phonetic returns a rough pronunciation hint for text in lang. Known
// phrases get a hand written spelling; anything else is upper-cased.
func Phonetic(text, lang string) string {
	lower := strings.ToLower(text)
	for _, p := range phoneticTable[lang] {
		if strings.Contains(lower, p.text) {
			return p.phonetic
		}
	}
	return strings.ToUpper(lower)
}
