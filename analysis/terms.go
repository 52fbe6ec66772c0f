package analysis

// legalTerms is the curated gazetteer of Turkish legal vocabulary the
// analyzer matches against. Multi-word entries are matched as substrings
// of the canonical form.
var legalTerms = []string{
	// Core legislative vocabulary
	"kanun", "madde", "fıkra", "bent", "tüzük", "yönetmelik", "genelge",
	"kararname", "cumhurbaşkanlığı", "bakanlar kurulu", "resmi gazete",
	"anayasa", "türk ceza kanunu", "medeni kanun", "borçlar kanunu",
	"iş kanunu", "vergi kanunu", "ticaret kanunu", "sosyal güvenlik",

	// Legal concepts
	"hak", "yükümlülük", "sorumluluk", "ceza", "para cezası", "hapis",
	"tazminat", "faiz", "gecikme faizi", "vade", "süre", "müddet",
	"ihbar", "tebliğ", "duyuru", "ilan", "başvuru", "dilekçe",

	// Institutions
	"maliye bakanlığı", "adalet bakanlığı", "içişleri bakanlığı",
	"milli eğitim bakanlığı", "sağlık bakanlığı", "çevre bakanlığı",
	"gelir idaresi", "vergi dairesi", "mahkeme", "savcılık", "emniyet",

	// Tax vocabulary
	"kdv", "katma değer vergisi", "gelir vergisi", "kurumlar vergisi",
	"damga vergisi", "harç", "resim", "vergi beyannamesi", "matrah",
	"stopaj", "tevkifat", "iade", "mahsup", "tahakkuk", "tahsilat",
}

// stopWords are common Turkish words excluded from keyword extraction.
var stopWords = map[string]bool{
	"ve": true, "veya": true, "ile": true, "için": true, "olan": true,
	"olarak": true, "bu": true, "şu": true, "o": true,
	"bir": true, "iki": true, "üç": true, "dört": true, "beş": true,
	"altı": true, "yedi": true, "sekiz": true, "dokuz": true, "on": true,
	"da": true, "de": true, "ta": true, "te": true, "den": true,
	"dan": true, "ten": true, "tan": true, "la": true, "le": true,
	"ya": true, "ye": true, "na": true, "ne": true, "sa": true,
	"se": true, "ka": true, "ke": true, "ga": true, "ge": true,
	"ın": true, "in": true, "un": true, "ün": true,
	"nın": true, "nin": true, "nun": true, "nün": true,
	"ı": true, "i": true, "u": true, "ü": true,
	"sı": true, "si": true, "su": true, "sü": true,
	"nı": true, "ni": true, "nu": true, "nü": true,
	"dir": true, "dır": true, "dur": true, "dür": true,
	"tir": true, "tır": true, "tur": true, "tür": true,
	"mı": true, "mi": true, "mu": true, "mü": true,
	"mıdır": true, "midir": true, "mudur": true, "müdür": true,
	"her": true, "tüm": true, "bütün": true, "kimi": true, "bazı": true,
	"hangi": true, "nerede": true, "nereye": true, "nereden": true,
	"nasıl": true, "niçin": true, "neden": true, "niye": true, "kim": true,
}

// IsStopWord reports whether the canonical token is a Turkish stop word.
func IsStopWord(token string) bool {
	return stopWords[token]
}
