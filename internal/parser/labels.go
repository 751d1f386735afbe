package parser

import (
	"strconv"
	"strings"

	"github.com/pders01/catalog-delta/internal/models"
)

// noLimit is the age sentinel meaning "no restriction"
const noLimit = "9999"

// undefined marks an empty list slot in the source files
const undefined = "UNDEF"

var usageLabels = map[string]string{
	"P": "Primärschlüssel",
	"O": "nur Sternschlüssel",
	"Z": "nur Ausrufezeichenschlüssel",
	"V": "nicht zur Verschlüsselung zugelassen",
}

var sexLabels = map[string]string{
	"M": "männlich",
	"W": "weiblich",
	"9": "kein Bezug",
}

var errorKindLabels = map[string]string{
	"M": "Muss-Fehler",
	"K": "Kann-Fehler",
	"9": "irrelevant",
}

var yesNoLabels = map[string]string{
	"J": "ja",
	"N": "nein",
}

var icdKindLabels = map[string]string{
	"X": "explizit aufgeführt",
	"S": "Subklassifikation",
}

var opsKindLabels = map[string]string{
	"N": "Normalkode",
	"Z": "Zusatzkode",
}

// label maps an enumerated flag through table. Unknown values pass through
// raw so unseen codes stay visible.
func label(table map[string]string, raw string) models.Attr {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if l, ok := table[strings.ToUpper(raw)]; ok {
		return models.Attr(l)
	}
	return models.Attr(raw)
}

// optional drops empty and UNDEF values
func optional(raw string) models.Attr {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, undefined) {
		return ""
	}
	return models.Attr(raw)
}

// decodeAge turns the t<N>/j<N> micro-format into a readable string.
// The 9999 sentinel decodes to absent.
func decodeAge(raw string) models.Attr {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == noLimit {
		return ""
	}

	unit := strings.ToLower(raw[:1])
	n, err := strconv.Atoi(raw[1:])
	if err != nil {
		return models.Attr(raw)
	}

	switch unit {
	case "t":
		if n == 1 {
			return "1 Tag"
		}
		return models.Attr(strconv.Itoa(n) + " Tage")
	case "j":
		if n == 1 {
			return "1 Jahr"
		}
		return models.Attr(strconv.Itoa(n) + " Jahre")
	default:
		return models.Attr(raw)
	}
}
