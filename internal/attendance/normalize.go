// Package attendance imports external headcount records and reconciles them
// against the per-day labor roster of a report.
package attendance

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxNormalizePasses bounds the fixed-point iteration of Normalize
const maxNormalizePasses = 8

type phrase struct {
	pattern     *regexp.Regexp
	replacement string
}

func newPhrase(expr, replacement string) phrase {
	return phrase{pattern: regexp.MustCompile(expr), replacement: replacement}
}

// phrases are applied in order; a longer phrase always precedes any phrase it contains
var phrases = []phrase{
	newPhrase(`\bmec\s*\x{FFFD}\s*nico\b`, "mecanico"),
	newPhrase(`\bop\s+retro\s+escav\b`, "operador retroescavadeira"),
	newPhrase(`\bretro\s+escav\b`, "retroescavadeira"),
	newPhrase(`\baux\s+serv\s+gerais\b`, "auxiliar servico geral"),
	newPhrase(`\bserv\s+gerais\b`, "servico geral"),
	newPhrase(`\btec\s+seg\s+trab\b`, "tecnico seguranca trabalho"),
	newPhrase(`\bseg\s+trab\b`, "seguranca trabalho"),
	newPhrase(`\bassist\s+adm\b`, "assistente administrativo"),
	newPhrase(`\bauxiliar\s+tec\s+eng\b`, "auxiliar engenharia"),
	newPhrase(`\bengenheiro\s+civil\b`, "engenheiro planejamento"),
	newPhrase(`\bengenheiro\s+qualidade\b`, "engenheiro producao qualidade"),
	newPhrase(`\baux\s+tec\s+eng\b`, "auxiliar tecnico engenharia"),
	newPhrase(`\btec\s+eng\b`, "tecnico engenharia"),
	newPhrase(`\bop\s+trat\s+esgoto\b`, "operador tratamento esgoto"),
	newPhrase(`\btrat\s+esgoto\b`, "tratamento esgoto"),
	newPhrase(`\baux\s+de\s+eng\b`, "auxiliar engenharia"),
	newPhrase(`\baux\s+de\s+engenharia\b`, "auxiliar engenharia"),
}

var (
	punctuation = regexp.MustCompile(`[.,/()"'\-\x{FFFD}]`)
	nonAlnum    = regexp.MustCompile(`[^a-z0-9\s]`)
	spaces      = regexp.MustCompile(`\s+`)
)

var synonyms = map[string]string{
	"enc": "encarregado", "encarr": "encarregado",
	"obras": "obra",
	"aux": "auxiliar", "auxil": "auxiliar",
	"serv": "servico", "servs": "servico", "servicos": "servico",
	"op": "operador", "operad": "operador",
	"eng": "engenheiro", "engenh": "engenheiro",
	"elet": "eletrico", "eletric": "eletrico",
	"mec": "mecanico", "mecanic": "mecanico", "mecanica": "mecanico",
	"tec": "tecnico", "tecn": "tecnico",
	"seg": "seguranca",
	"trab": "trabalho", "trabs": "trabalho",
	"adm": "administrativo", "admin": "administrativo",
	"prod": "producao", "produc": "producao",
	"plan": "planejamento",
	"qual": "qualidade",
	"mont": "montador", "montad": "montador",
	"est": "estrutura", "estrut": "estrutura",
	"maq": "maquina", "maqs": "maquina", "maquinas": "maquina",
	"retroescavadeira": "maquina",
	"topog": "topografia", "topogr": "topografo",
	"cad": "cadista",
	"des": "desenhista",
	"coord": "coordenador",
	"contratos": "contrato",
	"contab": "contabilidade",
	"lab": "laboratorio", "laborat": "laboratorista",
	"sup": "supervisor", "superv": "supervisor",
	"aj": "ajudante", "ajud": "ajudante",
	"gerais": "geral",
	"asg": "auxiliar servico geral",
	"gte": "gerente",
	"assist": "assistente",
}

var stopWords = map[string]bool{
	"de": true, "do": true, "da": true, "a": true, "o": true, "e": true,
	"para": true, "c": true, "s": true, "geral": true, "civil": true,
}

// Normalize canonicalizes a free-text job title into a matching key. It is total
// and idempotent: Normalize(Normalize(s)) == Normalize(s) for every s. Labels made
// only of stop words normalize to "" and are unmatchable.
func Normalize(raw string) string {
	s := normalizeOnce(raw)
	for i := 1; i < maxNormalizePasses; i++ {
		next := normalizeOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func normalizeOnce(raw string) string {
	if raw == "" {
		return ""
	}

	s := foldDiacritics(strings.ToLower(raw))

	for _, p := range phrases {
		s = p.pattern.ReplaceAllString(s, p.replacement)
	}

	s = punctuation.ReplaceAllString(s, " ")

	words := make([]string, 0, 8)
	for _, w := range strings.Fields(s) {
		if mapped, ok := synonyms[w]; ok {
			w = mapped
		}
		for _, part := range strings.Fields(w) {
			if !stopWords[part] {
				words = append(words, part)
			}
		}
	}

	s = strings.Join(words, " ")
	s = nonAlnum.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// foldDiacritics decomposes s and drops combining marks, so "função" becomes "funcao".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SignificantWords splits a normalized label into the words used by the fallback
// match: longer than one character and not a stop word.
func SignificantWords(normalized string) []string {
	var words []string
	for _, w := range strings.Fields(normalized) {
		if len(w) > 1 && !stopWords[w] {
			words = append(words, w)
		}
	}
	return words
}
