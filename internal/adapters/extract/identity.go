package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bnema/loanflow/internal/domain"
)

const maxNameWords = 5

var (
	identityCodePattern    = regexp.MustCompile(`(?i)\b[a-z]{5}[0-9]{4}[a-z]\b`)
	labelledCodePattern    = regexp.MustCompile(`(?i)\b(?:pan|id)\b(?:\s+(?:no|number|card|is)\b)*\s*[:#.-]?\s*([\p{L}\p{N}]+)`)
	mixedCodePattern       = regexp.MustCompile(`(?i)\b(?:[a-z]+[0-9]|[0-9]+[a-z])[a-z0-9]*\b`)
	selfEmployedPattern    = regexp.MustCompile(`(?i)\bself[\s_-]*employed\b`)
	salariedPattern        = regexp.MustCompile(`(?i)\bsalaried\b`)
	otherEmploymentPattern = regexp.MustCompile(`(?i)\b(business(?:man|woman)?|unemployed|employed|freelanc\w*|retired|student)\b`)
	tokenPattern           = regexp.MustCompile(`[\p{L}\p{N}'_.-]+`)
)

var nameStopwords = map[string]struct{}{
	"a": {}, "am": {}, "an": {}, "and": {}, "are": {}, "as": {}, "card": {}, "details": {},
	"dr": {}, "employment": {}, "hello": {}, "hi": {}, "i": {}, "i'm": {}, "id": {},
	"identity": {}, "im": {}, "is": {}, "it's": {}, "job": {}, "me": {}, "mr": {},
	"mrs": {}, "ms": {}, "my": {}, "name": {}, "no": {}, "number": {}, "of": {},
	"pan": {}, "status": {}, "the": {}, "this": {}, "type": {}, "with": {}, "work": {},
}

// Identity pulls a name, an identity code and an employment type out of a
// line such as "Priya Sharma, PAN FGHIJ5678K, SALARIED".
func Identity(text string) (domain.Applicant, error) {
	failure := &Failure{}
	remaining := text

	var identity domain.IdentityNumber
	codes := distinctUpper(identityCodePattern.FindAllString(remaining, -1))
	switch len(codes) {
	case 0:
		attempts := attemptedCodes(remaining)
		switch {
		case len(attempts) > 0:
			failure.malformed(FieldIdentityNumber)
			remaining = blankSpans(remaining, attempts)
		case containsDigit(remaining):
			failure.malformed(FieldIdentityNumber)
		default:
			failure.missing(FieldIdentityNumber)
		}
	case 1:
		identity = domain.IdentityNumber(codes[0])
	default:
		failure.malformed(FieldIdentityNumber)
	}
	remaining = identityCodePattern.ReplaceAllString(remaining, " ")

	var employment domain.EmploymentType
	selfEmployed := selfEmployedPattern.MatchString(remaining)
	remaining = selfEmployedPattern.ReplaceAllString(remaining, " ")
	salaried := salariedPattern.MatchString(remaining)
	remaining = salariedPattern.ReplaceAllString(remaining, " ")
	other := otherEmploymentPattern.MatchString(remaining)
	remaining = otherEmploymentPattern.ReplaceAllString(remaining, " ")
	switch {
	case selfEmployed && !salaried && !other:
		employment = domain.EmploymentSelfEmployed
	case salaried && !selfEmployed && !other:
		employment = domain.EmploymentSalaried
	case selfEmployed || salaried || other:
		failure.malformed(FieldEmploymentType)
	default:
		failure.missing(FieldEmploymentType)
	}

	words := nameWords(remaining)
	switch {
	case len(words) == 0:
		failure.missing(FieldName)
	case len(words) > maxNameWords:
		failure.malformed(FieldName)
	}

	if !failure.empty() {
		return domain.Applicant{}, failure
	}

	return domain.Applicant{
		Name:           strings.Join(words, " "),
		IdentityNumber: identity,
		EmploymentType: employment,
	}, nil
}

// attemptedCodes returns the spans of tokens that were meant as an identity
// code: the word after a "pan" or "id" label, or a token mixing letters and
// digits.
func attemptedCodes(text string) [][2]int {
	var spans [][2]int
	for _, match := range labelledCodePattern.FindAllStringSubmatchIndex(text, -1) {
		token := strings.ToLower(text[match[2]:match[3]])
		if _, stop := nameStopwords[token]; stop || isEmploymentWord(token) {
			continue
		}
		spans = append(spans, [2]int{match[2], match[3]})
	}
	for _, match := range mixedCodePattern.FindAllStringIndex(text, -1) {
		spans = append(spans, [2]int{match[0], match[1]})
	}

	return spans
}

func isEmploymentWord(token string) bool {
	return selfEmployedPattern.MatchString(token) || salariedPattern.MatchString(token) || otherEmploymentPattern.MatchString(token) || token == "self"
}

func blankSpans(text string, spans [][2]int) string {
	out := []byte(text)
	for _, span := range spans {
		for i := span[0]; i < span[1]; i++ {
			out[i] = ' '
		}
	}

	return string(out)
}

func nameWords(text string) []string {
	var words []string
	for _, token := range tokenPattern.FindAllString(text, -1) {
		token = strings.Trim(token, ".-_'")
		if token == "" || !isNameWord(token) {
			continue
		}
		if _, stop := nameStopwords[strings.ToLower(token)]; stop {
			continue
		}
		words = append(words, token)
	}

	return words
}

func isNameWord(token string) bool {
	for i, r := range token {
		if unicode.IsLetter(r) {
			continue
		}
		if i > 0 && (r == '\'' || r == '-' || r == '.') {
			continue
		}
		return false
	}

	return true
}

func containsDigit(text string) bool {
	return strings.ContainsFunc(text, unicode.IsDigit)
}

func distinctUpper(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		upper := strings.ToUpper(value)
		if _, ok := seen[upper]; ok {
			continue
		}
		seen[upper] = struct{}{}
		out = append(out, upper)
	}

	return out
}
