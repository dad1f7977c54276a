// Package language guesses the natural language of free text and turns the
// guess into a short directive that steers the reply locale of a model.
package language

import (
	"fmt"
	"regexp"
	"strings"
)

// Language is a human readable language label.
type Language string

const (
	English    Language = "English"
	Chinese    Language = "Chinese"
	Japanese   Language = "Japanese"
	Korean     Language = "Korean"
	German     Language = "German"
	French     Language = "French"
	Spanish    Language = "Spanish"
	Portuguese Language = "Portuguese"
	Russian    Language = "Russian"
	Arabic     Language = "Arabic"
	Thai       Language = "Thai"
)

// Default is returned when no signal is strong enough.
const Default = English

// scriptWeight multiplies the number of characters of a distinctive script.
const scriptWeight = 2

type scriptRule struct {
	lang      Language
	chars     *regexp.Regexp
	threshold int
}

// Script counts only contribute once they exceed the threshold, so a single
// foreign name in an English resume does not flip the result.
var scriptRules = []scriptRule{
	{lang: Chinese, chars: regexp.MustCompile(`[\x{4e00}-\x{9fff}]`), threshold: 10},
	{lang: Japanese, chars: regexp.MustCompile(`[\x{3040}-\x{309f}\x{30a0}-\x{30ff}]`), threshold: 5},
	{lang: Korean, chars: regexp.MustCompile(`[\x{ac00}-\x{d7af}\x{1100}-\x{11ff}]`), threshold: 5},
	{lang: Russian, chars: regexp.MustCompile(`[\x{0400}-\x{04ff}]`), threshold: 10},
	{lang: Arabic, chars: regexp.MustCompile(`[\x{0600}-\x{06ff}]`), threshold: 10},
	{lang: Thai, chars: regexp.MustCompile(`[\x{0e00}-\x{0e7f}]`), threshold: 10},
}

type keywordRule struct {
	lang     Language
	patterns []*regexp.Regexp
}

// Word boundaries are ASCII-only, which means accented keywords only match
// when they start and end with an ASCII letter.
var keywordRules = []keywordRule{
	{lang: English, patterns: compile(
		`(?i)\b(the|and|is|are|for|with|this|that|have|will|from|they|been|would|could|should|about|which|their|there|other|after|first|also|into|only|over|such|make|like|just|than|some|very|when|come|made|find|here|many|where|those|being|between|must|through|while|before|since|each|both|during|under)\b`,
		`(?i)\b(requirements?|responsibilities?|qualifications?|experience|skills?|team|company|work|position|role)\b`,
	)},
	{lang: Chinese, patterns: compile(
		`[\x{4e00}-\x{9fff}]{2,}`,
		`(要求|职责|任职|工作|岗位|负责|公司|团队|经验|技能|能力|熟悉|了解|精通|优先)`,
	)},
	{lang: Japanese, patterns: compile(
		`[\x{3040}-\x{309f}\x{30a0}-\x{30ff}]+`,
		`(仕事|経験|スキル|必須|歓迎|業務|会社)`,
	)},
	{lang: Korean, patterns: compile(
		`[\x{ac00}-\x{d7af}]+`,
		`(경험|업무|회사|자격|우대|필수)`,
	)},
	{lang: German, patterns: compile(
		`(?i)\b(und|der|die|das|ist|sind|für|mit|sie|werden|haben|oder|bei|als|auch|nach|noch|nur|durch|über|vor|diese|einer|kann|muss|Jahr|Jahren)\b`,
		`(?i)\b(Anforderungen|Aufgaben|Qualifikationen|Erfahrung|Kenntnisse)\b`,
	)},
	{lang: French, patterns: compile(
		`(?i)\b(le|la|les|de|du|des|et|est|sont|pour|avec|vous|nous|dans|sur|par|une|qui|que|aux|cette|son|ses|mais|plus|tout|sans|entre)\b`,
		`(?i)\b(expérience|compétences|requis|missions|profil|entreprise)\b`,
	)},
	{lang: Spanish, patterns: compile(
		`(?i)\b(el|la|los|las|de|del|en|que|es|son|para|con|por|una|como|más|pero|sus|este|está|han|sin|sobre|todo|entre|desde|hasta)\b`,
		`(?i)\b(experiencia|requisitos|responsabilidades|habilidades|empresa)\b`,
	)},
	{lang: Portuguese, patterns: compile(
		`(?i)\b(de|que|é|são|para|com|em|uma|os|das|dos|por|mais|como|seu|sua|está|tem|mas|aos|nas|nos|essa|esse|isso)\b`,
		`(?i)\b(experiência|requisitos|responsabilidades|habilidades|empresa)\b`,
	)},
	{lang: Russian, patterns: compile(
		`[\x{0400}-\x{04ff}]+`,
		`(?i)(опыт|требования|обязанности|навыки|компания)`,
	)},
	{lang: Arabic, patterns: compile(
		`[\x{0600}-\x{06ff}]+`,
	)},
}

var instructions = map[Language]string{
	Chinese:    "请使用中文回复。",
	Japanese:   "日本語で回答してください。",
	Korean:     "한국어로 답변해 주세요.",
	German:     "Bitte antworten Sie auf Deutsch.",
	French:     "Veuillez répondre en français.",
	Spanish:    "Por favor responda en español.",
	Portuguese: "Por favor, responda em português.",
	Russian:    "Пожалуйста, отвечайте на русском языке.",
	Arabic:     "الرجاء الرد باللغة العربية.",
	Thai:       "กรุณาตอบเป็นภาษาไทย",
	English:    "Please respond in English.",
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(expr))
	}
	return out
}

// Detect returns the language with the strictly highest score. Empty input,
// all-zero scores and ties resolve to English.
func Detect(text string) Language {
	if strings.TrimSpace(text) == "" {
		return Default
	}

	scores := Scores(text)

	best, bestScore, tied := Default, 0, false
	for _, lang := range Supported() {
		score := scores[lang]
		switch {
		case score > bestScore:
			best, bestScore, tied = lang, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}

	if bestScore == 0 || tied {
		return Default
	}

	return best
}

// Scores returns the aggregate score per language. Languages without any
// signal are absent from the map.
func Scores(text string) map[Language]int {
	scores := make(map[Language]int)

	for _, rule := range scriptRules {
		count := len(rule.chars.FindAllStringIndex(text, -1))
		if count > rule.threshold {
			scores[rule.lang] += count * scriptWeight
		}
	}

	for _, rule := range keywordRules {
		for _, pattern := range rule.patterns {
			if matches := len(pattern.FindAllStringIndex(text, -1)); matches > 0 {
				scores[rule.lang] += matches
			}
		}
	}

	return scores
}

// InstructionFor detects the language of text and returns the matching directive.
func InstructionFor(text string) string {
	return InstructionForLanguage(Detect(text))
}

// InstructionForLanguage returns the fixed directive for lang.
func InstructionForLanguage(lang Language) string {
	if instruction, ok := instructions[lang]; ok {
		return instruction
	}

	return fmt.Sprintf("Please respond in %s.", lang)
}

// Supported lists the languages in a stable order.
func Supported() []Language {
	return []Language{English, Chinese, Japanese, Korean, German, French, Spanish, Portuguese, Russian, Arabic, Thai}
}
