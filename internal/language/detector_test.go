package language

import "testing"

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Language
	}{
		{name: "empty", text: "", want: English},
		{name: "whitespace only", text: " \n\t ", want: English},
		{name: "no signal", text: "1234 5678", want: English},
		{
			name: "english job description",
			text: "We are looking for a backend engineer with experience in Go. The role requires strong skills and the team works remotely.",
			want: English,
		},
		{
			name: "chinese job description",
			text: "我们正在招聘一名高级软件工程师，要求五年以上工作经验，熟悉分布式系统，负责核心业务开发。",
			want: Chinese,
		},
		{
			name: "japanese job description",
			text: "私たちはソフトウェアエンジニアを募集しています。経験が必須です。",
			want: Japanese,
		},
		{
			name: "korean job description",
			text: "소프트웨어 엔지니어를 모집합니다. 경험 필수, 우대 사항 있음.",
			want: Korean,
		},
		{
			name: "german job description",
			text: "Wir suchen einen Entwickler mit Erfahrung und Kenntnisse in Go. Die Aufgaben sind spannend und für das Projekt wichtig.",
			want: German,
		},
		{
			name: "russian job description",
			text: "Требования: опыт работы с Go от трех лет, навыки командной работы, компания растет.",
			want: Russian,
		},
		{
			name: "thai job description",
			text: "เรากำลังมองหาวิศวกรซอฟต์แวร์ที่มีประสบการณ์",
			want: Thai,
		},
		{
			name: "tie resolves to english",
			text: "la",
			want: English,
		},
		{
			name: "few ideographs stay below threshold",
			text: "Senior engineer (高级) for the platform team",
			want: English,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Detect(tt.text); got != tt.want {
				t.Fatalf("expected %s, got %s (scores %v)", tt.want, got, Scores(tt.text))
			}
		})
	}
}

func TestDetectChineseAboveThreshold(t *testing.T) {
	t.Parallel()

	text := "岗位职责负责后端服务设计开发维护优化"
	if got := Detect(text); got != Chinese {
		t.Fatalf("expected Chinese, got %s", got)
	}

	scores := Scores(text)
	if scores[Chinese] <= 2*10 {
		t.Fatalf("expected script weight to apply, got %d", scores[Chinese])
	}
}

func TestInstructionForIsDeterministic(t *testing.T) {
	t.Parallel()

	text := "Nous recherchons un développeur avec une expérience solide pour les missions de la équipe."
	first := InstructionFor(text)
	second := InstructionFor(text)

	if first != second {
		t.Fatalf("expected identical instructions, got %q and %q", first, second)
	}

	if first != "Veuillez répondre en français." {
		t.Fatalf("unexpected instruction: %q", first)
	}
}

func TestInstructionForLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang Language
		want string
	}{
		{lang: Chinese, want: "请使用中文回复。"},
		{lang: English, want: "Please respond in English."},
		{lang: Thai, want: "กรุณาตอบเป็นภาษาไทย"},
		{lang: Language("Klingon"), want: "Please respond in Klingon."},
	}

	for _, tt := range tests {
		if got := InstructionForLanguage(tt.lang); got != tt.want {
			t.Fatalf("%s: expected %q, got %q", tt.lang, tt.want, got)
		}
	}
}

func TestFromLocale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		locale string
		want   Language
		ok     bool
	}{
		{locale: "zh-CN", want: Chinese, ok: true},
		{locale: "zh_TW", want: Chinese, ok: true},
		{locale: "ja", want: Japanese, ok: true},
		{locale: "PT-br", want: Portuguese, ok: true},
		{locale: "en-US", want: English, ok: true},
		{locale: "german", want: German, ok: true},
		{locale: "  ", ok: false},
		{locale: "xx-YY", ok: false},
	}

	for _, tt := range tests {
		got, ok := FromLocale(tt.locale)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("%q: expected (%q, %v), got (%q, %v)", tt.locale, tt.want, tt.ok, got, ok)
		}
	}
}
