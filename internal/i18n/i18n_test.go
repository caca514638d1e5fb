package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "Interview Drill" {
		t.Errorf("T(AppTitle) = %q, want 'Interview Drill'", got)
	}

	got = T(ctx, "TimeUp")
	if got != "Time is up." {
		t.Errorf("T(TimeUp) = %q, want 'Time is up.'", got)
	}
}

func TestTranslateChinese(t *testing.T) {
	ctx := initLang(t, "zh")

	got := T(ctx, "AppTitle")
	if got != "面试刷题" {
		t.Errorf("T(AppTitle) = %q, want '面试刷题'", got)
	}

	got = T(ctx, "TimeUp")
	if got != "时间到" {
		t.Errorf("T(TimeUp) = %q, want '时间到'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "QuestionsAvailable", 1)
	if got1 != "1 question available." {
		t.Errorf("Tp(QuestionsAvailable, 1) = %q, want '1 question available.'", got1)
	}

	got5 := Tp(ctx, "QuestionsAvailable", 5)
	if got5 != "5 questions available." {
		t.Errorf("Tp(QuestionsAvailable, 5) = %q, want '5 questions available.'", got5)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "SessionScore", map[string]any{"Score": 4, "Total": 5})
	if got != "Score 4 / 5" {
		t.Errorf("Td(SessionScore) = %q, want 'Score 4 / 5'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}
