package i18n

import (
	"context"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("AR-kw") != "ar" {
		t.Fatalf("expected ar for AR-kw")
	}
	if DetectLanguage("ar-EG,ar;q=0.9,en;q=0.5") != "ar" {
		t.Fatalf("expected ar")
	}
	if DetectLanguage("") != "en" {
		t.Fatalf("expected default en")
	}
	if DetectLanguage("not a header;;;") != "en" {
		t.Fatalf("expected default en for garbage")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("ar", "required") != "مطلوب" {
		t.Fatalf("expected Arabic required")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to en translation
	if T("es", "required") != "Required" {
		t.Fatalf("expected en fallback for es lang")
	}
}

func TestCatalogParity(t *testing.T) {
	for code := range catalog[LangEN] {
		if _, ok := catalog[LangAR][code]; !ok {
			t.Errorf("missing ar translation for %q", code)
		}
	}
}

func TestLangContext(t *testing.T) {
	ctx := WithLang(context.Background(), "AR")
	if LangFromContext(ctx) != "ar" {
		t.Fatalf("expected ar from context")
	}
	if LangFromContext(context.Background()) != DefaultLang {
		t.Fatalf("expected default lang")
	}
	if Dir("ar") != "rtl" || Dir("en") != "ltr" {
		t.Fatalf("unexpected direction")
	}
}

func TestTf(t *testing.T) {
	if got := Tf("en", "batch_report", 2, 3); got != "2 of 3 items added" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestFlashAndColumnCodesDiffer(t *testing.T) {
	if T("ar", "created_ok") == T("ar", "created_at") {
		t.Fatalf("the created notice must not read as the date column")
	}
	if T("en", "created_ok") != "Created successfully" {
		t.Fatalf("unexpected created notice %q", T("en", "created_ok"))
	}
}
