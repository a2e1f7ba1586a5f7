package extract

import "testing"

func TestFieldReturnsTextAfterKeyword(t *testing.T) {
	text := "ACME Industrial\nPO Number: PO-2024-117\nPayment Terms: 30 Days Net\n"

	got := Field(text, []string{"po number", "purchase order"})
	if got == nil || *got != "PO-2024-117" {
		t.Fatalf("Field() = %v, want PO-2024-117", deref(got))
	}
}

func TestFieldKeywordMatchIsCaseInsensitive(t *testing.T) {
	got := Field("pAyMeNt TeRmS - 45 days net", []string{"payment terms"})
	if got == nil || *got != "- 45 days net" {
		t.Fatalf("Field() = %v, want separator-stripped remainder", deref(got))
	}
}

func TestFieldSkipsEmptyRemainderAndKeepsScanning(t *testing.T) {
	text := "Customer:\nBill To: Initech Ltd\n"

	got := Field(text, []string{"customer", "bill to"})
	if got == nil || *got != "Initech Ltd" {
		t.Fatalf("Field() = %v, want Initech Ltd from later line", deref(got))
	}
}

func TestFieldReturnsNilWhenNoKeywordMatches(t *testing.T) {
	if got := Field("nothing relevant here", []string{"warranty"}); got != nil {
		t.Fatalf("Field() = %q, want nil", *got)
	}
}

func TestDateFieldDayFirstNumeric(t *testing.T) {
	got := DateField("PO Date: 24/04/2024")
	if got == nil || *got != "2024-04-24" {
		t.Fatalf("DateField() = %v, want 2024-04-24", deref(got))
	}
}

func TestDateFieldDashSeparatorAndShortYear(t *testing.T) {
	got := DateField("Date: 3-1-24")
	if got == nil || *got != "2024-01-03" {
		t.Fatalf("DateField() = %v, want 2024-01-03", deref(got))
	}
}

func TestDateFieldYearFirstNumeric(t *testing.T) {
	got := DateField("Issued 2024/04/24 by sales desk")
	if got == nil || *got != "2024-04-24" {
		t.Fatalf("DateField() = %v, want 2024-04-24", deref(got))
	}
}

func TestDateFieldTextualMonth(t *testing.T) {
	got := DateField("Quote valid from 2 April 2024")
	if got == nil || *got != "2024-04-02" {
		t.Fatalf("DateField() = %v, want 2024-04-02", deref(got))
	}
}

func TestDateFieldSkipsInvalidCalendarDate(t *testing.T) {
	// 31 February fails validation; the textual pattern later in the text
	// must win instead.
	got := DateField("31/02/2024 was printed in error, see 12 March 2024")
	if got == nil || *got != "2024-03-12" {
		t.Fatalf("DateField() = %v, want fallback to textual date", deref(got))
	}
}

func TestDateFieldReturnsNilWithoutDates(t *testing.T) {
	if got := DateField("no dates in this text"); got != nil {
		t.Fatalf("DateField() = %q, want nil", *got)
	}
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
