package domain

import "testing"

func TestOwnerVariant(t *testing.T) {
	reg := RegisteredOwner("u-1")
	if !reg.IsRegistered() || reg.IsGuest() {
		t.Fatalf("registered owner misclassified: %+v", reg)
	}

	g := GuestOwner("a@b.c", "A B")
	if g.IsRegistered() || !g.IsGuest() {
		t.Fatalf("guest owner misclassified: %+v", g)
	}
}

func TestPrincipalAnonymous(t *testing.T) {
	if !(Principal{}).Anonymous() {
		t.Fatal("zero principal must be anonymous")
	}
	if (Principal{UserID: "u-1"}).Anonymous() {
		t.Fatal("identified principal must not be anonymous")
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodMomo} {
		if !m.Valid() {
			t.Fatalf("%s must be valid", m)
		}
	}
	if PaymentMethod("paypal").Valid() {
		t.Fatal("unknown method must be invalid")
	}
}
