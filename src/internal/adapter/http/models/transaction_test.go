package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreateTransactionRequestValidate(t *testing.T) {
	valid := CreateTransactionRequest{
		AccountID:       "acc-1",
		Amount:          decimal.NewFromInt(10),
		TransactionType: "DEPOSIT",
		TransactionDate: "2026-03-01",
		TransactionCode: "TX-1",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	empty := CreateTransactionRequest{}
	err := empty.Validate()
	if err == nil {
		t.Fatal("expected validation error for empty request")
	}
	for _, want := range []string{"accountId", "amount", "transactionType", "transactionCode"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %q", want, err.Error())
		}
	}

	negative := valid
	negative.Amount = decimal.NewFromInt(-10)
	if err := negative.Validate(); err == nil {
		t.Fatal("expected validation error for negative amount")
	}

	badType := valid
	badType.TransactionType = "REFUND"
	if err := badType.Validate(); err == nil {
		t.Fatal("expected validation error for unknown transaction type")
	}
}

func TestUpdateTransactionRequestValidate(t *testing.T) {
	if err := (UpdateTransactionRequest{}).Validate(); err != nil {
		t.Fatalf("empty patch should be valid, got %v", err)
	}

	zero := decimal.Zero
	if err := (UpdateTransactionRequest{Amount: &zero}).Validate(); err == nil {
		t.Fatal("expected validation error for zero amount")
	}

	badDate := "not-a-date"
	if err := (UpdateTransactionRequest{TransactionDate: &badDate}).Validate(); err == nil {
		t.Fatal("expected validation error for unparseable date")
	}
}

func TestParseDateTime(t *testing.T) {
	if _, err := ParseDateTime("2026-03-01"); err != nil {
		t.Fatalf("expected date-only format to parse, got %v", err)
	}
	if _, err := ParseDateTime("2026-03-01T10:30:00Z"); err != nil {
		t.Fatalf("expected RFC3339 to parse, got %v", err)
	}
	if _, err := ParseDateTime("2026/03/01"); err == nil {
		t.Fatal("expected slash-delimited date to fail")
	}
}
